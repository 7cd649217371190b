package storage

import "embed"

// MigrationsDir is the directory inside Migrations holding the goose files
const MigrationsDir = "migrations"

// Migrations holds the SQL schema applied at startup
//
//go:embed migrations/*.sql
var Migrations embed.FS
