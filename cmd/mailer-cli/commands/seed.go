package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cuongbtq/job-mailer/internal/api/storage"
	"github.com/cuongbtq/job-mailer/internal/config"
	"github.com/cuongbtq/job-mailer/shared/logger"
	"github.com/cuongbtq/job-mailer/shared/postgresql"
)

// TemplateSeeder inserts templates that do not exist yet
type TemplateSeeder interface {
	SeedTemplates(ctx context.Context, templates []storage.TemplateFields) (int, error)
}

// openSeeder connects to the database named in the API service config. The
// returned func releases the connection.
var openSeeder = func(ctx context.Context, path string, migrate bool) (TemplateSeeder, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&logger.Config{Level: "warn", Format: "text", Output: "stderr"})
	if err != nil {
		return nil, nil, err
	}

	db, err := postgresql.NewClient(&postgresql.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}, log.Logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", slog.String("error", err.Error()))
		}
	}

	if migrate {
		if err := db.Migrate(ctx, storage.Migrations, storage.MigrationsDir); err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	return storage.NewStorage(db.GetDB(), log.Logger), closeFn, nil
}

func init() {
	seedCmd.AddCommand(seedTemplatesCmd)

	seedTemplatesCmd.Flags().Bool("migrate", false, "Apply pending migrations first")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert default data",
}

var seedTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Insert the default email templates that are missing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		ctx := context.Background()

		seeder, closeFn, err := openSeeder(ctx, configPath, migrate)
		if err != nil {
			return fmt.Errorf("error opening database: %w", err)
		}
		defer closeFn()

		inserted, err := seeder.SeedTemplates(ctx, storage.DefaultTemplates)
		if err != nil {
			return fmt.Errorf("error seeding templates: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d of %d default templates\n", inserted, len(storage.DefaultTemplates))
		return nil
	},
}

// GetSeedCmd returns the seed command
func GetSeedCmd() *cobra.Command {
	return seedCmd
}
