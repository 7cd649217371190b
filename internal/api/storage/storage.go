package storage

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/jmoiron/sqlx"
)

// Storage is the sqlx-backed record store for jobs, templates, role configs
// and send events
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// templateColumns selects a joined template under tpl_ aliases
const templateColumns = `
	t.id AS tpl_id, t.name AS tpl_name, t.subject AS tpl_subject, t.body AS tpl_body,
	t.created_at AS tpl_created_at, t.updated_at AS tpl_updated_at`

// joinedTemplate scans the tpl_ columns of a LEFT JOIN
type joinedTemplate struct {
	TplID        sql.NullString `db:"tpl_id"`
	TplName      sql.NullString `db:"tpl_name"`
	TplSubject   sql.NullString `db:"tpl_subject"`
	TplBody      sql.NullString `db:"tpl_body"`
	TplCreatedAt sql.NullTime   `db:"tpl_created_at"`
	TplUpdatedAt sql.NullTime   `db:"tpl_updated_at"`
}

func (t joinedTemplate) template() *domain.Template {
	if !t.TplID.Valid {
		return nil
	}
	return &domain.Template{
		ID:        t.TplID.String,
		Name:      t.TplName.String,
		Subject:   t.TplSubject.String,
		Body:      t.TplBody.String,
		CreatedAt: t.TplCreatedAt.Time,
		UpdatedAt: t.TplUpdatedAt.Time,
	}
}
