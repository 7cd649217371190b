package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/google/uuid"
)

const templateSelect = `SELECT id, name, subject, body, created_at, updated_at FROM templates`

// TemplateFields holds the user-editable fields of a template
type TemplateFields struct {
	Name    string
	Subject string
	Body    string
}

// ListTemplates returns every template, oldest first
func (s *Storage) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	templates := []domain.Template{}
	if err := s.db.SelectContext(ctx, &templates, templateSelect+` ORDER BY created_at ASC`); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// FindTemplate returns one template
func (s *Storage) FindTemplate(ctx context.Context, id string) (*domain.Template, error) {
	var tpl domain.Template
	err := s.db.GetContext(ctx, &tpl, templateSelect+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}

// CreateTemplate inserts a template
func (s *Storage) CreateTemplate(ctx context.Context, fields TemplateFields) (*domain.Template, error) {
	query := `
		INSERT INTO templates (id, name, subject, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, name, subject, body, created_at, updated_at
	`

	var tpl domain.Template
	err := s.db.GetContext(ctx, &tpl, query, uuid.NewString(), fields.Name, fields.Subject, fields.Body, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("Template created",
		slog.String("template_id", tpl.ID),
		slog.String("name", tpl.Name),
	)

	return &tpl, nil
}

// UpdateTemplate replaces name, subject and body of a template
func (s *Storage) UpdateTemplate(ctx context.Context, id string, fields TemplateFields) (*domain.Template, error) {
	query := `
		UPDATE templates
		SET name = $1, subject = $2, body = $3, updated_at = $4
		WHERE id = $5
		RETURNING id, name, subject, body, created_at, updated_at
	`

	var tpl domain.Template
	err := s.db.GetContext(ctx, &tpl, query, fields.Name, fields.Subject, fields.Body, s.now().UTC(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return &tpl, nil
}

// DeleteTemplate removes a template that no job references. A referenced
// template yields a *domain.TemplateInUseError.
func (s *Storage) DeleteTemplate(ctx context.Context, id string) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs WHERE template_id = $1`, id); err != nil {
		return fmt.Errorf("failed to count template usage: %w", err)
	}

	if count > 0 {
		return &domain.TemplateInUseError{TemplateID: id, JobCount: count}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return expectRow(res, domain.ErrTemplateNotFound)
}

// SeedTemplates inserts each template whose name does not exist yet and
// returns how many were inserted
func (s *Storage) SeedTemplates(ctx context.Context, templates []TemplateFields) (int, error) {
	query := `
		INSERT INTO templates (id, name, subject, body, created_at, updated_at)
		SELECT $1::uuid, $2::text, $3::text, $4::text, $5::timestamptz, $5::timestamptz
		WHERE NOT EXISTS (SELECT 1 FROM templates WHERE name = $2::text)
	`

	inserted := 0
	for _, tpl := range templates {
		res, err := s.db.ExecContext(ctx, query, uuid.NewString(), tpl.Name, tpl.Subject, tpl.Body, s.now().UTC())
		if err != nil {
			return inserted, fmt.Errorf("failed to seed template %q: %w", tpl.Name, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n > 0 {
			inserted++
			s.logger.Info("Seeded template", slog.String("name", tpl.Name))
		}
	}

	return inserted, nil
}
