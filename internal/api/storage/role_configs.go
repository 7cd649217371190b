package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/google/uuid"
)

const selectRoleConfigs = `SELECT
	r.id, r.role, r.template_id, r.resume_name, r.created_at, r.updated_at,` + templateColumns + `
	FROM role_configs r
	LEFT JOIN templates t ON t.id = r.template_id`

type roleConfigRow struct {
	domain.RoleConfig
	joinedTemplate
}

// RoleConfigFields holds the user-editable fields of a role config
type RoleConfigFields struct {
	Role       string
	TemplateID string
	ResumeName string
}

// ListRoleConfigs returns every role config with its template
func (s *Storage) ListRoleConfigs(ctx context.Context) ([]domain.RoleConfig, error) {
	var rows []roleConfigRow
	if err := s.db.SelectContext(ctx, &rows, selectRoleConfigs+` ORDER BY r.role ASC`); err != nil {
		return nil, fmt.Errorf("failed to list role configs: %w", err)
	}

	configs := make([]domain.RoleConfig, 0, len(rows))
	for _, r := range rows {
		rc := r.RoleConfig
		rc.Template = r.template()
		configs = append(configs, rc)
	}
	return configs, nil
}

// FindRoleConfig returns one role config with its template
func (s *Storage) FindRoleConfig(ctx context.Context, id string) (*domain.RoleConfig, error) {
	var row roleConfigRow
	err := s.db.GetContext(ctx, &row, selectRoleConfigs+` WHERE r.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleConfigNotFound
		}
		return nil, fmt.Errorf("failed to get role config: %w", err)
	}

	rc := row.RoleConfig
	rc.Template = row.template()
	return &rc, nil
}

// CreateRoleConfig inserts a role config
func (s *Storage) CreateRoleConfig(ctx context.Context, fields RoleConfigFields) (*domain.RoleConfig, error) {
	query := `
		INSERT INTO role_configs (id, role, template_id, resume_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, query, id, fields.Role, fields.TemplateID, fields.ResumeName, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to create role config: %w", err)
	}

	return s.FindRoleConfig(ctx, id)
}

// UpdateRoleConfig replaces the fields of a role config
func (s *Storage) UpdateRoleConfig(ctx context.Context, id string, fields RoleConfigFields) (*domain.RoleConfig, error) {
	query := `
		UPDATE role_configs
		SET role = $1, template_id = $2, resume_name = $3, updated_at = $4
		WHERE id = $5
	`

	res, err := s.db.ExecContext(ctx, query, fields.Role, fields.TemplateID, fields.ResumeName, s.now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update role config: %w", err)
	}

	if err := expectRow(res, domain.ErrRoleConfigNotFound); err != nil {
		return nil, err
	}

	return s.FindRoleConfig(ctx, id)
}

// DeleteRoleConfig removes a role config
func (s *Storage) DeleteRoleConfig(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM role_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role config: %w", err)
	}

	return expectRow(res, domain.ErrRoleConfigNotFound)
}
