package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/google/uuid"
)

const jobColumns = `
	j.id, j.job_title, j.role, j.contact_email, j.notes, j.resume_name, j.status,
	j.template_id, j.company_name, j.sent_at, j.created_at, j.updated_at`

const selectJobs = `SELECT ` + jobColumns + `,` + templateColumns + `
	FROM jobs j
	LEFT JOIN templates t ON t.id = j.template_id`

type jobRow struct {
	domain.Job
	joinedTemplate
}

func (r jobRow) job() domain.Job {
	job := r.Job
	job.Template = r.template()
	return job
}

// JobFilter narrows ListJobs
type JobFilter struct {
	Status   domain.JobStatus
	PageSize int
	Cursor   *JobCursor
}

// JobCursor is the position after the last job of a page
type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

// CreateJob inserts a new job in DRAFT status and returns it with its template
func (s *Storage) CreateJob(ctx context.Context, fields domain.JobFields) (*domain.Job, error) {
	query := `
		INSERT INTO jobs (
			id, job_title, role, contact_email, notes, resume_name,
			status, template_id, company_name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $10
		)
	`

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, query,
		id,
		fields.JobTitle,
		fields.Role,
		fields.ContactEmail,
		fields.Notes,
		fields.ResumeName,
		domain.JobStatusDraft,
		fields.TemplateID,
		fields.CompanyName,
		s.now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("Job created",
		slog.String("job_id", id),
		slog.String("template_id", fields.TemplateID),
	)

	return s.FindJob(ctx, id)
}

// FindJob returns a job joined with its template
func (s *Storage) FindJob(ctx context.Context, id string) (*domain.Job, error) {
	var row jobRow
	err := s.db.GetContext(ctx, &row, selectJobs+` WHERE j.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job := row.job()
	return &job, nil
}

// FindJobsByStatus returns every job in status, oldest first, with templates
func (s *Storage) FindJobsByStatus(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	var rows []jobRow
	err := s.db.SelectContext(ctx, &rows, selectJobs+` WHERE j.status = $1 ORDER BY j.created_at ASC, j.id ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}

	return toJobs(rows), nil
}

// ListJobs returns up to PageSize+1 jobs, newest first. The extra row tells
// the caller whether another page exists.
func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := selectJobs + ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND j.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (j.created_at, j.id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	query += " ORDER BY j.created_at DESC, j.id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return toJobs(rows), nil
}

// UpdateJob replaces the editable fields of a job
func (s *Storage) UpdateJob(ctx context.Context, id string, fields domain.JobFields) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET job_title = $1,
			role = $2,
			contact_email = $3,
			notes = $4,
			resume_name = $5,
			template_id = $6,
			company_name = $7,
			updated_at = $8
		WHERE id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		fields.JobTitle,
		fields.Role,
		fields.ContactEmail,
		fields.Notes,
		fields.ResumeName,
		fields.TemplateID,
		fields.CompanyName,
		s.now().UTC(),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	if err := expectRow(res, domain.ErrJobNotFound); err != nil {
		return nil, err
	}

	return s.FindJob(ctx, id)
}

// UpdateJobStatus sets the status and, when given, companyName and sentAt.
// The returned job has no template attached.
func (s *Storage) UpdateJobStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Job, error) {
	query := `
		UPDATE jobs j
		SET status = $1,
			company_name = COALESCE($2, j.company_name),
			sent_at = COALESCE($3, j.sent_at),
			updated_at = $4
		WHERE j.id = $5
		RETURNING ` + jobColumns

	var job domain.Job
	err := s.db.GetContext(ctx, &job, query,
		update.Status,
		update.CompanyName,
		update.SentAt,
		s.now().UTC(),
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	s.logger.Info("Job status updated",
		slog.String("job_id", id),
		slog.String("status", string(update.Status)),
	)

	return &job, nil
}

// DeleteJob removes a job and its send events
func (s *Storage) DeleteJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return expectRow(res, domain.ErrJobNotFound)
}

func toJobs(rows []jobRow) []domain.Job {
	jobs := make([]domain.Job, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, r.job())
	}
	return jobs
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
