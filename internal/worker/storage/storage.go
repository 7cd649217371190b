package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row
const foreignKeyViolation = "23503"

// ErrUnknownJob is returned when the event's job row does not exist
var ErrUnknownJob = errors.New("job does not exist")

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// InsertSendEvent stores an event once. It reports false when an event with
// the same id was already stored.
func (s *Storage) InsertSendEvent(ctx context.Context, event *domain.SendEvent) (bool, error) {
	query := `
		INSERT INTO send_events (event_id, job_id, status, mode, error_message, occurred_at)
		VALUES (:event_id, :job_id, :status, :mode, :error_message, :occurred_at)
		ON CONFLICT (event_id) DO NOTHING
	`

	res, err := s.db.NamedExecContext(ctx, query, event)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return false, fmt.Errorf("%w: %s", ErrUnknownJob, event.JobID)
		}
		return false, fmt.Errorf("failed to insert send event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if n == 0 {
		s.logger.Debug("Send event already stored",
			slog.String("event_id", event.EventID),
		)
		return false, nil
	}

	return true, nil
}
