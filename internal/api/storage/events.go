package storage

import (
	"context"
	"fmt"

	"github.com/cuongbtq/job-mailer/internal/domain"
)

// ListSendEvents returns the recorded send events of a job, oldest first
func (s *Storage) ListSendEvents(ctx context.Context, jobID string) ([]domain.SendEvent, error) {
	query := `
		SELECT event_id, job_id, status, mode, error_message, occurred_at
		FROM send_events
		WHERE job_id = $1
		ORDER BY occurred_at ASC
	`

	events := []domain.SendEvent{}
	if err := s.db.SelectContext(ctx, &events, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list send events: %w", err)
	}
	return events, nil
}
