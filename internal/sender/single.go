package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/domain"
)

// SendResult is the outcome of sending one job
type SendResult struct {
	Success bool        `json:"success"`
	Job     *domain.Job `json:"job"`
	Message string      `json:"message"`
}

// SendJob renders and sends the email for one job.
//
// ErrJobNotFound and ErrAlreadySent are returned before anything is mutated.
// A provider failure is not an error: the job is marked FAILED and the result
// has Success=false. Any other error after the job was loaded triggers a
// best-effort FAILED update before it is returned. Once the job is loaded
// the send runs to a terminal status even if ctx is canceled.
func (s *Service) SendJob(ctx context.Context, jobID string) (*SendResult, error) {
	job, err := s.store.FindJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	if job.Status.IsTerminal() {
		s.logger.Warn("Rejected send for job already sent",
			slog.String("job_id", job.ID),
		)
		return nil, domain.ErrAlreadySent
	}

	ctx = context.WithoutCancel(ctx)

	s.logger.Info("Sending job application",
		slog.String("job_id", job.ID),
		slog.String("status", string(job.Status)),
		slog.String("contact_email", job.ContactEmail),
	)

	out, err := s.deliver(ctx, job, domain.SendModeSingle)
	if err != nil {
		s.logger.Error("Send pipeline failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		s.markFailed(ctx, job.ID, domain.SendModeSingle, err)
		return nil, err
	}

	if out.sendErr != nil {
		return &SendResult{
			Success: false,
			Job:     out.job,
			Message: MessageSendFailed,
		}, nil
	}

	return &SendResult{
		Success: true,
		Job:     out.job,
		Message: MessageSent,
	}, nil
}
