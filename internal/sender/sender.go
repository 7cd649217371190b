package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/mail"
	"github.com/cuongbtq/job-mailer/internal/metrics"
	"github.com/cuongbtq/job-mailer/internal/render"
	"github.com/google/uuid"
)

// DefaultBulkDelay is the pause between consecutive bulk sends
const DefaultBulkDelay = time.Second

// Result messages
const (
	MessageSent       = "Email sent successfully"
	MessageSendFailed = "Failed to send email"
	MessageNoJobs     = "No jobs to send"
)

// JobStore is the record store used by the send pipeline
type JobStore interface {
	FindJob(ctx context.Context, id string) (*domain.Job, error)
	FindJobsByStatus(ctx context.Context, status domain.JobStatus) ([]domain.Job, error)
	UpdateJobStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Job, error)
}

// PathResolver maps a resume name to an attachment path
type PathResolver interface {
	ResolvePath(resumeName string) string
}

// EventPublisher announces terminal send outcomes
type EventPublisher interface {
	PublishSendEvent(ctx context.Context, event domain.SendEvent) error
}

// Config holds sender dependencies
type Config struct {
	Logger      *slog.Logger
	Store       JobStore
	Renderer    *render.Renderer
	Transport   mail.Transport
	Attachments PathResolver
	Publisher   EventPublisher // optional
	BulkDelay   time.Duration
}

// Service renders and sends application emails and drives job status
type Service struct {
	logger      *slog.Logger
	store       JobStore
	renderer    *render.Renderer
	transport   mail.Transport
	attachments PathResolver
	publisher   EventPublisher
	bulkDelay   time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewService creates a new sender Service
func NewService(cfg *Config) *Service {
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}

	delay := cfg.BulkDelay
	if delay <= 0 {
		delay = DefaultBulkDelay
	}

	return &Service{
		logger:      cfg.Logger,
		store:       cfg.Store,
		renderer:    renderer,
		transport:   cfg.Transport,
		attachments: cfg.Attachments,
		publisher:   cfg.Publisher,
		bulkDelay:   delay,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// outcome is the result of one delivery attempt that reached a terminal status
type outcome struct {
	job     *domain.Job
	sendErr error // non-nil when the provider did not accept the message
}

// deliver runs render -> PENDING -> transport -> SENT/FAILED for one job.
// A returned error means the job could not be driven to a terminal status.
func (s *Service) deliver(ctx context.Context, job *domain.Job, mode string) (*outcome, error) {
	if job.Template == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, job.TemplateID)
	}

	rendered := s.renderer.Render(job.Template, job)
	email := mail.Email{
		To:             job.ContactEmail,
		Subject:        rendered.Subject,
		Body:           rendered.Body,
		AttachmentPath: s.attachments.ResolvePath(job.ResumeName),
	}

	if job.Status != domain.JobStatusPending {
		if _, err := s.store.UpdateJobStatus(ctx, job.ID, domain.StatusUpdate{Status: domain.JobStatusPending}); err != nil {
			return nil, fmt.Errorf("%w: mark pending: %v", domain.ErrPersistence, err)
		}
	}

	_, sendErr := s.transport.Send(ctx, email)
	if sendErr != nil {
		s.logger.Error("Error sending email",
			slog.String("job_id", job.ID),
			slog.String("mode", mode),
			slog.String("error", sendErr.Error()),
		)

		updated, err := s.store.UpdateJobStatus(ctx, job.ID, domain.StatusUpdate{Status: domain.JobStatusFailed})
		if err != nil {
			return nil, fmt.Errorf("%w: mark failed: %v", domain.ErrPersistence, err)
		}
		updated.Template = job.Template

		metrics.RecordSend(mode, metrics.ResultFailed)
		s.publish(ctx, job.ID, domain.JobStatusFailed, mode, sendErr.Error())
		return &outcome{job: updated, sendErr: sendErr}, nil
	}

	company := render.ExtractCompany(job.ContactEmail)
	sentAt := s.now()
	updated, err := s.store.UpdateJobStatus(ctx, job.ID, domain.StatusUpdate{
		Status:      domain.JobStatusSent,
		CompanyName: &company,
		SentAt:      &sentAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: mark sent: %v", domain.ErrPersistence, err)
	}
	updated.Template = job.Template

	metrics.RecordSend(mode, metrics.ResultSent)
	s.publish(ctx, job.ID, domain.JobStatusSent, mode, "")
	return &outcome{job: updated}, nil
}

// markFailed is the best-effort cleanup after an unexpected error. Its own
// failure is logged and counted but never returned.
func (s *Service) markFailed(ctx context.Context, jobID, mode string, cause error) {
	if _, err := s.store.UpdateJobStatus(ctx, jobID, domain.StatusUpdate{Status: domain.JobStatusFailed}); err != nil {
		metrics.RecordCleanupFailure()
		s.logger.Error("Failed to record send failure",
			slog.String("job_id", jobID),
			slog.String("cause", cause.Error()),
			slog.String("error", err.Error()),
		)
		return
	}

	metrics.RecordSend(mode, metrics.ResultFailed)
	s.publish(ctx, jobID, domain.JobStatusFailed, mode, cause.Error())
}

func (s *Service) publish(ctx context.Context, jobID string, status domain.JobStatus, mode, errMsg string) {
	if s.publisher == nil {
		return
	}

	event := domain.SendEvent{
		EventID:    uuid.NewString(),
		JobID:      jobID,
		Status:     status,
		Mode:       mode,
		Error:      errMsg,
		OccurredAt: s.now().UTC(),
	}

	if err := s.publisher.PublishSendEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish send event",
			slog.String("job_id", jobID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
