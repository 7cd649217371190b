package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/metrics"
)

// BulkItem is the per-job entry of a bulk send
type BulkItem struct {
	JobID        string  `json:"jobId"`
	JobTitle     string  `json:"jobTitle"`
	ContactEmail string  `json:"contactEmail"`
	Success      bool    `json:"success"`
	Error        *string `json:"error"`
}

// BulkSummary aggregates a bulk send
type BulkSummary struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// BulkResult is the outcome of a bulk send
type BulkResult struct {
	Message string      `json:"message"`
	Results []BulkItem  `json:"results"`
	Summary BulkSummary `json:"summary"`
}

// SendBulk sends every job currently in status, one at a time, pausing
// between consecutive sends. A failing job is marked FAILED and recorded in
// the results; it never stops the batch. Once started the batch runs to the
// end even if ctx is canceled.
func (s *Service) SendBulk(ctx context.Context, status domain.JobStatus) (*BulkResult, error) {
	if status == "" {
		status = domain.JobStatusPending
	}
	if status.IsTerminal() {
		return nil, fmt.Errorf("%w: jobs in %s status cannot be sent again", domain.ErrInvalidStatus, status)
	}

	ctx = context.WithoutCancel(ctx)

	jobs, err := s.store.FindJobsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	if len(jobs) == 0 {
		s.logger.Info("Bulk send found no jobs", slog.String("status", string(status)))
		return &BulkResult{
			Message: MessageNoJobs,
			Results: []BulkItem{},
		}, nil
	}

	s.logger.Info("Starting bulk send",
		slog.String("status", string(status)),
		slog.Int("jobs", len(jobs)),
		slog.Duration("delay", s.bulkDelay),
	)

	start := s.now()
	results := make([]BulkItem, 0, len(jobs))
	summary := BulkSummary{Total: len(jobs)}

	for i := range jobs {
		if i > 0 {
			s.sleep(ctx, s.bulkDelay)
		}

		item := s.sendOne(ctx, &jobs[i])
		if item.Success {
			summary.Sent++
		} else {
			summary.Failed++
		}
		results = append(results, item)
	}

	metrics.ObserveBulk(len(jobs), s.now().Sub(start))

	s.logger.Info("Bulk send finished",
		slog.Int("total", summary.Total),
		slog.Int("sent", summary.Sent),
		slog.Int("failed", summary.Failed),
	)

	return &BulkResult{
		Message: fmt.Sprintf("Processed %d jobs: %d sent, %d failed", summary.Total, summary.Sent, summary.Failed),
		Results: results,
		Summary: summary,
	}, nil
}

func (s *Service) sendOne(ctx context.Context, job *domain.Job) BulkItem {
	item := BulkItem{
		JobID:        job.ID,
		JobTitle:     job.JobTitle,
		ContactEmail: job.ContactEmail,
	}

	out, err := s.deliver(ctx, job, domain.SendModeBulk)
	if err != nil {
		s.logger.Error("Error sending email for job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		s.markFailed(ctx, job.ID, domain.SendModeBulk, err)
		item.Error = errorString(err)
		return item
	}

	if out.sendErr != nil {
		item.Error = errorString(out.sendErr)
		return item
	}

	item.Success = true
	return item
}

func errorString(err error) *string {
	msg := err.Error()
	return &msg
}
