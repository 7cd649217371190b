package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/metrics"
	"github.com/cuongbtq/job-mailer/internal/worker/storage"
)

// processEvent stores one event. Database errors are retryable unless the
// job is gone.
func (w *Worker) processEvent(ctx context.Context, msg *EventMessage) error {
	event := msg.Event

	// storing must not be cut short by shutdown once the event is dequeued
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.processTimeout)
	defer cancel()

	inserted, err := w.store.InsertSendEvent(storeCtx, event)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownJob) {
			return fmt.Errorf("event %s: %w", event.EventID, err)
		}
		return NewRetryableError(fmt.Errorf("event %s: %w", event.EventID, err))
	}

	if !inserted {
		metrics.RecordEvent(outcomeDuplicate)
		w.logger.Info("Duplicate send event ignored",
			slog.String("event_id", event.EventID),
		)
		return nil
	}

	metrics.RecordEvent(outcomeStored)
	w.logger.Info("Send event stored",
		slog.String("event_id", event.EventID),
		slog.String("job_id", event.JobID),
		slog.String("status", string(event.Status)),
		slog.String("mode", event.Mode),
	)
	return nil
}
