package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

var (
	// emailsTotal counts terminal send outcomes.
	// Labels:
	// - mode:   "single" or "bulk"
	// - result: "sent" or "failed"
	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmailer",
			Subsystem: "send",
			Name:      "emails_total",
			Help:      "Number of application emails by send outcome",
		},
		[]string{"mode", "result"},
	)

	// cleanupFailures counts jobs whose failure could not be recorded
	cleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobmailer",
			Subsystem: "send",
			Name:      "cleanup_failures_total",
			Help:      "Number of times a job could not be marked FAILED after an error",
		},
	)

	bulkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobmailer",
			Subsystem: "send",
			Name:      "bulk_duration_seconds",
			Help:      "Duration of bulk send runs including pacing delays",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	bulkSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobmailer",
			Subsystem: "send",
			Name:      "bulk_jobs",
			Help:      "Number of jobs picked up per bulk send",
			Buckets:   prometheus.LinearBuckets(0, 10, 10),
		},
	)

	// eventsConsumed counts send events handled by the worker.
	// Labels:
	// - outcome: "stored", "duplicate", "requeued" or "dropped"
	eventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmailer",
			Subsystem: "worker",
			Name:      "events_total",
			Help:      "Number of send events processed by the worker",
		},
		[]string{"outcome"},
	)
)

// RecordSend increments the send outcome counter
func RecordSend(mode, result string) {
	emailsTotal.WithLabelValues(mode, result).Inc()
}

// RecordCleanupFailure increments the failed-cleanup counter
func RecordCleanupFailure() {
	cleanupFailures.Inc()
}

// ObserveBulk records the size and duration of a bulk send run
func ObserveBulk(jobs int, d time.Duration) {
	bulkSize.Observe(float64(jobs))
	bulkDuration.Observe(d.Seconds())
}

// RecordEvent increments the worker event counter
func RecordEvent(outcome string) {
	eventsConsumed.WithLabelValues(outcome).Inc()
}
