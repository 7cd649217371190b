package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventStore persists send events
type EventStore interface {
	InsertSendEvent(ctx context.Context, event *domain.SendEvent) (bool, error)
}

// Consumer delivers broker messages with manual acknowledgement
type Consumer interface {
	Consume(consumerTag string, prefetchCount int) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger         *slog.Logger
	Store          EventStore
	Consumer       Consumer
	WorkerID       string
	Concurrency    int
	PrefetchCount  int
	ProcessTimeout time.Duration
}

// Worker consumes send events and records them in the database
type Worker struct {
	logger         *slog.Logger
	store          EventStore
	consumer       Consumer
	workerID       string
	concurrency    int
	prefetchCount  int
	processTimeout time.Duration

	jobsChan chan *EventMessage
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// EventMessage is a decoded event together with its broker delivery
type EventMessage struct {
	Event    *domain.SendEvent
	Delivery amqp.Delivery
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := max(cfg.Concurrency, 1)
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency
	}
	timeout := cfg.ProcessTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Worker{
		logger:         cfg.Logger,
		store:          cfg.Store,
		consumer:       cfg.Consumer,
		workerID:       cfg.WorkerID,
		concurrency:    concurrency,
		prefetchCount:  prefetch,
		processTimeout: timeout,
		jobsChan:       make(chan *EventMessage, concurrency),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start consumes events until ctx is canceled, Stop is called or the broker
// closes the delivery channel. In-flight events finish before it returns.
func (w *Worker) Start(ctx context.Context) error {
	defer close(w.done)

	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("process_timeout", w.processTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	close(w.jobsChan)
	w.wg.Wait()

	w.logger.Info("Worker stopped", slog.String("worker_id", w.workerID))
	return nil
}

// Stop signals the dispatcher to stop and waits for Start to return
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	<-w.done
}
