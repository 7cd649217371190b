package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/worker/storage"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecord struct {
	tag     uint64
	ack     bool
	requeue bool
}

type recordingAcknowledger struct {
	mu      sync.Mutex
	records []ackRecord
}

func (a *recordingAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, ackRecord{tag: tag, ack: true})
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *recordingAcknowledger) byTag() map[uint64]ackRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[uint64]ackRecord, len(a.records))
	for _, r := range a.records {
		out[r.tag] = r
	}
	return out
}

type chanConsumer struct {
	deliveries chan amqp.Delivery
	err        error

	mu       sync.Mutex
	tag      string
	prefetch int
}

func (c *chanConsumer) Consume(tag string, prefetch int) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tag = tag
	c.prefetch = prefetch
	return c.deliveries, c.err
}

func (c *chanConsumer) consumerTag() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tag
}

type scriptedStore struct {
	mu     sync.Mutex
	stored map[string]bool
	errFor map[string]error
}

func (s *scriptedStore) InsertSendEvent(_ context.Context, e *domain.SendEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errFor[e.EventID]; err != nil {
		return false, err
	}
	if s.stored[e.EventID] {
		return false, nil
	}
	s.stored[e.EventID] = true
	return true, nil
}

func eventBody(t *testing.T, eventID string) []byte {
	t.Helper()
	body, err := json.Marshal(domain.SendEvent{
		EventID:    eventID,
		JobID:      uuid.NewString(),
		Status:     domain.JobStatusSent,
		Mode:       domain.SendModeBulk,
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return body
}

func TestWorker_AckNackDecisions(t *testing.T) {
	okID := uuid.NewString()
	dupID := uuid.NewString()
	transientID := uuid.NewString()
	goneID := uuid.NewString()

	store := &scriptedStore{
		stored: map[string]bool{dupID: true},
		errFor: map[string]error{
			transientID: errors.New("connection reset by peer"),
			goneID:      fmt.Errorf("%w: job", storage.ErrUnknownJob),
		},
	}
	consumer := &chanConsumer{deliveries: make(chan amqp.Delivery, 8)}
	acker := &recordingAcknowledger{}

	w := NewWorker(&Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:       store,
		Consumer:    consumer,
		WorkerID:    "worker-test",
		Concurrency: 2,
	})

	bodies := [][]byte{
		eventBody(t, okID),
		eventBody(t, dupID),
		eventBody(t, transientID),
		eventBody(t, goneID),
		[]byte(`not json`),
	}
	for i, body := range bodies {
		consumer.deliveries <- amqp.Delivery{
			Acknowledger: acker,
			DeliveryTag:  uint64(i + 1),
			Body:         body,
		}
	}
	close(consumer.deliveries)

	require.NoError(t, w.Start(context.Background()))

	records := acker.byTag()
	require.Len(t, records, 5)
	assert.Equal(t, ackRecord{tag: 1, ack: true}, records[1], "stored")
	assert.Equal(t, ackRecord{tag: 2, ack: true}, records[2], "duplicate")
	assert.Equal(t, ackRecord{tag: 3, requeue: true}, records[3], "transient db error")
	assert.Equal(t, ackRecord{tag: 4, requeue: false}, records[4], "unknown job")
	assert.Equal(t, ackRecord{tag: 5, requeue: false}, records[5], "malformed")

	assert.Equal(t, "worker-test", consumer.tag)
	assert.Equal(t, 2, consumer.prefetch)
	assert.True(t, store.stored[okID])
}

func TestWorker_StopEndsStart(t *testing.T) {
	consumer := &chanConsumer{deliveries: make(chan amqp.Delivery)}
	w := NewWorker(&Config{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    &scriptedStore{stored: map[string]bool{}},
		Consumer: consumer,
		WorkerID: "worker-test",
	})

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	require.Eventually(t, func() bool { return consumer.consumerTag() != "" }, time.Second, 5*time.Millisecond)
	w.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestWorker_ConsumeError(t *testing.T) {
	w := NewWorker(&Config{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    &scriptedStore{},
		Consumer: &chanConsumer{err: errors.New("channel closed")},
	})

	err := w.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestShouldRequeue(t *testing.T) {
	assert.True(t, shouldRequeue(NewRetryableError(errors.New("x"))))
	assert.True(t, shouldRequeue(fmt.Errorf("wrapped: %w", NewRetryableError(errors.New("x")))))
	assert.False(t, shouldRequeue(storage.ErrUnknownJob))
	assert.False(t, shouldRequeue(errors.New("other")))
}
