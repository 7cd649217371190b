package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingBroker struct {
	routingKey  string
	body        []byte
	contentType string
	err         error
}

func (b *capturingBroker) Publish(_ context.Context, routingKey string, body []byte, contentType string) error {
	b.routingKey = routingKey
	b.body = body
	b.contentType = contentType
	return b.err
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "send.sent", RoutingKey(domain.JobStatusSent))
	assert.Equal(t, "send.failed", RoutingKey(domain.JobStatusFailed))
}

func TestPublisher_RoundTrip(t *testing.T) {
	broker := &capturingBroker{}
	p := NewPublisher(broker, slog.New(slog.NewTextHandler(io.Discard, nil)))

	event := domain.SendEvent{
		EventID:    uuid.NewString(),
		JobID:      uuid.NewString(),
		Status:     domain.JobStatusFailed,
		Mode:       domain.SendModeBulk,
		Error:      "quota exceeded",
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, p.PublishSendEvent(context.Background(), event))
	assert.Equal(t, "send.failed", broker.routingKey)
	assert.Equal(t, ContentType, broker.contentType)

	decoded, err := Decode(broker.body)
	require.NoError(t, err)
	assert.Equal(t, event, *decoded)
}

func TestPublisher_BrokerError(t *testing.T) {
	broker := &capturingBroker{err: errors.New("channel closed")}
	p := NewPublisher(broker, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := p.PublishSendEvent(context.Background(), domain.SendEvent{Status: domain.JobStatusSent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestDecode_Malformed(t *testing.T) {
	valid := `"event_id":"` + uuid.NewString() + `","job_id":"` + uuid.NewString() + `"`

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{{`},
		{name: "bad event id", body: `{"event_id":"x","job_id":"` + uuid.NewString() + `","status":"SENT","occurred_at":"2025-01-01T00:00:00Z"}`},
		{name: "bad job id", body: `{"event_id":"` + uuid.NewString() + `","job_id":"42","status":"SENT","occurred_at":"2025-01-01T00:00:00Z"}`},
		{name: "non terminal status", body: `{` + valid + `,"status":"PENDING","occurred_at":"2025-01-01T00:00:00Z"}`},
		{name: "missing timestamp", body: `{` + valid + `,"status":"SENT"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			assert.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}
