// Package events publishes and decodes the send-event audit feed. Events are
// informational: the send pipeline never waits on a consumer.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/google/uuid"
)

// ContentType of published event bodies
const ContentType = "application/json"

// RoutingKeyPrefix prefixes every send-event routing key
const RoutingKeyPrefix = "send."

// ErrMalformedEvent is returned by Decode for bodies that can never be stored
var ErrMalformedEvent = errors.New("malformed send event")

// Broker publishes raw message bodies
type Broker interface {
	Publish(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// Publisher publishes SendEvents as JSON
type Publisher struct {
	broker Broker
	logger *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(broker Broker, logger *slog.Logger) *Publisher {
	return &Publisher{
		broker: broker,
		logger: logger,
	}
}

// RoutingKey returns the routing key for a status, e.g. "send.sent"
func RoutingKey(status domain.JobStatus) string {
	return RoutingKeyPrefix + strings.ToLower(string(status))
}

// PublishSendEvent publishes one event
func (p *Publisher) PublishSendEvent(ctx context.Context, event domain.SendEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal send event: %w", err)
	}

	if err := p.broker.Publish(ctx, RoutingKey(event.Status), body, ContentType); err != nil {
		return fmt.Errorf("failed to publish send event: %w", err)
	}

	p.logger.Debug("Send event published",
		slog.String("event_id", event.EventID),
		slog.String("job_id", event.JobID),
		slog.String("status", string(event.Status)),
	)

	return nil
}

// Decode parses and validates an event body
func Decode(body []byte) (*domain.SendEvent, error) {
	var event domain.SendEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if _, err := uuid.Parse(event.EventID); err != nil {
		return nil, fmt.Errorf("%w: invalid event_id %q", ErrMalformedEvent, event.EventID)
	}
	if _, err := uuid.Parse(event.JobID); err != nil {
		return nil, fmt.Errorf("%w: invalid job_id %q", ErrMalformedEvent, event.JobID)
	}
	if event.Status != domain.JobStatusSent && event.Status != domain.JobStatusFailed {
		return nil, fmt.Errorf("%w: unexpected status %q", ErrMalformedEvent, event.Status)
	}
	if event.OccurredAt.IsZero() {
		return nil, fmt.Errorf("%w: missing occurred_at", ErrMalformedEvent)
	}

	return &event, nil
}
