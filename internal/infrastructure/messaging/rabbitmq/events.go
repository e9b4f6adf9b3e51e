package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/job-portal/internal/application/jobs"
)

const (
	DefaultExchange = "job.portal"

	RoutingApplicationSubmitted = "jobs.application.submitted"
	RoutingApplicationDecided   = "jobs.application.decided"
)

// Envelope is the message body on the exchange. ID is also the AMQP
// message id so consumers can dedupe redeliveries.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

func newEnvelope(eventType string, occurredAt time.Time, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		Data:       raw,
	}, nil
}

// ---- jobs.EventPublisher ----

func (p *Publisher) PublishApplicationSubmitted(ctx context.Context, evt jobs.ApplicationSubmittedEvent) error {
	env, err := newEnvelope(RoutingApplicationSubmitted, evt.SubmittedAt, evt)
	if err != nil {
		return err
	}
	return p.publish(ctx, env)
}

func (p *Publisher) PublishApplicationDecided(ctx context.Context, evt jobs.ApplicationDecidedEvent) error {
	env, err := newEnvelope(RoutingApplicationDecided, evt.DecidedAt, evt)
	if err != nil {
		return err
	}
	return p.publish(ctx, env)
}
