package memory

import (
	"context"

	"github.com/baechuer/job-portal/internal/application/jobs"
	"github.com/baechuer/job-portal/internal/logger"
)

// NoopPublisher logs events instead of sending them. Used when RABBIT_URL is unset.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishApplicationSubmitted(ctx context.Context, evt jobs.ApplicationSubmittedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("application_id", evt.ApplicationID).
		Str("user_id", evt.UserID).
		Str("role", evt.Role).
		Msg("[noop-pub] application submitted")
	return nil
}

func (p *NoopPublisher) PublishApplicationDecided(ctx context.Context, evt jobs.ApplicationDecidedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("application_id", evt.ApplicationID).
		Str("status", evt.Status).
		Str("decided_by", evt.DecidedBy).
		Msg("[noop-pub] application decided")
	return nil
}
