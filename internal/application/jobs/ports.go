package jobs

import (
	"context"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

/*
ApplicationRepo
---------------
Persistence port for job applications (the application store).
*/
type ApplicationRepo interface {
	Create(ctx context.Context, a domain.JobApplication) (domain.JobApplication, error)
	// ListWithOwners returns every application joined with its owner, newest first.
	ListWithOwners(ctx context.Context) ([]domain.ApplicantView, error)
	ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error)
	// SetStatus overwrites the status atomically and returns the updated record.
	// Unknown ids yield domain.ErrApplicationNotFound.
	SetStatus(ctx context.Context, id string, status domain.ApplicationStatus, at time.Time) (domain.JobApplication, error)
}

/*
ResumeStore
-----------
Optional out-of-line storage for resume bytes (S3 or compatible).
*/
type ResumeStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

/*
EventPublisher
--------------
Publishes application lifecycle events to RabbitMQ.
*/
type EventPublisher interface {
	PublishApplicationSubmitted(ctx context.Context, evt ApplicationSubmittedEvent) error
	PublishApplicationDecided(ctx context.Context, evt ApplicationDecidedEvent) error
}

type ApplicationSubmittedEvent struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	JobTitle      string    `json:"job_title"`
	Company       string    `json:"company"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type ApplicationDecidedEvent struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	DecidedBy     string    `json:"decided_by"`
	DecidedAt     time.Time `json:"decided_at"`
}
