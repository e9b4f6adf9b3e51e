package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/logger"
)

// ListApplicants returns all applications with their owners, newest first.
// Resumes held in the blob store are loaded so callers always see bytes;
// a failed load leaves the resume empty.
func (s *Service) ListApplicants(ctx context.Context) ([]domain.ApplicantView, error) {
	views, err := s.apps.ListWithOwners(ctx)
	if err != nil {
		return nil, err
	}
	if views == nil {
		return []domain.ApplicantView{}, nil
	}

	if s.resumes != nil {
		for i := range views {
			r := &views[i].Application.Resume
			if r.ObjectKey == "" || len(r.Data) > 0 {
				continue
			}
			data, gerr := s.resumes.Get(ctx, r.ObjectKey)
			if gerr != nil {
				logger.WithCtx(ctx).Warn().Err(gerr).Str("key", r.ObjectKey).Msg("resume fetch failed")
				continue
			}
			r.Data = data
		}
	}
	return views, nil
}

// ListByUser returns the applications owned by userID.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []domain.JobApplication{}
	}
	return apps, nil
}

func (s *Service) Accept(ctx context.Context, actorID, id string) (domain.JobApplication, error) {
	return s.decide(ctx, actorID, id, domain.StatusAccepted)
}

func (s *Service) Reject(ctx context.Context, actorID, id string) (domain.JobApplication, error) {
	return s.decide(ctx, actorID, id, domain.StatusRejected)
}

// decide overwrites the status unconditionally. Repeated and reversed
// decisions are allowed; the last write wins.
func (s *Service) decide(ctx context.Context, actorID, id string, status domain.ApplicationStatus) (domain.JobApplication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.JobApplication{}, domain.ErrApplicationNotFound()
	}

	app, err := s.apps.SetStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		s.audit("jobs.decide", map[string]string{
			"application_id": id,
			"actor_user_id":  actorID,
			"status":         string(status),
			"result":         "error",
			"error_code":     domainCode(err),
		})
		return domain.JobApplication{}, err
	}

	if s.pub != nil {
		if perr := s.pub.PublishApplicationDecided(ctx, ApplicationDecidedEvent{
			ApplicationID: app.ID,
			UserID:        app.UserID,
			Status:        string(app.Status),
			DecidedBy:     actorID,
			DecidedAt:     app.UpdatedAt,
		}); perr != nil {
			logger.WithCtx(ctx).Warn().Err(perr).Str("application_id", app.ID).Msg("publish application.decided failed")
		}
	}

	s.audit("jobs.decide", map[string]string{
		"application_id": app.ID,
		"actor_user_id":  actorID,
		"status":         string(app.Status),
		"result":         "success",
	})
	return app, nil
}
