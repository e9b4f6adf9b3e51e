package jobs

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/logger"
)

const defaultResumeContentType = "application/octet-stream"

type ApplyInput struct {
	UserID      string
	FullName    string
	Phone       string
	Email       string
	Description string
	Role        string
	JobTitle    string
	Company     string
	Location    string

	Resume            []byte
	ResumeContentType string
}

// Apply records a new pending application owned by in.UserID.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (domain.JobApplication, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return domain.JobApplication{}, domain.ErrTokenInvalid()
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"fullName", &in.FullName},
		{"PhoneNo", &in.Phone},
		{"email", &in.Email},
		{"description", &in.Description},
		{"role", &in.Role},
		{"jobTitle", &in.JobTitle},
		{"company", &in.Company},
		{"location", &in.Location},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return domain.JobApplication{}, domain.ErrFieldsRequired(f.name)
		}
	}
	if len(in.Resume) == 0 {
		return domain.JobApplication{}, domain.ErrFieldsRequired("resume")
	}
	if !domain.IsValidJobRole(in.Role) {
		return domain.JobApplication{}, domain.ErrInvalidField("role", "unknown job role")
	}
	if s.maxResumeBytes > 0 && int64(len(in.Resume)) > s.maxResumeBytes {
		return domain.JobApplication{}, domain.ErrResumeTooLarge(s.maxResumeBytes)
	}

	ct := strings.TrimSpace(in.ResumeContentType)
	if ct == "" {
		ct = defaultResumeContentType
	}

	now := s.now().UTC()
	app := domain.JobApplication{
		ID:          uuid.NewString(),
		UserID:      userID,
		FullName:    in.FullName,
		Phone:       in.Phone,
		Email:       in.Email,
		Description: in.Description,
		Role:        domain.JobRole(in.Role),
		JobTitle:    in.JobTitle,
		Company:     in.Company,
		Location:    in.Location,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The record owns its own copy of the upload.
	data := make([]byte, len(in.Resume))
	copy(data, in.Resume)

	if s.resumes != nil {
		key := "resumes/" + app.ID
		if err := s.resumes.Put(ctx, key, data, ct); err != nil {
			return domain.JobApplication{}, domain.ErrBlobStoreUnavailable(err)
		}
		app.Resume = domain.Resume{ContentType: ct, ObjectKey: key}
	} else {
		app.Resume = domain.Resume{Data: data, ContentType: ct}
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		if app.Resume.ObjectKey != "" {
			if derr := s.resumes.Delete(ctx, app.Resume.ObjectKey); derr != nil {
				logger.WithCtx(ctx).Warn().Err(derr).Str("key", app.Resume.ObjectKey).Msg("orphaned resume object")
			}
		}
		s.audit("jobs.apply", map[string]string{"user_id": userID, "result": "error", "error_code": domainCode(err)})
		return domain.JobApplication{}, err
	}

	if s.pub != nil {
		if perr := s.pub.PublishApplicationSubmitted(ctx, ApplicationSubmittedEvent{
			ApplicationID: created.ID,
			UserID:        created.UserID,
			Email:         created.Email,
			Role:          string(created.Role),
			JobTitle:      created.JobTitle,
			Company:       created.Company,
			SubmittedAt:   created.CreatedAt,
		}); perr != nil {
			logger.WithCtx(ctx).Warn().Err(perr).Str("application_id", created.ID).Msg("publish application.submitted failed")
		}
	}

	s.audit("jobs.apply", map[string]string{
		"user_id":        userID,
		"application_id": created.ID,
		"role":           string(created.Role),
		"result":         "success",
	})
	return created, nil
}

func domainCode(err error) string {
	if c := domain.Code(err); c != "" {
		return c
	}
	return "non_domain_error"
}
