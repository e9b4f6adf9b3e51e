package jobs

import (
	"time"
)

type Service struct {
	apps    ApplicationRepo
	resumes ResumeStore    // nil: resumes stay inline
	pub     EventPublisher // nil: events are dropped

	maxResumeBytes int64

	now   func() time.Time
	audit func(action string, fields map[string]string)
}

type Config struct {
	// MaxResumeBytes caps the uploaded file; <= 0 disables the check.
	MaxResumeBytes int64
}

func NewService(apps ApplicationRepo, resumes ResumeStore, pub EventPublisher, cfg Config) *Service {
	return &Service{
		apps:           apps,
		resumes:        resumes,
		pub:            pub,
		maxResumeBytes: cfg.MaxResumeBytes,
		now:            time.Now,
		audit:          func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}
