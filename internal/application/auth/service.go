package auth

import (
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

// SessionTTL is the fixed validity window of a session token.
const SessionTTL = 24 * time.Hour

type Service struct {
	users  UserRepo
	apps   ApplicationReader
	hasher PasswordHasher
	signer TokenSigner

	now   func() time.Time
	audit func(action string, fields map[string]string)
}

func NewService(users UserRepo, apps ApplicationReader, hasher PasswordHasher, signer TokenSigner) *Service {
	return &Service{
		users:  users,
		apps:   apps,
		hasher: hasher,
		signer: signer,
		now:    time.Now,
		audit:  func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithClock overrides the time source used for record timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// SessionResult is what register and login hand back to the transport layer.
type SessionResult struct {
	User  domain.User
	Token string
}

type ProfileResult struct {
	User         domain.User
	Applications []domain.JobApplication
}

func (s *Service) issueToken(u domain.User) (string, error) {
	tok, err := s.signer.SignSessionToken(u.ID, u.Email, u.Role, SessionTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return tok, nil
}

func domainCode(err error) string {
	if c := domain.Code(err); c != "" {
		return c
	}
	return "unknown"
}
