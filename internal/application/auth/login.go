package auth

import (
	"context"

	"github.com/baechuer/job-portal/internal/domain"
)

// Login authenticates a user and issues a session token.
// An unknown email and a wrong password are distinct 401s.
func (s *Service) Login(ctx context.Context, email, password string) (SessionResult, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return SessionResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			s.audit("auth.login", map[string]string{"email": email, "result": "unknown_user"})
			return SessionResult{}, domain.ErrUnknownUser()
		}
		return SessionResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("auth.login", map[string]string{"user_id": u.ID, "email": email, "result": "invalid_credentials"})
		return SessionResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return SessionResult{}, err
	}

	s.audit("auth.login", map[string]string{"user_id": u.ID, "email": email, "result": "success"})
	return SessionResult{User: u, Token: tok}, nil
}
