package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/job-portal/internal/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // optional, defaults to user
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (SessionResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	role := strings.TrimSpace(in.Role)

	switch {
	case name == "":
		return SessionResult{}, domain.ErrFieldsRequired("name")
	case email == "":
		return SessionResult{}, domain.ErrFieldsRequired("email")
	case in.Password == "":
		return SessionResult{}, domain.ErrFieldsRequired("password")
	}
	if role == "" {
		role = string(domain.RoleUser)
	}
	if !domain.IsValidRole(role) {
		return SessionResult{}, domain.ErrInvalidRole(role)
	}

	// Uniqueness is also enforced by the store; this check keeps the
	// common case from paying for a bcrypt round.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.audit("auth.register", map[string]string{"email": email, "result": "conflict"})
		return SessionResult{}, domain.ErrEmailAlreadyExists()
	} else if !domain.Is(err, "user_not_found") {
		return SessionResult{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return SessionResult{}, domain.ErrHashFailed(err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.audit("auth.register", map[string]string{"email": email, "result": "error", "error_code": domainCode(err)})
		return SessionResult{}, err
	}

	tok, err := s.issueToken(created)
	if err != nil {
		return SessionResult{}, err
	}

	s.audit("auth.register", map[string]string{
		"user_id": created.ID,
		"email":   created.Email,
		"role":    created.Role,
		"result":  "success",
	})
	return SessionResult{User: created, Token: tok}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
