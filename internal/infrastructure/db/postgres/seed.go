package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers creates the development accounts. Existing accounts are left alone,
// so it is safe to run on every start.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) int {
	type seedUser struct {
		Name  string
		Email string
		Role  domain.Role
		Pass  string
	}

	seeds := []seedUser{
		{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, Pass: "AdminPassword123!"},
		{Name: "Test User", Email: "user@example.com", Role: domain.RoleUser, Pass: "UserPassword123!"},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed: hash failed")
			continue
		}

		now := time.Now().UTC()
		_, err = repo.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         string(s.Role),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			// duplicates are expected on restart
			continue
		}
		created++
	}

	logger.Logger.Info().Int("created", created).Msg("seed: dev users ready")
	return created
}
