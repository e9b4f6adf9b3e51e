package auth

import (
	"context"
	"strings"

	"github.com/baechuer/job-portal/internal/domain"
)

// Profile returns the caller's account together with every application it owns.
func (s *Service) Profile(ctx context.Context, userID string) (ProfileResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ProfileResult{}, domain.ErrTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ProfileResult{}, err
	}

	apps, err := s.apps.ListByUser(ctx, u.ID)
	if err != nil {
		return ProfileResult{}, err
	}
	if apps == nil {
		apps = []domain.JobApplication{}
	}

	return ProfileResult{User: u, Applications: apps}, nil
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
