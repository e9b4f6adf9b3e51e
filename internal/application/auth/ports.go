package auth

import (
	"context"
	"time"

	"github.com/baechuer/job-portal/internal/domain"
)

/*
UserRepo
--------
Persistence port for users (the credential store).
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

/*
ApplicationReader
-----------------
Read access to a user's own applications, used by the profile view.
*/
type ApplicationReader interface {
	ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignSessionToken(userID, email, role string, ttl time.Duration) (string, error)
	VerifySessionToken(token string) (TokenClaims, error)
}
