package ports

import (
	"context"
	"time"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

// RegisterInput is a public sign-up request. The role is always "user".
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginResult is returned on a successful sign-in.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Authenticator resolves a token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// AuthService issues, verifies and revokes sessions.
type AuthService interface {
	Authenticator
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}
