package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
)

type authFixture struct {
	repo     *stubUserRepo
	sessions *stubSessionStore
	users    *UserService
	auth     *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	users := newTestUserService(repo, newStubFileStore())
	return &authFixture{
		repo:     repo,
		sessions: sessions,
		users:    users,
		auth:     NewAuthService(repo, users, sessions, "secret", time.Hour, zerolog.Nop()),
	}
}

func (f *authFixture) register(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Name: "Jo", Email: email, Password: password,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return user
}

func TestAuthService_Register_AssignsUserRole(t *testing.T) {
	f := newAuthFixture(t)

	user := f.register(t, "jo@x.io", "secret12")
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "secret12" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Register(context.Background(), ports.RegisterInput{Name: "Jo", Email: "jo@x.io", Password: "short"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["password"]; !ok {
		t.Fatalf("expected password field error, got %v", verr.Fields)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jo@x.io", "secret12")

	_, err := f.auth.Register(context.Background(), ports.RegisterInput{Name: "Jo", Email: "jo@x.io", Password: "secret12"})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "jo@x.io", "secret12")

	result, err := f.auth.Login(context.Background(), " jo@x.io ", "secret12")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.User.ID != user.ID {
		t.Fatalf("unexpected user: %s", result.User.ID)
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(f.sessions.sessions))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != domain.RoleUser || claims.SessionID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jo@x.io", "secret12")

	cases := []struct {
		name, email, password string
	}{
		{"wrong password", "jo@x.io", "wrongpass"},
		{"unknown email", "nobody@x.io", "secret12"},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.auth.Login(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
	if len(f.sessions.sessions) != 0 {
		t.Fatalf("failed logins must not open sessions")
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "jo@x.io", "secret12")
	ctx := context.Background()

	result, err := f.auth.Login(ctx, "jo@x.io", "secret12")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	identity, err := f.auth.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if identity.UserID != user.ID || identity.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	// A role change is visible on the next request without a new token.
	if _, err := f.users.Update(ctx, user.ID, ports.UpdateUserInput{Role: domain.Some(domain.RoleAdmin)}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	identity, err = f.auth.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !identity.IsAdmin() {
		t.Fatalf("expected admin role after update, got %s", identity.Role)
	}

	if err := f.users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted user, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsBadTokens(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jo@x.io", "secret12")
	ctx := context.Background()

	result, err := f.auth.Login(ctx, "jo@x.io", "secret12")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	other := NewAuthService(f.repo, f.users, f.sessions, "other-secret", time.Hour, zerolog.Nop())
	if _, err := other.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, "not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage, got %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, result.Token+"x"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jo@x.io", "secret12")
	ctx := context.Background()

	f.auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	result, err := f.auth.Login(ctx, "jo@x.io", "secret12")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	f.auth.now = time.Now

	if _, err := f.auth.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jo@x.io", "secret12")
	ctx := context.Background()

	result, err := f.auth.Login(ctx, "jo@x.io", "secret12")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := f.auth.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
	if err := f.auth.Logout(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for invalid token, got %v", err)
	}
}
