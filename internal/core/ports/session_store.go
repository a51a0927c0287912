package ports

import (
	"context"
	"time"
)

// SessionStore tracks live login sessions so tokens can be revoked before expiry.
type SessionStore interface {
	Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Lookup returns the owning user id or domain.ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}
