package ports

import (
	"context"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

// UserRepository is the user store. Implementations must enforce email
// uniqueness themselves and report a violation as domain.ErrEmailExists,
// even when the service already checked it.
type UserRepository interface {
	// FindByID returns domain.ErrUserNotFound when no record has id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches the stored email exactly (case-sensitive).
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	// Update applies only the supplied changes and returns the stored record.
	Update(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// Search matches query case-insensitively against name, email or role.
	// An empty query returns every record. Results are newest first.
	Search(ctx context.Context, query string) ([]*domain.User, error)
	CountByRole(ctx context.Context) (domain.RoleStats, error)
}
