package ports

import (
	"context"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

// FileStore persists uploaded blobs by key.
type FileStore interface {
	Save(ctx context.Context, file *domain.StoredFile) error
	// Get returns domain.ErrFileNotFound for unknown keys.
	Get(ctx context.Context, key string) (*domain.StoredFile, error)
	Delete(ctx context.Context, key string) error
}
