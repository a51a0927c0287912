package ports

import (
	"context"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/validation"
)

// CreateUserInput carries the fields of a create request.
type CreateUserInput = validation.CreateFields

// UpdateUserInput carries the supplied fields of an update request.
type UpdateUserInput = validation.UpdateFields

// ProfileInput is the self-service subset of UpdateUserInput.
type ProfileInput struct {
	Name  domain.Optional[string] `json:"name"`
	Phone domain.Optional[string] `json:"phone"`
	Image domain.Optional[string] `json:"image"`
}

// UploadInput is an uploaded file as received from the client.
type UploadInput struct {
	Filename    string
	ContentType string // declared by the client
	Size        int64
	Data        []byte
}

// UserService is the record mutation service plus its read-side queries.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.User, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Stats(ctx context.Context) (domain.RoleStats, error)

	UpdateProfile(ctx context.Context, caller domain.Identity, input ProfileInput) (*domain.User, error)

	// Upload validates and stores an image, returning its public URL.
	Upload(ctx context.Context, input UploadInput) (string, error)
	// UploadAvatar stores an image and assigns it to the user's record.
	UploadAvatar(ctx context.Context, userID string, input UploadInput) (*domain.User, error)
	OpenFile(ctx context.Context, key string) (*domain.StoredFile, error)
}
