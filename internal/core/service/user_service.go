package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rolemanagement/usermanager/internal/api/metrics"
	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
	"github.com/rolemanagement/usermanager/internal/core/validation"
)

// UploadURLPrefix is the public path under which stored files are served.
const UploadURLPrefix = "/uploads/"

// UserService validates user mutations, checks existence and uniqueness
// against the store, and only then writes.
type UserService struct {
	repo     ports.UserRepository
	files    ports.FileStore
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
	hashCost int
}

// UserServiceOption customises a UserService.
type UserServiceOption func(*UserService)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) UserServiceOption {
	return func(s *UserService) { s.now = now }
}

// WithIDGenerator overrides user id generation.
func WithIDGenerator(fn func() string) UserServiceOption {
	return func(s *UserService) { s.newID = fn }
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) UserServiceOption {
	return func(s *UserService) { s.hashCost = cost }
}

func NewUserService(repo ports.UserRepository, files ports.FileStore, log zerolog.Logger, opts ...UserServiceOption) *UserService {
	s := &UserService{
		repo:     repo,
		files:    files,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates every field, rejects a duplicate email, and inserts the
// normalized record.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	const op = "create"
	defer observe(op, time.Now())

	if report := validation.ValidateCreate(in); !report.Valid {
		return nil, s.rejectInvalid(op, "", report)
	}

	email := strings.TrimSpace(in.Email)
	switch _, err := s.repo.FindByEmail(ctx, email); {
	case err == nil:
		return nil, s.rejectConflict(op, "", "precheck")
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, s.fail(op, "", "find by email", err)
	}

	hash, err := hashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, s.fail(op, "", "hash password", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           s.newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        nullable(in.Phone),
		Role:         in.EffectiveRole(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, s.rejectConflict(op, user.ID, "store")
		}
		return nil, s.fail(op, user.ID, "insert", err)
	}

	s.applied(op, user.ID)
	return user, nil
}

// Update confirms the record exists, validates only the supplied fields,
// checks the new email (if any) against other records, and applies the changes.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.update(ctx, "update", id, in)
}

func (s *UserService) update(ctx context.Context, op, id string, in ports.UpdateUserInput) (*domain.User, error) {
	defer observe(op, time.Now())

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.rejectNotFound(op, id)
		}
		return nil, s.fail(op, id, "find by id", err)
	}

	if report := validation.ValidateUpdate(in); !report.Valid {
		return nil, s.rejectInvalid(op, id, report)
	}

	changes, err := s.normalizeChanges(in)
	if err != nil {
		return nil, s.fail(op, id, "hash password", err)
	}

	if email, ok := changes.Email.Get(); ok && email != existing.Email {
		other, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != id:
			return nil, s.rejectConflict(op, id, "precheck")
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, s.fail(op, id, "find by email", err)
		}
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailExists):
			return nil, s.rejectConflict(op, id, "store")
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, s.rejectNotFound(op, id)
		}
		return nil, s.fail(op, id, "update", err)
	}

	s.applied(op, id)
	return updated, nil
}

// normalizeChanges trims supplied values, nulls out empty phone/image and
// hashes a new password. An empty password is treated as not supplied.
func (s *UserService) normalizeChanges(in ports.UpdateUserInput) (domain.UserChanges, error) {
	changes := domain.UserChanges{UpdatedAt: s.now()}
	if v, ok := in.Name.Get(); ok {
		changes.Name = domain.Some(strings.TrimSpace(v))
	}
	if v, ok := in.Email.Get(); ok {
		changes.Email = domain.Some(strings.TrimSpace(v))
	}
	if v, ok := in.Role.Get(); ok {
		changes.Role = domain.Some(v)
	}
	if v, ok := in.Phone.Get(); ok {
		changes.Phone = domain.Some(nullable(v))
	}
	if v, ok := in.Image.Get(); ok {
		changes.Image = domain.Some(nullable(v))
	}
	if v, ok := in.Password.Get(); ok && v != "" {
		hash, err := hashPassword(v, s.hashCost)
		if err != nil {
			return domain.UserChanges{}, err
		}
		changes.PasswordHash = domain.Some(hash)
	}
	return changes, nil
}

// Delete removes an existing record unconditionally.
func (s *UserService) Delete(ctx context.Context, id string) error {
	const op = "delete"
	defer observe(op, time.Now())

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return s.rejectNotFound(op, id)
		}
		return s.fail(op, id, "find by id", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return s.rejectNotFound(op, id)
		}
		return s.fail(op, id, "delete", err)
	}

	s.applied(op, id)
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storageErr("get user", err)
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	users, err := s.repo.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, storageErr("search users", err)
	}
	return users, nil
}

func (s *UserService) Stats(ctx context.Context) (domain.RoleStats, error) {
	stats, err := s.repo.CountByRole(ctx)
	if err != nil {
		return domain.RoleStats{}, storageErr("count users", err)
	}
	return stats, nil
}

// UpdateProfile lets the caller edit their own name, phone and image.
func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.User, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.update(ctx, "profile", caller.UserID, ports.UpdateUserInput{
		Name:  in.Name,
		Phone: in.Phone,
		Image: in.Image,
	})
}

// Upload validates the declared type and size, confirms the content really is
// an accepted image, and stores it.
func (s *UserService) Upload(ctx context.Context, in ports.UploadInput) (string, error) {
	file, err := s.storeImage(ctx, in)
	if err != nil {
		return "", err
	}
	return UploadURLPrefix + file.Key, nil
}

func (s *UserService) storeImage(ctx context.Context, in ports.UploadInput) (*domain.StoredFile, error) {
	if r := validation.Image(in.ContentType, in.Size); !r.Valid {
		return nil, s.rejectUpload(r.Message)
	}

	detected := mimetype.Detect(in.Data)
	if !mimetype.EqualsAny(detected.String(), validation.ImageTypes...) {
		return nil, s.rejectUpload(validation.Image(detected.String(), in.Size).Message)
	}

	file := &domain.StoredFile{
		Key:         s.newID() + detected.Extension(),
		ContentType: detected.String(),
		Size:        int64(len(in.Data)),
		Data:        in.Data,
		CreatedAt:   s.now(),
	}
	if err := s.files.Save(ctx, file); err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Str("key", file.Key).Msg("failed to store upload")
		return nil, storageErr("save file", err)
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	s.log.Info().Str("key", file.Key).Str("content_type", file.ContentType).Int64("size", file.Size).Msg("upload stored")
	return file, nil
}

// UploadAvatar stores an image and points the user's image field at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, in ports.UploadInput) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storageErr("find by id", err)
	}

	file, err := s.storeImage(ctx, in)
	if err != nil {
		return nil, err
	}

	user, err := s.update(ctx, "avatar", userID, ports.UpdateUserInput{Image: domain.Some(UploadURLPrefix + file.Key)})
	if err != nil {
		// The record never pointed at this blob, so drop it.
		if derr := s.files.Delete(ctx, file.Key); derr != nil {
			s.log.Error().Err(derr).Str("key", file.Key).Str("user_id", userID).Msg("failed to remove orphaned avatar")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) OpenFile(ctx context.Context, key string) (*domain.StoredFile, error) {
	file, err := s.files.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil, err
		}
		return nil, storageErr("get file", err)
	}
	return file, nil
}

// EnsureAdmin creates an admin record for email unless one already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("user_id", existing.ID).Str("role", existing.Role).Msg("bootstrap admin email is held by a non-admin record")
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storageErr("find by email", err)
	}
	return s.Create(ctx, ports.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
}

// --- outcome helpers ---------------------------------------------------------

func (s *UserService) applied(op, id string) {
	metrics.UserMutationsTotal.WithLabelValues(op, metrics.OutcomeApplied).Inc()
	s.log.Info().Str("operation", op).Str("user_id", id).Str("outcome", metrics.OutcomeApplied).Msg("user mutation applied")
}

func (s *UserService) rejectInvalid(op, id string, report validation.Report) error {
	for field := range report.Errors {
		metrics.ValidationFailuresTotal.WithLabelValues(field).Inc()
	}
	s.rejected(op, id, "validation")
	return report.Err()
}

func (s *UserService) rejectConflict(op, id, stage string) error {
	metrics.EmailConflictsTotal.WithLabelValues(stage).Inc()
	s.rejected(op, id, "email_exists")
	return domain.ErrEmailExists
}

func (s *UserService) rejectNotFound(op, id string) error {
	s.rejected(op, id, "not_found")
	return domain.ErrUserNotFound
}

func (s *UserService) rejectUpload(msg string) error {
	metrics.UploadsTotal.WithLabelValues("rejected").Inc()
	metrics.ValidationFailuresTotal.WithLabelValues("image").Inc()
	return domain.NewValidationError(map[string]string{"image": msg})
}

func (s *UserService) rejected(op, id, reason string) {
	metrics.UserMutationsTotal.WithLabelValues(op, metrics.OutcomeRejected).Inc()
	s.log.Info().Str("operation", op).Str("user_id", id).Str("outcome", metrics.OutcomeRejected).Str("reason", reason).Msg("user mutation rejected")
}

func (s *UserService) fail(op, id, step string, err error) error {
	metrics.UserMutationsTotal.WithLabelValues(op, metrics.OutcomeFailed).Inc()
	s.log.Error().Err(err).Str("operation", op).Str("user_id", id).Str("step", step).Msg("user mutation failed")
	return storageErr(op+": "+step, err)
}

func observe(op string, start time.Time) {
	metrics.MutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// storageErr tags an unexpected store failure as domain.ErrStorageUnavailable.
func storageErr(op string, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// nullable trims v and maps an empty result to nil.
func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
