package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
)

type stubUserService struct {
	createFn        func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn        func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn        func(ctx context.Context, id string) error
	getFn           func(ctx context.Context, id string) (*domain.User, error)
	searchFn        func(ctx context.Context, query string) ([]*domain.User, error)
	statsFn         func(ctx context.Context) (domain.RoleStats, error)
	updateProfileFn func(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.User, error)
	uploadFn        func(ctx context.Context, in ports.UploadInput) (string, error)
	uploadAvatarFn  func(ctx context.Context, userID string, in ports.UploadInput) (*domain.User, error)
	openFileFn      func(ctx context.Context, key string) (*domain.StoredFile, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	return s.searchFn(ctx, query)
}

func (s *stubUserService) Stats(ctx context.Context) (domain.RoleStats, error) {
	return s.statsFn(ctx)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, caller, in)
}

func (s *stubUserService) Upload(ctx context.Context, in ports.UploadInput) (string, error) {
	return s.uploadFn(ctx, in)
}

func (s *stubUserService) UploadAvatar(ctx context.Context, userID string, in ports.UploadInput) (*domain.User, error) {
	return s.uploadAvatarFn(ctx, userID, in)
}

func (s *stubUserService) OpenFile(ctx context.Context, key string) (*domain.StoredFile, error) {
	return s.openFileFn(ctx, key)
}

type stubAuthService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn        func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn       func(ctx context.Context, token string) error
	authenticateFn func(ctx context.Context, token string) (domain.Identity, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	return s.authenticateFn(ctx, token)
}

func sampleUser(id string) *domain.User {
	return &domain.User{ID: id, Name: "Jo", Email: "jo@x.io", Role: domain.RoleUser, PasswordHash: "secret-hash"}
}

// newJSONContext builds an echo context for a JSON request.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
