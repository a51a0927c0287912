package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
)

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Name != "Jo" || in.Email != "jo@x.io" || in.Password != "password1" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleUser("u1"), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/v1/users", `{"name":"Jo","email":"jo@x.io","password":"password1"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["phone"] != nil || resp["image"] != nil {
		t.Fatalf("expected null phone and image, got %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked in response")
	}
}

func TestUserHandler_Create_PassesServiceErrors(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailExists
		},
	}
	h := NewUserHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/v1/users", `{"name":"Jo","email":"jo@x.io","password":"password1"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserHandler_Create_InvalidPayload(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newJSONContext(http.MethodPost, "/v1/users", `{"name":`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Update_OnlySuppliedFields(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			if v, ok := in.Role.Get(); !ok || v != "guest" {
				t.Fatalf("expected role supplied as guest, got %q %v", v, ok)
			}
			if v, ok := in.Phone.Get(); !ok || v != "" {
				t.Fatalf("expected null phone to be supplied as empty, got %q %v", v, ok)
			}
			if in.Name.IsSet() || in.Email.IsSet() || in.Password.IsSet() || in.Image.IsSet() {
				t.Fatalf("absent keys must not be supplied: %+v", in)
			}
			u := sampleUser(id)
			u.Role = domain.RoleGuest
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodPut, "/v1/users/u1", `{"role":"guest","phone":null}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrUserNotFound
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodDelete, "/v1/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newJSONContext(http.MethodDelete, "/v1/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		searchFn: func(ctx context.Context, query string) ([]*domain.User, error) {
			if query != "jo" {
				t.Fatalf("unexpected query: %q", query)
			}
			return []*domain.User{sampleUser("u1"), sampleUser("u2")}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/v1/users?search=jo", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp userListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 2 || len(resp.Users) != 2 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Stats(t *testing.T) {
	stub := &stubUserService{
		statsFn: func(ctx context.Context) (domain.RoleStats, error) {
			return domain.RoleStats{Total: 3, Admins: 1, Users: 1, Guests: 1}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/v1/users/stats", "")
	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total_users"] != 3 || resp["admin_users"] != 1 || resp["regular_users"] != 1 || resp["guest_users"] != 1 {
		t.Fatalf("unexpected stats: %+v", resp)
	}
}
