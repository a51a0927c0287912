package handler

import (
	"time"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
	"github.com/rolemanagement/usermanager/internal/core/validation"
)

// --- Requests ---

type createUserRequest struct {
	Name     string `json:"name"     example:"Jo"`
	Email    string `json:"email"    example:"jo@example.com"`
	Password string `json:"password" example:"password1"`
	Phone    string `json:"phone"    example:"+62 812-3456-7890"`
	Role     string `json:"role"     example:"user" enums:"admin,user,guest"`
}

// updateUserRequest distinguishes absent keys from supplied ones; absent
// fields keep their stored value.
type updateUserRequest struct {
	Name     domain.Optional[string] `json:"name"     swaggertype:"string"`
	Email    domain.Optional[string] `json:"email"    swaggertype:"string"`
	Password domain.Optional[string] `json:"password" swaggertype:"string"`
	Phone    domain.Optional[string] `json:"phone"    swaggertype:"string"`
	Role     domain.Optional[string] `json:"role"     swaggertype:"string"`
	Image    domain.Optional[string] `json:"image"    swaggertype:"string"`
}

type profileRequest struct {
	Name  domain.Optional[string] `json:"name"  swaggertype:"string"`
	Phone domain.Optional[string] `json:"phone" swaggertype:"string"`
	Image domain.Optional[string] `json:"image" swaggertype:"string"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Responses ---

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userListResponse struct {
	Users []userResponse `json:"users"`
	Count int            `json:"count"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type validationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Mappers ---

func toCreateInput(r createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Role:     r.Role,
	}
}

func toUpdateInput(r updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Role:     r.Role,
		Image:    r.Image,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Image:     u.Image,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toUserListResponse(users []*domain.User) userListResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return userListResponse{Users: out, Count: len(out)}
}

func toValidationResponse(r validation.Report) validationResponse {
	errs := r.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	return validationResponse{Valid: r.Valid, Errors: errs}
}
