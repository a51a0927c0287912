// Package validation holds the field rules for user records. Every check is a
// pure function of its input; the HTTP layer, the dry-run endpoint and the
// user service all call into this package so the rules cannot drift apart.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

const (
	NameMinLen     = 2
	NameMaxLen     = 100
	PasswordMinLen = 8
	PasswordMaxLen = 100
	PhoneMinLen    = 8
	PhoneMaxLen    = 20

	// MaxImageSize is the largest accepted avatar upload (5 MB).
	MaxImageSize int64 = 5 * 1024 * 1024
)

// ImageTypes are the accepted avatar MIME types.
var ImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

	engine = newEngine()
)

func newEngine() *validator.Validate {
	v := validator.New()
	mustRegister(v, "useremail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "userphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Result is the outcome of a single field check.
type Result struct {
	Valid   bool
	Message string
}

var ok = Result{Valid: true}

func invalid(msg string) Result {
	return Result{Message: msg}
}

// check runs tags against value and maps the first failing tag to its message.
func check(value any, tags string, messages map[string]string) Result {
	err := engine.Var(value, tags)
	if err == nil {
		return ok
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		if msg, found := messages[ve[0].Tag()]; found {
			return invalid(msg)
		}
	}
	return invalid("Invalid value")
}

// Name requires 2..100 characters after trimming.
func Name(name string) Result {
	return check(strings.TrimSpace(name), "required,min=2,max=100", map[string]string{
		"required": "Name is required",
		"min":      fmt.Sprintf("Name must be at least %d characters", NameMinLen),
		"max":      fmt.Sprintf("Name must not exceed %d characters", NameMaxLen),
	})
}

// Email requires a local@domain.tld shape after trimming.
func Email(email string) Result {
	return check(strings.TrimSpace(email), "required,useremail", map[string]string{
		"required":  "Email is required",
		"useremail": "Invalid email format",
	})
}

// Password checks length bounds; absence is an error only when required.
func Password(password string, required bool) Result {
	if password == "" && !required {
		return ok
	}
	tags := "min=8,max=100"
	if required {
		tags = "required," + tags
	}
	return check(password, tags, map[string]string{
		"required": "Password is required",
		"min":      fmt.Sprintf("Password must be at least %d characters", PasswordMinLen),
		"max":      fmt.Sprintf("Password must not exceed %d characters", PasswordMaxLen),
	})
}

// Phone is optional; when present it must be 8..20 digits, spaces, +, -, ( or ).
func Phone(phone string) Result {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return ok
	}
	return check(trimmed, "userphone,min=8,max=20", map[string]string{
		"userphone": "Invalid phone format. Use numbers, +, -, (, ), and spaces only",
		"min":       fmt.Sprintf("Phone must be at least %d characters", PhoneMinLen),
		"max":       fmt.Sprintf("Phone must not exceed %d characters", PhoneMaxLen),
	})
}

// Role accepts exactly admin, user or guest.
func Role(role string) Result {
	return check(role, "oneof="+strings.Join(domain.Roles, " "), map[string]string{
		"oneof": "Invalid role selected",
	})
}

// Image checks an upload's declared MIME type and size in bytes.
func Image(contentType string, size int64) Result {
	if r := check(contentType, "oneof="+strings.Join(ImageTypes, " "), map[string]string{
		"oneof": "Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed",
	}); !r.Valid {
		return r
	}
	return check(size, fmt.Sprintf("min=0,max=%d", MaxImageSize), map[string]string{
		"max": "File size too large. Maximum 5MB allowed",
		"min": "Invalid file size",
	})
}
