package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/rolemanagement/usermanager/internal/core/domain"
)

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "Name is required"},
		{"   ", "Name is required"},
		{"J", "Name must be at least 2 characters"},
		{" J ", "Name must be at least 2 characters"},
		{"Jo", ""},
		{strings.Repeat("a", 100), ""},
		{strings.Repeat("a", 101), "Name must not exceed 100 characters"},
		{"  " + strings.Repeat("é", 100) + "  ", ""},
	}
	for _, tc := range cases {
		r := Name(tc.in)
		if tc.want == "" && !r.Valid {
			t.Fatalf("Name(%q): expected valid, got %q", tc.in, r.Message)
		}
		if tc.want != "" && (r.Valid || r.Message != tc.want) {
			t.Fatalf("Name(%q): expected %q, got %+v", tc.in, tc.want, r)
		}
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "jo@x.com", "  jo@x.com  ", "first.last+tag@sub.example.org"}
	for _, e := range valid {
		if r := Email(e); !r.Valid {
			t.Fatalf("Email(%q): expected valid, got %q", e, r.Message)
		}
	}

	if r := Email(" "); r.Valid || r.Message != "Email is required" {
		t.Fatalf("expected required, got %+v", r)
	}
	invalid := []string{"not-an-email", "a@b", "@b.co", "a@.co.", "a b@c.co", "a@@b.co"}
	for _, e := range invalid {
		if r := Email(e); r.Valid || r.Message != "Invalid email format" {
			t.Fatalf("Email(%q): expected invalid format, got %+v", e, r)
		}
	}
}

func TestPassword(t *testing.T) {
	if r := Password("", true); r.Valid || r.Message != "Password is required" {
		t.Fatalf("expected required, got %+v", r)
	}
	if r := Password("", false); !r.Valid {
		t.Fatalf("optional empty password should be valid, got %q", r.Message)
	}
	if r := Password("short", true); r.Valid || r.Message != "Password must be at least 8 characters" {
		t.Fatalf("expected too short, got %+v", r)
	}
	if r := Password("short", false); r.Valid || r.Message != "Password must be at least 8 characters" {
		t.Fatalf("optional rule keeps length bounds, got %+v", r)
	}
	if r := Password(strings.Repeat("x", 101), true); r.Valid || r.Message != "Password must not exceed 100 characters" {
		t.Fatalf("expected too long, got %+v", r)
	}
	if r := Password("password1", true); !r.Valid {
		t.Fatalf("expected valid, got %q", r.Message)
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"abc", "Invalid phone format. Use numbers, +, -, (, ), and spaces only"},
		{"123", "Phone must be at least 8 characters"},
		{"+62 812-3456-7890", ""},
		{"(021) 555-1234", ""},
		{"123456789012345678901", "Phone must not exceed 20 characters"},
		{"0812x3456789", "Invalid phone format. Use numbers, +, -, (, ), and spaces only"},
	}
	for _, tc := range cases {
		r := Phone(tc.in)
		if tc.want == "" && !r.Valid {
			t.Fatalf("Phone(%q): expected valid, got %q", tc.in, r.Message)
		}
		if tc.want != "" && (r.Valid || r.Message != tc.want) {
			t.Fatalf("Phone(%q): expected %q, got %+v", tc.in, tc.want, r)
		}
	}
}

func TestRole(t *testing.T) {
	for _, role := range []string{"admin", "user", "guest"} {
		if r := Role(role); !r.Valid {
			t.Fatalf("Role(%q): expected valid", role)
		}
	}
	for _, role := range []string{"", "Admin", "root", " user", "user "} {
		if r := Role(role); r.Valid || r.Message != "Invalid role selected" {
			t.Fatalf("Role(%q): expected invalid role, got %+v", role, r)
		}
	}
}

func TestImage(t *testing.T) {
	for _, ct := range ImageTypes {
		if r := Image(ct, 1024); !r.Valid {
			t.Fatalf("Image(%q): expected valid, got %q", ct, r.Message)
		}
	}
	if r := Image("image/png", MaxImageSize); !r.Valid {
		t.Fatalf("exactly 5MB should pass, got %q", r.Message)
	}
	if r := Image("image/png", MaxImageSize+1); r.Valid || r.Message != "File size too large. Maximum 5MB allowed" {
		t.Fatalf("expected too large, got %+v", r)
	}
	if r := Image("application/pdf", 10); r.Valid || r.Message != "Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed" {
		t.Fatalf("expected invalid type, got %+v", r)
	}
}

func TestValidateCreate_ReportsEveryField(t *testing.T) {
	rep := ValidateCreate(CreateFields{
		Name:     "J",
		Email:    "nope",
		Password: "short",
		Phone:    "abc",
		Role:     "root",
	})
	if rep.Valid {
		t.Fatalf("expected invalid report")
	}
	for _, field := range []string{"name", "email", "password", "phone", "role"} {
		if rep.Errors[field] == "" {
			t.Fatalf("expected error for %s, got %+v", field, rep.Errors)
		}
	}

	var ve *domain.ValidationError
	if err := rep.Err(); !errors.As(err, &ve) || len(ve.Fields) != 5 {
		t.Fatalf("expected ValidationError with 5 fields, got %v", err)
	}
}

func TestValidateCreate_DefaultRoleAndOptionalPhone(t *testing.T) {
	rep := ValidateCreate(CreateFields{Name: "Jo", Email: "jo@x.com", Password: "password1"})
	if !rep.Valid {
		t.Fatalf("expected valid, got %+v", rep.Errors)
	}
	if rep.Err() != nil {
		t.Fatalf("valid report must not produce an error")
	}
}

func TestValidateCreate_ShortPassword(t *testing.T) {
	rep := ValidateCreate(CreateFields{Name: "Jo", Email: "jo@x.com", Password: "short", Role: "user"})
	if rep.Valid || len(rep.Errors) != 1 || rep.Errors["password"] != "Password must be at least 8 characters" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestValidateUpdate_OnlySuppliedFields(t *testing.T) {
	if rep := ValidateUpdate(UpdateFields{}); !rep.Valid {
		t.Fatalf("empty update must be valid, got %+v", rep.Errors)
	}

	rep := ValidateUpdate(UpdateFields{
		Name:     domain.Some(""),
		Password: domain.Some(""),
		Phone:    domain.Some(""),
		Role:     domain.Some("guest"),
	})
	if rep.Valid || len(rep.Errors) != 1 || rep.Errors["name"] != "Name is required" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	rep = ValidateUpdate(UpdateFields{Password: domain.Some("tiny"), Role: domain.Some("")})
	if rep.Errors["password"] != "Password must be at least 8 characters" || rep.Errors["role"] != "Invalid role selected" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}
