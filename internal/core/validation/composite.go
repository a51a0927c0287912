package validation

import "github.com/rolemanagement/usermanager/internal/core/domain"

// Report aggregates every failing field. It never stops at the first failure.
type Report struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Err converts a failing report into a *domain.ValidationError.
func (r Report) Err() error {
	if r.Valid {
		return nil
	}
	return domain.NewValidationError(r.Errors)
}

type collector map[string]string

func (c collector) add(field string, r Result) {
	if !r.Valid {
		c[field] = r.Message
	}
}

func (c collector) report() Report {
	return Report{Valid: len(c) == 0, Errors: map[string]string(c)}
}

// CreateFields is the input of a create request. An empty Role means the default role.
type CreateFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// UpdateFields is the input of an update request; only supplied fields are checked.
type UpdateFields struct {
	Name     domain.Optional[string] `json:"name"`
	Email    domain.Optional[string] `json:"email"`
	Password domain.Optional[string] `json:"password"`
	Phone    domain.Optional[string] `json:"phone"`
	Role     domain.Optional[string] `json:"role"`
	Image    domain.Optional[string] `json:"image"`
}

// EffectiveRole returns the role a create request resolves to.
func (f CreateFields) EffectiveRole() string {
	if f.Role == "" {
		return domain.RoleUser
	}
	return f.Role
}

// ValidateCreate checks name, email, required password, optional phone and role.
func ValidateCreate(f CreateFields) Report {
	c := collector{}
	c.add("name", Name(f.Name))
	c.add("email", Email(f.Email))
	c.add("password", Password(f.Password, true))
	c.add("phone", Phone(f.Phone))
	c.add("role", Role(f.EffectiveRole()))
	return c.report()
}

// ValidateUpdate checks only the supplied fields. An empty password means
// "keep the current one" and is not an error.
func ValidateUpdate(f UpdateFields) Report {
	c := collector{}
	if v, set := f.Name.Get(); set {
		c.add("name", Name(v))
	}
	if v, set := f.Email.Get(); set {
		c.add("email", Email(v))
	}
	if v, set := f.Password.Get(); set && v != "" {
		c.add("password", Password(v, false))
	}
	if v, set := f.Phone.Get(); set {
		c.add("phone", Phone(v))
	}
	if v, set := f.Role.Get(); set {
		c.add("role", Role(v))
	}
	return c.report()
}
