package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// Roles lists every role a record may hold.
var Roles = []string{RoleAdmin, RoleUser, RoleGuest}

// User is the persisted user record.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone"`
	Role         string    `json:"role"`
	Image        *string   `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserChanges is a normalized partial update. Unset fields keep their stored value.
type UserChanges struct {
	Name         Optional[string]
	Email        Optional[string]
	PasswordHash Optional[string]
	Role         Optional[string]
	Phone        Optional[*string]
	Image        Optional[*string]
	UpdatedAt    time.Time
}

// Apply returns a copy of u with the changes applied.
func (c UserChanges) Apply(u User) User {
	if v, ok := c.Name.Get(); ok {
		u.Name = v
	}
	if v, ok := c.Email.Get(); ok {
		u.Email = v
	}
	if v, ok := c.PasswordHash.Get(); ok {
		u.PasswordHash = v
	}
	if v, ok := c.Role.Get(); ok {
		u.Role = v
	}
	if v, ok := c.Phone.Get(); ok {
		u.Phone = v
	}
	if v, ok := c.Image.Get(); ok {
		u.Image = v
	}
	u.UpdatedAt = c.UpdatedAt
	return u
}

// RoleStats holds per-role record counts.
type RoleStats struct {
	Total  int64 `json:"total_users"`
	Admins int64 `json:"admin_users"`
	Users  int64 `json:"regular_users"`
	Guests int64 `json:"guest_users"`
}

// Identity is the authenticated caller as resolved by the auth provider.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
