// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the catalog. Authentication is passwordless:
// sign-in completes with a one-time confirmation code delivered by email, so
// there is no password hash. CodeSecret and CodeCounter back the
// confirmation-code scheme; bumping the counter invalidates every previously
// issued code for this user.
type User struct {
	ID          uuid.UUID `json:"-"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Role        Role      `json:"role"`
	IsStaff     bool      `json:"-"`
	IsSuperuser bool      `json:"-"`
	CodeSecret  string    `json:"-"` // Never serialize the HOTP secret
	CodeCounter int64     `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// IsAdmin returns true if the user carries any admin-equivalent signal:
// the admin role, the staff flag, or the superuser flag.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsStaff || u.IsSuperuser
}

// IsModerator returns true if the user has the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
