package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user profile authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	PhoneNo   *string   `json:"phone_no"`
	Location  *string   `json:"location"`
	Role      string    `json:"role"` // user, admin
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known role strings.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
