package models

import "time"

// UserRole is the console-local permission level of an operator account.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// ValidRole reports whether the given role is one the console accepts.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is an operator account managed through the console. Authentication
// is handled by an external collaborator; the console only stores the
// management records.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
