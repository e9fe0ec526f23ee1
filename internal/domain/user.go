package domain

import "time"

// Role distinguishes complaint submitters from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// KnownRole reports whether the role is one the system recognizes.
func KnownRole(r Role) bool {
	return r == RoleStudent || r == RoleAdmin
}

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may perform administrative operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
