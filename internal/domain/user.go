package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants moderation and user-management access.
	RoleAdmin Role = "admin"
	// RoleUser grants standard access.
	RoleUser Role = "user"
)

// ValidRole reports whether r is a recognized role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents an account upserted at login from the identity provider.
type User struct {
	ID           string     `json:"id"`
	UID          string     `json:"uid"` // identity-provider subject, immutable
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PhotoURL     string     `json:"photoURL"`
	Role         Role       `json:"role"`
	PremiumTaken *time.Time `json:"premiumTaken"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
