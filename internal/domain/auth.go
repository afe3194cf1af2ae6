package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RolePartner   Role = "partner"
	RoleInterview Role = "interview"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePartner, RoleInterview:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PasswordResetToken is the stored half of a reset link. Selector is the
// non-secret lookup key embedded in the raw token; TokenHash is the bcrypt
// hash of the full raw token.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Selector  string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Identity is what a verified access token asserts about its bearer.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
