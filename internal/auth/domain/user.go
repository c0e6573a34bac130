package domain

import (
	"time"

	"github.com/brianwits/cowsaltpro/pkg/cryptox"
)

// User is an identity record. Username is the unique lookup key and is
// immutable after creation; renames are not supported.
type User struct {
	ID                string
	Username          string
	FullName          string
	Email             string
	Role              Role
	CustomPermissions []Permission

	Credential cryptox.Credential // salt + derived key, never the plaintext

	// At most one active session per user. A new login replaces the previous
	// fingerprint, logging the old session out.
	SessionTokenHash string
	SessionExpiresAt *time.Time

	RequirePasswordChange bool
	PasswordChangedAt     *time.Time

	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// HasPermission reports whether the user may perform the named action:
// role defaults plus custom grants. Admin short-circuits to true.
func (u User) HasPermission(p Permission) bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.Role.grants(p) {
		return true
	}
	for _, granted := range u.CustomPermissions {
		if granted == p {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Redacted returns a copy with the password credential and session state
// stripped. Every record leaving the service layer goes through this.
func (u User) Redacted() User {
	u.Credential = cryptox.Credential{}
	u.SessionTokenHash = ""
	u.SessionExpiresAt = nil
	return u
}

// NewUser carries the fields needed to create a user record.
type NewUser struct {
	Username string
	Password string
	FullName string
	Email    string
	Role     Role
}

// ProfilePatch updates mutable descriptive fields. Nil fields are left
// untouched. Role changes require the acting user to be an admin.
type ProfilePatch struct {
	FullName *string
	Email    *string
	Role     *Role
}
