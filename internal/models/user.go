// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the forum.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a forum account. Moderator assignments live in the
// moderators table; the Role field is kept in sync with them (promoted
// on first assignment, assignments purged on demotion).
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	Role         Role       `json:"role"`
	TOTPSecret   *string    `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool       `json:"totp_enabled"`
	ResetSentAt  *time.Time `json:"-"`
	BannedAt     *time.Time `json:"banned_at,omitempty"`
	BanReason    *string    `json:"ban_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"-"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator returns true if the user has the moderator role. Admins are
// not implicitly moderators; they bypass moderation scope checks entirely.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// Banned returns true if the user is currently banned.
func (u *User) Banned() bool {
	return u.BannedAt != nil
}

// CanCreateContent reports whether the user may create new threads or
// posts. A ban blocks creation only: banned users can still read, and
// they keep edit/delete rights over their own existing content.
func (u *User) CanCreateContent() bool {
	return !u.Banned()
}
