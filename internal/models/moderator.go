package models

import (
	"time"

	"github.com/google/uuid"
)

// Moderator assigns one user as moderator of one category. The
// (user, category) pair is unique. Assignment scope expands downward to
// the category's direct subcategories, never upward to its parent.
type Moderator struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Virtual field populated by store methods.
	User *User `json:"user,omitempty"`
}
