package models

import (
	"time"

	"github.com/google/uuid"
)

// Thread represents a discussion thread within a category.
//
// UpdatedAt doubles as the last-activity timestamp used for listing
// order: it is bumped when a post is created in the thread, and left
// alone on content edits so that edits never reorder listings. EditedAt
// is the separate "(edited)" marker set only on semantic changes to
// title or content.
type Thread struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CategoryID uuid.UUID  `json:"category_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	IsLocked   bool       `json:"is_locked"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	EditedAt   *time.Time `json:"edited_at"`

	// Virtual field populated by store methods.
	Author *User `json:"author,omitempty"`
}
