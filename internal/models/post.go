package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxReplyDepth is the deepest allowed reply: root posts are depth 0,
// and replies may nest down to depth 3. Creation beyond the cap fails.
const MaxReplyDepth = 3

// DeletedPlaceholder replaces the content of soft-deleted posts at read
// time. The stored content is retained but never exposed while deleted.
const DeletedPlaceholder = "[deleted]"

// Post represents a reply within a thread. Posts form a tree via ParentID;
// Depth is computed at creation and immutable afterwards. Soft deletion
// (DeletedAt) hides the content but keeps the row and its tree position,
// so children stay attached.
type Post struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"-"`
	ThreadID  uuid.UUID  `json:"thread_id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Depth     int        `json:"depth"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"-"`
	EditedAt  *time.Time `json:"edited_at"`

	// Virtual field populated by store methods.
	Author *User `json:"author,omitempty"`
}

// Deleted returns true if the post has been soft-deleted.
func (p *Post) Deleted() bool {
	return p.DeletedAt != nil
}

// VisibleContent returns the post content, or a fixed placeholder when
// the post is soft-deleted. This is a read-time transform; the stored
// content is untouched by soft deletion.
func (p *Post) VisibleContent() string {
	if p.Deleted() {
		return DeletedPlaceholder
	}
	return p.Content
}

// ReplyDepth computes the depth a reply to parent would have. A nil
// parent means a root post at depth 0.
func ReplyDepth(parent *Post) int {
	if parent == nil {
		return 0
	}
	return parent.Depth + 1
}
