package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCategoryNesting is the deepest allowed category level: top-level
// categories (level 0) and their direct subcategories (level 1).
const MaxCategoryNesting = 1

// Category represents a forum category. Nesting is bounded to one level:
// a category may have a parent, but that parent must itself be top-level.
type Category struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"-"`
	EditedAt         *time.Time `json:"edited_at"`

	// Virtual fields populated by store methods.
	Subcategories []Category  `json:"subcategories,omitempty"`
	Moderators    []Moderator `json:"moderators,omitempty"`
}

// Subcategory returns true if the category has a parent.
func (c *Category) Subcategory() bool {
	return c.ParentCategoryID != nil
}

// NestingLevel returns 0 for top-level categories and 1 for subcategories.
func (c *Category) NestingLevel() int {
	if c.Subcategory() {
		return 1
	}
	return 0
}
