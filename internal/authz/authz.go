// Package authz decides who may do what to forum content. It combines
// role, ownership, ban status, and moderation scope resolved from
// moderator assignments and the category tree.
package authz

import (
	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/models"
)

// AssignmentSource lists the category ids a user is directly assigned
// to moderate.
type AssignmentSource interface {
	CategoryIDsForUser(userID uuid.UUID) ([]uuid.UUID, error)
}

// CategorySource expands a category id to itself plus its direct
// children. Expansion is one level because category nesting is capped.
type CategorySource interface {
	SelfAndDescendantIDs(id uuid.UUID) ([]uuid.UUID, error)
}

// Resolver computes moderation scope. Results are cheap to recompute and
// valid only within a single request, since assignments can change
// between requests.
type Resolver struct {
	assignments AssignmentSource
	categories  CategorySource
}

// NewResolver builds a Resolver over the given sources.
func NewResolver(assignments AssignmentSource, categories CategorySource) *Resolver {
	return &Resolver{assignments: assignments, categories: categories}
}

// ModeratedCategoryIDs returns the set of category ids the user may
// moderate: each directly assigned category plus that category's direct
// subcategories. Non-moderators get an empty set. A moderator assigned
// to a subcategory gains nothing over its parent or siblings — the
// expansion is strictly downward.
func (r *Resolver) ModeratedCategoryIDs(user *models.User) (map[uuid.UUID]bool, error) {
	ids := make(map[uuid.UUID]bool)
	if user == nil || !user.IsModerator() {
		return ids, nil
	}

	direct, err := r.assignments.CategoryIDsForUser(user.ID)
	if err != nil {
		return nil, err
	}
	for _, categoryID := range direct {
		expanded, err := r.categories.SelfAndDescendantIDs(categoryID)
		if err != nil {
			return nil, err
		}
		for _, id := range expanded {
			ids[id] = true
		}
	}
	return ids, nil
}

// CanModerate reports whether the user has moderation authority over the
// category. Admins moderate everything; moderators only their resolved
// scope.
func (r *Resolver) CanModerate(user *models.User, categoryID uuid.UUID) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}
	if !user.IsModerator() {
		return false, nil
	}
	ids, err := r.ModeratedCategoryIDs(user)
	if err != nil {
		return false, err
	}
	return ids[categoryID], nil
}

// CanModifyThread reports whether the user may edit or delete the
// thread: admins, the author, or a moderator of the thread's category.
// Authorship suffices even for banned users; a ban blocks creation only.
func (r *Resolver) CanModifyThread(user *models.User, thread *models.Thread) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin() || user.ID == thread.AuthorID {
		return true, nil
	}
	return r.CanModerate(user, thread.CategoryID)
}

// CanModifyPost reports whether the user may edit, soft-delete, or
// restore the post. categoryID is the category of the post's thread.
func (r *Resolver) CanModifyPost(user *models.User, post *models.Post, categoryID uuid.UUID) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin() || user.ID == post.AuthorID {
		return true, nil
	}
	return r.CanModerate(user, categoryID)
}

// CanLockOrMoveThread reports whether the user may lock, unlock, or move
// the thread. Ownership alone is insufficient: these are moderation
// actions gated purely on moderation scope.
func (r *Resolver) CanLockOrMoveThread(user *models.User, thread *models.Thread) (bool, error) {
	return r.CanModerate(user, thread.CategoryID)
}

// CanCreateContent reports whether the user may create threads or posts.
func CanCreateContent(user *models.User) bool {
	return user != nil && user.CanCreateContent()
}

// CanAdministerCategories reports whether the user may create, update,
// or delete categories. Restricted to admins — no ownership or
// moderation exception.
func CanAdministerCategories(user *models.User) bool {
	return user != nil && user.IsAdmin()
}
