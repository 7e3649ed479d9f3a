package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/models"
)

// CategoryStore manages categories in the database. It owns the
// hierarchy invariants: no self-parenting, nesting bounded to one level,
// and atomic cascading deletes.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, parent_category_id, created_at, updated_at, edited_at`

func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	c := &models.Category{}
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.ParentCategoryID,
		&c.CreatedAt, &c.UpdatedAt, &c.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns top-level categories newest first, each with its
// subcategories (also newest first) and moderator assignments attached.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var flat []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		flat = append(flat, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	moderators, err := s.moderatorsByCategory()
	if err != nil {
		return nil, err
	}

	var top []models.Category
	for _, c := range flat {
		if c.ParentCategoryID != nil {
			continue
		}
		c.Moderators = moderators[c.ID]
		for _, sub := range flat {
			if sub.ParentCategoryID != nil && *sub.ParentCategoryID == c.ID {
				sub.Moderators = moderators[sub.ID]
				c.Subcategories = append(c.Subcategories, sub)
			}
		}
		top = append(top, c)
	}
	return top, nil
}

// FindByID retrieves a category with its moderators. Returns a not-found
// error if absent.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	moderators, err := s.moderatorsByCategory()
	if err != nil {
		return nil, err
	}
	c.Moderators = moderators[c.ID]
	return c, nil
}

// SelfAndDescendantIDs returns the category's id plus the ids of its
// direct subcategories. One level of expansion is all there is, since
// nesting is capped at depth one.
func (s *CategoryStore) SelfAndDescendantIDs(id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`SELECT id FROM categories WHERE parent_category_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("category descendants: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{id}
	for rows.Next() {
		var child uuid.UUID
		if err := rows.Scan(&child); err != nil {
			return nil, fmt.Errorf("scan descendant id: %w", err)
		}
		ids = append(ids, child)
	}
	return ids, rows.Err()
}

// Create inserts a new category. A blank parent id must already be
// normalized to nil by the caller. The parent, when given, must exist
// and must itself be top-level: nesting beyond one level is always
// rejected, on create and update alike.
func (s *CategoryStore) Create(name, description string, parentID *uuid.UUID) (*models.Category, error) {
	if msgs := validateCategoryFields(name, description); len(msgs) > 0 {
		return nil, errs.Validation(msgs...)
	}
	if err := s.checkParent(parentID, nil); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, description, parent_category_id)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		strings.TrimSpace(name), description, parentID,
	)
	c, err := scanCategory(row)
	if uniqueViolation(err) {
		return nil, errs.Validation("name has already been taken")
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update modifies a category. The edited marker is set only when name or
// description actually change; re-parenting alone is an administrative
// change and leaves it untouched. Neither created_at nor updated_at is
// touched, so creation-ordered listings are stable across edits.
func (s *CategoryStore) Update(id uuid.UUID, name, description string, parentID *uuid.UUID) (*models.Category, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if msgs := validateCategoryFields(name, description); len(msgs) > 0 {
		return nil, errs.Validation(msgs...)
	}
	if parentID != nil && *parentID == id {
		return nil, errs.Validation("parent category cannot be self-referential")
	}
	if err := s.checkParent(parentID, &id); err != nil {
		return nil, err
	}
	if parentID != nil {
		var hasChildren bool
		if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_category_id = $1)`, id).Scan(&hasChildren); err != nil {
			return nil, fmt.Errorf("check category children: %w", err)
		}
		if hasChildren {
			return nil, errs.Validation("categories can only be nested one level deep; this category has subcategories of its own")
		}
	}

	name = strings.TrimSpace(name)
	editedAt := current.EditedAt
	if current.Name != name || current.Description != description {
		editedAt = nowPtr()
	}

	row := s.db.QueryRow(`
		UPDATE categories
		SET name = $1, description = $2, parent_category_id = $3, edited_at = $4
		WHERE id = $5
		RETURNING `+categoryColumns,
		name, description, parentID, editedAt, id,
	)
	c, err := scanCategory(row)
	if uniqueViolation(err) {
		return nil, errs.Validation("name has already been taken")
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// deleteCategorySteps performs the cascading delete against tx. Posts go
// with their threads through the thread FK cascade. Split out so the
// step sequencing and error wrapping can be exercised without a live
// database.
func deleteCategorySteps(tx execer, id uuid.UUID) error {
	steps := []struct {
		name  string
		query string
	}{
		{"detach moderators", `DELETE FROM moderators WHERE category_id = $1`},
		{"reparent subcategories", `UPDATE categories SET parent_category_id = NULL WHERE parent_category_id = $1`},
		{"delete threads", `DELETE FROM threads WHERE category_id = $1`},
		{"delete category", `DELETE FROM categories WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(step.query, id); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// execer is the slice of *sql.Tx the cascade steps need.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Delete removes a category and everything scoped under it in one
// atomic unit: moderator assignments are detached, subcategories become
// top-level, threads (and their posts) are destroyed, then the category
// row itself. Any failure rolls the whole transaction back and surfaces
// as a deletion error whose cause stays out of API responses.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check category exists: %w", err)
	}
	if !exists {
		return errs.NotFound("category")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &errs.DeletionError{Entity: "category", Cause: err}
	}
	defer tx.Rollback()

	if err := deleteCategorySteps(tx, id); err != nil {
		return &errs.DeletionError{Entity: "category", Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &errs.DeletionError{Entity: "category", Cause: err}
	}
	return nil
}

// checkParent validates a prospective parent: it must exist and must not
// itself be a subcategory. selfID guards against self-parenting on update.
func (s *CategoryStore) checkParent(parentID, selfID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if selfID != nil && *parentID == *selfID {
		return errs.Validation("parent category cannot be self-referential")
	}

	var grandparent *uuid.UUID
	err := s.db.QueryRow(`SELECT parent_category_id FROM categories WHERE id = $1`, *parentID).Scan(&grandparent)
	if err == sql.ErrNoRows {
		return errs.Validation("parent category does not exist")
	}
	if err != nil {
		return fmt.Errorf("check parent category: %w", err)
	}
	if grandparent != nil {
		return errs.Validation("categories can only be nested one level deep; the selected parent is already a subcategory")
	}
	return nil
}

// moderatorsByCategory loads every moderator assignment with its user,
// grouped by category.
func (s *CategoryStore) moderatorsByCategory() (map[uuid.UUID][]models.Moderator, error) {
	rows, err := s.db.Query(`
		SELECT m.id, m.user_id, m.category_id, m.created_at, u.email, u.role
		FROM moderators m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list moderators: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]models.Moderator)
	for rows.Next() {
		var m models.Moderator
		var email string
		var role models.Role
		if err := rows.Scan(&m.ID, &m.UserID, &m.CategoryID, &m.CreatedAt, &email, &role); err != nil {
			return nil, fmt.Errorf("scan moderator: %w", err)
		}
		m.User = &models.User{ID: m.UserID, Email: email, Role: role}
		result[m.CategoryID] = append(result[m.CategoryID], m)
	}
	return result, rows.Err()
}

func validateCategoryFields(name, description string) []string {
	var msgs []string
	if strings.TrimSpace(name) == "" {
		msgs = append(msgs, "name can't be blank")
	}
	if strings.TrimSpace(description) == "" {
		msgs = append(msgs, "description can't be blank")
	}
	return msgs
}
