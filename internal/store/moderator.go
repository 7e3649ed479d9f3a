package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/models"
)

// ModeratorStore manages moderator assignments. Creating an assignment
// for a plain user promotes them to moderator as an explicit step inside
// the same transaction; removing one never demotes (demotion is an
// explicit role change, which purges assignments).
type ModeratorStore struct {
	db *sql.DB
}

// NewModeratorStore returns a new ModeratorStore.
func NewModeratorStore(db *sql.DB) *ModeratorStore {
	return &ModeratorStore{db: db}
}

// Create assigns a user as moderator of a category. The (user, category)
// pair is unique; a duplicate surfaces as a validation error. Admins can
// hold assignments too, but only plain users get their role promoted.
func (s *ModeratorStore) Create(userID, categoryID uuid.UUID) (*models.Moderator, error) {
	user, err := NewUserStore(s.db).FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("user")
	}
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check category exists: %w", err)
	}
	if !exists {
		return nil, errs.NotFound("category")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create moderator begin: %w", err)
	}
	defer tx.Rollback()

	m := &models.Moderator{}
	err = tx.QueryRow(`
		INSERT INTO moderators (user_id, category_id)
		VALUES ($1, $2)
		RETURNING id, user_id, category_id, created_at
	`, userID, categoryID).Scan(&m.ID, &m.UserID, &m.CategoryID, &m.CreatedAt)
	if uniqueViolation(err) {
		return nil, errs.Validation("user is already a moderator for this category")
	}
	if err != nil {
		return nil, fmt.Errorf("create moderator: %w", err)
	}

	// Promotion is an explicit second step of the same transaction, not
	// a hidden trigger.
	if user.Role == models.RoleUser {
		if _, err := tx.Exec(`UPDATE users SET role = $1 WHERE id = $2`, models.RoleModerator, userID); err != nil {
			return nil, fmt.Errorf("promote user to moderator: %w", err)
		}
		user.Role = models.RoleModerator
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create moderator commit: %w", err)
	}
	m.User = user
	return m, nil
}

// Delete removes a single assignment. The user keeps the moderator role
// even when this was their last category.
func (s *ModeratorStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM moderators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete moderator: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("moderator assignment")
	}
	return nil
}

// CategoryIDsForUser lists the category ids the user is directly
// assigned to. Scope expansion to subcategories happens in authz.
func (s *ModeratorStore) CategoryIDsForUser(userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`SELECT category_id FROM moderators WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("moderated categories: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
