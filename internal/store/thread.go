package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/models"
)

// ThreadStore manages discussion threads.
type ThreadStore struct {
	db *sql.DB
}

// NewThreadStore returns a new ThreadStore.
func NewThreadStore(db *sql.DB) *ThreadStore {
	return &ThreadStore{db: db}
}

const threadColumns = `id, title, content, category_id, author_id, is_locked, created_at, updated_at, edited_at`

func scanThread(scanner interface{ Scan(...any) error }) (*models.Thread, error) {
	t := &models.Thread{}
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Content, &t.CategoryID, &t.AuthorID,
		&t.IsLocked, &t.CreatedAt, &t.UpdatedAt, &t.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

// ListByCategory returns a category's threads ordered by last activity,
// newest first, with authors attached.
func (s *ThreadStore) ListByCategory(categoryID uuid.UUID) ([]models.Thread, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.title, t.content, t.category_id, t.author_id, t.is_locked,
		       t.created_at, t.updated_at, t.edited_at, u.email, u.role, u.banned_at
		FROM threads t
		JOIN users u ON u.id = t.author_id
		WHERE t.category_id = $1
		ORDER BY t.updated_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		var t models.Thread
		author := &models.User{}
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Content, &t.CategoryID, &t.AuthorID,
			&t.IsLocked, &t.CreatedAt, &t.UpdatedAt, &t.EditedAt,
			&author.Email, &author.Role, &author.BannedAt,
		); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		author.ID = t.AuthorID
		t.Author = author
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// FindByID retrieves a thread. Returns a not-found error if absent.
func (s *ThreadStore) FindByID(id uuid.UUID) (*models.Thread, error) {
	row := s.db.QueryRow(`SELECT `+threadColumns+` FROM threads WHERE id = $1`, id)
	t, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("thread")
	}
	if err != nil {
		return nil, fmt.Errorf("find thread by id: %w", err)
	}
	return t, nil
}

// Create inserts a thread into a category. The edited marker starts
// unset; only later content changes set it.
func (s *ThreadStore) Create(categoryID, authorID uuid.UUID, title, content string) (*models.Thread, error) {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check category exists: %w", err)
	}
	if !exists {
		return nil, errs.NotFound("category")
	}

	row := s.db.QueryRow(`
		INSERT INTO threads (title, content, category_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+threadColumns,
		title, content, categoryID, authorID,
	)
	t, err := scanThread(row)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return t, nil
}

// Update changes a thread's title and content. The edited marker is set
// only when one of them actually changed; identical values leave it
// alone. updated_at is deliberately not touched: it orders listings by
// last activity, and an edit is not activity.
func (s *ThreadStore) Update(id uuid.UUID, title, content string) (*models.Thread, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	editedAt := current.EditedAt
	if current.Title != title || current.Content != content {
		editedAt = nowPtr()
	}

	row := s.db.QueryRow(`
		UPDATE threads SET title = $1, content = $2, edited_at = $3
		WHERE id = $4
		RETURNING `+threadColumns,
		title, content, editedAt, id,
	)
	t, err := scanThread(row)
	if err != nil {
		return nil, fmt.Errorf("update thread: %w", err)
	}
	return t, nil
}

// Delete hard-deletes a thread; its posts go with it through the FK
// cascade.
func (s *ThreadStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("thread")
	}
	return nil
}

// SetLocked toggles the thread lock. Not a content edit: the edited
// marker and the activity timestamp stay put.
func (s *ThreadStore) SetLocked(id uuid.UUID, locked bool) (*models.Thread, error) {
	row := s.db.QueryRow(`
		UPDATE threads SET is_locked = $1 WHERE id = $2
		RETURNING `+threadColumns,
		locked, id,
	)
	t, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("thread")
	}
	if err != nil {
		return nil, fmt.Errorf("set thread locked: %w", err)
	}
	return t, nil
}

// Move reassigns the thread to another category. Like locking, this is
// an administrative change, not a content edit.
func (s *ThreadStore) Move(id, categoryID uuid.UUID) (*models.Thread, error) {
	row := s.db.QueryRow(`
		UPDATE threads SET category_id = $1 WHERE id = $2
		RETURNING `+threadColumns,
		categoryID, id,
	)
	t, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("thread")
	}
	if err != nil {
		return nil, fmt.Errorf("move thread: %w", err)
	}
	return t, nil
}
