package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/models"
)

// PostStore manages the reply tree of each thread. Posts are flat rows
// with a nullable parent pointer; depth is computed at creation time
// from the parent and is immutable afterwards.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, content, thread_id, author_id, parent_id, depth, deleted_at, created_at, updated_at, edited_at`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := scanner.Scan(
		&p.ID, &p.Content, &p.ThreadID, &p.AuthorID, &p.ParentID,
		&p.Depth, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt, &p.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByThread returns every post of a thread, soft-deleted ones
// included, ordered by creation time ascending with authors attached.
// Tree shape is left to the posttree package.
func (s *PostStore) ListByThread(threadID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.content, p.thread_id, p.author_id, p.parent_id, p.depth,
		       p.deleted_at, p.created_at, p.updated_at, p.edited_at,
		       u.email, u.role, u.banned_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.thread_id = $1
		ORDER BY p.created_at ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		author := &models.User{}
		if err := rows.Scan(
			&p.ID, &p.Content, &p.ThreadID, &p.AuthorID, &p.ParentID, &p.Depth,
			&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt, &p.EditedAt,
			&author.Email, &author.Role, &author.BannedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		author.ID = p.AuthorID
		p.Author = author
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post. Returns a not-found error if absent.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("post")
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a reply. The depth is the parent's depth plus one (zero
// for root posts) and creation fails once it would exceed the cap. The
// parent must belong to the same thread; a soft-deleted parent is still
// a valid reply target, since reply eligibility is governed by depth
// alone. Creating a post bumps the thread's activity timestamp in the
// same transaction so listings order by latest discussion.
func (s *PostStore) Create(threadID, authorID uuid.UUID, content string, parentID *uuid.UUID) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create post begin: %w", err)
	}
	defer tx.Rollback()

	depth := 0
	if parentID != nil {
		var parent models.Post
		err := tx.QueryRow(`
			SELECT id, depth FROM posts WHERE id = $1 AND thread_id = $2
		`, *parentID, threadID).Scan(&parent.ID, &parent.Depth)
		if err == sql.ErrNoRows {
			return nil, errs.Validation("parent post does not exist in this thread")
		}
		if err != nil {
			return nil, fmt.Errorf("find parent post: %w", err)
		}
		depth = models.ReplyDepth(&parent)
		if depth > models.MaxReplyDepth {
			return nil, &errs.DepthExceededError{Depth: depth, Max: models.MaxReplyDepth}
		}
	}

	row := tx.QueryRow(`
		INSERT INTO posts (content, thread_id, author_id, parent_id, depth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns,
		content, threadID, authorID, parentID, depth,
	)
	p, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	// Last-activity touch for thread listing order; independent of the
	// post's own timestamps.
	if _, err := tx.Exec(`UPDATE threads SET updated_at = NOW() WHERE id = $1`, threadID); err != nil {
		return nil, fmt.Errorf("touch thread activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create post commit: %w", err)
	}
	return p, nil
}

// Update changes a post's content. The edited marker is set only when
// the content actually changed; created_at and the post's position among
// its siblings never move.
func (s *PostStore) Update(id uuid.UUID, content string) (*models.Post, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	editedAt := current.EditedAt
	if current.Content != content {
		editedAt = nowPtr()
	}

	row := s.db.QueryRow(`
		UPDATE posts SET content = $1, edited_at = $2
		WHERE id = $3
		RETURNING `+postColumns,
		content, editedAt, id,
	)
	p, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// SoftDelete hides a post behind the placeholder without touching its
// content, depth, or tree linkage; children stay attached and visible.
func (s *PostStore) SoftDelete(id uuid.UUID) error {
	res, err := s.db.Exec(`UPDATE posts SET deleted_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("post")
	}
	return nil
}

// Restore clears a soft deletion.
func (s *PostStore) Restore(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		UPDATE posts SET deleted_at = NULL WHERE id = $1
		RETURNING ` + postColumns, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("post")
	}
	if err != nil {
		return nil, fmt.Errorf("restore post: %w", err)
	}
	return p, nil
}

// HardDelete removes a post row for good. Distinct from soft deletion:
// the FK cascade takes the entire reply subtree with it.
func (s *PostStore) HardDelete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hard delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("post")
	}
	return nil
}
