package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lssb2003/university-forum/internal/models"
)

// SearchStore runs substring search across categories, threads, and
// posts. Matching is plain case-insensitive ILIKE; ranking is out of
// scope. Soft-deleted posts are always filtered out, in every search
// path.
type SearchStore struct {
	db *sql.DB
}

// NewSearchStore returns a new SearchStore.
func NewSearchStore(db *sql.DB) *SearchStore {
	return &SearchStore{db: db}
}

// Suggestion is one typeahead entry.
type Suggestion struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	ThreadID string `json:"thread_id,omitempty"`
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// Categories finds categories whose name or description matches.
func (s *SearchStore) Categories(query string) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC
	`, escapeLike(query))
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// Threads finds threads whose title or content matches.
func (s *SearchStore) Threads(query string) ([]models.Thread, error) {
	rows, err := s.db.Query(`
		SELECT `+threadColumns+` FROM threads
		WHERE title ILIKE $1 OR content ILIKE $1
		ORDER BY created_at DESC
	`, escapeLike(query))
	if err != nil {
		return nil, fmt.Errorf("search threads: %w", err)
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, *t)
	}
	return threads, rows.Err()
}

// Posts finds non-deleted posts whose content matches.
func (s *SearchStore) Posts(query string) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE content ILIKE $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, escapeLike(query))
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Suggestions returns up to limit typeahead entries across all three
// content kinds. Post suggestions obey the same soft-delete filter as
// full search.
func (s *SearchStore) Suggestions(query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	per := limit/2 + 1

	var suggestions []Suggestion

	crows, err := s.db.Query(`
		SELECT id, name FROM categories WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC LIMIT $2
	`, escapeLike(query), per)
	if err != nil {
		return nil, fmt.Errorf("suggest categories: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var sg Suggestion
		if err := crows.Scan(&sg.ID, &sg.Text); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.Type = "category"
		suggestions = append(suggestions, sg)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	trows, err := s.db.Query(`
		SELECT id, title FROM threads WHERE title ILIKE $1 OR content ILIKE $1
		ORDER BY created_at DESC LIMIT $2
	`, escapeLike(query), per)
	if err != nil {
		return nil, fmt.Errorf("suggest threads: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var sg Suggestion
		if err := trows.Scan(&sg.ID, &sg.Text); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.Type = "thread"
		suggestions = append(suggestions, sg)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.Query(`
		SELECT id, content, thread_id FROM posts
		WHERE content ILIKE $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $2
	`, escapeLike(query), per)
	if err != nil {
		return nil, fmt.Errorf("suggest posts: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var sg Suggestion
		if err := prows.Scan(&sg.ID, &sg.Text, &sg.ThreadID); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.Type = "post"
		sg.Text = truncate(sg.Text, 100)
		suggestions = append(suggestions, sg)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// truncate shortens text to at most n runes, appending an ellipsis.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}
