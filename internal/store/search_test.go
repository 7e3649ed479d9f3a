package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/models"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "%plain%"},
		{"50%", `%50\%%`},
		{"under_score", `%under\_score%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate short: got %q", got)
	}
	long := strings.Repeat("a", 150)
	got := truncate(long, 100)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if len([]rune(got)) != 103 {
		t.Errorf("length: got %d", len([]rune(got)))
	}
}

func TestSearchExcludesDeletedPosts(t *testing.T) {
	db := testDB(t)
	search := NewSearchStore(db)
	posts := NewPostStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)
	thread := newTestThread(t, db, category.ID, author.ID)

	needle := "zxq-" + uuid.NewString()[:8]
	kept, err := posts.Create(thread.ID, author.ID, "keep "+needle, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	removed, err := posts.Create(thread.ID, author.ID, "drop "+needle, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := posts.SoftDelete(removed.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	results, err := search.Posts(needle)
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	if len(results) != 1 || results[0].ID != kept.ID {
		t.Errorf("results: got %d, want only the kept post", len(results))
	}

	suggestions, err := search.Suggestions(needle, 10)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	for _, sg := range suggestions {
		if sg.ID == removed.ID.String() {
			t.Error("soft-deleted post leaked into suggestions")
		}
	}
}

func TestSearchMatchesCaseInsensitive(t *testing.T) {
	db := testDB(t)
	search := NewSearchStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)

	needle := "QuArKs" + uuid.NewString()[:8]
	thread, err := NewThreadStore(db).Create(category.ID, author.ID, "About "+needle, "body")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	results, err := search.Threads(strings.ToLower(needle))
	if err != nil {
		t.Fatalf("Threads: %v", err)
	}
	found := false
	for _, r := range results {
		if r.ID == thread.ID {
			found = true
		}
	}
	if !found {
		t.Error("case-insensitive match missed the thread")
	}
}

func TestSearchLiteralWildcards(t *testing.T) {
	db := testDB(t)
	search := NewSearchStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)

	marker := uuid.NewString()[:8]
	withPercent, err := NewThreadStore(db).Create(category.ID, author.ID, "Sale 50% off "+marker, "body")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if _, err := NewThreadStore(db).Create(category.ID, author.ID, "Sale 50x off "+marker, "body"); err != nil {
		t.Fatalf("create thread: %v", err)
	}

	// A literal % in the query must not act as a wildcard.
	results, err := search.Threads("50% off " + marker)
	if err != nil {
		t.Fatalf("Threads: %v", err)
	}
	if len(results) != 1 || results[0].ID != withPercent.ID {
		t.Errorf("results: got %d, want only the literal match", len(results))
	}
}

func TestSuggestionsShapeAndLimit(t *testing.T) {
	db := testDB(t)
	search := NewSearchStore(db)
	posts := NewPostStore(db)

	author := newTestUser(t, db, models.RoleUser)
	needle := "sgg-" + uuid.NewString()[:8]

	category, err := NewCategoryStore(db).Create("Cat "+needle, "desc", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM threads WHERE category_id = $1", category.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", category.ID)
	})
	thread, err := NewThreadStore(db).Create(category.ID, author.ID, "Thread "+needle, "body")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	longContent := "Post " + needle + " " + strings.Repeat("x", 200)
	post, err := posts.Create(thread.ID, author.ID, longContent, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	suggestions, err := search.Suggestions(needle, 10)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}

	types := make(map[string]Suggestion)
	for _, sg := range suggestions {
		types[sg.Type] = sg
	}
	if sg, ok := types["category"]; !ok || sg.ID != category.ID.String() {
		t.Error("missing category suggestion")
	}
	if sg, ok := types["thread"]; !ok || sg.ID != thread.ID.String() {
		t.Error("missing thread suggestion")
	}
	sg, ok := types["post"]
	if !ok || sg.ID != post.ID.String() {
		t.Fatal("missing post suggestion")
	}
	if sg.ThreadID != thread.ID.String() {
		t.Error("post suggestion must carry its thread id")
	}
	if !strings.HasSuffix(sg.Text, "...") {
		t.Error("long post suggestion text must be truncated")
	}

	limited, err := search.Suggestions(needle, 2)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(limited) > 2 {
		t.Errorf("limit: got %d entries, want at most 2", len(limited))
	}
}
