// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/lssb2003/university-forum/internal/authz"
	"github.com/lssb2003/university-forum/internal/database"
	"github.com/lssb2003/university-forum/internal/middleware"
	"github.com/lssb2003/university-forum/internal/models"
	"github.com/lssb2003/university-forum/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "forum")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "forum")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds the stores and handler groups the integration tests use.
type testEnv struct {
	DB             *sql.DB
	UserStore      *store.UserStore
	CategoryStore  *store.CategoryStore
	ThreadStore    *store.ThreadStore
	PostStore      *store.PostStore
	ModeratorStore *store.ModeratorStore
	Resolver       *authz.Resolver
	Threads        *Threads
	Posts          *Posts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	threadStore := store.NewThreadStore(db)
	postStore := store.NewPostStore(db)
	moderatorStore := store.NewModeratorStore(db)
	resolver := authz.NewResolver(moderatorStore, categoryStore)

	return &testEnv{
		DB:             db,
		UserStore:      userStore,
		CategoryStore:  categoryStore,
		ThreadStore:    threadStore,
		PostStore:      postStore,
		ModeratorStore: moderatorStore,
		Resolver:       resolver,
		Threads:        NewThreads(threadStore, categoryStore, resolver),
		Posts:          NewPosts(postStore, threadStore, resolver),
	}
}

// newTestUser creates a user with a unique email and registers cleanup.
func (e *testEnv) newTestUser(t *testing.T, role models.Role) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@handler-test.local"
	user, err := e.UserStore.Create(email, "testpass123")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM users WHERE id = $1", user.ID) })

	if role != models.RoleUser {
		user, err = e.UserStore.UpdateRole(user.ID, role)
		if err != nil {
			t.Fatalf("set test user role: %v", err)
		}
	}
	return user
}

// newTestCategory creates a uniquely named category and registers a
// cleanup that removes it and everything scoped under it.
func (e *testEnv) newTestCategory(t *testing.T) *models.Category {
	t.Helper()

	name := "Test Category " + uuid.NewString()[:8]
	category, err := e.CategoryStore.Create(name, "handler test category", nil)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM moderators WHERE category_id = $1", category.ID)
		e.DB.Exec("DELETE FROM threads WHERE category_id = $1", category.ID)
		e.DB.Exec("DELETE FROM categories WHERE id = $1", category.ID)
	})
	return category
}

func (e *testEnv) newTestThread(t *testing.T, categoryID, authorID uuid.UUID) *models.Thread {
	t.Helper()

	thread, err := e.ThreadStore.Create(categoryID, authorID, "Test thread", "Test thread content")
	if err != nil {
		t.Fatalf("create test thread: %v", err)
	}
	return thread
}

// withUser attaches an authenticated user the way LoadUser does.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, user))
}

// withURLParam adds a chi URL parameter to a request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}
