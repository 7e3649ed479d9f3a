// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/lssb2003/university-forum/internal/database"
	"github.com/lssb2003/university-forum/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching local development.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "forum")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "forum")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// newTestUser creates a user with a unique email and registers cleanup.
// Cleanup is registered before content helpers run, so it executes last
// and finds no content rows still referencing the user.
func newTestUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	s := NewUserStore(db)

	email := "test-" + uuid.NewString()[:8] + "@store-test.local"
	user, err := s.Create(email, "testpass123")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", user.ID) })

	if role != models.RoleUser {
		user, err = s.UpdateRole(user.ID, role)
		if err != nil {
			t.Fatalf("set test user role: %v", err)
		}
	}
	return user
}

// newTestCategory creates a category with a unique name and registers a
// cleanup that removes it and everything scoped under it.
func newTestCategory(t *testing.T, db *sql.DB, parentID *uuid.UUID) *models.Category {
	t.Helper()
	s := NewCategoryStore(db)

	name := "Test Category " + uuid.NewString()[:8]
	category, err := s.Create(name, "integration test category", parentID)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM moderators WHERE category_id = $1", category.ID)
		db.Exec("DELETE FROM threads WHERE category_id = $1", category.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", category.ID)
	})
	return category
}

func newTestThread(t *testing.T, db *sql.DB, categoryID, authorID uuid.UUID) *models.Thread {
	t.Helper()
	thread, err := NewThreadStore(db).Create(categoryID, authorID, "Test thread", "Test thread content")
	if err != nil {
		t.Fatalf("create test thread: %v", err)
	}
	return thread
}
