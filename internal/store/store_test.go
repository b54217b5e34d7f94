// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"blogify/internal/database"
	"blogify/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogify")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogify")
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

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser registers a user with a derived test email. Call
// cleanUsers with the same username in t.Cleanup().
func createTestUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(),
		username, username+"@store-test.local", "testpass123")
	if err != nil {
		t.Fatalf("create test user %q: %v", username, err)
	}
	return u
}

// cleanUsers removes test users and everything they own, in FK order:
// comments first, then posts, then the user rows. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, name := range usernames {
		db.Exec(`DELETE FROM comments WHERE author_id IN
			(SELECT id FROM users WHERE username = $1)`, name)
		db.Exec(`DELETE FROM comments WHERE post_id IN
			(SELECT p.id FROM posts p JOIN users u ON u.id = p.author_id
			 WHERE u.username = $1)`, name)
		db.Exec(`DELETE FROM posts WHERE author_id IN
			(SELECT id FROM users WHERE username = $1)`, name)
		db.Exec(`DELETE FROM users WHERE username = $1`, name)
	}
}

// cleanCategories removes test categories by slug. Posts referencing them
// must be cleaned first (cleanUsers handles that). Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec(`DELETE FROM categories WHERE slug = $1 OR slug LIKE $1 || '-%'`, slug)
	}
}

// testCategory creates a category for post tests.
func testCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create test category %q: %v", name, err)
	}
	return c
}
