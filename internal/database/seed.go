package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: two demo
// accounts with profiles, a pair of categories, and one published post so
// the feed is not empty on first boot. It is a no-op if any user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var alice, bob string
	if err := tx.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3) RETURNING id
	`, "alice", "alice@blogify.local", string(hash)).Scan(&alice); err != nil {
		return fmt.Errorf("seed insert alice: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3) RETURNING id
	`, "bob", "bob@blogify.local", string(hash)).Scan(&bob); err != nil {
		return fmt.Errorf("seed insert bob: %w", err)
	}

	for _, id := range []string{alice, bob} {
		if _, err := tx.Exec(`INSERT INTO profiles (user_id, bio) VALUES ($1, $2)`,
			id, "Demo account."); err != nil {
			return fmt.Errorf("seed insert profile: %w", err)
		}
	}

	var tech string
	if err := tx.QueryRow(`
		INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id
	`, "Technology", "technology").Scan(&tech); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO categories (name, slug) VALUES ($1, $2)`,
		"Travel", "travel"); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO posts (title, slug, body, status, author_id, category_id)
		VALUES ($1, $2, $3, 'published', $4, $5)
	`, "Welcome to Blogify", "welcome-to-blogify-1001",
		"Your feed is live. Follow people and categories to shape it.",
		alice, tech); err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo users",
		"users", "alice, bob",
		"password", "password",
	)

	return nil
}
