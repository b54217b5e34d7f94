// Package store provides database access methods for all Blogify entities.
// Each store struct wraps a *sql.DB and exposes typed query methods. The
// viewer's identity is always an explicit parameter — uuid.Nil denotes an
// anonymous viewer — and never ambient state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blogify/internal/models"
)

// UserStore handles all user and profile database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create registers a new user with a bcrypt-hashed password and an empty
// profile, in one transaction. A duplicate username or email returns
// ErrConflict.
func (s *UserStore) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create user: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		username, email, string(hash),
	)
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email taken: %w", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1)`, u.ID,
	); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create user: commit: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns ErrNotFound if no
// such user exists.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID. Returns ErrNotFound if no such user
// exists.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Delete removes a user and everything they own. The cascade is explicit:
// the user's comments on other posts go first, then their posts (taking
// attached comments and likes with them), then the account row, whose FK
// cascades clean up the profile and relation memberships.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete user: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE author_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM posts WHERE author_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user posts: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete user: commit: %w", err)
	}
	return nil
}

// UpdateProfile modifies the bio and avatar of the given user's profile.
func (s *UserStore) UpdateProfile(ctx context.Context, userID uuid.UUID, bio, avatarURL string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET bio = $1, avatar_url = $2, updated_at = NOW()
		WHERE user_id = $3
	`, bio, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
	}
	return nil
}

const profileViewQuery = `
	SELECT u.id, u.username, p.bio, p.avatar_url,
	       (SELECT COUNT(*) FROM posts ps
	        WHERE ps.author_id = u.id AND ps.status = 'published') AS posts_count,
	       (SELECT COUNT(*) FROM follows f WHERE f.followee_id = u.id) AS followers_count,
	       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count,
	       EXISTS (SELECT 1 FROM follows f
	               WHERE f.follower_id = $1 AND f.followee_id = u.id) AS is_followed
	FROM users u
	JOIN profiles p ON p.user_id = u.id`

// scanProfileView scans a profileViewQuery row.
func scanProfileView(scanner interface{ Scan(...any) error }) (*models.ProfileView, error) {
	var v models.ProfileView
	err := scanner.Scan(
		&v.ID, &v.Username, &v.Bio, &v.AvatarURL,
		&v.PostsCount, &v.FollowersCount, &v.FollowingCount, &v.IsFollowed,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ProfileView returns the viewer-relative projection of a user's profile.
// All counts are computed from live relation state.
func (s *UserStore) ProfileView(ctx context.Context, username string, viewer uuid.UUID) (*models.ProfileView, error) {
	row := s.db.QueryRowContext(ctx,
		profileViewQuery+` WHERE u.username = $2`, viewer, username)
	v, err := scanProfileView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("profile view: %w", err)
	}
	return v, nil
}

// Creators lists the profiles of users with at least one published post,
// ordered by username. The viewer's own profile is excluded so the
// "discover authors" page never suggests following yourself.
func (s *UserStore) Creators(ctx context.Context, viewer uuid.UUID) ([]models.ProfileView, error) {
	rows, err := s.db.QueryContext(ctx, profileViewQuery+`
		WHERE u.id <> $1
		  AND EXISTS (SELECT 1 FROM posts ps
		              WHERE ps.author_id = u.id AND ps.status = 'published')
		ORDER BY u.username`, viewer)
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	defer rows.Close()

	var creators []models.ProfileView
	for rows.Next() {
		v, err := scanProfileView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan creator: %w", err)
		}
		creators = append(creators, *v)
	}
	return creators, rows.Err()
}
