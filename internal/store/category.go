// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blogify/internal/models"
	"blogify/internal/slug"
)

// maxSlugAttempts bounds the candidate loops for category and post slugs.
// Exhaustion surfaces as ErrConflict instead of spinning forever on
// adversarial duplicate-heavy input.
const maxSlugAttempts = 10

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category. The slug derives from the name; on
// collision the candidate gets an incrementing counter suffix (tech,
// tech-1, tech-2, …). The unique index arbitrates races, so losing an
// insert just moves to the next candidate.
func (s *CategoryStore) Create(ctx context.Context, name string) (*models.Category, error) {
	base := slug.Generate(name)
	if base == "" {
		return nil, fmt.Errorf("category name %q yields empty slug: %w", name, ErrInvalidOperation)
	}

	for n := 0; n < maxSlugAttempts; n++ {
		row := s.db.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			RETURNING `+categoryColumns,
			name, slug.WithCounter(base, n),
		)
		c, err := scanCategory(row)
		if err == nil {
			return c, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("create category: %w", err)
		}
	}

	return nil, fmt.Errorf("category slug %q: candidates exhausted: %w", base, ErrConflict)
}

// FindBySlug retrieves a category by its slug. Returns ErrNotFound if no
// such category exists.
func (s *CategoryStore) FindBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", categorySlug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

const categoryViewQuery = `
	SELECT c.id, c.name, c.slug,
	       (SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id) AS post_count,
	       (SELECT COUNT(*) FROM category_follows cf WHERE cf.category_id = c.id) AS followers_count,
	       EXISTS (SELECT 1 FROM category_follows cf
	               WHERE cf.user_id = $1 AND cf.category_id = c.id) AS is_followed
	FROM categories c`

// scanCategoryView scans a categoryViewQuery row.
func scanCategoryView(scanner interface{ Scan(...any) error }) (*models.CategoryView, error) {
	var v models.CategoryView
	err := scanner.Scan(
		&v.ID, &v.Name, &v.Slug, &v.PostCount, &v.FollowersCount, &v.IsFollowed,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all categories as viewer-relative projections, ordered by name.
func (s *CategoryStore) List(ctx context.Context, viewer uuid.UUID) ([]models.CategoryView, error) {
	rows, err := s.db.QueryContext(ctx, categoryViewQuery+` ORDER BY c.name`, viewer)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryView
	for rows.Next() {
		v, err := scanCategoryView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// View returns the viewer-relative projection of a single category.
func (s *CategoryStore) View(ctx context.Context, categorySlug string, viewer uuid.UUID) (*models.CategoryView, error) {
	row := s.db.QueryRowContext(ctx,
		categoryViewQuery+` WHERE c.slug = $2`, viewer, categorySlug)
	v, err := scanCategoryView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", categorySlug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("category view: %w", err)
	}
	return v, nil
}

// Rename updates a category's display name. The slug never changes once
// assigned, so existing URLs stay valid.
func (s *CategoryStore) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a category. Deletion is refused with ErrConflict while
// any post references the category; the posts FK backs this up at the
// database level.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete category: begin: %w", err)
	}
	defer tx.Rollback()

	var referenced bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE category_id = $1)`, id,
	).Scan(&referenced); err != nil {
		return fmt.Errorf("delete category: check posts: %w", err)
	}
	if referenced {
		return fmt.Errorf("category %s still has posts: %w", id, ErrConflict)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete category: commit: %w", err)
	}
	return nil
}
