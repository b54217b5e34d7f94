// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogify/internal/models"
)

// TagStore manages the global tag namespace.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ensureTags resolves tag names to IDs inside the caller's transaction,
// creating missing tags lazily. ON CONFLICT DO NOTHING makes concurrent
// first use of the same name safe; the follow-up select picks up whichever
// insert won.
func ensureTags(ctx context.Context, tx *sql.Tx, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name,
		); err != nil {
			return nil, fmt.Errorf("ensure tag %q: %w", name, err)
		}

		var id uuid.UUID
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = $1`, name,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("lookup tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
