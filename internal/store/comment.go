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
)

// CommentStore handles comment database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// commentViewQuery projects comments with viewer-relative like state.
// $1 is the viewer; uuid.Nil matches nothing, so is_liked is false for
// anonymous readers.
const commentViewQuery = `
	SELECT cm.id, cm.post_id, u.username, cm.body, cm.active,
	       (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = cm.id) AS likes_count,
	       EXISTS (SELECT 1 FROM comment_likes cl
	               WHERE cl.comment_id = cm.id AND cl.user_id = $1) AS is_liked,
	       cm.created_at
	FROM comments cm
	JOIN users u ON u.id = cm.author_id`

// scanCommentView scans a commentViewQuery row.
func scanCommentView(scanner interface{ Scan(...any) error }) (*models.CommentView, error) {
	var v models.CommentView
	err := scanner.Scan(
		&v.ID, &v.PostID, &v.Author, &v.Body, &v.Active,
		&v.LikesCount, &v.IsLiked, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryCommentViews runs a commentViewQuery variant and collects the rows.
func queryCommentViews(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.CommentView, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	views := []models.CommentView{}
	for rows.Next() {
		v, err := scanCommentView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

// Create adds an active comment to a post. The caller resolves the post
// through the visibility-checked post lookup first, so commenting on
// someone else's draft is impossible by construction.
func (s *CommentStore) Create(ctx context.Context, postID, authorID uuid.UUID, body string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, author_id, body, active, created_at
	`, postID, authorID, body).Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.Active, &c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("create comment: post %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &c, nil
}

// FindByID retrieves a comment by ID. Returns ErrNotFound if no such
// comment exists, it has been deactivated, or it sits on a draft the
// viewer cannot see.
func (s *CommentStore) FindByID(ctx context.Context, id, viewer uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT cm.id, cm.post_id, cm.author_id, cm.body, cm.active, cm.created_at
		FROM comments cm
		JOIN posts p ON p.id = cm.post_id
		WHERE cm.id = $1 AND cm.active
		  AND (p.status = 'published' OR p.author_id = $2)
	`, id, viewer).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.Active, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

// View returns the viewer-relative projection of one active comment.
// Comments on drafts are visible only to the draft's author, same as the
// post itself.
func (s *CommentStore) View(ctx context.Context, id, viewer uuid.UUID) (*models.CommentView, error) {
	row := s.db.QueryRowContext(ctx,
		commentViewQuery+`
		JOIN posts p ON p.id = cm.post_id
		WHERE cm.id = $2 AND cm.active
		  AND (p.status = 'published' OR p.author_id = $1)`, viewer, id)
	v, err := scanCommentView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("comment view: %w", err)
	}
	return v, nil
}

// ListActiveByPost returns a post's active comments in chronological
// order. Deactivated comments are invisible to everyone, including their
// author.
func (s *CommentStore) ListActiveByPost(ctx context.Context, postID, viewer uuid.UUID) ([]models.CommentView, error) {
	return queryCommentViews(ctx, s.db,
		commentViewQuery+` WHERE cm.post_id = $2 AND cm.active ORDER BY cm.created_at`,
		viewer, postID)
}

// Delete removes a comment. Only the author may delete their own comment;
// anyone else gets ErrForbidden.
func (s *CommentStore) Delete(ctx context.Context, id, viewer uuid.UUID) error {
	c, err := s.FindByID(ctx, id, viewer)
	if err != nil {
		return err
	}
	if c.AuthorID != viewer {
		return fmt.Errorf("comment %s: not the author: %w", id, ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
