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

// PostStore handles all post-related database operations, including the
// feed query that combines visibility filtering with social ranking.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// CreateInput carries the author-supplied fields for a new post.
type CreateInput struct {
	Title        string
	Body         string
	Status       models.PostStatus
	CategoryID   uuid.UUID
	Tags         []string
	ThumbnailURL string
}

// UpdateInput carries the full replacement state for an edit. The slug is
// deliberately absent: it is assigned at creation and never changes.
type UpdateInput struct {
	Title        string
	Body         string
	Status       models.PostStatus
	CategoryID   uuid.UUID
	Tags         []string
	ThumbnailURL string
}

// ListOptions are request-level filters layered on top of the visibility
// rules. They can only narrow the visible set, never widen it.
type ListOptions struct {
	CategorySlug string
	Status       models.PostStatus
	Search       string
}

const postColumns = `id, title, slug, body, status, thumbnail_url, author_id, category_id, created_at, updated_at`

// newSlugCandidate produces the next slug candidate for an insert attempt.
// A variable so tests can force collisions.
var newSlugCandidate = slug.WithRandomSuffix

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.ThumbnailURL,
		&p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new post with its tags in one transaction. The slug is
// the slugified title plus a random four-digit suffix; on collision a
// fresh candidate is tried up to maxSlugAttempts times before the whole
// operation fails with ErrConflict.
func (s *PostStore) Create(ctx context.Context, authorID uuid.UUID, in CreateInput) (*models.Post, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("post status %q: %w", in.Status, ErrInvalidOperation)
	}
	base := slug.Generate(in.Title)
	if base == "" {
		return nil, fmt.Errorf("post title %q yields empty slug: %w", in.Title, ErrInvalidOperation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create post: begin: %w", err)
	}
	defer tx.Rollback()

	var post *models.Post
	for i := 0; i < maxSlugAttempts; i++ {
		// A failed INSERT aborts the whole transaction; the savepoint
		// confines the abort to this attempt so the next candidate runs
		// in a healthy one.
		if _, err := tx.ExecContext(ctx, `SAVEPOINT insert_post`); err != nil {
			return nil, fmt.Errorf("create post: savepoint: %w", err)
		}
		row := tx.QueryRowContext(ctx, `
			INSERT INTO posts (title, slug, body, status, thumbnail_url, author_id, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+postColumns,
			in.Title, newSlugCandidate(base), in.Body, in.Status,
			in.ThumbnailURL, authorID, in.CategoryID,
		)
		post, err = scanPost(row)
		if err == nil {
			break
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("create post: category %s: %w", in.CategoryID, ErrNotFound)
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("create post: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT insert_post`); err != nil {
			return nil, fmt.Errorf("create post: rollback savepoint: %w", err)
		}
	}
	if post == nil {
		return nil, fmt.Errorf("post slug %q: candidates exhausted: %w", base, ErrConflict)
	}

	if err := s.replaceTags(ctx, tx, post.ID, in.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create post: commit: %w", err)
	}
	return post, nil
}

// Update replaces a post's editable fields. Only the author may edit;
// anyone else gets ErrForbidden. The slug stays untouched so edits never
// break the post's URL.
func (s *PostStore) Update(ctx context.Context, postSlug string, viewer uuid.UUID, in UpdateInput) (*models.Post, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("post status %q: %w", in.Status, ErrInvalidOperation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update post: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 FOR UPDATE`, postSlug)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %q: %w", postSlug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if post.AuthorID != viewer {
		return nil, fmt.Errorf("post %q: not the author: %w", postSlug, ErrForbidden)
	}

	row = tx.QueryRowContext(ctx, `
		UPDATE posts SET title = $1, body = $2, status = $3, thumbnail_url = $4,
		                 category_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+postColumns,
		in.Title, in.Body, in.Status, in.ThumbnailURL, in.CategoryID, post.ID,
	)
	post, err = scanPost(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("update post: category %s: %w", in.CategoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	if err := s.replaceTags(ctx, tx, post.ID, in.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update post: commit: %w", err)
	}
	return post, nil
}

// replaceTags swaps the post's tag set for the given names inside tx.
func (s *PostStore) replaceTags(ctx context.Context, tx *sql.Tx, postID uuid.UUID, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	ids, err := ensureTags(ctx, tx, names)
	if err != nil {
		return err
	}
	for _, tagID := range ids {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID); err != nil {
			return fmt.Errorf("attach tag: %w", err)
		}
	}
	return nil
}

// Delete removes a post. Only the author may delete; attached comments
// and likes go with it via the FK cascade.
func (s *PostStore) Delete(ctx context.Context, postSlug string, viewer uuid.UUID) error {
	post, err := s.FindBySlug(ctx, postSlug, viewer)
	if err != nil {
		return err
	}
	if post.AuthorID != viewer {
		return fmt.Errorf("post %q: not the author: %w", postSlug, ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// FindBySlug retrieves a post by slug, honoring visibility: a draft read
// by anyone but its author returns ErrForbidden without the post data.
// Handlers resolving like/comment targets go through this, so nobody can
// interact with a draft they cannot see.
func (s *PostStore) FindBySlug(ctx context.Context, postSlug string, viewer uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1`, postSlug)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %q: %w", postSlug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if !post.VisibleTo(viewer) {
		return nil, fmt.Errorf("post %q: %w", postSlug, ErrForbidden)
	}
	return post, nil
}

// postViewQuery projects posts with viewer-relative fields. $1 is the
// viewer (uuid.Nil for anonymous — it matches no rows in the relation
// tables, so is_liked degrades to false).
const postViewQuery = `
	SELECT p.id, p.title, p.slug, p.body, p.status, p.thumbnail_url,
	       u.id, u.username, c.id, c.name, c.slug,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count,
	       EXISTS (SELECT 1 FROM post_likes pl
	               WHERE pl.post_id = p.id AND pl.user_id = $1) AS is_liked,
	       (SELECT COUNT(*) FROM comments cm
	        WHERE cm.post_id = p.id AND cm.active) AS comments_count,
	       p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id`

// affinityExpr is 1 when the viewer ($1) follows the post's author or
// category. It is recomputed from live follow state on every feed request.
const affinityExpr = `
	(EXISTS (SELECT 1 FROM follows f
	         WHERE f.follower_id = $1 AND f.followee_id = p.author_id)
	 OR EXISTS (SELECT 1 FROM category_follows cf
	            WHERE cf.user_id = $1 AND cf.category_id = p.category_id))`

// scanPostView scans a postViewQuery row.
func scanPostView(scanner interface{ Scan(...any) error }) (*models.PostView, error) {
	var v models.PostView
	err := scanner.Scan(
		&v.ID, &v.Title, &v.Slug, &v.Body, &v.Status, &v.ThumbnailURL,
		&v.Author.ID, &v.Author.Username, &v.Category.ID, &v.Category.Name, &v.Category.Slug,
		&v.LikesCount, &v.IsLiked, &v.CommentsCount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVisible returns the viewer's feed: published posts plus the
// viewer's own drafts, ordered by affinity (followed authors and
// categories first), then recency, then id as a stable tie-break.
// Anonymous viewers get published posts by recency only. Optional filters
// narrow the result further.
func (s *PostStore) ListVisible(ctx context.Context, viewer uuid.UUID, opts ListOptions) ([]models.PostView, error) {
	query := postViewQuery
	args := []any{viewer}

	if viewer == uuid.Nil {
		query += `
	WHERE p.status = 'published'`
	} else {
		query += `
	WHERE (p.status = 'published' OR (p.status = 'draft' AND p.author_id = $1))`
	}

	if opts.CategorySlug != "" {
		args = append(args, opts.CategorySlug)
		query += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		query += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (p.title ILIKE $%d OR p.body ILIKE $%d OR u.username ILIKE $%d
	    OR EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
	               WHERE pt.post_id = p.id AND t.name ILIKE $%d))`, n, n, n, n)
	}

	if viewer == uuid.Nil {
		query += `
	ORDER BY p.created_at DESC, p.id`
	} else {
		query += `
	ORDER BY ` + affinityExpr + ` DESC, p.created_at DESC, p.id`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visible posts: %w", err)
	}
	defer rows.Close()

	var views []models.PostView
	for rows.Next() {
		v, err := scanPostView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Feed entries carry a lightweight preview: tag names plus the
	// earliest active comment.
	for i := range views {
		if err := s.attachTags(ctx, &views[i]); err != nil {
			return nil, err
		}
		first, err := s.firstActiveComment(ctx, views[i].ID, viewer)
		if err != nil {
			return nil, err
		}
		views[i].FirstComment = first
	}

	return views, nil
}

// View returns the full viewer-relative projection of one post: tags,
// rendered comment list, and like state. Visibility rules match
// FindBySlug.
func (s *PostStore) View(ctx context.Context, postSlug string, viewer uuid.UUID) (*models.PostView, error) {
	post, err := s.FindBySlug(ctx, postSlug, viewer)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, postViewQuery+` WHERE p.id = $2`, viewer, post.ID)
	v, err := scanPostView(row)
	if err != nil {
		return nil, fmt.Errorf("post view: %w", err)
	}

	if err := s.attachTags(ctx, v); err != nil {
		return nil, err
	}

	comments, err := queryCommentViews(ctx, s.db,
		commentViewQuery+` WHERE cm.post_id = $2 AND cm.active ORDER BY cm.created_at`,
		viewer, post.ID)
	if err != nil {
		return nil, err
	}
	v.Comments = comments

	return v, nil
}

// attachTags loads the post's tag names, keeping Tags non-nil so the JSON
// field is always an array.
func (s *PostStore) attachTags(ctx context.Context, v *models.PostView) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, v.ID)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	v.Tags = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan tag name: %w", err)
		}
		v.Tags = append(v.Tags, name)
	}
	return rows.Err()
}

// firstActiveComment returns the earliest active comment on the post, or
// nil when there is none.
func (s *PostStore) firstActiveComment(ctx context.Context, postID, viewer uuid.UUID) (*models.CommentView, error) {
	row := s.db.QueryRowContext(ctx,
		commentViewQuery+` WHERE cm.post_id = $2 AND cm.active ORDER BY cm.created_at LIMIT 1`,
		viewer, postID)
	v, err := scanCommentView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first comment: %w", err)
	}
	return v, nil
}
