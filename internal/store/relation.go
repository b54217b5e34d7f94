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
	"github.com/jackc/pgx/v5/pgconn"
)

// Relation identifies one of the social relation sets a user can toggle
// membership in. The set is closed: each relation maps to exactly one
// join table and column pair.
type Relation int

const (
	// FollowUser is viewer → user ("following").
	FollowUser Relation = iota
	// FollowCategory is viewer → category.
	FollowCategory
	// LikePost is viewer → post.
	LikePost
	// LikeComment is viewer → comment.
	LikeComment
)

// String returns the relation name used in logs.
func (r Relation) String() string {
	switch r {
	case FollowUser:
		return "follow-user"
	case FollowCategory:
		return "follow-category"
	case LikePost:
		return "like-post"
	case LikeComment:
		return "like-comment"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// relationTable describes the join table backing a relation.
type relationTable struct {
	name      string
	ownerCol  string
	targetCol string
}

// table maps a relation to its join table. Unknown relations are a
// programming error and surface as ErrInvalidOperation.
func (r Relation) table() (relationTable, error) {
	switch r {
	case FollowUser:
		return relationTable{name: "follows", ownerCol: "follower_id", targetCol: "followee_id"}, nil
	case FollowCategory:
		return relationTable{name: "category_follows", ownerCol: "user_id", targetCol: "category_id"}, nil
	case LikePost:
		return relationTable{name: "post_likes", ownerCol: "user_id", targetCol: "post_id"}, nil
	case LikeComment:
		return relationTable{name: "comment_likes", ownerCol: "user_id", targetCol: "comment_id"}, nil
	default:
		return relationTable{}, fmt.Errorf("unknown relation %d: %w", int(r), ErrInvalidOperation)
	}
}

// RelationStore flips and inspects membership in the social relation sets.
type RelationStore struct {
	db *sql.DB
}

// NewRelationStore creates a new RelationStore with the given database connection.
func NewRelationStore(db *sql.DB) *RelationStore {
	return &RelationStore{db: db}
}

// Toggle flips the viewer's membership for target in the given relation
// and reports the state after the call: true when the pair was added,
// false when it was removed. The delete-then-insert runs inside a single
// transaction, so two concurrent toggles on the same (viewer, relation,
// target) tuple serialize on the table's primary key and always report
// alternating states.
//
// A user following themselves is rejected with ErrInvalidOperation before
// any mutation.
func (s *RelationStore) Toggle(ctx context.Context, viewer uuid.UUID, rel Relation, target uuid.UUID) (bool, error) {
	if rel == FollowUser && viewer == target {
		return false, fmt.Errorf("self-follow: %w", ErrInvalidOperation)
	}

	t, err := rel.table()
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("toggle %s: begin: %w", rel, err)
	}
	defer tx.Rollback()

	deleteStmt := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 AND %s = $2",
		t.name, t.ownerCol, t.targetCol,
	)
	insertStmt := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		t.name, t.ownerCol, t.targetCol,
	)

	// Two rounds cover the race where a concurrent toggle inserts between
	// our delete and insert: the conflicting insert affects zero rows, and
	// the second delete removes the row the winner committed.
	for i := 0; i < 2; i++ {
		res, err := tx.ExecContext(ctx, deleteStmt, viewer, target)
		if err != nil {
			return false, fmt.Errorf("toggle %s: delete: %w", rel, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if err := tx.Commit(); err != nil {
				return false, fmt.Errorf("toggle %s: commit: %w", rel, err)
			}
			return false, nil
		}

		res, err = tx.ExecContext(ctx, insertStmt, viewer, target)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, fmt.Errorf("toggle %s: target %s: %w", rel, target, ErrNotFound)
			}
			return false, fmt.Errorf("toggle %s: insert: %w", rel, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if err := tx.Commit(); err != nil {
				return false, fmt.Errorf("toggle %s: commit: %w", rel, err)
			}
			return true, nil
		}
	}

	return false, fmt.Errorf("toggle %s: did not settle: %w", rel, ErrConflict)
}

// Status reports current membership without mutating.
func (s *RelationStore) Status(ctx context.Context, viewer uuid.UUID, rel Relation, target uuid.UUID) (bool, error) {
	if viewer == uuid.Nil {
		return false, nil
	}

	t, err := rel.table()
	if err != nil {
		return false, err
	}

	var present bool
	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		t.name, t.ownerCol, t.targetCol,
	)
	if err := s.db.QueryRowContext(ctx, query, viewer, target).Scan(&present); err != nil {
		return false, fmt.Errorf("status %s: %w", rel, err)
	}
	return present, nil
}

// Count returns the number of owners holding the relation to target
// (a post's like count, a user's follower count).
func (s *RelationStore) Count(ctx context.Context, rel Relation, target uuid.UUID) (int, error) {
	t, err := rel.table()
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", t.name, t.targetCol)
	if err := s.db.QueryRowContext(ctx, query, target).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", rel, err)
	}
	return count, nil
}

// foreignKeyViolationCode is PostgreSQL's error code for FK violations.
const foreignKeyViolationCode = "23503"

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation, which a toggle translates into ErrNotFound for the target.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}
