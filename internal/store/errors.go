// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by store methods. Callers match them with
// errors.Is; anything else is an infrastructure failure and propagates
// unchanged.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the viewer may not read or mutate the
	// entity (a draft post requested by a non-author, an edit by a
	// non-owner).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidOperation is returned for structurally invalid requests,
	// such as a user following themselves. No mutation takes place.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflict is returned when a uniqueness constraint cannot be
	// satisfied: slug generation exhausted its retries, a duplicate
	// username, or a protected entity blocking deletion.
	ErrConflict = errors.New("conflict")
)

// uniqueViolationCode is PostgreSQL's error code for unique constraint
// violations.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Slug insert loops use this to decide whether to retry with a
// fresh candidate.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
