// Package handlers implements the JSON API endpoints for Blogify. Each
// handler group wraps the stores it needs; the viewer's identity comes
// from the session loaded by middleware and is passed to the stores as an
// explicit parameter.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogify/internal/store"
)

// maxRequestBody caps JSON request bodies at 1 MiB.
const maxRequestBody = 1 << 20

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("json encode failed", "error", err)
		}
	}
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into dst. Returns false after writing
// a 400 response when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondStoreError maps store sentinel errors to HTTP statuses.
// Unexpected errors are logged and reported as 500 without detail.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrInvalidOperation):
		respondError(w, http.StatusBadRequest, "invalid operation")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, "conflict")
	default:
		slog.Error("store error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// hideForbidden converts ErrForbidden into ErrNotFound. Read endpoints
// use it so a draft's URL does not reveal that the draft exists.
func hideForbidden(err error) error {
	if errors.Is(err, store.ErrForbidden) {
		return store.ErrNotFound
	}
	return err
}
