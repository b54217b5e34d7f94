// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogify/internal/middleware"
	"blogify/internal/store"
)

// Comments groups the standalone comment endpoints. Listing and creating
// comments happens under the post routes; this group handles direct
// access by comment ID.
type Comments struct {
	comments  *store.CommentStore
	relations *store.RelationStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, relations *store.RelationStore) *Comments {
	return &Comments{comments: comments, relations: relations}
}

// commentID parses the {id} route parameter. Writes a 404 and returns
// false when it is not a UUID, so malformed IDs and missing comments look
// the same to the client.
func commentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// Get serves one comment's projection.
func (c *Comments) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := commentID(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	view, err := c.comments.View(r.Context(), id, viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Delete removes a comment. Author only.
func (c *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := commentID(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	if err := c.comments.Delete(r.Context(), id, viewer); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeStatus reports whether the viewer likes the comment.
func (c *Comments) LikeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := commentID(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	// Confirm the comment exists, is active, and is visible before
	// reporting state.
	if _, err := c.comments.FindByID(r.Context(), id, viewer); err != nil {
		respondStoreError(w, err)
		return
	}

	liked, err := c.relations.Status(r.Context(), viewer, store.LikeComment, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := c.relations.Count(r.Context(), store.LikeComment, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likeState{Liked: liked, LikesCount: count})
}

// LikeToggle flips the viewer's like on the comment.
func (c *Comments) LikeToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := commentID(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	if _, err := c.comments.FindByID(r.Context(), id, viewer); err != nil {
		respondStoreError(w, err)
		return
	}

	liked, err := c.relations.Toggle(r.Context(), viewer, store.LikeComment, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := c.relations.Count(r.Context(), store.LikeComment, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likeState{Liked: liked, LikesCount: count})
}
