// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogify/internal/markdown"
	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/store"
)

// Posts groups the post feed, CRUD, like, and comment endpoints.
type Posts struct {
	posts     *store.PostStore
	comments  *store.CommentStore
	relations *store.RelationStore
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, comments *store.CommentStore, relations *store.RelationStore) *Posts {
	return &Posts{posts: posts, comments: comments, relations: relations}
}

// postInput is the request body for creating and updating posts.
type postInput struct {
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Status       models.PostStatus `json:"status"`
	CategoryID   uuid.UUID         `json:"category_id"`
	Tags         []string          `json:"tags"`
	ThumbnailURL string            `json:"thumbnail_url"`
}

// List serves the feed: published posts plus the viewer's own drafts,
// affinity-ranked for logged-in viewers. Supports ?category=, ?status=,
// and ?q= filters.
func (p *Posts) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())

	opts := store.ListOptions{
		CategorySlug: r.URL.Query().Get("category"),
		Search:       r.URL.Query().Get("q"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.PostStatus(s)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		opts.Status = status
	}

	views, err := p.posts.ListVisible(r.Context(), viewer, opts)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if views == nil {
		views = []models.PostView{}
	}
	respondJSON(w, http.StatusOK, views)
}

// Get serves one post with its rendered body, tags, and comments. Drafts
// are served only to their author; everyone else gets a 404 so the URL
// does not reveal the draft exists.
func (p *Posts) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())
	slug := chi.URLParam(r, "slug")

	view, err := p.posts.View(r.Context(), slug, viewer)
	if err != nil {
		respondStoreError(w, hideForbidden(err))
		return
	}

	html, err := markdown.ToHTML(view.Body)
	if err != nil {
		slog.Error("markdown render failed", "slug", slug, "error", err)
	} else {
		view.BodyHTML = html
	}

	respondJSON(w, http.StatusOK, view)
}

// Create adds a new post owned by the authenticated user.
func (p *Posts) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())

	var req postInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePost(req.Title, req.Body, req.Tags); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := p.posts.Create(r.Context(), viewer, store.CreateInput{
		Title:        req.Title,
		Body:         req.Body,
		Status:       req.Status,
		CategoryID:   req.CategoryID,
		Tags:         req.Tags,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	slog.Info("post created", "slug", post.Slug, "status", post.Status)
	respondJSON(w, http.StatusCreated, post)
}

// Update replaces a post's editable fields. Author only.
func (p *Posts) Update(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())
	slug := chi.URLParam(r, "slug")

	var req postInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePost(req.Title, req.Body, req.Tags); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := p.posts.Update(r.Context(), slug, viewer, store.UpdateInput{
		Title:        req.Title,
		Body:         req.Body,
		Status:       req.Status,
		CategoryID:   req.CategoryID,
		Tags:         req.Tags,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete removes a post. Author only.
func (p *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())
	slug := chi.URLParam(r, "slug")

	if err := p.posts.Delete(r.Context(), slug, viewer); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolvePost looks up the like/comment target with the visibility rules
// applied, hiding other people's drafts behind a 404.
func (p *Posts) resolvePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	viewer := middleware.ViewerID(r.Context())
	slug := chi.URLParam(r, "slug")

	post, err := p.posts.FindBySlug(r.Context(), slug, viewer)
	if err != nil {
		respondStoreError(w, hideForbidden(err))
		return nil, false
	}
	return post, true
}

// likeState is the response body for like status and toggle calls.
type likeState struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// LikeStatus reports whether the viewer likes the post and its like count.
func (p *Posts) LikeStatus(w http.ResponseWriter, r *http.Request) {
	post, ok := p.resolvePost(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	liked, err := p.relations.Status(r.Context(), viewer, store.LikePost, post.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := p.relations.Count(r.Context(), store.LikePost, post.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likeState{Liked: liked, LikesCount: count})
}

// LikeToggle flips the viewer's like on the post and reports the new state.
func (p *Posts) LikeToggle(w http.ResponseWriter, r *http.Request) {
	post, ok := p.resolvePost(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	liked, err := p.relations.Toggle(r.Context(), viewer, store.LikePost, post.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := p.relations.Count(r.Context(), store.LikePost, post.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likeState{Liked: liked, LikesCount: count})
}

// ListComments serves a post's active comments in chronological order.
func (p *Posts) ListComments(w http.ResponseWriter, r *http.Request) {
	post, ok := p.resolvePost(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	comments, err := p.comments.ListActiveByPost(r.Context(), post.ID, viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// AddComment posts a comment on the post as the authenticated user.
func (p *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	post, ok := p.resolvePost(w, r)
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())

	var req struct {
		Body string `json:"body"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateComment(req.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := p.comments.Create(r.Context(), post.ID, viewer, req.Body)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	view, err := p.comments.View(r.Context(), comment.ID, viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}
