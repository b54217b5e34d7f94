// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/store"
)

// Categories groups the category browsing, management, and follow endpoints.
type Categories struct {
	categories *store.CategoryStore
	relations  *store.RelationStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore, relations *store.RelationStore) *Categories {
	return &Categories{categories: categories, relations: relations}
}

// List serves all categories with viewer-relative follow state.
func (c *Categories) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())

	views, err := c.categories.List(r.Context(), viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if views == nil {
		views = []models.CategoryView{}
	}
	respondJSON(w, http.StatusOK, views)
}

// Get serves one category's projection.
func (c *Categories) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())

	view, err := c.categories.View(r.Context(), chi.URLParam(r, "slug"), viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Create adds a new category.
func (c *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := c.categories.Create(r.Context(), req.Name)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	slog.Info("category created", "slug", category.Slug)
	respondJSON(w, http.StatusCreated, category)
}

// Rename changes a category's display name. The slug stays fixed.
func (c *Categories) Rename(w http.ResponseWriter, r *http.Request) {
	category, err := c.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := c.categories.Rename(r.Context(), category.ID, req.Name); err != nil {
		respondStoreError(w, err)
		return
	}

	category.Name = req.Name
	respondJSON(w, http.StatusOK, category)
}

// Delete removes a category. Refused with 409 while posts still
// reference it.
func (c *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	category, err := c.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if err := c.categories.Delete(r.Context(), category.ID); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// followState is the response body for follow status and toggle calls.
type followState struct {
	Followed       bool `json:"followed"`
	FollowersCount int  `json:"followers_count"`
}

// FollowStatus reports whether the viewer follows the category.
func (c *Categories) FollowStatus(w http.ResponseWriter, r *http.Request) {
	category, err := c.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	viewer := middleware.ViewerID(r.Context())

	followed, err := c.relations.Status(r.Context(), viewer, store.FollowCategory, category.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := c.relations.Count(r.Context(), store.FollowCategory, category.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, followState{Followed: followed, FollowersCount: count})
}

// FollowToggle flips the viewer's follow on the category.
func (c *Categories) FollowToggle(w http.ResponseWriter, r *http.Request) {
	category, err := c.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	viewer := middleware.ViewerID(r.Context())

	followed, err := c.relations.Toggle(r.Context(), viewer, store.FollowCategory, category.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := c.relations.Count(r.Context(), store.FollowCategory, category.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, followState{Followed: followed, FollowersCount: count})
}
