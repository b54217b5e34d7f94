// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/store"
)

// Profiles groups the public profile, follow, and creator discovery
// endpoints.
type Profiles struct {
	users     *store.UserStore
	relations *store.RelationStore
}

// NewProfiles creates a new Profiles handler group.
func NewProfiles(users *store.UserStore, relations *store.RelationStore) *Profiles {
	return &Profiles{users: users, relations: relations}
}

// Get serves a user's public profile with live counts.
func (p *Profiles) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())

	view, err := p.users.ProfileView(r.Context(), chi.URLParam(r, "username"), viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateMe edits the authenticated user's own profile.
func (p *Profiles) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateProfile(req.Bio, req.AvatarURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := p.users.UpdateProfile(r.Context(), sess.UserID, req.Bio, req.AvatarURL); err != nil {
		respondStoreError(w, err)
		return
	}

	view, err := p.users.ProfileView(r.Context(), sess.Username, sess.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// FollowStatus reports whether the viewer follows the user.
func (p *Profiles) FollowStatus(w http.ResponseWriter, r *http.Request) {
	target, err := p.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	viewer := middleware.ViewerID(r.Context())

	followed, err := p.relations.Status(r.Context(), viewer, store.FollowUser, target.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := p.relations.Count(r.Context(), store.FollowUser, target.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, followState{Followed: followed, FollowersCount: count})
}

// FollowToggle flips the viewer's follow on the user. Following yourself
// is rejected with a 400.
func (p *Profiles) FollowToggle(w http.ResponseWriter, r *http.Request) {
	target, err := p.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	viewer := middleware.ViewerID(r.Context())

	followed, err := p.relations.Toggle(r.Context(), viewer, store.FollowUser, target.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	count, err := p.relations.Count(r.Context(), store.FollowUser, target.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, followState{Followed: followed, FollowersCount: count})
}

// Creators serves the author discovery list: users with at least one
// published post, excluding the viewer.
func (p *Profiles) Creators(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())

	creators, err := p.users.Creators(r.Context(), viewer)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if creators == nil {
		creators = []models.ProfileView{}
	}
	respondJSON(w, http.StatusOK, creators)
}
