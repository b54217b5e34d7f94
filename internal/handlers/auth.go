// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"blogify/internal/middleware"
	"blogify/internal/session"
	"blogify/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// Register creates a new account and logs the user in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateRegister(req.Username, req.Email, req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.users.Create(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user registered", "username", user.Username)
	respondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByUsername(r.Context(), req.Username)
	if err != nil || !a.users.CheckPassword(user, req.Password) {
		// Same response for unknown user and wrong password.
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout destroys the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		// Session points at a deleted account; treat as logged out.
		a.sessions.Destroy(r.Context(), w, r)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteMe removes the authenticated user's account and everything they
// own, then destroys the session.
func (a *Auth) DeleteMe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if err := a.users.Delete(r.Context(), sess.UserID); err != nil {
		respondStoreError(w, err)
		return
	}
	a.sessions.Destroy(r.Context(), w, r)

	slog.Info("account deleted", "username", sess.Username)
	w.WriteHeader(http.StatusNoContent)
}
