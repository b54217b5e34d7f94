// Package router sets up all HTTP routes and middleware chains for the
// Blogify API. Public reads share one middleware stack; mutations require
// a session and CSRF token.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogify/internal/handlers"
	"blogify/internal/middleware"
	"blogify/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessionStore *session.Store,
	auth *handlers.Auth,
	posts *handlers.Posts,
	categories *handlers.Categories,
	comments *handlers.Comments,
	profiles *handlers.Profiles,
	tags *handlers.Tags,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Login and register share a tight rate limit to slow down
	// credential stuffing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(loginLimiter.Middleware)
				r.Post("/register", auth.Register)
				r.Post("/login", auth.Login)
			})
			r.Post("/logout", auth.Logout)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", auth.Me)
				r.Delete("/me", auth.DeleteMe)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{slug}", posts.Get)
			r.Get("/{slug}/like", posts.LikeStatus)
			r.Get("/{slug}/comments", posts.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", posts.Create)
				r.Put("/{slug}", posts.Update)
				r.Delete("/{slug}", posts.Delete)
				r.Post("/{slug}/like", posts.LikeToggle)
				r.Post("/{slug}/comments", posts.AddComment)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{slug}", categories.Get)
			r.Get("/{slug}/follow", categories.FollowStatus)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", categories.Create)
				r.Put("/{slug}", categories.Rename)
				r.Delete("/{slug}", categories.Delete)
				r.Post("/{slug}/follow", categories.FollowToggle)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{id}", comments.Get)
			r.Get("/{id}/like", comments.LikeStatus)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Delete("/{id}", comments.Delete)
				r.Post("/{id}/like", comments.LikeToggle)
			})
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Put("/me", profiles.UpdateMe)
			})
			r.Get("/{username}", profiles.Get)
			r.Get("/{username}/follow", profiles.FollowStatus)
			r.With(middleware.RequireAuth).Post("/{username}/follow", profiles.FollowToggle)
		})

		r.Get("/creators", profiles.Creators)
		r.Get("/tags", tags.List)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
