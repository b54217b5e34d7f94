// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"blogify/internal/database"
	"blogify/internal/middleware"
	"blogify/internal/models"
	"blogify/internal/session"
	"blogify/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogify")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogify")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Sessions  *session.Store
	Users     *store.UserStore
	Posts     *store.PostStore
	Cats      *store.CategoryStore
	Comments  *store.CommentStore
	Relations *store.RelationStore

	Auth      *Auth
	PostsH    *Posts
	CatsH     *Categories
	CommentsH *Comments
	ProfilesH *Profiles
	TagsH     *Tags
}

// newTestEnv wires a full handler environment against the test services.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	valkey := testValkeyClient(t)
	sessions := session.NewStore(valkey, false)

	env := &testEnv{
		DB:        db,
		Valkey:    valkey,
		Sessions:  sessions,
		Users:     store.NewUserStore(db),
		Posts:     store.NewPostStore(db),
		Cats:      store.NewCategoryStore(db),
		Comments:  store.NewCommentStore(db),
		Relations: store.NewRelationStore(db),
	}
	env.Auth = NewAuth(sessions, env.Users)
	env.PostsH = NewPosts(env.Posts, env.Comments, env.Relations)
	env.CatsH = NewCategories(env.Cats, env.Relations)
	env.CommentsH = NewComments(env.Comments, env.Relations)
	env.ProfilesH = NewProfiles(env.Users, env.Relations)
	env.TagsH = NewTags(store.NewTagStore(db))
	return env
}

// createUser registers a test user directly through the store.
func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := env.Users.Create(context.Background(),
		username, username+"@handler-test.local", "testpass123")
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

// createCategory makes a category for post fixtures.
func (env *testEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := env.Cats.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

// createPost makes a post owned by author.
func (env *testEnv) createPost(t *testing.T, author uuid.UUID, title string, status models.PostStatus, categoryID uuid.UUID) *models.Post {
	t.Helper()
	p, err := env.Posts.Create(context.Background(), author, store.CreateInput{
		Title: title, Body: "test body", Status: status, CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return p
}

// cleanup removes test users (with their posts and comments) and categories.
func (env *testEnv) cleanup(t *testing.T, usernames []string, categorySlugs []string) {
	t.Helper()
	for _, name := range usernames {
		env.DB.Exec(`DELETE FROM comments WHERE author_id IN
			(SELECT id FROM users WHERE username = $1)`, name)
		env.DB.Exec(`DELETE FROM comments WHERE post_id IN
			(SELECT p.id FROM posts p JOIN users u ON u.id = p.author_id
			 WHERE u.username = $1)`, name)
		env.DB.Exec(`DELETE FROM posts WHERE author_id IN
			(SELECT id FROM users WHERE username = $1)`, name)
		env.DB.Exec(`DELETE FROM users WHERE username = $1`, name)
	}
	for _, slug := range categorySlugs {
		env.DB.Exec(`DELETE FROM categories WHERE slug = $1 OR slug LIKE $1 || '-%'`, slug)
	}
}

// ctxWithSession simulates LoadSession having run for the given user.
func ctxWithSession(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	})
}

// withURLParam injects a chi route parameter so handlers can be called
// without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
