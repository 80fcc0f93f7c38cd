// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"yamdb/internal/auth"
	"yamdb/internal/database"
	"yamdb/internal/mail"
	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/store"
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
	user := envOr("POSTGRES_USER", "yamdb")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "yamdb")
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

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	UserStore     *store.UserStore
	CategoryStore *store.CategoryStore
	GenreStore    *store.GenreStore
	TitleStore    *store.TitleStore
	ReviewStore   *store.ReviewStore
	CommentStore  *store.CommentStore
	Tokens        *auth.Tokens
	Auth          *Auth
	Categories    *Categories
	Genres        *Genres
	Titles        *Titles
	Reviews       *Reviews
	Comments      *Comments
	Users         *Users
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	genreStore := store.NewGenreStore(db)
	titleStore := store.NewTitleStore(db)
	reviewStore := store.NewReviewStore(db)
	commentStore := store.NewCommentStore(db)
	tokens := auth.NewTokens("handler-test-secret", time.Hour)

	return &testEnv{
		DB:            db,
		UserStore:     userStore,
		CategoryStore: categoryStore,
		GenreStore:    genreStore,
		TitleStore:    titleStore,
		ReviewStore:   reviewStore,
		CommentStore:  commentStore,
		Tokens:        tokens,
		Auth:          NewAuth(userStore, tokens, mail.LogSender{}),
		Categories:    NewCategories(categoryStore),
		Genres:        NewGenres(genreStore),
		Titles:        NewTitles(titleStore, categoryStore, genreStore),
		Reviews:       NewReviews(reviewStore, titleStore),
		Comments:      NewComments(commentStore, reviewStore, titleStore),
		Users:         NewUsers(userStore),
	}
}

// createUser inserts a user with a fresh code secret and schedules cleanup.
func createUser(t *testing.T, env *testEnv, email, username string, role models.Role) *models.User {
	t.Helper()

	secret, err := auth.NewCodeSecret()
	if err != nil {
		t.Fatalf("NewCodeSecret: %v", err)
	}
	u, err := env.UserStore.Create(context.Background(), &models.User{
		Email:      email,
		Username:   username,
		Role:       role,
		CodeSecret: secret,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	t.Cleanup(func() {
		env.DB.Exec(`DELETE FROM users WHERE email = $1`, email)
	})
	return u
}

// withUser attaches an authenticated user to the request context the
// way the identity middleware would.
func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, u))
}

// withChiParams adds chi URL parameters to a request.
func withChiParams(r *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
