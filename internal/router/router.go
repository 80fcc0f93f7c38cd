// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Authorization happens inside the handlers; the router
// only attaches identity resolution and the auth rate limiter.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"yamdb/internal/handlers"
	"yamdb/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Identity    func(http.Handler) http.Handler
	RateLimiter *middleware.RateLimiter
	Auth        *handlers.Auth
	Categories  *handlers.Categories
	Genres      *handlers.Genres
	Titles      *handlers.Titles
	Reviews     *handlers.Reviews
	Comments    *handlers.Comments
	Users       *handlers.Users
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(d.Identity)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints — rate limited, anonymous by nature.
		r.Group(func(r chi.Router) {
			if d.RateLimiter != nil {
				r.Use(d.RateLimiter.Middleware)
			}
			r.Post("/auth/email", d.Auth.Signup)
			r.Post("/auth/token", d.Auth.Token)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.Delete("/{slug}", d.Categories.Delete)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", d.Genres.List)
			r.Post("/", d.Genres.Create)
			r.Delete("/{slug}", d.Genres.Delete)
		})

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", d.Titles.List)
			r.Post("/", d.Titles.Create)
			r.Route("/{titleID}", func(r chi.Router) {
				r.Get("/", d.Titles.Get)
				r.Patch("/", d.Titles.Patch)
				r.Delete("/", d.Titles.Delete)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", d.Reviews.List)
					r.Post("/", d.Reviews.Create)
					r.Route("/{reviewID}", func(r chi.Router) {
						r.Get("/", d.Reviews.Get)
						r.Patch("/", d.Reviews.Patch)
						r.Delete("/", d.Reviews.Delete)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", d.Comments.List)
							r.Post("/", d.Comments.Create)
							r.Get("/{commentID}", d.Comments.Get)
							r.Patch("/{commentID}", d.Comments.Patch)
							r.Delete("/{commentID}", d.Comments.Delete)
						})
					})
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", d.Users.List)
			r.Post("/", d.Users.Create)
			r.Get("/me", d.Users.Me)
			r.Patch("/me", d.Users.PatchMe)
			r.Get("/{username}", d.Users.Get)
			r.Patch("/{username}", d.Users.Patch)
			r.Delete("/{username}", d.Users.Delete)
		})
	})

	return r
}

// healthHandler responds to load balancer health checks.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
