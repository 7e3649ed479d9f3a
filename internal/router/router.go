// Package router sets up all HTTP routes and middleware chains for the
// forum API. Routes are organized into public, authenticated and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lssb2003/university-forum/internal/handlers"
	"github.com/lssb2003/university-forum/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	tokens middleware.TokenParser,
	users middleware.UserFinder,
	limiter *middleware.RateLimiter,
	auth *handlers.Auth,
	categories *handlers.Categories,
	threads *handlers.Threads,
	posts *handlers.Posts,
	search *handlers.Search,
	admin *handlers.Admin,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(limiter.Middleware)
	r.Use(middleware.LoadUser(tokens, users))

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Session endpoints.
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Post("/forgot-password", auth.ForgotPassword)

		// Public reads.
		r.Get("/categories", categories.Index)
		r.Get("/categories/{categoryID}", categories.Show)
		r.Get("/categories/{categoryID}/threads", threads.Index)
		r.Get("/threads/{threadID}", threads.Show)
		r.Get("/threads/{threadID}/posts", posts.Index)
		r.Get("/search", search.Index)
		r.Get("/search/suggestions", search.Suggestions)

		// Authenticated area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/reset-password", auth.ResetPassword)
			r.Get("/moderated-categories", auth.ModeratedCategories)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)

			r.Post("/categories/{categoryID}/threads", threads.Create)

			r.Route("/threads/{threadID}", func(r chi.Router) {
				r.Put("/", threads.Update)
				r.Delete("/", threads.Delete)
				r.Post("/lock", threads.Lock)
				r.Post("/unlock", threads.Unlock)
				r.Post("/move", threads.Move)
				r.Post("/posts", posts.Create)
			})

			r.Route("/posts/{postID}", func(r chi.Router) {
				r.Put("/", posts.Update)
				r.Delete("/", posts.Delete)
				r.Post("/restore", posts.Restore)
			})
		})

		// Admin area.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)

			r.Post("/categories", categories.Create)
			r.Put("/categories/{categoryID}", categories.Update)
			r.Delete("/categories/{categoryID}", categories.Delete)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", admin.Users)
				r.Put("/{userID}/role", admin.UpdateRole)
				r.Post("/{userID}/ban", admin.Ban)
				r.Post("/{userID}/unban", admin.Unban)
			})

			r.Post("/moderators", admin.CreateModerator)
			r.Delete("/moderators/{moderatorID}", admin.DeleteModerator)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
