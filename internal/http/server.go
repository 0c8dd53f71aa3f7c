// Package http exposes the ledger over a JSON API and serves the
// bundled single-page front end.
package http

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires middleware, API routes and static assets.
func NewRouter(h *Handler, static fs.FS) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Get("/expenses", h.GetExpenses)
	r.Get("/buckets", h.GetBuckets)

	// 30 mutations a minute is generous for a single-user app.
	limiter := newRateLimiter(30, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(limiter.middleware)
		r.Post("/bucket", h.AddBucket)
		r.Put("/bucket", h.UpdateBucket)
		r.Delete("/bucket", h.DeleteBucket)
		r.Post("/assign", h.AssignExpense)
	})

	if static != nil {
		r.Handle("/*", http.FileServerFS(static))
	}

	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
