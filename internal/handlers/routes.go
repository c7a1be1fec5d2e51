package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(h.corsHandler())
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", h.handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.rateLimiter())
		r.Use(h.maxBody)
		r.Use(h.requireClientKey)

		// Login answers in clear so the client can bootstrap
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.envelope)

			r.Post("/auth/logout", h.handleLogout)
			r.Get("/config", h.handleGetConfig)
			r.Get("/health", h.handleHealth)

			// Authenticated
			r.Group(func(r chi.Router) {
				r.Use(h.Auth.RequireAuth)

				r.Get("/stats", h.handleGetStats)
				r.Get("/votes/me", h.handleGetMyVote)
				r.Put("/votes/me", h.handleUpdateMyVote)
				r.With(h.Auth.RequireAdmin).Post("/config", h.handleUpdateConfig)
			})
		})
	})

	return r
}
