package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(router chi.Router, opts Options) *Handlers {
	handlers := NewHandlers(opts)

	router.Get("/", handlers.DashboardPage)
	router.Get("/updates", handlers.DashboardUpdates)
	router.Post("/select", handlers.Select)
	router.Get("/api/view", handlers.ViewJSON)

	return handlers
}
