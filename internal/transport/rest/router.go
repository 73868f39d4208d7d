package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/view"
	"github.com/go-chi/chi"
)

const openAPIPath = "/openapi.yml"

type Handlers struct {
	View        *view.Handler
	Category    *category.Handler
	Transaction *transaction.Handler
	Health      *HealthHandler
	OpenAPI     []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Pages
	router.Get("/", h.View.Home)
	router.Get("/categories", h.View.Categories)
	router.NotFound(h.View.NotFound)

	if h.OpenAPI != nil {
		router.Get(openAPIPath, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			if _, err := w.Write(h.OpenAPI); err != nil {
				logger.Error("failed to write openapi document", "error", err)
			}
		})
		router.Handle("/swagger/*", swagger.Handler(openAPIPath))
	}

	// Form actions
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)
		r.Get("/summary", h.View.Summary)

		r.Route("/categories", func(cr chi.Router) {
			cr.Get("/", h.Category.ListCategories)
			cr.Post("/", h.Category.CreateCategory)
			cr.Put("/{id}", h.Category.UpdateCategory)
			cr.Delete("/{id}", h.Category.DeleteCategory)
		})

		r.Route("/transactions", func(tr chi.Router) {
			tr.Get("/", h.Transaction.ListTransactions)
			tr.Post("/", h.Transaction.CreateTransaction)
			tr.Put("/{id}", h.Transaction.UpdateTransaction)
			tr.Delete("/{id}", h.Transaction.DeleteTransaction)
		})
	})
}
