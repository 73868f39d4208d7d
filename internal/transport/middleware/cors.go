package middleware

import (
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/go-chi/cors"
)

// CORS lets a browser front end on another origin call the view API.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", remote.RequestIDHeader},
		ExposedHeaders: []string{remote.RequestIDHeader},
		MaxAge:         300,
	})
}
