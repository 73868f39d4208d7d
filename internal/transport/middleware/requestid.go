package middleware

import (
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/frahmantamala/finance-tracker/pkg/logger"

	"github.com/google/uuid"
)

// RequestID reuses an incoming X-Request-ID or mints one. The id is attached
// to the request logger and forwarded on calls to the remote store.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(remote.RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "request_id", reqID)
		ctx = logger.WithRequestID(ctx, reqID)

		w.Header().Set(remote.RequestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
