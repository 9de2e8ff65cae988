package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID assigns each request a short sortable correlation ID, exposed
// to the client in X-Request-ID and to downstream code via the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the ID assigned by RequestID, or "" when the
// middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
