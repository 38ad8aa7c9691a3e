package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxRequestIDLength limits request ID size to prevent unbounded memory usage.
const maxRequestIDLength = 128

// isValidRequestID accepts only printable ASCII of bounded length, which
// keeps forwarded IDs safe to log.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}

// RequestID returns middleware that injects a UUIDv4 request identifier.
// A valid incoming X-Request-Id header is reused; anything else is replaced
// with a freshly generated UUID.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(middleware.RequestIDHeader)
			if !isValidRequestID(reqID) {
				reqID = uuid.NewString()
			}

			r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, reqID))
			w.Header().Set(middleware.RequestIDHeader, reqID)
			next.ServeHTTP(w, r)
		})
	}
}
