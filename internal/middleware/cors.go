package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware configured for the browser front end. Origins are
// left open; the API carries no credentials.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-Id",
		},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
