package middleware

import "net/http"

// Vary adds Accept to the Vary header so caches key responses on content
// negotiation: the same URL serves JSON or CBOR depending on the request's
// Accept header. Origin is already varied by the CORS middleware.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			next.ServeHTTP(w, r)
		})
	}
}
