package middleware

import "net/http"

// CORS applies the fixed cross-origin policy: any origin, standard verbs,
// standard auth headers. Boundary configuration, not access control.
func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS,PUT,DELETE")
			h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-Api-Key,Idempotency-Key")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
