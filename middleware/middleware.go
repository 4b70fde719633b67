package middleware

import (
	"net/http"
	"strings"

	"spriteforge/config"
)

// EnableCORS adds CORS headers to responses
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := strings.Split(config.GetAllowedOrigins(), ",")
		origin := r.Header.Get("Origin")

		matched := false
		for _, a := range allowed {
			a = strings.TrimSpace(a)
			if a == "*" || a == origin {
				matched = true
				break
			}
		}
		if matched && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
