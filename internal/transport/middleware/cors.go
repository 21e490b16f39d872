package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/wiktapi/internal/config"
)

// CORS returns middleware that handles Cross-Origin Resource Sharing for the
// public read API. A wildcard origin is answered with "*" unless credentials
// are allowed, in which case the request origin is echoed.
func CORS(cfg config.CORSConfig) Middleware {
	origins := strings.Split(cfg.AllowedOrigins, ",")
	methods := cfg.AllowedMethods
	headers := cfg.AllowedHeaders

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")
			if origin != "" {
				switch allowed := allowedOrigin(origin, origins); {
				case allowed == "*" && !cfg.AllowCredentials:
					w.Header().Set("Access-Control-Allow-Origin", "*")
				case allowed != "":
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allowedOrigin returns the matching entry of allowed ("*" or the origin
// itself), or "" when the origin is not allowed.
func allowedOrigin(origin string, allowed []string) string {
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || a == origin {
			return a
		}
	}
	return ""
}
