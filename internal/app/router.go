package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wiktapi/internal/config"
	"github.com/heartmarshall/wiktapi/internal/transport/middleware"
	"github.com/heartmarshall/wiktapi/internal/transport/rest"
)

// NewRouter mounts all routes and wraps them in the middleware chain:
// RequestID → Logger → Recovery → CORS. An empty origin list disables CORS.
func NewRouter(logger *slog.Logger, cors config.CORSConfig, dict *rest.DictionaryHandler, health *rest.HealthHandler) http.Handler {
	mux := http.NewServeMux()
	dict.Register(mux)
	health.Register(mux)

	var corsMW middleware.Middleware
	if cors.AllowedOrigins != "" {
		corsMW = middleware.CORS(cors)
	}

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		corsMW,
	)
	return chain(mux)
}
