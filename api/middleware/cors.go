package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/secondchance/secondchance-backend/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"http://localhost:5173", // Vite dev server
}

// CORS returns middleware that applies the API's allowed origin policy.
// The configured frontend URL is always allowed.
func CORS(cfg config.FrontendConfig) func(http.Handler) http.Handler {
	origins := append([]string{}, defaultCORSOrigins...)
	if cfg.URL != "" {
		origins = append(origins, cfg.URL)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
