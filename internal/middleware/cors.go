package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// corsOptions allows the planner frontends to call the recycle and entity
// routes. Credentials are only allowed for an explicit origin list; the
// bearer token travels in a header, never a cookie.
func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{"Retry-After", requestIDHeader},
		MaxAge:           3600,
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}

func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(corsOptions(origins)).Handler
}
