// Package middleware provides reusable HTTP middleware for the Places API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight result.
const corsMaxAge = 600

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Credentials are allowed, so "*" must not be used as an origin in production.
// Preflights answer 200 rather than 204 for older clients that reject 204.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:       allowedOrigins,
		AllowedMethods:       []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:       []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders:       []string{"X-Request-Id", "Retry-After"},
		AllowCredentials:     true,
		MaxAge:               corsMaxAge,
		OptionsSuccessStatus: http.StatusOK,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
