package middleware

import "net/http"

// hstsValue asks browsers to use HTTPS for 180 days, subdomains included.
const hstsValue = "max-age=15552000; includeSubDomains"

// NewSecureHeaders returns a middleware that sets conservative security
// headers on every response. The API serves only JSON, CSV and YAML, so the
// content security policy forbids everything. Resources may be loaded cross
// origin because the frontend is served from a different host.
// Strict-Transport-Security is only sent when hsts is true; it must not be
// sent by a server reachable over plain HTTP in development.
func NewSecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Cross-Origin-Resource-Policy", "cross-origin")
			h.Set("X-DNS-Prefetch-Control", "off")
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			next.ServeHTTP(w, r)
		})
	}
}
