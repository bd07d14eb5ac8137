package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRecoverer returns a middleware that turns a panic in a downstream handler
// into a logged 500 response in the standard error envelope. When showDetail
// is set, the panic value is echoed in the response's detail field.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
// as intended.
func NewRecoverer(log *slog.Logger, showDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.ErrorContext(r.Context(), "panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", chimiddleware.GetReqID(r.Context()),
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)

				// Upgraded connections have no usable response to write to.
				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				detail := ""
				if showDetail {
					detail = fmt.Sprint(rec)
				}
				writeError(w, http.StatusInternalServerError, "Internal server error", detail)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
