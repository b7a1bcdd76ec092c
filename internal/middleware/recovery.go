package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"manuals/internal/httputil"
	"manuals/internal/metrics"
)

// Recovery turns a handler panic into a 500 problem response, logs the stack
// with the request id and counts it in manuals_http_panics_recovered_total.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
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

				metrics.PanicsRecoveredTotal.WithLabelValues(r.Method).Inc()
				logger.Error("handler panicked",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", httputil.GetRequestID(r),
					"user_id", httputil.GetUserID(r),
					"stack", string(debug.Stack()),
				)

				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
