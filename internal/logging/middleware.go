package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs every request once it has been served.
func RequestLogger(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				args := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"remote", r.RemoteAddr,
				}
				if id := middleware.GetReqID(r.Context()); id != "" {
					args = append(args, "request_id", id)
				}

				switch {
				case status >= http.StatusInternalServerError:
					log.Error(r.Context(), "request", args...)
				case status >= http.StatusBadRequest:
					log.Warn(r.Context(), "request", args...)
				default:
					log.Info(r.Context(), "request", args...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
