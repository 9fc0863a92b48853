package chi

import (
	"log/slog"
	"net/http"
	"time"
	"xenbox/internal/adapters/handlers/http/chi/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// loggedParams are the route params copied into the request log line
var loggedParams = map[string]string{
	"uploadID": "upload_id",
	"fileID":   "file_id",
}

// LoggerMiddleware logs one line per request with the matched route, the owner and
// the upload or file it addressed. Share tokens are never logged.
func LoggerMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ctx, owner := auth.TrackOwner(r.Context())
			r = r.WithContext(ctx)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				attrs := []any{
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				}
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					if pattern := rctx.RoutePattern(); pattern != "" {
						attrs = append(attrs, "route", pattern)
					}
					for param, key := range loggedParams {
						if v := rctx.URLParam(param); v != "" {
							attrs = append(attrs, key, v)
						}
					}
				}
				if ownerID := owner(); ownerID != "" {
					attrs = append(attrs, "owner_id", ownerID)
				}
				l.Info("http_request", attrs...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
