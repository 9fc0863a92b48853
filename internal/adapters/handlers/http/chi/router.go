package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
	"xenbox/internal/adapters/handlers/http/chi/auth"
	"xenbox/internal/adapters/handlers/http/chi/v1/files"
	"xenbox/internal/adapters/handlers/http/chi/v1/share"
	"xenbox/internal/adapters/handlers/http/chi/v1/upload"
	"xenbox/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups the v1 route handlers
type Handlers struct {
	Upload *upload.HandlerV1
	Files  *files.HandlerV1
	Share  *share.HandlerV1
}

// NewRouter builds http.Handler with chi
func NewRouter(logger *slog.Logger, handlers Handlers, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	if cfg.Server.MaxRequestBytes > 0 {
		r.Use(middleware.RequestSize(cfg.Server.MaxRequestBytes))
	}

	if cfg.Env.Env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Share-Password"},
			ExposedHeaders:   []string{"Content-Disposition", "Content-Range", "Accept-Ranges"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1/xenbox", func(r chi.Router) {
		// downloads stream for as long as the client reads, no request timeout
		if handlers.Share != nil {
			r.Mount("/share", handlers.Share.Routes())
		}

		// finalize reads every chunk back to assemble the file, no request timeout
		if handlers.Upload != nil {
			r.With(auth.Middleware(cfg.Auth, logger)).Post("/upload/finalize", handlers.Upload.FinalizeV1)
		}

		r.Group(func(r chi.Router) {
			if cfg.Server.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
			}
			r.Use(auth.Middleware(cfg.Auth, logger))

			if handlers.Upload != nil {
				r.Mount("/upload", handlers.Upload.Routes())
			}
			if handlers.Files != nil {
				r.Mount("/files", handlers.Files.Routes())
				r.Get("/quota", handlers.Files.QuotaV1)
			}
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
