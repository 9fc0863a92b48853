package upload

import (
	"log/slog"
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/auth"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 chunked upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes. Finalize is registered by the router on its own.
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/initiate", h.InitiateV1)
	router.Post("/chunk", h.ChunkV1)
	router.Post("/cancel", h.CancelV1)
	router.Get("/{uploadID}/status", h.StatusV1)

	return router
}

func (h *HandlerV1) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
	}
	return owner, ok
}
