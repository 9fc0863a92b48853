package share

import (
	"log/slog"
	"xenbox/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// passwordHeader carries the share password when it should stay out of the URL
const passwordHeader = "X-Share-Password"

// HandlerV1 is the handler for v1 anonymous share routes
type HandlerV1 struct {
	shareService port.ShareService
	logger       *slog.Logger
}

// NewShareHandlerV1 creates HandlerV1
func NewShareHandlerV1(service port.ShareService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		shareService: service,
		logger:       logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{token}", h.InfoV1)
	router.Get("/{token}/download", h.DownloadV1)

	return router
}
