package files

import (
	"log/slog"
	"net/http"
	"time"
	"xenbox/internal/adapters/handlers/http/chi/auth"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 owner file routes
type HandlerV1 struct {
	fileService port.FileService
	logger      *slog.Logger
}

// NewFilesHandlerV1 creates HandlerV1
func NewFilesHandlerV1(service port.FileService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		fileService: service,
		logger:      logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", h.ListV1)
	router.Get("/{fileID}", h.GetV1)
	router.Patch("/{fileID}/settings", h.UpdateSettingsV1)
	router.Post("/{fileID}/share-token", h.RotateShareTokenV1)
	router.Delete("/{fileID}", h.DeleteV1)
	router.Get("/{fileID}/access-log", h.AccessLogV1)

	return router
}

// V1FileResponse describes one of the owner's files
type V1FileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mimeType"`
	Size        uint64     `json:"size"`
	ShareURL    string     `json:"shareUrl"`
	HasPassword bool       `json:"hasPassword"`
	Expiry      *time.Time `json:"expiry"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toFileResponse(d domain.FileDescriptor) V1FileResponse {
	return V1FileResponse{
		ID:          d.ID,
		Filename:    d.Filename,
		MimeType:    d.MimeType,
		Size:        d.SizeBytes,
		ShareURL:    d.ShareURL,
		HasPassword: d.HasPassword,
		Expiry:      d.ExpiresAt,
		CreatedAt:   d.CreatedAt,
	}
}

// V1SettingsResponse is the share state of a file
type V1SettingsResponse struct {
	ShareURL    string     `json:"shareUrl"`
	HasPassword bool       `json:"hasPassword"`
	Expiry      *time.Time `json:"expiry"`
}

func toSettingsResponse(s *domain.FileSettingsResult) V1SettingsResponse {
	return V1SettingsResponse{
		ShareURL:    s.ShareURL,
		HasPassword: s.HasPassword,
		Expiry:      s.ExpiresAt,
	}
}

// target resolves the caller and the fileID path parameter
func (h *HandlerV1) target(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return "", uuid.Nil, false
	}
	fileID, err := rest.ParseID(chi.URLParam(r, "fileID"))
	if err != nil {
		rest.BadRequest(w, err)
		return "", uuid.Nil, false
	}
	return owner, fileID, true
}
