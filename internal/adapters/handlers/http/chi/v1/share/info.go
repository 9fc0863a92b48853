package share

import (
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"

	"github.com/go-chi/chi/v5"
)

// V1InfoResponse describes a shared file
type V1InfoResponse struct {
	Filename         string `json:"filename"`
	Size             uint64 `json:"size"`
	MimeType         string `json:"mimeType"`
	RequiresPassword bool   `json:"requiresPassword"`
}

// InfoV1 describes a shared file without sending it
func (h *HandlerV1) InfoV1(w http.ResponseWriter, r *http.Request) {
	info, err := h.shareService.Info(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, V1InfoResponse{
		Filename:         info.Filename,
		Size:             info.SizeBytes,
		MimeType:         info.MimeType,
		RequiresPassword: info.RequiresPassword,
	})
}
