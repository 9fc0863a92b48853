package upload

import (
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"

	"github.com/google/uuid"
)

// V1InitiateRequest is the request to open an upload session
type V1InitiateRequest struct {
	Filename    string `json:"filename" validate:"required"`
	TotalChunks uint32 `json:"totalChunks" validate:"required"`
	FileSize    uint64 `json:"fileSize" validate:"required"`
}

// V1InitiateResponse is the response to open an upload session
type V1InitiateResponse struct {
	UploadID uuid.UUID `json:"uploadId"`
}

// InitiateV1 opens an upload session
func (h *HandlerV1) InitiateV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req V1InitiateRequest
	if err := rest.Decode(r, &req); err != nil {
		rest.BadRequest(w, err)
		return
	}

	uploadID, err := h.uploadService.Initiate(r.Context(), owner, req.Filename, req.FileSize, req.TotalChunks)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusCreated, V1InitiateResponse{UploadID: uploadID})
}
