package upload

import (
	"net/http"
	"time"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"

	"github.com/google/uuid"
)

// V1SessionRequest names an upload session
type V1SessionRequest struct {
	UploadID string `json:"uploadId" validate:"required,uuid"`
}

// V1FinalizeResponse describes the committed file
type V1FinalizeResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Size      uint64    `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *HandlerV1) decodeSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req V1SessionRequest
	if err := rest.Decode(r, &req); err != nil {
		rest.BadRequest(w, err)
		return uuid.Nil, false
	}
	uploadID, err := rest.ParseID(req.UploadID)
	if err != nil {
		rest.BadRequest(w, err)
		return uuid.Nil, false
	}
	return uploadID, true
}

// FinalizeV1 assembles the received chunks into a file
func (h *HandlerV1) FinalizeV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	uploadID, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	descriptor, err := h.uploadService.Finalize(r.Context(), owner, uploadID)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusCreated, V1FinalizeResponse{
		ID:        descriptor.ID,
		URL:       descriptor.ShareURL,
		Filename:  descriptor.Filename,
		MimeType:  descriptor.MimeType,
		Size:      descriptor.SizeBytes,
		CreatedAt: descriptor.CreatedAt,
	})
}

// CancelV1 discards an upload session
func (h *HandlerV1) CancelV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	uploadID, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	if err := h.uploadService.Cancel(r.Context(), owner, uploadID); err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
