package upload

import (
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1StatusResponse is the progress of an upload session
type V1StatusResponse struct {
	UploadID        uuid.UUID                 `json:"uploadId"`
	State           domain.UploadSessionState `json:"state"`
	TotalChunks     uint32                    `json:"totalChunks"`
	ReceivedChunks  uint32                    `json:"receivedChunks"`
	ReceivedIndices []uint32                  `json:"receivedIndices"`
	MissingIndices  []uint32                  `json:"missingIndices"`
}

// StatusV1 reports which chunks arrived
func (h *HandlerV1) StatusV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	uploadID, err := rest.ParseID(chi.URLParam(r, "uploadID"))
	if err != nil {
		rest.BadRequest(w, err)
		return
	}

	status, err := h.uploadService.Status(r.Context(), owner, uploadID)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, V1StatusResponse{
		UploadID:        status.UploadID,
		State:           status.State,
		TotalChunks:     status.TotalChunks,
		ReceivedChunks:  status.ReceivedChunks,
		ReceivedIndices: status.ReceivedIndices,
		MissingIndices:  status.MissingIndices,
	})
}
