package upload

import (
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/service/chunk"
)

// V1ChunkRequest carries one base64 encoded chunk
type V1ChunkRequest struct {
	UploadID    string  `json:"uploadId" validate:"required,uuid"`
	ChunkIndex  *uint32 `json:"chunkIndex" validate:"required"`
	TotalChunks uint32  `json:"totalChunks" validate:"required"`
	ChunkData   string  `json:"chunkData" validate:"required"`
}

// V1ChunkResponse acknowledges a stored chunk
type V1ChunkResponse struct {
	ChunkIndex uint32 `json:"chunkIndex"`
}

// ChunkV1 stores one chunk of an upload
func (h *HandlerV1) ChunkV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req V1ChunkRequest
	if err := rest.Decode(r, &req); err != nil {
		rest.BadRequest(w, err)
		return
	}
	uploadID, err := rest.ParseID(req.UploadID)
	if err != nil {
		rest.BadRequest(w, err)
		return
	}

	data, err := chunk.Decode(req.ChunkData)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	index, err := h.uploadService.ReceiveChunk(r.Context(), owner, uploadID, *req.ChunkIndex, req.TotalChunks, data)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, V1ChunkResponse{ChunkIndex: index})
}
