package files

import (
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/auth"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/domain"

	"github.com/samber/lo"
)

// ListV1 lists the caller's files
func (h *HandlerV1) ListV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return
	}

	files, err := h.fileService.List(r.Context(), owner)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, lo.Map(files, func(d domain.FileDescriptor, _ int) V1FileResponse {
		return toFileResponse(d)
	}))
}

// GetV1 returns one of the caller's files
func (h *HandlerV1) GetV1(w http.ResponseWriter, r *http.Request) {
	owner, fileID, ok := h.target(w, r)
	if !ok {
		return
	}

	descriptor, err := h.fileService.Get(r.Context(), owner, fileID)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, toFileResponse(*descriptor))
}

// DeleteV1 deletes one of the caller's files
func (h *HandlerV1) DeleteV1(w http.ResponseWriter, r *http.Request) {
	owner, fileID, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), owner, fileID); err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
