package share

import (
	"mime"
	"net/http"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// DownloadV1 streams a shared file. Range requests are served from the stored object.
func (h *HandlerV1) DownloadV1(w http.ResponseWriter, r *http.Request) {
	var password *string
	if p := r.Header.Get(passwordHeader); p != "" {
		password = &p
	} else if r.URL.Query().Has("password") {
		p := r.URL.Query().Get("password")
		password = &p
	}

	requester := domain.Requester{
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	}

	file, obj, err := h.shareService.Download(r.Context(), chi.URLParam(r, "token"), password, requester)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}
	defer func() {
		if err := obj.Close(); err != nil {
			h.logger.Warn("failed to close object", "file_id", file.ID, "error", err)
		}
	}()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, no-store")

	http.ServeContent(w, r, file.Filename, file.CreatedAt, obj)
}
