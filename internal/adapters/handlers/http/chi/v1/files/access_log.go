package files

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"xenbox/internal/adapters/handlers/http/chi/auth"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/domain"

	"github.com/samber/lo"
)

// V1AccessEventResponse is one recorded download
type V1AccessEventResponse struct {
	RemoteAddr string    `json:"remoteAddr"`
	UserAgent  string    `json:"userAgent"`
	OccurredAt time.Time `json:"occurredAt"`
}

// V1QuotaResponse is the caller's space usage
type V1QuotaResponse struct {
	SpaceUsed    uint64 `json:"spaceUsed"`
	SpaceAllowed uint64 `json:"spaceAllowed"`
}

// AccessLogV1 lists recent downloads of one of the caller's files
func (h *HandlerV1) AccessLogV1(w http.ResponseWriter, r *http.Request) {
	owner, fileID, ok := h.target(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			rest.BadRequest(w, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	events, err := h.fileService.AccessLog(r.Context(), owner, fileID, limit)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, lo.Map(events, func(e domain.ShareAccessEvent, _ int) V1AccessEventResponse {
		return V1AccessEventResponse{RemoteAddr: e.RemoteAddr, UserAgent: e.UserAgent, OccurredAt: e.OccurredAt}
	}))
}

// QuotaV1 returns the caller's space usage
func (h *HandlerV1) QuotaV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return
	}

	usage, err := h.fileService.Quota(r.Context(), owner)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, V1QuotaResponse{SpaceUsed: usage.SpaceUsed, SpaceAllowed: usage.SpaceAllowed})
}
