package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"xenbox/internal/adapters/handlers/http/chi/v1/rest"
	"xenbox/internal/core/domain"
)

// V1UpdateSettingsRequest changes the share settings. An omitted field is kept, null clears it.
type V1UpdateSettingsRequest struct {
	Password json.RawMessage `json:"password"`
	Expiry   json.RawMessage `json:"expiry"`
}

func (req V1UpdateSettingsRequest) toSettings() (domain.FileSettings, error) {
	password, err := optional[string](req.Password)
	if err != nil {
		return domain.FileSettings{}, fmt.Errorf("invalid password: %w", err)
	}
	expiry, err := optional[time.Time](req.Expiry)
	if err != nil {
		return domain.FileSettings{}, fmt.Errorf("invalid expiry: %w", err)
	}
	if expiry.Value != nil {
		utc := expiry.Value.UTC()
		expiry.Value = &utc
	}
	return domain.FileSettings{Password: password, ExpiresAt: expiry}, nil
}

func optional[T any](raw json.RawMessage) (domain.Optional[T], error) {
	if len(raw) == 0 {
		return domain.Optional[T]{}, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return domain.Null[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.Optional[T]{}, err
	}
	return domain.Some(v), nil
}

// UpdateSettingsV1 sets or clears the share password and expiry
func (h *HandlerV1) UpdateSettingsV1(w http.ResponseWriter, r *http.Request) {
	owner, fileID, ok := h.target(w, r)
	if !ok {
		return
	}

	var req V1UpdateSettingsRequest
	if err := rest.Decode(r, &req); err != nil {
		rest.BadRequest(w, err)
		return
	}
	settings, err := req.toSettings()
	if err != nil {
		rest.BadRequest(w, err)
		return
	}

	result, err := h.fileService.UpdateSettings(r.Context(), owner, fileID, settings)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, toSettingsResponse(result))
}

// RotateShareTokenV1 issues a new share link and revokes the previous one
func (h *HandlerV1) RotateShareTokenV1(w http.ResponseWriter, r *http.Request) {
	owner, fileID, ok := h.target(w, r)
	if !ok {
		return
	}

	result, err := h.fileService.RotateShareToken(r.Context(), owner, fileID)
	if err != nil {
		rest.Error(w, h.logger, err)
		return
	}

	rest.JSON(w, h.logger, http.StatusOK, toSettingsResponse(result))
}
