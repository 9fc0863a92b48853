package chi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	http2 "net/http"
	"net/http/httptest"
	"testing"
	"xenbox/internal/adapters/handlers/http/chi"
	"xenbox/internal/adapters/handlers/http/chi/v1/files"
	"xenbox/internal/config"
	"xenbox/internal/core/service/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestHealth(t *testing.T) {
	// Arrange
	h := chi.NewRouter(discardLogger, chi.Handlers{}, &config.Config{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/health", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusOK, w.Code)
	var response chi.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestOwnerRoutesRequireToken(t *testing.T) {
	// Arrange
	mockService := registry.NewMockFileService()
	handlers := chi.Handlers{Files: files.NewFilesHandlerV1(mockService, discardLogger)}
	h := chi.NewRouter(discardLogger, handlers, &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret"}})

	for _, path := range []string{"/api/v1/xenbox/files/", "/api/v1/xenbox/quota"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, path, nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusUnauthorized, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"), path)
	}
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
