// Package rest holds the request decoding, response writing and error mapping shared by v1 handlers.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"xenbox/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Decode reads a JSON body into req and validates its struct tags
func Decode(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

// ParseID parses a path or body identifier
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// JSON writes body with status
func JSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("error encoding response", "error", err)
	}
}

// Error maps a service error to its status code. Unknown errors are logged and hidden.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrShareNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrChunkIndexOutOfRange),
		errors.Is(err, domain.ErrChunkCountMismatch),
		errors.Is(err, domain.ErrEmptyChunk),
		errors.Is(err, domain.ErrChunkTooLarge),
		errors.Is(err, domain.ErrInvalidChunkData),
		errors.Is(err, domain.ErrInvalidFileSize),
		errors.Is(err, domain.ErrInvalidFilename),
		errors.Is(err, domain.ErrInvalidPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrChunkConflict),
		errors.Is(err, domain.ErrIncompleteUpload),
		errors.Is(err, domain.ErrSizeMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrShareExpired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrSharePasswordRequired),
		errors.Is(err, domain.ErrSharePasswordIncorrect),
		errors.Is(err, domain.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		logger.Error("request failed", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}
}

// BadRequest answers 400 with err's message
func BadRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}
