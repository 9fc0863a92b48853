package port

import (
	"context"
	"time"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session repositories
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	// FindByIDForShare locks the session row against state changes until the transaction ends
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	// FindByIDForUpdate locks the session row exclusively until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	UpdateState(ctx context.Context, id uuid.UUID, from []domain.UploadSessionState, to domain.UploadSessionState) error
	Touch(ctx context.Context, id uuid.UUID, now time.Time, expiresAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error)
}

// UploadChunkRepository is an interface to interact with received chunks
type UploadChunkRepository interface {
	Create(ctx context.Context, chunk domain.UploadChunk) error
	Find(ctx context.Context, sessionID uuid.UUID, index uint32) (*domain.UploadChunk, error)
	ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadChunk, error)
}
