package port

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

// UploadService coordinates the lifecycle of chunked uploads
type UploadService interface {
	Initiate(ctx context.Context, ownerID string, filename string, fileSize uint64, totalChunks uint32) (uuid.UUID, error)
	ReceiveChunk(ctx context.Context, ownerID string, uploadID uuid.UUID, index uint32, totalChunks uint32, data []byte) (uint32, error)
	Finalize(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.FileDescriptor, error)
	Cancel(ctx context.Context, ownerID string, uploadID uuid.UUID) error
	Status(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.UploadStatus, error)
}
