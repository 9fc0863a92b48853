package upload

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Status reports which chunks arrived. It does not refresh the session expiry.
func (u *uploadService) Status(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.UploadStatus, error) {
	session, err := u.findOwned(ctx, ownerID, uploadID)
	if err != nil {
		return nil, err
	}

	chunks, err := u.uow.UploadChunkRepo().ListBySessionID(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	received := lo.Map(chunks, func(c domain.UploadChunk, _ int) uint32 {
		return c.Index
	})

	return &domain.UploadStatus{
		UploadID:        uploadID,
		State:           session.State,
		TotalChunks:     session.TotalChunks,
		ReceivedChunks:  uint32(len(received)),
		ReceivedIndices: received,
		MissingIndices:  missingIndices(session.TotalChunks, chunks),
	}, nil
}
