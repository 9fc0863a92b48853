package upload

import (
	"context"
	"fmt"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/service/chunk"

	"github.com/google/uuid"
)

// Initiate validates the declared file against the server chunk size and the owner's quota,
// then opens a session
func (u *uploadService) Initiate(ctx context.Context, ownerID string, filename string, fileSize uint64, totalChunks uint32) (uuid.UUID, error) {
	name, err := sanitizeFilename(filename)
	if err != nil {
		return uuid.Nil, err
	}

	if fileSize == 0 {
		return uuid.Nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidFileSize)
	}
	if u.cfg.MaxFileSize > 0 && fileSize > u.cfg.MaxFileSize {
		return uuid.Nil, fmt.Errorf("%w: %d bytes exceeds the %d bytes limit", domain.ErrInvalidFileSize, fileSize, u.cfg.MaxFileSize)
	}

	expected := chunk.Count(fileSize, u.cfg.ChunkSize)
	if uint64(totalChunks) != expected {
		return uuid.Nil, fmt.Errorf("%w: got %d, expected %d", domain.ErrChunkCountMismatch, totalChunks, expected)
	}

	if err := u.quota.Check(ctx, ownerID, fileSize); err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	session := domain.UploadSession{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Filename:       name,
		FileSize:       fileSize,
		TotalChunks:    totalChunks,
		ChunkSize:      u.cfg.ChunkSize,
		State:          domain.UploadSessionStateInitiated,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(u.cfg.SessionTTL),
	}

	if err := u.uow.UploadSessionRepo().Create(ctx, session); err != nil {
		return uuid.Nil, err
	}

	u.logger.Info("upload initiated",
		"upload_id", session.ID,
		"owner_id", ownerID,
		"file_size", fileSize,
		"total_chunks", totalChunks)

	return session.ID, nil
}
