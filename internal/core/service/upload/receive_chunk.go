package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/chunk"

	"github.com/google/uuid"
)

// ReceiveChunk stores one chunk. Resending identical bytes for an index is acknowledged again,
// different bytes for an accepted index are rejected.
func (u *uploadService) ReceiveChunk(ctx context.Context, ownerID string, uploadID uuid.UUID, index uint32, totalChunks uint32, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, domain.ErrEmptyChunk
	}

	unlock := u.locks.RLock(uploadID)
	defer unlock()

	session, err := u.findOwned(ctx, ownerID, uploadID)
	if err != nil {
		return 0, err
	}
	if !session.State.AcceptsChunks() {
		return 0, domain.ErrSessionNotFound
	}
	if totalChunks != session.TotalChunks {
		return 0, fmt.Errorf("%w: got %d, session has %d", domain.ErrChunkCountMismatch, totalChunks, session.TotalChunks)
	}
	if index >= session.TotalChunks {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrChunkIndexOutOfRange, index, session.TotalChunks)
	}
	if uint64(len(data)) > uint64(session.ChunkSize) {
		return 0, fmt.Errorf("%w: %d bytes, max %d", domain.ErrChunkTooLarge, len(data), session.ChunkSize)
	}

	received := domain.UploadChunk{
		SessionID:  uploadID,
		Index:      index,
		SizeBytes:  uint32(len(data)),
		Checksum:   chunk.Digest(data),
		ReceivedAt: time.Now().UTC(),
	}

	existing, err := u.uow.UploadChunkRepo().Find(ctx, uploadID, index)
	switch {
	case err == nil:
		return u.acknowledgeDuplicate(ctx, session, existing, received)
	case !errors.Is(err, domain.ErrChunkNotFound):
		return 0, err
	}

	key := chunk.Key(uploadID, index, received.Checksum)
	if err := u.storage.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), "application/octet-stream"); err != nil {
		return 0, fmt.Errorf("failed to store chunk %d: %w", index, err)
	}

	err = u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		locked, err := uow.UploadSessionRepo().FindByIDForShare(ctx, uploadID)
		if err != nil {
			return err
		}
		if !locked.State.AcceptsChunks() {
			return domain.ErrSessionNotFound
		}
		if err := uow.UploadChunkRepo().Create(ctx, received); err != nil {
			return err
		}
		return u.advance(ctx, uow, uploadID)
	})

	if errors.Is(err, domain.ErrAlreadyExists) {
		// a concurrent request stored this index first
		existing, findErr := u.uow.UploadChunkRepo().Find(ctx, uploadID, index)
		if findErr != nil {
			return 0, findErr
		}
		return u.acknowledgeDuplicate(ctx, session, existing, received)
	}
	if err != nil {
		// an unreferenced object stays under the session prefix until the session ends
		return 0, err
	}

	u.logger.Debug("chunk received", "upload_id", uploadID, "chunk_index", index, "size", received.SizeBytes)

	return index, nil
}

// advance moves the session to receiving and pushes its expiry forward
func (u *uploadService) advance(ctx context.Context, uow port.UnitOfWork, uploadID uuid.UUID) error {
	err := uow.UploadSessionRepo().UpdateState(ctx, uploadID,
		[]domain.UploadSessionState{domain.UploadSessionStateInitiated, domain.UploadSessionStateReceiving},
		domain.UploadSessionStateReceiving)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return uow.UploadSessionRepo().Touch(ctx, uploadID, now, now.Add(u.cfg.SessionTTL))
}

func (u *uploadService) acknowledgeDuplicate(ctx context.Context, session *domain.UploadSession, existing *domain.UploadChunk, received domain.UploadChunk) (uint32, error) {
	if existing.Checksum != received.Checksum {
		return 0, fmt.Errorf("%w: index %d", domain.ErrChunkConflict, received.Index)
	}

	err := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		return u.advance(ctx, uow, session.ID)
	})
	if err != nil {
		return 0, err
	}
	return received.Index, nil
}
