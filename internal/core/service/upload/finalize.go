package upload

import (
	"context"
	"errors"
	"fmt"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/chunk"
	"xenbox/internal/core/service/share"

	"github.com/google/uuid"
)

// Finalize assembles every chunk in index order into one object and commits the file.
// IncompleteUpload, SizeMismatch and QuotaExceeded discard the session; any other failure
// puts it back to receiving so finalize can be retried.
func (u *uploadService) Finalize(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.FileDescriptor, error) {
	unlock := u.locks.Lock(uploadID)
	defer unlock()

	session, err := u.findOwned(ctx, ownerID, uploadID)
	if err != nil {
		return nil, err
	}
	if !session.State.AcceptsChunks() {
		return nil, domain.ErrSessionNotFound
	}

	chunks, err := u.uow.UploadChunkRepo().ListBySessionID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if missing := missingIndices(session.TotalChunks, chunks); len(missing) > 0 {
		u.discard(ctx, uploadID)
		u.logger.Info("upload discarded", "upload_id", uploadID, "reason", "incomplete", "missing", len(missing))
		return nil, fmt.Errorf("%w: %d of %d chunks missing", domain.ErrIncompleteUpload, len(missing), session.TotalChunks)
	}

	err = u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		err := uow.UploadSessionRepo().UpdateState(ctx, uploadID,
			[]domain.UploadSessionState{domain.UploadSessionStateInitiated, domain.UploadSessionStateReceiving},
			domain.UploadSessionStateFinalizing)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		return uow.UploadSessionRepo().Touch(ctx, uploadID, now, now.Add(u.cfg.SessionTTL))
	})
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	destKey := fileKey(ownerID, fileID)

	stopKeepAlive := u.keepAlive(ctx, uploadID)
	assembled, err := u.assembler.Assemble(ctx, chunk.Keys(uploadID, chunks), destKey, session.Filename)
	stopKeepAlive()
	if err != nil {
		u.rollback(ctx, uploadID, destKey)
		return nil, fmt.Errorf("failed to assemble upload: %w", err)
	}

	if assembled.SizeBytes != session.FileSize {
		u.discard(ctx, uploadID, destKey)
		u.logger.Info("upload discarded", "upload_id", uploadID, "reason", "size mismatch",
			"declared", session.FileSize, "assembled", assembled.SizeBytes)
		return nil, fmt.Errorf("%w: declared %d bytes, assembled %d", domain.ErrSizeMismatch, session.FileSize, assembled.SizeBytes)
	}

	token, err := share.NewToken()
	if err != nil {
		u.rollback(ctx, uploadID, destKey)
		return nil, err
	}

	now := time.Now().UTC()
	file := domain.XenBoxFile{
		ID:         fileID,
		OwnerID:    ownerID,
		Filename:   session.Filename,
		MimeType:   assembled.MimeType,
		SizeBytes:  assembled.SizeBytes,
		Checksum:   assembled.Checksum,
		StorageKey: destKey,
		ShareToken: token,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		locked, err := uow.UploadSessionRepo().FindByIDForUpdate(ctx, uploadID)
		if err != nil {
			return err
		}
		if locked.State != domain.UploadSessionStateFinalizing {
			return domain.ErrSessionNotFound
		}
		if err := u.quota.Reserve(ctx, uow, ownerID, file.SizeBytes); err != nil {
			return err
		}
		if err := uow.FileRepo().Create(ctx, file); err != nil {
			return err
		}
		return uow.UploadSessionRepo().Delete(ctx, uploadID)
	})

	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		u.discard(ctx, uploadID, destKey)
		u.logger.Info("upload discarded", "upload_id", uploadID, "reason", "quota exceeded")
		return nil, err
	case errors.Is(err, domain.ErrSessionNotFound):
		// cancelled while assembling
		u.deleteObjects(context.WithoutCancel(ctx), uploadID, destKey)
		return nil, err
	case err != nil:
		u.rollback(ctx, uploadID, destKey)
		return nil, err
	}

	u.deleteObjects(context.WithoutCancel(ctx), uploadID)

	event := domain.NewEvent(domain.EventTypeFileCommitted, file.ID)
	event.OwnerID = ownerID
	event.SizeBytes = file.SizeBytes
	u.publish(ctx, event)

	u.logger.Info("upload committed",
		"upload_id", uploadID,
		"file_id", file.ID,
		"size", file.SizeBytes,
		"mime_type", file.MimeType)

	descriptor := file.Descriptor(share.URL(u.shareCfg.BaseURL, file.ShareToken))
	return &descriptor, nil
}

// rollback puts a finalizing session back to receiving and drops the partial object
func (u *uploadService) rollback(ctx context.Context, uploadID uuid.UUID, destKey string) {
	ctx = context.WithoutCancel(ctx)

	err := u.uow.UploadSessionRepo().UpdateState(ctx, uploadID,
		[]domain.UploadSessionState{domain.UploadSessionStateFinalizing},
		domain.UploadSessionStateReceiving)
	if err != nil {
		u.logger.Error("failed to roll back upload session", "upload_id", uploadID, "error", err)
	}
	if err := u.storage.DeleteObject(ctx, destKey); err != nil {
		u.logger.Warn("failed to delete partial object", "upload_id", uploadID, "key", destKey, "error", err)
	}
}

// keepAlive pushes the session expiry forward every third of the session TTL until stopped,
// so an assembly longer than the TTL is not reclaimed by cleanup
func (u *uploadService) keepAlive(ctx context.Context, uploadID uuid.UUID) (stop func()) {
	interval := u.cfg.SessionTTL / 3
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				if err := u.uow.UploadSessionRepo().Touch(ctx, uploadID, now, now.Add(u.cfg.SessionTTL)); err != nil {
					u.logger.Warn("failed to extend finalizing session", "upload_id", uploadID, "error", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// missingIndices lists every index in [0, total) without a received chunk
func missingIndices(total uint32, chunks []domain.UploadChunk) []uint32 {
	seen := make([]bool, total)
	for _, c := range chunks {
		if c.Index < total {
			seen[c.Index] = true
		}
	}

	missing := make([]uint32, 0)
	for i, ok := range seen {
		if !ok {
			missing = append(missing, uint32(i))
		}
	}
	return missing
}
