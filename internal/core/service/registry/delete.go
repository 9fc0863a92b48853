package registry

import (
	"context"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
)

// Delete removes the file and gives its bytes back to the owner's quota
func (r *registryService) Delete(ctx context.Context, ownerID string, fileID uuid.UUID) error {
	var file *domain.XenBoxFile
	err := r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		var err error
		file, err = r.findOwned(ctx, uow.FileRepo(), ownerID, fileID)
		if err != nil {
			return err
		}
		if err := uow.FileRepo().Delete(ctx, fileID); err != nil {
			return err
		}
		return r.quota.Release(ctx, uow, ownerID, file.SizeBytes)
	})
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if err := r.storage.DeleteObject(ctx, file.StorageKey); err != nil {
		r.logger.Warn("failed to delete file object", "file_id", fileID, "key", file.StorageKey, "error", err)
	}

	event := domain.NewEvent(domain.EventTypeFileDeleted, fileID)
	event.OwnerID = ownerID
	event.SizeBytes = file.SizeBytes
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish event", "type", event.Type, "file_id", fileID, "error", err)
	}

	r.logger.Info("file deleted", "file_id", fileID, "size", file.SizeBytes)

	return nil
}
