package upload

import (
	"context"
	"errors"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
)

// Cancel discards the session and its chunks. Unknown sessions are already cancelled.
func (u *uploadService) Cancel(ctx context.Context, ownerID string, uploadID uuid.UUID) error {
	unlock := u.locks.Lock(uploadID)
	defer unlock()

	err := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		session, err := uow.UploadSessionRepo().FindByIDForUpdate(ctx, uploadID)
		if err != nil {
			return err
		}
		if session.OwnerID != ownerID {
			return domain.ErrSessionNotFound
		}
		return uow.UploadSessionRepo().Delete(ctx, uploadID)
	})
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	u.deleteObjects(context.WithoutCancel(ctx), uploadID)

	u.logger.Info("upload cancelled", "upload_id", uploadID, "state", domain.UploadSessionStateCancelled)

	return nil
}
