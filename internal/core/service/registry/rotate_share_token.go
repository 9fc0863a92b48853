package registry

import (
	"context"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/share"

	"github.com/google/uuid"
)

// RotateShareToken replaces the share token. The previous link stops resolving at once.
func (r *registryService) RotateShareToken(ctx context.Context, ownerID string, fileID uuid.UUID) (*domain.FileSettingsResult, error) {
	token, err := share.NewToken()
	if err != nil {
		return nil, err
	}

	var file *domain.XenBoxFile
	err = r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		var err error
		file, err = r.findOwned(ctx, uow.FileRepo(), ownerID, fileID)
		if err != nil {
			return err
		}
		return uow.FileRepo().UpdateShareToken(ctx, fileID, token)
	})
	if err != nil {
		return nil, err
	}
	file.ShareToken = token

	r.logger.Info("share token rotated", "file_id", fileID)

	return r.settingsOf(file), nil
}
