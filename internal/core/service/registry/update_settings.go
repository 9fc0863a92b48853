package registry

import (
	"context"
	"fmt"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
)

// UpdateSettings sets or clears the share password and expiry. Unset fields keep their value.
func (r *registryService) UpdateSettings(ctx context.Context, ownerID string, fileID uuid.UUID, settings domain.FileSettings) (*domain.FileSettingsResult, error) {
	passwordHash, err := r.hashPassword(settings.Password)
	if err != nil {
		return nil, err
	}

	var updated *domain.XenBoxFile
	err = r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if _, err := r.findOwned(ctx, uow.FileRepo(), ownerID, fileID); err != nil {
			return err
		}
		if err := uow.FileRepo().UpdateSettings(ctx, fileID, passwordHash, settings.ExpiresAt); err != nil {
			return err
		}
		updated, err = uow.FileRepo().FindByID(ctx, fileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("share settings updated",
		"file_id", fileID,
		"password_changed", settings.Password.Set,
		"expiry_changed", settings.ExpiresAt.Set)

	return r.settingsOf(updated), nil
}

func (r *registryService) hashPassword(password domain.Optional[string]) (domain.Optional[string], error) {
	if !password.Set || password.Value == nil {
		return password, nil
	}
	if *password.Value == "" {
		return domain.Optional[string]{}, fmt.Errorf("%w: password must not be empty", domain.ErrInvalidPassword)
	}

	hash, err := r.hasher.Hash(*password.Value)
	if err != nil {
		return domain.Optional[string]{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return domain.Some(hash), nil
}

