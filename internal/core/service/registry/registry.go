// Package registry is the owner-scoped view of finalized files and their sharing settings.
package registry

import (
	"context"
	"log/slog"
	"xenbox/internal/config"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/share"

	"github.com/google/uuid"
)

const (
	defaultAccessLogLimit = 50
	maxAccessLogLimit     = 500
)

type registryService struct {
	uow       port.UnitOfWork
	storage   port.BlobStorage
	hasher    port.PasswordHasher
	quota     port.QuotaGuard
	publisher port.EventPublisher
	shareCfg  config.ShareConfig
	logger    *slog.Logger
}

// NewRegistryService creates a new file registry
func NewRegistryService(
	uow port.UnitOfWork,
	storage port.BlobStorage,
	hasher port.PasswordHasher,
	quota port.QuotaGuard,
	publisher port.EventPublisher,
	shareCfg config.ShareConfig,
	logger *slog.Logger,
) port.FileService {
	return &registryService{
		uow:       uow,
		storage:   storage,
		hasher:    hasher,
		quota:     quota,
		publisher: publisher,
		shareCfg:  shareCfg,
		logger:    logger,
	}
}

// findOwned hides files of other owners behind ErrFileNotFound
func (r *registryService) findOwned(ctx context.Context, repo port.FileRepository, ownerID string, fileID uuid.UUID) (*domain.XenBoxFile, error) {
	file, err := repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != ownerID {
		return nil, domain.ErrFileNotFound
	}
	return file, nil
}

func (r *registryService) shareURL(token string) string {
	return share.URL(r.shareCfg.BaseURL, token)
}

func (r *registryService) settingsOf(file *domain.XenBoxFile) *domain.FileSettingsResult {
	return &domain.FileSettingsResult{
		ShareURL:    r.shareURL(file.ShareToken),
		HasPassword: file.HasPassword(),
		ExpiresAt:   file.ExpiresAt,
	}
}
