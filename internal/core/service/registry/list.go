package registry

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// List returns the owner's files, newest first
func (r *registryService) List(ctx context.Context, ownerID string) ([]domain.FileDescriptor, error) {
	files, err := r.uow.FileRepo().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return lo.Map(files, func(f domain.XenBoxFile, _ int) domain.FileDescriptor {
		return f.Descriptor(r.shareURL(f.ShareToken))
	}), nil
}

// Get returns one of the owner's files
func (r *registryService) Get(ctx context.Context, ownerID string, fileID uuid.UUID) (*domain.FileDescriptor, error) {
	file, err := r.findOwned(ctx, r.uow.FileRepo(), ownerID, fileID)
	if err != nil {
		return nil, err
	}

	descriptor := file.Descriptor(r.shareURL(file.ShareToken))
	return &descriptor, nil
}
