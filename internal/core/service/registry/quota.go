package registry

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

// Quota returns the owner's space usage
func (r *registryService) Quota(ctx context.Context, ownerID string) (*domain.Quota, error) {
	return r.quota.Usage(ctx, ownerID)
}

// AccessLog returns the most recent downloads of one of the owner's files
func (r *registryService) AccessLog(ctx context.Context, ownerID string, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error) {
	if _, err := r.findOwned(ctx, r.uow.FileRepo(), ownerID, fileID); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = defaultAccessLogLimit
	case limit > maxAccessLogLimit:
		limit = maxAccessLogLimit
	}

	return r.uow.AccessEventRepo().ListByFileID(ctx, fileID, limit)
}
