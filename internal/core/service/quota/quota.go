package quota

import (
	"context"
	"errors"
	"fmt"
	"xenbox/internal/config"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
)

type quotaGuard struct {
	uow port.UnitOfWork
	cfg config.QuotaConfig
}

// NewQuotaGuard creates a new quota guard
func NewQuotaGuard(uow port.UnitOfWork, cfg config.QuotaConfig) port.QuotaGuard {
	return &quotaGuard{uow: uow, cfg: cfg}
}

// Check tells whether size more bytes fit in the owner's quota right now
func (q *quotaGuard) Check(ctx context.Context, ownerID string, size uint64) error {
	usage, err := q.Usage(ctx, ownerID)
	if err != nil {
		return err
	}
	if !usage.Admits(size) {
		return fmt.Errorf("%w: %d bytes requested, %d remaining", domain.ErrQuotaExceeded, size, usage.Remaining())
	}
	return nil
}

// Reserve accounts size against the owner's quota under a row lock
func (q *quotaGuard) Reserve(ctx context.Context, uow port.UnitOfWork, ownerID string, size uint64) error {
	if err := uow.QuotaRepo().Ensure(ctx, ownerID, q.cfg.DefaultSpaceAllowed); err != nil {
		return err
	}

	locked, err := uow.QuotaRepo().FindForUpdate(ctx, ownerID)
	if err != nil {
		return err
	}
	if !locked.Admits(size) {
		return fmt.Errorf("%w: %d bytes requested, %d remaining", domain.ErrQuotaExceeded, size, locked.Remaining())
	}

	return uow.QuotaRepo().AddUsed(ctx, ownerID, int64(size))
}

// Release gives size bytes back to the owner's quota under a row lock
func (q *quotaGuard) Release(ctx context.Context, uow port.UnitOfWork, ownerID string, size uint64) error {
	locked, err := uow.QuotaRepo().FindForUpdate(ctx, ownerID)
	if err != nil {
		return err
	}
	delta := min(size, locked.SpaceUsed)
	return uow.QuotaRepo().AddUsed(ctx, ownerID, -int64(delta))
}

// Usage returns the owner's quota, with the default allowance for unknown owners
func (q *quotaGuard) Usage(ctx context.Context, ownerID string) (*domain.Quota, error) {
	usage, err := q.uow.QuotaRepo().Find(ctx, ownerID)
	if errors.Is(err, domain.ErrQuotaNotFound) {
		return &domain.Quota{OwnerID: ownerID, SpaceAllowed: q.cfg.DefaultSpaceAllowed}, nil
	}
	if err != nil {
		return nil, err
	}
	return usage, nil
}
