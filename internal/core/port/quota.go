package port

import (
	"context"
	"xenbox/internal/core/domain"
)

// QuotaRepository is an interface to interact with owners' storage accounting
type QuotaRepository interface {
	// Ensure creates the owner's quota row with spaceAllowed if it does not exist yet
	Ensure(ctx context.Context, ownerID string, spaceAllowed uint64) error
	Find(ctx context.Context, ownerID string) (*domain.Quota, error)
	FindForUpdate(ctx context.Context, ownerID string) (*domain.Quota, error)
	AddUsed(ctx context.Context, ownerID string, delta int64) error
}

// QuotaGuard is the admission control over owners' storage
type QuotaGuard interface {
	Check(ctx context.Context, ownerID string, size uint64) error
	// Reserve locks the owner's quota, re-checks it and accounts size; uow must be transactional
	Reserve(ctx context.Context, uow UnitOfWork, ownerID string, size uint64) error
	Release(ctx context.Context, uow UnitOfWork, ownerID string, size uint64) error
	Usage(ctx context.Context, ownerID string) (*domain.Quota, error)
}
