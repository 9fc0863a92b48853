package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
)

type sqlQuotaRepository struct {
	db SQLQuerier
}

// NewSQLQuotaRepository creates sqlQuotaRepository
func NewSQLQuotaRepository(db SQLQuerier) port.QuotaRepository {
	return &sqlQuotaRepository{db: db}
}

// Ensure inserts the owner's quota row unless it exists
func (s *sqlQuotaRepository) Ensure(ctx context.Context, ownerID string, spaceAllowed uint64) error {
	query := `INSERT INTO user_quota (owner_id, space_allowed) VALUES ($1, $2) ON CONFLICT (owner_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, ownerID, int64(spaceAllowed)); err != nil {
		return fmt.Errorf("error ensuring quota: %w", err)
	}
	return nil
}

func (s *sqlQuotaRepository) Find(ctx context.Context, ownerID string) (*domain.Quota, error) {
	return s.find(ctx, `SELECT owner_id, space_allowed, space_used FROM user_quota WHERE owner_id = $1`, ownerID)
}

// FindForUpdate locks the owner's quota row until the transaction ends
func (s *sqlQuotaRepository) FindForUpdate(ctx context.Context, ownerID string) (*domain.Quota, error) {
	return s.find(ctx, `SELECT owner_id, space_allowed, space_used FROM user_quota WHERE owner_id = $1 FOR UPDATE`, ownerID)
}

func (s *sqlQuotaRepository) find(ctx context.Context, query string, ownerID string) (*domain.Quota, error) {
	var row dbQuota
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&row.OwnerID, &row.SpaceAllowed, &row.SpaceUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuotaNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// AddUsed adds delta (possibly negative) to space_used, never below zero
func (s *sqlQuotaRepository) AddUsed(ctx context.Context, ownerID string, delta int64) error {
	query := `UPDATE user_quota SET space_used = GREATEST(space_used + $1, 0), updated_at = now() WHERE owner_id = $2`

	result, err := s.db.ExecContext(ctx, query, delta, ownerID)
	if err != nil {
		return fmt.Errorf("error updating quota: %w", err)
	}

	return expectOneRow(result, domain.ErrQuotaNotFound)
}

type dbQuota struct {
	OwnerID      string `db:"owner_id"`
	SpaceAllowed int64  `db:"space_allowed"`
	SpaceUsed    int64  `db:"space_used"`
}

// ToDomain converts to domain.Quota
func (q *dbQuota) ToDomain() *domain.Quota {
	return &domain.Quota{
		OwnerID:      q.OwnerID,
		SpaceAllowed: uint64(q.SpaceAllowed),
		SpaceUsed:    uint64(q.SpaceUsed),
	}
}
