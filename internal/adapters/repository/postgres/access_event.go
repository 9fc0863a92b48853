package postgres

import (
	"context"
	"errors"
	"fmt"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlAccessEventRepository struct {
	db SQLQuerier
}

// NewSQLAccessEventRepository creates sqlAccessEventRepository
func NewSQLAccessEventRepository(db SQLQuerier) port.AccessEventRepository {
	return &sqlAccessEventRepository{db: db}
}

// Create stores a share access event
func (s *sqlAccessEventRepository) Create(ctx context.Context, event domain.ShareAccessEvent) error {
	query := `
		INSERT INTO share_access_event (id, file_id, share_token, remote_addr, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query, event.ID, event.FileID, event.ShareToken, event.RemoteAddr, event.UserAgent, event.OccurredAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("access event %s: %w", event.ID, domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// ListByFileID lists the most recent access events of a file
func (s *sqlAccessEventRepository) ListByFileID(ctx context.Context, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error) {
	query := `
		SELECT id, file_id, share_token, remote_addr, user_agent, occurred_at
		FROM share_access_event
		WHERE file_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, fileID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying access events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.ShareAccessEvent, 0)
	for rows.Next() {
		var e domain.ShareAccessEvent
		if err := rows.Scan(&e.ID, &e.FileID, &e.ShareToken, &e.RemoteAddr, &e.UserAgent, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("error scanning access event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access events: %w", err)
	}

	return events, nil
}
