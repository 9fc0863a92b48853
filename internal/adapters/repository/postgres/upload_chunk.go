package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

type sqlUploadChunkRepository struct {
	db SQLQuerier
}

// NewSQLUploadChunkRepository creates sqlUploadChunkRepository
func NewSQLUploadChunkRepository(db SQLQuerier) port.UploadChunkRepository {
	return &sqlUploadChunkRepository{db: db}
}

// Create records a received chunk
func (s *sqlUploadChunkRepository) Create(ctx context.Context, chunk domain.UploadChunk) error {
	query := `
		INSERT INTO upload_chunk (session_id, chunk_index, size_bytes, checksum, received_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, chunk.SessionID, int64(chunk.Index), int64(chunk.SizeBytes), chunk.Checksum, chunk.ReceivedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case uniqueViolation:
				return fmt.Errorf("chunk %d: %w", chunk.Index, domain.ErrAlreadyExists)
			case foreignKeyViolation:
				return domain.ErrSessionNotFound
			}
		}
		return err
	}
	return nil
}

func (s *sqlUploadChunkRepository) Find(ctx context.Context, sessionID uuid.UUID, index uint32) (*domain.UploadChunk, error) {
	query := `
		SELECT session_id, chunk_index, size_bytes, checksum, received_at
		FROM upload_chunk
		WHERE session_id = $1 AND chunk_index = $2`

	var row dbUploadChunk
	err := s.db.QueryRowContext(ctx, query, sessionID, int64(index)).Scan(
		&row.SessionID,
		&row.Index,
		&row.SizeBytes,
		&row.Checksum,
		&row.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChunkNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

// ListBySessionID lists received chunks ordered by index
func (s *sqlUploadChunkRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadChunk, error) {
	query := `
		SELECT session_id, chunk_index, size_bytes, checksum, received_at
		FROM upload_chunk
		WHERE session_id = $1
		ORDER BY chunk_index ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.UploadChunk, 0)
	for rows.Next() {
		var row dbUploadChunk
		if err := rows.Scan(&row.SessionID, &row.Index, &row.SizeBytes, &row.Checksum, &row.ReceivedAt); err != nil {
			return nil, fmt.Errorf("error scanning chunk: %w", err)
		}
		chunks = append(chunks, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	return chunks, nil
}

type dbUploadChunk struct {
	SessionID  uuid.UUID `db:"session_id"`
	Index      int64     `db:"chunk_index"`
	SizeBytes  int64     `db:"size_bytes"`
	Checksum   string    `db:"checksum"`
	ReceivedAt time.Time `db:"received_at"`
}

// ToDomain converts to domain.UploadChunk
func (c *dbUploadChunk) ToDomain() *domain.UploadChunk {
	return &domain.UploadChunk{
		SessionID:  c.SessionID,
		Index:      uint32(c.Index),
		SizeBytes:  uint32(c.SizeBytes),
		Checksum:   c.Checksum,
		ReceivedAt: c.ReceivedAt,
	}
}
