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
	"github.com/samber/lo"
)

const uploadSessionColumns = `id, owner_id, filename, file_size, total_chunks, chunk_size, state, created_at, last_activity_at, expires_at`

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository Creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

// Create creates an upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (
			id, owner_id, filename, file_size, total_chunks, chunk_size, state, created_at, last_activity_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.OwnerID,
		session.Filename,
		int64(session.FileSize),
		int64(session.TotalChunks),
		int64(session.ChunkSize),
		session.State,
		session.CreatedAt,
		session.LastActivityAt,
		session.ExpiresAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("upload session %s: %w", session.ID, domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return s.findOne(ctx, `SELECT `+uploadSessionColumns+` FROM upload_session WHERE id = $1`, id)
}

// FindByIDForShare blocks state changes by other transactions until this one ends
func (s *sqlUploadSessionRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return s.findOne(ctx, `SELECT `+uploadSessionColumns+` FROM upload_session WHERE id = $1 FOR SHARE`, id)
}

func (s *sqlUploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return s.findOne(ctx, `SELECT `+uploadSessionColumns+` FROM upload_session WHERE id = $1 FOR UPDATE`, id)
}

func (s *sqlUploadSessionRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*domain.UploadSession, error) {
	var row dbUploadSession
	err := row.scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

// UpdateState moves the session to `to` only if it currently is in one of `from`
func (s *sqlUploadSessionRepository) UpdateState(ctx context.Context, id uuid.UUID, from []domain.UploadSessionState, to domain.UploadSessionState) error {
	query := `UPDATE upload_session SET state = $1 WHERE id = $2 AND state = ANY($3)`

	states := lo.Map(from, func(state domain.UploadSessionState, _ int) string {
		return string(state)
	})

	result, err := s.db.ExecContext(ctx, query, to, id, pq.Array(states))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// Touch refreshes last activity and expiry
func (s *sqlUploadSessionRepository) Touch(ctx context.Context, id uuid.UUID, now time.Time, expiresAt time.Time) error {
	query := `UPDATE upload_session SET last_activity_at = $1, expires_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, now, expiresAt, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// Delete removes the session, its chunk rows cascade
func (s *sqlUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_session WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE expires_at <= $1`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var row dbUploadSession
		if err := row.scan(rows); err != nil {
			return nil, err
		}
		sessions = append(sessions, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type dbUploadSession struct {
	ID             uuid.UUID `db:"id"`
	OwnerID        string    `db:"owner_id"`
	Filename       string    `db:"filename"`
	FileSize       int64     `db:"file_size"`
	TotalChunks    int64     `db:"total_chunks"`
	ChunkSize      int64     `db:"chunk_size"`
	State          string    `db:"state"`
	CreatedAt      time.Time `db:"created_at"`
	LastActivityAt time.Time `db:"last_activity_at"`
	ExpiresAt      time.Time `db:"expires_at"`
}

func (s *dbUploadSession) scan(row rowScanner) error {
	return row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Filename,
		&s.FileSize,
		&s.TotalChunks,
		&s.ChunkSize,
		&s.State,
		&s.CreatedAt,
		&s.LastActivityAt,
		&s.ExpiresAt,
	)
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		Filename:       s.Filename,
		FileSize:       uint64(s.FileSize),
		TotalChunks:    uint32(s.TotalChunks),
		ChunkSize:      uint32(s.ChunkSize),
		State:          domain.UploadSessionState(s.State),
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		ExpiresAt:      s.ExpiresAt,
	}
}
