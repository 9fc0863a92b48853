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

const fileColumns = `id, owner_id, filename, mime_type, size_bytes, checksum, storage_key, share_token, password_hash, expires_at, created_at, updated_at`

type sqlFileRepository struct {
	db SQLQuerier
}

// NewSqlFileRepository creates sqlFileRepository that implements port.FileRepository
func NewSqlFileRepository(db SQLQuerier) port.FileRepository {
	return &sqlFileRepository{
		db: db,
	}
}

// Create creates new file entry
func (s *sqlFileRepository) Create(ctx context.Context, file domain.XenBoxFile) error {
	query := `INSERT INTO xenbox_file (` + fileColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		file.ID,
		file.OwnerID,
		file.Filename,
		file.MimeType,
		int64(file.SizeBytes),
		file.Checksum,
		file.StorageKey,
		file.ShareToken,
		file.PasswordHash,
		file.ExpiresAt,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("file %s: %w", file.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting file: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.XenBoxFile, error) {
	query := `SELECT ` + fileColumns + ` FROM xenbox_file WHERE id = $1`

	var dbFile dbXenBoxFile
	if err := dbFile.scan(s.db.QueryRowContext(ctx, query, id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	return dbFile.ToDomain(), nil
}

// FindByShareToken resolves a share token to its file
func (s *sqlFileRepository) FindByShareToken(ctx context.Context, token string) (*domain.XenBoxFile, error) {
	query := `SELECT ` + fileColumns + ` FROM xenbox_file WHERE share_token = $1`

	var dbFile dbXenBoxFile
	if err := dbFile.scan(s.db.QueryRowContext(ctx, query, token)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShareNotFound
		}
		return nil, err
	}

	return dbFile.ToDomain(), nil
}

// ListByOwner lists the owner's files, newest first
func (s *sqlFileRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.XenBoxFile, error) {
	query := `SELECT ` + fileColumns + ` FROM xenbox_file WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying files: %w", err)
	}
	defer rows.Close()

	files := make([]domain.XenBoxFile, 0)
	for rows.Next() {
		var dbFile dbXenBoxFile
		if err := dbFile.scan(rows); err != nil {
			return nil, fmt.Errorf("error scanning file: %w", err)
		}
		files = append(files, *dbFile.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

// UpdateSettings writes the fields that are set, leaving the others untouched
func (s *sqlFileRepository) UpdateSettings(ctx context.Context, id uuid.UUID, passwordHash domain.Optional[string], expiresAt domain.Optional[time.Time]) error {
	query := `UPDATE xenbox_file
              SET password_hash = CASE WHEN $1::boolean THEN $2::text ELSE password_hash END,
                  expires_at = CASE WHEN $3::boolean THEN $4::timestamptz ELSE expires_at END,
                  updated_at = now()
              WHERE id = $5`

	result, err := s.db.ExecContext(ctx, query, passwordHash.Set, passwordHash.Value, expiresAt.Set, expiresAt.Value, id)
	if err != nil {
		return fmt.Errorf("error updating file settings: %w", err)
	}

	return expectOneRow(result, domain.ErrFileNotFound)
}

// UpdateShareToken replaces the share token, the old one stops resolving
func (s *sqlFileRepository) UpdateShareToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE xenbox_file SET share_token = $1, updated_at = now() WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, token, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("share token: %w", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error updating share token: %w", err)
	}

	return expectOneRow(result, domain.ErrFileNotFound)
}

// Delete deletes the file row
func (s *sqlFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM xenbox_file WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}

	return expectOneRow(result, domain.ErrFileNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// dbXenBoxFile represents a file in DB
type dbXenBoxFile struct {
	ID           uuid.UUID      `db:"id"`
	OwnerID      string         `db:"owner_id"`
	Filename     string         `db:"filename"`
	MimeType     string         `db:"mime_type"`
	SizeBytes    int64          `db:"size_bytes"`
	Checksum     string         `db:"checksum"`
	StorageKey   string         `db:"storage_key"`
	ShareToken   string         `db:"share_token"`
	PasswordHash sql.NullString `db:"password_hash"`
	ExpiresAt    sql.NullTime   `db:"expires_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (f *dbXenBoxFile) scan(row rowScanner) error {
	return row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Filename,
		&f.MimeType,
		&f.SizeBytes,
		&f.Checksum,
		&f.StorageKey,
		&f.ShareToken,
		&f.PasswordHash,
		&f.ExpiresAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// ToDomain converts to domain.XenBoxFile
func (f *dbXenBoxFile) ToDomain() *domain.XenBoxFile {
	file := &domain.XenBoxFile{
		ID:         f.ID,
		OwnerID:    f.OwnerID,
		Filename:   f.Filename,
		MimeType:   f.MimeType,
		SizeBytes:  uint64(f.SizeBytes),
		Checksum:   f.Checksum,
		StorageKey: f.StorageKey,
		ShareToken: f.ShareToken,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
	if f.PasswordHash.Valid {
		file.PasswordHash = &f.PasswordHash.String
	}
	if f.ExpiresAt.Valid {
		file.ExpiresAt = &f.ExpiresAt.Time
	}
	return file
}
