package port

import (
	"context"
	"io"
	"time"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

// FileRepository is an interface to define file registry interactions
type FileRepository interface {
	Create(ctx context.Context, file domain.XenBoxFile) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.XenBoxFile, error)
	FindByShareToken(ctx context.Context, token string) (*domain.XenBoxFile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.XenBoxFile, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, passwordHash domain.Optional[string], expiresAt domain.Optional[time.Time]) error
	UpdateShareToken(ctx context.Context, id uuid.UUID, token string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlobStorage is an interface to define keyed byte storage interactions
type BlobStorage interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadSeekCloser, error)
	DeleteObject(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// FileAssembler concatenates chunk objects, in the given order, into one object
type FileAssembler interface {
	Assemble(ctx context.Context, chunkKeys []string, destKey string, filename string) (*domain.AssembledObject, error)
}

// FileService is the owner-scoped registry of finalized files
type FileService interface {
	List(ctx context.Context, ownerID string) ([]domain.FileDescriptor, error)
	Get(ctx context.Context, ownerID string, fileID uuid.UUID) (*domain.FileDescriptor, error)
	UpdateSettings(ctx context.Context, ownerID string, fileID uuid.UUID, settings domain.FileSettings) (*domain.FileSettingsResult, error)
	RotateShareToken(ctx context.Context, ownerID string, fileID uuid.UUID) (*domain.FileSettingsResult, error)
	Delete(ctx context.Context, ownerID string, fileID uuid.UUID) error
	Quota(ctx context.Context, ownerID string) (*domain.Quota, error)
	AccessLog(ctx context.Context, ownerID string, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error)
}

// ShareService evaluates anonymous requests against a file's sharing policy
type ShareService interface {
	Info(ctx context.Context, token string) (*domain.ShareInfo, error)
	Download(ctx context.Context, token string, password *string, requester domain.Requester) (*domain.XenBoxFile, io.ReadSeekCloser, error)
}

// PasswordHasher hashes and verifies share passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password string, encodedHash string) (bool, error)
}
