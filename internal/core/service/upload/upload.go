package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"unicode"
	"xenbox/internal/config"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/chunk"

	"github.com/google/uuid"
)

const maxFilenameBytes = 255

type uploadService struct {
	uow       port.UnitOfWork
	storage   port.BlobStorage
	assembler port.FileAssembler
	quota     port.QuotaGuard
	publisher port.EventPublisher
	locks     *sessionLocks
	cfg       config.FileUploadConfig
	shareCfg  config.ShareConfig
	logger    *slog.Logger
}

// NewUploadService creates the chunked upload coordinator
func NewUploadService(
	uow port.UnitOfWork,
	storage port.BlobStorage,
	assembler port.FileAssembler,
	quota port.QuotaGuard,
	publisher port.EventPublisher,
	cfg config.FileUploadConfig,
	shareCfg config.ShareConfig,
	logger *slog.Logger,
) port.UploadService {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = chunk.DefaultSize
	}
	return &uploadService{
		uow:       uow,
		storage:   storage,
		assembler: assembler,
		quota:     quota,
		publisher: publisher,
		locks:     newSessionLocks(),
		cfg:       cfg,
		shareCfg:  shareCfg,
		logger:    logger,
	}
}

// findOwned returns the session if it exists and belongs to ownerID
func (u *uploadService) findOwned(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.UploadSession, error) {
	session, err := u.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// discard drops the session row and every object it left behind
func (u *uploadService) discard(ctx context.Context, uploadID uuid.UUID, keys ...string) {
	ctx = context.WithoutCancel(ctx)

	if err := u.uow.UploadSessionRepo().Delete(ctx, uploadID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		u.logger.Error("failed to delete upload session", "upload_id", uploadID, "error", err)
	}
	u.deleteObjects(ctx, uploadID, keys...)
}

func (u *uploadService) deleteObjects(ctx context.Context, uploadID uuid.UUID, keys ...string) {
	if err := u.storage.DeletePrefix(ctx, chunk.Prefix(uploadID)); err != nil {
		u.logger.Warn("failed to delete chunk objects", "upload_id", uploadID, "error", err)
	}
	for _, key := range keys {
		if err := u.storage.DeleteObject(ctx, key); err != nil {
			u.logger.Warn("failed to delete object", "upload_id", uploadID, "key", key, "error", err)
		}
	}
}

func (u *uploadService) publish(ctx context.Context, event domain.Event) {
	if err := u.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		u.logger.Warn("failed to publish event", "type", event.Type, "file_id", event.FileID, "error", err)
	}
}

// sanitizeFilename keeps the base name only and strips control characters
func sanitizeFilename(filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFilename, filename)
	}
	if len(name) > maxFilenameBytes {
		return "", fmt.Errorf("%w: longer than %d bytes", domain.ErrInvalidFilename, maxFilenameBytes)
	}
	return name, nil
}

func fileKey(ownerID string, fileID uuid.UUID) string {
	return path.Join("files", strings.ReplaceAll(ownerID, "/", "_"), fileID.String())
}
