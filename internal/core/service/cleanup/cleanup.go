package cleanup

import (
	"context"
	"log/slog"
	"time"
	"xenbox/internal/core/port"
)

type cleanupService struct {
	uow     port.UnitOfWork
	storage port.BlobStorage
	logger  *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, storage port.BlobStorage, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:     uow,
		storage: storage,
		logger:  logger,
	}
}

// Run calls CleanupExpiredSessions every interval until ctx is done
func Run(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := service.CleanupExpiredSessions(ctx, now.UTC()); err != nil {
				logger.Error("failed to clean up expired sessions", "error", err)
			}
		}
	}
}
