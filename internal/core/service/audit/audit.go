package audit

import (
	"log/slog"
	"xenbox/internal/core/port"
)

type auditService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewAuditService creates a message handler recording share downloads
func NewAuditService(uow port.UnitOfWork, logger *slog.Logger) port.MessageService {
	return &auditService{
		uow:    uow,
		logger: logger,
	}
}
