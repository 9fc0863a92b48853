package port

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// EventPublisher is an interface to define an event publisher
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// AccessEventRepository stores share access records
type AccessEventRepository interface {
	Create(ctx context.Context, event domain.ShareAccessEvent) error
	ListByFileID(ctx context.Context, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error)
}
