package eventbroker

import (
	"context"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
)

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

var _ port.EventPublisher = NoopPublisher{}

// Publish does nothing
func (NoopPublisher) Publish(context.Context, domain.Event) error {
	return nil
}
