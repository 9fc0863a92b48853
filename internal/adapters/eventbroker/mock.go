package eventbroker

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock for port.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
