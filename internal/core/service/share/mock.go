package share

import (
	"context"
	"io"
	"xenbox/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockShareService is a mock implementation of ShareService
type MockShareService struct {
	mock.Mock
}

// NewMockShareService creates a new MockShareService
func NewMockShareService() *MockShareService {
	return &MockShareService{}
}

func (m *MockShareService) Info(ctx context.Context, token string) (*domain.ShareInfo, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.ShareInfo), args.Error(1)
}

func (m *MockShareService) Download(ctx context.Context, token string, password *string, requester domain.Requester) (*domain.XenBoxFile, io.ReadSeekCloser, error) {
	args := m.Called(ctx, token, password, requester)
	var obj io.ReadSeekCloser
	if args.Get(1) != nil {
		obj = args.Get(1).(io.ReadSeekCloser)
	}
	return args.Get(0).(*domain.XenBoxFile), obj, args.Error(2)
}
