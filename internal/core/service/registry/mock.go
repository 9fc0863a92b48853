package registry

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFileService is a mock implementation of FileService
type MockFileService struct {
	mock.Mock
}

// NewMockFileService creates a new MockFileService
func NewMockFileService() *MockFileService {
	return &MockFileService{}
}

func (m *MockFileService) List(ctx context.Context, ownerID string) ([]domain.FileDescriptor, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.FileDescriptor), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, ownerID string, fileID uuid.UUID) (*domain.FileDescriptor, error) {
	args := m.Called(ctx, ownerID, fileID)
	return args.Get(0).(*domain.FileDescriptor), args.Error(1)
}

func (m *MockFileService) UpdateSettings(ctx context.Context, ownerID string, fileID uuid.UUID, settings domain.FileSettings) (*domain.FileSettingsResult, error) {
	args := m.Called(ctx, ownerID, fileID, settings)
	return args.Get(0).(*domain.FileSettingsResult), args.Error(1)
}

func (m *MockFileService) RotateShareToken(ctx context.Context, ownerID string, fileID uuid.UUID) (*domain.FileSettingsResult, error) {
	args := m.Called(ctx, ownerID, fileID)
	return args.Get(0).(*domain.FileSettingsResult), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, ownerID string, fileID uuid.UUID) error {
	args := m.Called(ctx, ownerID, fileID)
	return args.Error(0)
}

func (m *MockFileService) Quota(ctx context.Context, ownerID string) (*domain.Quota, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(*domain.Quota), args.Error(1)
}

func (m *MockFileService) AccessLog(ctx context.Context, ownerID string, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error) {
	args := m.Called(ctx, ownerID, fileID, limit)
	return args.Get(0).([]domain.ShareAccessEvent), args.Error(1)
}
