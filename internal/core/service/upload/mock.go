package upload

import (
	"context"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Initiate(ctx context.Context, ownerID string, filename string, fileSize uint64, totalChunks uint32) (uuid.UUID, error) {
	args := m.Called(ctx, ownerID, filename, fileSize, totalChunks)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUploadService) ReceiveChunk(ctx context.Context, ownerID string, uploadID uuid.UUID, index uint32, totalChunks uint32, data []byte) (uint32, error) {
	args := m.Called(ctx, ownerID, uploadID, index, totalChunks, data)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockUploadService) Finalize(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.FileDescriptor, error) {
	args := m.Called(ctx, ownerID, uploadID)
	return args.Get(0).(*domain.FileDescriptor), args.Error(1)
}

func (m *MockUploadService) Cancel(ctx context.Context, ownerID string, uploadID uuid.UUID) error {
	args := m.Called(ctx, ownerID, uploadID)
	return args.Error(0)
}

func (m *MockUploadService) Status(ctx context.Context, ownerID string, uploadID uuid.UUID) (*domain.UploadStatus, error) {
	args := m.Called(ctx, ownerID, uploadID)
	return args.Get(0).(*domain.UploadStatus), args.Error(1)
}
