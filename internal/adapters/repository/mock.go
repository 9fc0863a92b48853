package repository

import (
	"context"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFileRepository struct {
	mock.Mock
}

func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{}
}

func (m *MockFileRepository) Create(ctx context.Context, file domain.XenBoxFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.XenBoxFile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.XenBoxFile), args.Error(1)
}

func (m *MockFileRepository) FindByShareToken(ctx context.Context, token string) (*domain.XenBoxFile, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.XenBoxFile), args.Error(1)
}

func (m *MockFileRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.XenBoxFile, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.XenBoxFile), args.Error(1)
}

func (m *MockFileRepository) UpdateSettings(ctx context.Context, id uuid.UUID, passwordHash domain.Optional[string], expiresAt domain.Optional[time.Time]) error {
	args := m.Called(ctx, id, passwordHash, expiresAt)
	return args.Error(0)
}

func (m *MockFileRepository) UpdateShareToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) UpdateState(ctx context.Context, id uuid.UUID, from []domain.UploadSessionState, to domain.UploadSessionState) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) Touch(ctx context.Context, id uuid.UUID, now time.Time, expiresAt time.Time) error {
	args := m.Called(ctx, id, now, expiresAt)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

type MockUploadChunkRepository struct {
	mock.Mock
}

func (m *MockUploadChunkRepository) Create(ctx context.Context, chunk domain.UploadChunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockUploadChunkRepository) Find(ctx context.Context, sessionID uuid.UUID, index uint32) (*domain.UploadChunk, error) {
	args := m.Called(ctx, sessionID, index)
	return args.Get(0).(*domain.UploadChunk), args.Error(1)
}

func (m *MockUploadChunkRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadChunk, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.UploadChunk), args.Error(1)
}

type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) Ensure(ctx context.Context, ownerID string, spaceAllowed uint64) error {
	args := m.Called(ctx, ownerID, spaceAllowed)
	return args.Error(0)
}

func (m *MockQuotaRepository) Find(ctx context.Context, ownerID string) (*domain.Quota, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(*domain.Quota), args.Error(1)
}

func (m *MockQuotaRepository) FindForUpdate(ctx context.Context, ownerID string) (*domain.Quota, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(*domain.Quota), args.Error(1)
}

func (m *MockQuotaRepository) AddUsed(ctx context.Context, ownerID string, delta int64) error {
	args := m.Called(ctx, ownerID, delta)
	return args.Error(0)
}

type MockAccessEventRepository struct {
	mock.Mock
}

func (m *MockAccessEventRepository) Create(ctx context.Context, event domain.ShareAccessEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAccessEventRepository) ListByFileID(ctx context.Context, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error) {
	args := m.Called(ctx, fileID, limit)
	return args.Get(0).([]domain.ShareAccessEvent), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	fileRepo          *MockFileRepository
	uploadSessionRepo *MockUploadSessionRepository
	uploadChunkRepo   *MockUploadChunkRepository
	quotaRepo         *MockQuotaRepository
	accessEventRepo   *MockAccessEventRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		fileRepo:          &MockFileRepository{},
		uploadSessionRepo: &MockUploadSessionRepository{},
		uploadChunkRepo:   &MockUploadChunkRepository{},
		quotaRepo:         &MockQuotaRepository{},
		accessEventRepo:   &MockAccessEventRepository{},
	}
}

func (m *MockUnitOfWork) FileRepo() port.FileRepository {
	return m.fileRepo
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) UploadChunkRepo() port.UploadChunkRepository {
	return m.uploadChunkRepo
}

func (m *MockUnitOfWork) QuotaRepo() port.QuotaRepository {
	return m.quotaRepo
}

func (m *MockUnitOfWork) AccessEventRepo() port.AccessEventRepository {
	return m.accessEventRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetFileRepoMock() *MockFileRepository {
	return m.fileRepo
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) GetUploadChunkRepoMock() *MockUploadChunkRepository {
	return m.uploadChunkRepo
}

func (m *MockUnitOfWork) GetQuotaRepoMock() *MockQuotaRepository {
	return m.quotaRepo
}

func (m *MockUnitOfWork) GetAccessEventRepoMock() *MockAccessEventRepository {
	return m.accessEventRepo
}
