package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"xenbox/internal/adapters/repository"
	memrepo "xenbox/internal/adapters/repository/memory"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/service/audit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func encode(t *testing.T, event domain.Event) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestAuditService_HandleMessage_RecordsDownload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := memrepo.NewUnitOfWork()
	service := audit.NewAuditService(uow, logger)

	event := domain.NewEvent(domain.EventTypeShareDownloaded, uuid.New())
	event.ShareToken = "tok"
	event.RemoteAddr = "10.0.0.1"
	event.UserAgent = "curl/8"

	// Act
	err := service.HandleMessage(ctx, encode(t, event))

	// Assert
	require.NoError(t, err)
	events, err := uow.AccessEventRepo().ListByFileID(ctx, event.FileID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, "tok", events[0].ShareToken)
	assert.Equal(t, "10.0.0.1", events[0].RemoteAddr)
	assert.Equal(t, "curl/8", events[0].UserAgent)
	assert.True(t, event.OccurredAt.Equal(events[0].OccurredAt))
}

func TestAuditService_HandleMessage_RedeliveryIsIdempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := memrepo.NewUnitOfWork()
	service := audit.NewAuditService(uow, logger)
	event := domain.NewEvent(domain.EventTypeShareDownloaded, uuid.New())
	data := encode(t, event)

	// Act
	err1 := service.HandleMessage(ctx, data)
	err2 := service.HandleMessage(ctx, data)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	events, err := uow.AccessEventRepo().ListByFileID(ctx, event.FileID, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAuditService_HandleMessage_IgnoresOtherEvents(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	service := audit.NewAuditService(mockUow, logger)

	// Act
	errCommitted := service.HandleMessage(ctx, encode(t, domain.NewEvent(domain.EventTypeFileCommitted, uuid.New())))
	errDeleted := service.HandleMessage(ctx, encode(t, domain.NewEvent(domain.EventTypeFileDeleted, uuid.New())))

	// Assert
	assert.NoError(t, errCommitted)
	assert.NoError(t, errDeleted)
	mockUow.GetAccessEventRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuditService_HandleMessage_InvalidPayload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "not json", data: []byte("fail")},
		{name: "missing ids", data: []byte(`{"type":"share.downloaded"}`), wantErr: audit.ErrIncompleteEvent},
		{name: "missing file id", data: []byte(`{"id":"` + uuid.NewString() + `","type":"share.downloaded"}`), wantErr: audit.ErrIncompleteEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockUow := repository.NewMockUnitOfWork()
			service := audit.NewAuditService(mockUow, logger)

			// Act
			err := service.HandleMessage(ctx, tt.data)

			// Assert
			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			mockUow.GetAccessEventRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuditService_HandleMessage_RepositoryError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	service := audit.NewAuditService(mockUow, logger)
	event := domain.NewEvent(domain.EventTypeShareDownloaded, uuid.New())
	dbErr := errors.New("database error")
	mockUow.GetAccessEventRepoMock().On("Create", ctx, mock.Anything).Return(dbErr)

	// Act
	err := service.HandleMessage(ctx, encode(t, event))

	// Assert
	assert.ErrorIs(t, err, dbErr)
}
