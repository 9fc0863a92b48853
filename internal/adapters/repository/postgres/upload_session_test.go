package postgres_test

import (
	"context"
	"testing"
	"time"
	"xenbox/internal/adapters/repository/postgres"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSession(expiresAt time.Time) domain.UploadSession {
	now := time.Now().UTC().Round(time.Microsecond)
	return domain.UploadSession{
		ID:             uuid.New(),
		OwnerID:        "owner-1",
		Filename:       "movie.mkv",
		FileSize:       25 * 1024 * 1024,
		TotalChunks:    3,
		ChunkSize:      10 * 1024 * 1024,
		State:          domain.UploadSessionStateInitiated,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt.UTC().Round(time.Microsecond),
	}
}

func TestSqlUploadSessionRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)
	chunkRepo := postgres.NewSQLUploadChunkRepository(dbConnection)

	t.Run("Create - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))

		// Act
		err := sessionRepo.Create(ctx, session)

		// Assert
		require.NoError(t, err)
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, session.ID, saved.ID)
		require.Equal(t, session.OwnerID, saved.OwnerID)
		require.Equal(t, session.FileSize, saved.FileSize)
		require.Equal(t, session.TotalChunks, saved.TotalChunks)
		require.Equal(t, domain.UploadSessionStateInitiated, saved.State)
		require.WithinDuration(t, session.ExpiresAt, saved.ExpiresAt, time.Second)
	})

	t.Run("Create - Duplicate id", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		err := sessionRepo.Create(ctx, session)

		// Assert
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("FindByID - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		found, err := sessionRepo.FindByID(ctx, uuid.New())

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
		require.Nil(t, found)
	})

	t.Run("UpdateState - Only from expected states", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		errFirst := sessionRepo.UpdateState(ctx, session.ID,
			[]domain.UploadSessionState{domain.UploadSessionStateInitiated, domain.UploadSessionStateReceiving},
			domain.UploadSessionStateFinalizing)
		errSecond := sessionRepo.UpdateState(ctx, session.ID,
			[]domain.UploadSessionState{domain.UploadSessionStateInitiated, domain.UploadSessionStateReceiving},
			domain.UploadSessionStateFinalizing)

		// Assert
		require.NoError(t, errFirst)
		require.ErrorIs(t, errSecond, domain.ErrSessionNotFound)
		saved, _ := sessionRepo.FindByID(ctx, session.ID)
		require.Equal(t, domain.UploadSessionStateFinalizing, saved.State)
	})

	t.Run("Touch - Success", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))
		now := time.Now().UTC().Round(time.Microsecond)
		newExpiry := now.Add(10 * time.Hour)

		// Act
		err := sessionRepo.Touch(ctx, session.ID, now, newExpiry)

		// Assert
		require.NoError(t, err)
		updated, _ := sessionRepo.FindByID(ctx, session.ID)
		require.WithinDuration(t, newExpiry, updated.ExpiresAt, time.Second)
		require.WithinDuration(t, now, updated.LastActivityAt, time.Second)
	})

	t.Run("Delete - Cascades chunks", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))
		require.NoError(t, chunkRepo.Create(ctx, domain.UploadChunk{
			SessionID: session.ID, Index: 0, SizeBytes: 10, Checksum: "abc", ReceivedAt: time.Now(),
		}))

		// Act
		err := sessionRepo.Delete(ctx, session.ID)

		// Assert
		require.NoError(t, err)
		chunks, err := chunkRepo.ListBySessionID(ctx, session.ID)
		require.NoError(t, err)
		require.Empty(t, chunks)
		require.ErrorIs(t, sessionRepo.Delete(ctx, session.ID), domain.ErrSessionNotFound)
	})

	t.Run("FindAllExpired - Returns expired sessions only", func(t *testing.T) {
		// Arrange
		truncate()
		now := time.Now().UTC().Round(time.Microsecond)
		expired1 := newSession(now.Add(-2 * time.Hour))
		expired2 := newSession(now.Add(-1 * time.Hour))
		expired2.State = domain.UploadSessionStateFinalizing
		valid := newSession(now.Add(2 * time.Hour))
		for _, s := range []domain.UploadSession{expired1, expired2, valid} {
			require.NoError(t, sessionRepo.Create(ctx, s))
		}

		// Act
		expiredSessions, err := sessionRepo.FindAllExpired(ctx, now)

		// Assert
		require.NoError(t, err)
		require.Len(t, expiredSessions, 2)

		expiredIDs := make(map[uuid.UUID]bool)
		for _, session := range expiredSessions {
			expiredIDs[session.ID] = true
		}
		require.True(t, expiredIDs[expired1.ID])
		require.True(t, expiredIDs[expired2.ID])
		require.False(t, expiredIDs[valid.ID])
	})

	t.Run("FindAllExpired - Returns empty list when no sessions exist", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		expiredSessions, err := sessionRepo.FindAllExpired(ctx, time.Now())

		// Assert
		require.NoError(t, err)
		require.Empty(t, expiredSessions)
	})
}

func TestSqlUploadChunkRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)
	chunkRepo := postgres.NewSQLUploadChunkRepository(dbConnection)

	t.Run("Create - Listed in index order", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		for _, idx := range []uint32{2, 0, 1} {
			err := chunkRepo.Create(ctx, domain.UploadChunk{
				SessionID: session.ID, Index: idx, SizeBytes: 100 + idx, Checksum: "sum", ReceivedAt: time.Now(),
			})
			require.NoError(t, err)
		}

		// Assert
		chunks, err := chunkRepo.ListBySessionID(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		for i, c := range chunks {
			require.Equal(t, uint32(i), c.Index)
			require.Equal(t, uint32(100+i), c.SizeBytes)
		}
	})

	t.Run("Create - Duplicate index", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))
		chunk := domain.UploadChunk{SessionID: session.ID, Index: 0, SizeBytes: 1, Checksum: "a", ReceivedAt: time.Now()}
		require.NoError(t, chunkRepo.Create(ctx, chunk))

		// Act
		err := chunkRepo.Create(ctx, chunk)

		// Assert
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
		found, err := chunkRepo.Find(ctx, session.ID, 0)
		require.NoError(t, err)
		require.Equal(t, "a", found.Checksum)
	})

	t.Run("Create - Unknown session", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		err := chunkRepo.Create(ctx, domain.UploadChunk{SessionID: uuid.New(), Index: 0, SizeBytes: 1, Checksum: "a", ReceivedAt: time.Now()})

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Find - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		_, err := chunkRepo.Find(ctx, uuid.New(), 0)

		// Assert
		require.ErrorIs(t, err, domain.ErrChunkNotFound)
	})
}
