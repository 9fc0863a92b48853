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

func TestSQLQuotaRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repo := postgres.NewSQLQuotaRepository(dbConnection)

	t.Run("Ensure - Keeps existing allowance", func(t *testing.T) {
		// Arrange
		truncate()
		require.NoError(t, repo.Ensure(ctx, "owner-1", 100))

		// Act
		err := repo.Ensure(ctx, "owner-1", 999)

		// Assert
		require.NoError(t, err)
		q, err := repo.Find(ctx, "owner-1")
		require.NoError(t, err)
		require.Equal(t, uint64(100), q.SpaceAllowed)
		require.Equal(t, uint64(0), q.SpaceUsed)
	})

	t.Run("AddUsed - Never below zero", func(t *testing.T) {
		// Arrange
		truncate()
		require.NoError(t, repo.Ensure(ctx, "owner-1", 100))
		require.NoError(t, repo.AddUsed(ctx, "owner-1", 40))

		// Act
		err := repo.AddUsed(ctx, "owner-1", -70)

		// Assert
		require.NoError(t, err)
		q, err := repo.Find(ctx, "owner-1")
		require.NoError(t, err)
		require.Equal(t, uint64(0), q.SpaceUsed)
	})

	t.Run("AddUsed - Unknown owner", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		err := repo.AddUsed(ctx, "nobody", 1)

		// Assert
		require.ErrorIs(t, err, domain.ErrQuotaNotFound)
	})

	t.Run("Find - Unknown owner", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		_, err := repo.Find(ctx, "nobody")

		// Assert
		require.ErrorIs(t, err, domain.ErrQuotaNotFound)
	})
}

func TestSQLAccessEventRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repo := postgres.NewSQLAccessEventRepository(dbConnection)

	t.Run("ListByFileID - Newest first with limit", func(t *testing.T) {
		// Arrange
		truncate()
		fileID := uuid.New()
		base := time.Now().UTC().Round(time.Microsecond)
		var ids []uuid.UUID
		for i := range 3 {
			e := domain.ShareAccessEvent{
				ID:         uuid.New(),
				FileID:     fileID,
				ShareToken: "tok",
				RemoteAddr: "10.0.0.1",
				UserAgent:  "curl/8.0",
				OccurredAt: base.Add(time.Duration(i) * time.Minute),
			}
			ids = append(ids, e.ID)
			require.NoError(t, repo.Create(ctx, e))
		}

		// Act
		events, err := repo.ListByFileID(ctx, fileID, 2)

		// Assert
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, ids[2], events[0].ID)
		require.Equal(t, ids[1], events[1].ID)
		require.Equal(t, "curl/8.0", events[0].UserAgent)
	})

	t.Run("Create - Redelivered event", func(t *testing.T) {
		// Arrange
		truncate()
		e := domain.ShareAccessEvent{ID: uuid.New(), FileID: uuid.New(), ShareToken: "tok", OccurredAt: time.Now().UTC()}
		require.NoError(t, repo.Create(ctx, e))

		// Act
		err := repo.Create(ctx, e)

		// Assert
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})
}
