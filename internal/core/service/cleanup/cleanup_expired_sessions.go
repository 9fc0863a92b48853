package cleanup

import (
	"context"
	"errors"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/chunk"
)

// CleanupExpiredSessions discards every session idle past its expiry, with its chunk objects.
// A finalizing session is only discarded once it is finalizingGrace past its expiry.
func (c *cleanupService) CleanupExpiredSessions(ctx context.Context, now time.Time) error {
	sessions, err := c.uow.UploadSessionRepo().FindAllExpired(ctx, now)
	if err != nil {
		return err
	}

	removed := 0
	for _, session := range sessions {
		txErr := c.uow.Execute(ctx, func(uow port.UnitOfWork) error {
			locked, err := uow.UploadSessionRepo().FindByIDForUpdate(ctx, session.ID)
			if err != nil {
				return err
			}
			if locked.ExpiresAt.After(now) {
				// a chunk arrived since the scan
				return errSessionRevived
			}
			if locked.State == domain.UploadSessionStateFinalizing && locked.ExpiresAt.Add(finalizingGrace).After(now) {
				// still assembling, or crashed too recently to tell
				return errSessionRevived
			}
			return uow.UploadSessionRepo().Delete(ctx, session.ID)
		})
		switch {
		case errors.Is(txErr, errSessionRevived), errors.Is(txErr, domain.ErrSessionNotFound):
			continue
		case txErr != nil:
			c.logger.Error("failed to expire upload session", "upload_id", session.ID, "error", txErr)
			continue
		}

		if err := c.storage.DeletePrefix(ctx, chunk.Prefix(session.ID)); err != nil {
			c.logger.Warn("failed to delete chunk objects", "upload_id", session.ID, "error", err)
		}
		removed++
		c.logger.Info("upload expired", "upload_id", session.ID, "owner_id", session.OwnerID, "state", session.State)
	}

	c.logger.Info("expired sessions cleanup completed", "expired", len(sessions), "removed", removed)
	return nil
}

// finalizingGrace is how long a finalizing session may sit past its expiry before it counts as abandoned
const finalizingGrace = time.Hour

var errSessionRevived = errors.New("session revived")
