package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

// HandleMessage stores share.downloaded events as access records. Other event types are only logged.
// A redelivered event is acknowledged without a second record.
func (a *auditService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal event: %w", err)
	}
	if event.ID == uuid.Nil || event.FileID == uuid.Nil {
		return ErrIncompleteEvent
	}

	a.logger.Info("handling event", "type", event.Type, "event_id", event.ID, "file_id", event.FileID)

	if event.Type != domain.EventTypeShareDownloaded {
		return nil
	}

	err := a.uow.AccessEventRepo().Create(ctx, domain.ShareAccessEvent{
		ID:         event.ID,
		FileID:     event.FileID,
		ShareToken: event.ShareToken,
		RemoteAddr: event.RemoteAddr,
		UserAgent:  event.UserAgent,
		OccurredAt: event.OccurredAt,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		a.logger.Debug("access event already recorded", "event_id", event.ID)
		return nil
	}
	return err
}

// ErrIncompleteEvent is returned for an event without an id or a file id
var ErrIncompleteEvent = errors.New("event is missing its id or file id")
