package share

import (
	"context"
	"fmt"
	"io"
	"xenbox/internal/core/domain"
)

// Download opens the bytes of a shared file. An expired link is refused before the password is looked at.
func (s *shareService) Download(ctx context.Context, token string, password *string, requester domain.Requester) (*domain.XenBoxFile, io.ReadSeekCloser, error) {
	file, err := s.resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if file.HasPassword() {
		if password == nil || *password == "" {
			return nil, nil, domain.ErrSharePasswordRequired
		}
		ok, err := s.hasher.Compare(*password, *file.PasswordHash)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to verify share password: %w", err)
		}
		if !ok {
			s.logger.Info("share password rejected", "file_id", file.ID, "remote_addr", requester.RemoteAddr)
			return nil, nil, domain.ErrSharePasswordIncorrect
		}
	}

	obj, err := s.storage.GetObject(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", file.ID, err)
	}

	event := domain.NewEvent(domain.EventTypeShareDownloaded, file.ID)
	event.OwnerID = file.OwnerID
	event.ShareToken = token
	event.RemoteAddr = requester.RemoteAddr
	event.UserAgent = requester.UserAgent
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.Type, "file_id", file.ID, "error", err)
	}

	s.logger.Info("share downloaded", "file_id", file.ID, "remote_addr", requester.RemoteAddr)

	return file, obj, nil
}
