// Package share evaluates anonymous requests against a file's sharing policy.
package share

import (
	"context"
	"log/slog"
	"time"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
)

type shareService struct {
	uow       port.UnitOfWork
	storage   port.BlobStorage
	hasher    port.PasswordHasher
	publisher port.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the share service
type Option func(*shareService)

// WithClock replaces time.Now when evaluating expiry
func WithClock(now func() time.Time) Option {
	return func(s *shareService) {
		s.now = now
	}
}

// NewShareService creates a new share service
func NewShareService(
	uow port.UnitOfWork,
	storage port.BlobStorage,
	hasher port.PasswordHasher,
	publisher port.EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) port.ShareService {
	s := &shareService{
		uow:       uow,
		storage:   storage,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve finds the file behind token and rejects expired links
func (s *shareService) resolve(ctx context.Context, token string) (*domain.XenBoxFile, error) {
	if token == "" {
		return nil, domain.ErrShareNotFound
	}
	file, err := s.uow.FileRepo().FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if file.IsExpired(s.now()) {
		return nil, domain.ErrShareExpired
	}
	return file, nil
}
