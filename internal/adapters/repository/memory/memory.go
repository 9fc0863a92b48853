// Package memory holds map-backed repositories for service tests.
// A transaction holds the store lock for its whole duration and restores a snapshot on error.
package memory

import (
	"context"
	"maps"
	"sync"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/google/uuid"
)

type store struct {
	mu       sync.Mutex
	files    map[uuid.UUID]domain.XenBoxFile
	sessions map[uuid.UUID]domain.UploadSession
	chunks   map[uuid.UUID]map[uint32]domain.UploadChunk
	quotas   map[string]domain.Quota
	events   []domain.ShareAccessEvent
}

type snapshot struct {
	files    map[uuid.UUID]domain.XenBoxFile
	sessions map[uuid.UUID]domain.UploadSession
	chunks   map[uuid.UUID]map[uint32]domain.UploadChunk
	quotas   map[string]domain.Quota
	events   []domain.ShareAccessEvent
}

func (s *store) snapshot() snapshot {
	chunks := make(map[uuid.UUID]map[uint32]domain.UploadChunk, len(s.chunks))
	for id, c := range s.chunks {
		chunks[id] = maps.Clone(c)
	}
	return snapshot{
		files:    maps.Clone(s.files),
		sessions: maps.Clone(s.sessions),
		chunks:   chunks,
		quotas:   maps.Clone(s.quotas),
		events:   append([]domain.ShareAccessEvent(nil), s.events...),
	}
}

func (s *store) restore(snap snapshot) {
	s.files = snap.files
	s.sessions = snap.sessions
	s.chunks = snap.chunks
	s.quotas = snap.quotas
	s.events = snap.events
}

// UnitOfWork is an in-memory port.UnitOfWork
type UnitOfWork struct {
	store *store
	inTx  bool
}

// NewUnitOfWork creates an empty in-memory unit of work
func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		store: &store{
			files:    make(map[uuid.UUID]domain.XenBoxFile),
			sessions: make(map[uuid.UUID]domain.UploadSession),
			chunks:   make(map[uuid.UUID]map[uint32]domain.UploadChunk),
			quotas:   make(map[string]domain.Quota),
		},
	}
}

// Execute runs fn inside a transaction
func (u *UnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(&UnitOfWork{store: u.store, inTx: true}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// lock guards a single statement outside a transaction
func (u *UnitOfWork) lock() func() {
	if u.inTx {
		return func() {}
	}
	u.store.mu.Lock()
	return u.store.mu.Unlock
}

func (u *UnitOfWork) FileRepo() port.FileRepository {
	return &fileRepository{uow: u}
}

func (u *UnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return &uploadSessionRepository{uow: u}
}

func (u *UnitOfWork) UploadChunkRepo() port.UploadChunkRepository {
	return &uploadChunkRepository{uow: u}
}

func (u *UnitOfWork) QuotaRepo() port.QuotaRepository {
	return &quotaRepository{uow: u}
}

func (u *UnitOfWork) AccessEventRepo() port.AccessEventRepository {
	return &accessEventRepository{uow: u}
}
