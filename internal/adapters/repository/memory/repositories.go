package memory

import (
	"context"
	"slices"
	"time"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
)

type fileRepository struct {
	uow *UnitOfWork
}

func (r *fileRepository) Create(_ context.Context, file domain.XenBoxFile) error {
	defer r.uow.lock()()

	if _, ok := r.uow.store.files[file.ID]; ok {
		return domain.ErrAlreadyExists
	}
	for _, f := range r.uow.store.files {
		if f.ShareToken == file.ShareToken {
			return domain.ErrAlreadyExists
		}
	}
	r.uow.store.files[file.ID] = file
	return nil
}

func (r *fileRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.XenBoxFile, error) {
	defer r.uow.lock()()

	f, ok := r.uow.store.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return &f, nil
}

func (r *fileRepository) FindByShareToken(_ context.Context, token string) (*domain.XenBoxFile, error) {
	defer r.uow.lock()()

	for _, f := range r.uow.store.files {
		if f.ShareToken == token {
			return &f, nil
		}
	}
	return nil, domain.ErrShareNotFound
}

func (r *fileRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.XenBoxFile, error) {
	defer r.uow.lock()()

	files := make([]domain.XenBoxFile, 0)
	for _, f := range r.uow.store.files {
		if f.OwnerID == ownerID {
			files = append(files, f)
		}
	}
	slices.SortFunc(files, func(a, b domain.XenBoxFile) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return files, nil
}

func (r *fileRepository) UpdateSettings(_ context.Context, id uuid.UUID, passwordHash domain.Optional[string], expiresAt domain.Optional[time.Time]) error {
	defer r.uow.lock()()

	f, ok := r.uow.store.files[id]
	if !ok {
		return domain.ErrFileNotFound
	}
	if passwordHash.Set {
		f.PasswordHash = passwordHash.Value
	}
	if expiresAt.Set {
		f.ExpiresAt = expiresAt.Value
	}
	f.UpdatedAt = time.Now().UTC()
	r.uow.store.files[id] = f
	return nil
}

func (r *fileRepository) UpdateShareToken(_ context.Context, id uuid.UUID, token string) error {
	defer r.uow.lock()()

	f, ok := r.uow.store.files[id]
	if !ok {
		return domain.ErrFileNotFound
	}
	f.ShareToken = token
	f.UpdatedAt = time.Now().UTC()
	r.uow.store.files[id] = f
	return nil
}

func (r *fileRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.uow.lock()()

	if _, ok := r.uow.store.files[id]; !ok {
		return domain.ErrFileNotFound
	}
	delete(r.uow.store.files, id)
	return nil
}

type uploadSessionRepository struct {
	uow *UnitOfWork
}

func (r *uploadSessionRepository) Create(_ context.Context, session domain.UploadSession) error {
	defer r.uow.lock()()

	if _, ok := r.uow.store.sessions[session.ID]; ok {
		return domain.ErrAlreadyExists
	}
	r.uow.store.sessions[session.ID] = session
	return nil
}

func (r *uploadSessionRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	defer r.uow.lock()()

	s, ok := r.uow.store.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

// FindByIDForShare is FindByID: a transaction already holds the whole store
func (r *uploadSessionRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return r.FindByID(ctx, id)
}

func (r *uploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return r.FindByID(ctx, id)
}

func (r *uploadSessionRepository) UpdateState(_ context.Context, id uuid.UUID, from []domain.UploadSessionState, to domain.UploadSessionState) error {
	defer r.uow.lock()()

	s, ok := r.uow.store.sessions[id]
	if !ok || !slices.Contains(from, s.State) {
		return domain.ErrSessionNotFound
	}
	s.State = to
	r.uow.store.sessions[id] = s
	return nil
}

func (r *uploadSessionRepository) Touch(_ context.Context, id uuid.UUID, now time.Time, expiresAt time.Time) error {
	defer r.uow.lock()()

	s, ok := r.uow.store.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.LastActivityAt = now
	s.ExpiresAt = expiresAt
	r.uow.store.sessions[id] = s
	return nil
}

func (r *uploadSessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.uow.lock()()

	if _, ok := r.uow.store.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.uow.store.sessions, id)
	delete(r.uow.store.chunks, id)
	return nil
}

func (r *uploadSessionRepository) FindAllExpired(_ context.Context, now time.Time) ([]domain.UploadSession, error) {
	defer r.uow.lock()()

	sessions := make([]domain.UploadSession, 0)
	for _, s := range r.uow.store.sessions {
		if !s.ExpiresAt.After(now) {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

type uploadChunkRepository struct {
	uow *UnitOfWork
}

func (r *uploadChunkRepository) Create(_ context.Context, chunk domain.UploadChunk) error {
	defer r.uow.lock()()

	if _, ok := r.uow.store.sessions[chunk.SessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	received, ok := r.uow.store.chunks[chunk.SessionID]
	if !ok {
		received = make(map[uint32]domain.UploadChunk)
		r.uow.store.chunks[chunk.SessionID] = received
	}
	if _, ok := received[chunk.Index]; ok {
		return domain.ErrAlreadyExists
	}
	received[chunk.Index] = chunk
	return nil
}

func (r *uploadChunkRepository) Find(_ context.Context, sessionID uuid.UUID, index uint32) (*domain.UploadChunk, error) {
	defer r.uow.lock()()

	c, ok := r.uow.store.chunks[sessionID][index]
	if !ok {
		return nil, domain.ErrChunkNotFound
	}
	return &c, nil
}

func (r *uploadChunkRepository) ListBySessionID(_ context.Context, sessionID uuid.UUID) ([]domain.UploadChunk, error) {
	defer r.uow.lock()()

	chunks := make([]domain.UploadChunk, 0, len(r.uow.store.chunks[sessionID]))
	for _, c := range r.uow.store.chunks[sessionID] {
		chunks = append(chunks, c)
	}
	slices.SortFunc(chunks, func(a, b domain.UploadChunk) int {
		return int(a.Index) - int(b.Index)
	})
	return chunks, nil
}

type quotaRepository struct {
	uow *UnitOfWork
}

func (r *quotaRepository) Ensure(_ context.Context, ownerID string, spaceAllowed uint64) error {
	defer r.uow.lock()()

	if _, ok := r.uow.store.quotas[ownerID]; !ok {
		r.uow.store.quotas[ownerID] = domain.Quota{OwnerID: ownerID, SpaceAllowed: spaceAllowed}
	}
	return nil
}

func (r *quotaRepository) Find(_ context.Context, ownerID string) (*domain.Quota, error) {
	defer r.uow.lock()()

	q, ok := r.uow.store.quotas[ownerID]
	if !ok {
		return nil, domain.ErrQuotaNotFound
	}
	return &q, nil
}

func (r *quotaRepository) FindForUpdate(ctx context.Context, ownerID string) (*domain.Quota, error) {
	return r.Find(ctx, ownerID)
}

func (r *quotaRepository) AddUsed(_ context.Context, ownerID string, delta int64) error {
	defer r.uow.lock()()

	q, ok := r.uow.store.quotas[ownerID]
	if !ok {
		return domain.ErrQuotaNotFound
	}
	used := int64(q.SpaceUsed) + delta
	if used < 0 {
		used = 0
	}
	q.SpaceUsed = uint64(used)
	r.uow.store.quotas[ownerID] = q
	return nil
}

type accessEventRepository struct {
	uow *UnitOfWork
}

func (r *accessEventRepository) Create(_ context.Context, event domain.ShareAccessEvent) error {
	defer r.uow.lock()()

	for _, e := range r.uow.store.events {
		if e.ID == event.ID {
			return domain.ErrAlreadyExists
		}
	}
	r.uow.store.events = append(r.uow.store.events, event)
	return nil
}

func (r *accessEventRepository) ListByFileID(_ context.Context, fileID uuid.UUID, limit int) ([]domain.ShareAccessEvent, error) {
	defer r.uow.lock()()

	events := make([]domain.ShareAccessEvent, 0)
	for i := len(r.uow.store.events) - 1; i >= 0 && (limit <= 0 || len(events) < limit); i-- {
		if e := r.uow.store.events[i]; e.FileID == fileID {
			events = append(events, e)
		}
	}
	return events, nil
}
