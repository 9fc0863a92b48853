package upload_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"
	"xenbox/internal/adapters/eventbroker"
	memrepo "xenbox/internal/adapters/repository/memory"
	memstorage "xenbox/internal/adapters/storage/memory"
	"xenbox/internal/config"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/chunk"
	"xenbox/internal/core/service/cleanup"
	"xenbox/internal/core/service/quota"
	"xenbox/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID  = "owner-1"
	shareURL = "https://xen.box/s"
)

type fixture struct {
	uow     *memrepo.UnitOfWork
	storage *memstorage.Storage
	service port.UploadService
}

func newFixture(t *testing.T, chunkSize uint32, spaceAllowed uint64) *fixture {
	t.Helper()
	return newFixtureWithStorage(t, chunkSize, spaceAllowed, nil)
}

func newFixtureWithStorage(t *testing.T, chunkSize uint32, spaceAllowed uint64, wrap func(port.BlobStorage) port.BlobStorage) *fixture {
	t.Helper()
	return newFixtureWithConfig(t, config.FileUploadConfig{ChunkSize: chunkSize, MaxFileSize: 1 << 40, SessionTTL: time.Hour}, spaceAllowed, wrap)
}

func newFixtureWithConfig(t *testing.T, cfg config.FileUploadConfig, spaceAllowed uint64, wrap func(port.BlobStorage) port.BlobStorage) *fixture {
	t.Helper()

	uow := memrepo.NewUnitOfWork()
	storage := memstorage.NewStorage()
	var blobs port.BlobStorage = storage
	if wrap != nil {
		blobs = wrap(storage)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := quota.NewQuotaGuard(uow, config.QuotaConfig{DefaultSpaceAllowed: spaceAllowed})
	service := upload.NewUploadService(
		uow,
		blobs,
		upload.NewAssembler(blobs),
		guard,
		eventbroker.NoopPublisher{},
		cfg,
		config.ShareConfig{BaseURL: shareURL},
		logger,
	)
	return &fixture{uow: uow, storage: storage, service: service}
}

func randomBytes(n int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}
	return b
}

// sendAll initiates an upload of data and sends every chunk in the given order
func (f *fixture) sendAll(t *testing.T, ctx context.Context, data []byte, chunkSize uint32, order ...uint32) uuid.UUID {
	t.Helper()

	total := uint32(chunk.Count(uint64(len(data)), chunkSize))
	uploadID, err := f.service.Initiate(ctx, ownerID, "report.pdf", uint64(len(data)), total)
	require.NoError(t, err)

	if len(order) == 0 {
		for i := uint32(0); i < total; i++ {
			order = append(order, i)
		}
	}
	for _, index := range order {
		r, err := chunk.RangeOf(index, uint64(len(data)), chunkSize)
		require.NoError(t, err)
		acked, err := f.service.ReceiveChunk(ctx, ownerID, uploadID, index, total, data[r.Offset:r.Offset+uint64(r.Length)])
		require.NoError(t, err)
		require.Equal(t, index, acked)
	}
	return uploadID
}

func (f *fixture) readObject(t *testing.T, key string) []byte {
	t.Helper()
	obj, err := f.storage.GetObject(context.Background(), key)
	require.NoError(t, err)
	defer obj.Close()
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	return data
}

func TestUploadService_OutOfOrderChunksAssembleInIndexOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 0, 1<<30)
	data := randomBytes(25<<20, 1)

	// Act
	uploadID := f.sendAll(t, ctx, data, chunk.DefaultSize, 2, 0, 1)
	descriptor, err := f.service.Finalize(ctx, ownerID, uploadID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(25<<20), descriptor.SizeBytes)
	assert.Equal(t, "report.pdf", descriptor.Filename)
	assert.True(t, strings.HasPrefix(descriptor.ShareURL, shareURL+"/"))
	assert.False(t, descriptor.HasPassword)
	assert.Nil(t, descriptor.ExpiresAt)

	file, err := f.uow.FileRepo().FindByID(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, chunk.Digest(data), file.Checksum)
	assert.True(t, bytes.Equal(data, f.readObject(t, file.StorageKey)))
	assert.Equal(t, shareURL+"/"+file.ShareToken, descriptor.ShareURL)

	assert.Empty(t, f.storage.Keys(chunk.Prefix(uploadID)))
	_, err = f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	usage, err := f.uow.QuotaRepo().Find(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, uint64(25<<20), usage.SpaceUsed)
}

func TestUploadService_Initiate_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		filename    string
		fileSize    uint64
		totalChunks uint32
		wantErr     error
	}{
		{name: "empty filename", filename: "  ", fileSize: 10, totalChunks: 3, wantErr: domain.ErrInvalidFilename},
		{name: "dot filename", filename: "../..", fileSize: 10, totalChunks: 3, wantErr: domain.ErrInvalidFilename},
		{name: "too long filename", filename: strings.Repeat("a", 256), fileSize: 10, totalChunks: 3, wantErr: domain.ErrInvalidFilename},
		{name: "empty file", filename: "a.txt", fileSize: 0, totalChunks: 0, wantErr: domain.ErrInvalidFileSize},
		{name: "too few chunks", filename: "a.txt", fileSize: 10, totalChunks: 2, wantErr: domain.ErrChunkCountMismatch},
		{name: "too many chunks", filename: "a.txt", fileSize: 10, totalChunks: 4, wantErr: domain.ErrChunkCountMismatch},
		{name: "over quota", filename: "a.txt", fileSize: 101, totalChunks: 26, wantErr: domain.ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, 4, 100)

			// Act
			id, err := f.service.Initiate(ctx, ownerID, tt.filename, tt.fileSize, tt.totalChunks)

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, uuid.Nil, id)
		})
	}
}

func TestUploadService_Initiate_SanitizesFilename(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)

	// Act
	id, err := f.service.Initiate(ctx, ownerID, "../../etc/pass\x00wd", 10, 3)

	// Assert
	require.NoError(t, err)
	session, err := f.uow.UploadSessionRepo().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "passwd", session.Filename)
	assert.Equal(t, domain.UploadSessionStateInitiated, session.State)
	assert.Equal(t, uint32(4), session.ChunkSize)
}

func TestUploadService_Initiate_MaxFileSize(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := memrepo.NewUnitOfWork()
	storage := memstorage.NewStorage()
	service := upload.NewUploadService(uow, storage, upload.NewAssembler(storage),
		quota.NewQuotaGuard(uow, config.QuotaConfig{DefaultSpaceAllowed: 1 << 30}),
		eventbroker.NoopPublisher{},
		config.FileUploadConfig{ChunkSize: 4, MaxFileSize: 8, SessionTTL: time.Hour},
		config.ShareConfig{BaseURL: shareURL},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Act
	_, err := service.Initiate(ctx, ownerID, "a.bin", 9, 3)

	// Assert
	assert.ErrorIs(t, err, domain.ErrInvalidFileSize)
}

func TestUploadService_ReceiveChunk_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		owner       string
		unknown     bool
		index       uint32
		totalChunks uint32
		data        []byte
		wantErr     error
	}{
		{name: "unknown session", owner: ownerID, unknown: true, index: 0, totalChunks: 3, data: []byte("abcd"), wantErr: domain.ErrSessionNotFound},
		{name: "foreign owner", owner: "owner-2", index: 0, totalChunks: 3, data: []byte("abcd"), wantErr: domain.ErrSessionNotFound},
		{name: "index out of range", owner: ownerID, index: 3, totalChunks: 3, data: []byte("ab"), wantErr: domain.ErrChunkIndexOutOfRange},
		{name: "total chunks mismatch", owner: ownerID, index: 0, totalChunks: 4, data: []byte("abcd"), wantErr: domain.ErrChunkCountMismatch},
		{name: "chunk too large", owner: ownerID, index: 0, totalChunks: 3, data: []byte("abcde"), wantErr: domain.ErrChunkTooLarge},
		{name: "empty chunk", owner: ownerID, index: 0, totalChunks: 3, data: nil, wantErr: domain.ErrEmptyChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, 4, 100)
			uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
			require.NoError(t, err)
			if tt.unknown {
				uploadID = uuid.New()
			}

			// Act
			_, err = f.service.ReceiveChunk(ctx, tt.owner, uploadID, tt.index, tt.totalChunks, tt.data)

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			chunks, listErr := f.uow.UploadChunkRepo().ListBySessionID(ctx, uploadID)
			require.NoError(t, listErr)
			assert.Empty(t, chunks)
		})
	}
}

func TestUploadService_ReceiveChunk_DuplicateIsIdempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)

	// Act
	first, err1 := f.service.ReceiveChunk(ctx, ownerID, uploadID, 1, 3, []byte("efgh"))
	second, err2 := f.service.ReceiveChunk(ctx, ownerID, uploadID, 1, 3, []byte("efgh"))

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, uint32(1), second)

	status, err := f.service.Status(ctx, ownerID, uploadID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), status.ReceivedChunks)
	assert.Equal(t, domain.UploadSessionStateReceiving, status.State)
	assert.Len(t, f.storage.Keys(chunk.Prefix(uploadID)), 1)
}

func TestUploadService_ReceiveChunk_ConflictingContent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 0, 3, []byte("abcd"))
	require.NoError(t, err)

	// Act
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 0, 3, []byte("zzzz"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrChunkConflict)
	stored, err := f.uow.UploadChunkRepo().Find(ctx, uploadID, 0)
	require.NoError(t, err)
	assert.Equal(t, chunk.Digest([]byte("abcd")), stored.Checksum)
}

func TestUploadService_ReceiveChunk_ExtendsExpiry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)
	before, err := f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	require.NoError(t, err)

	// Act
	time.Sleep(2 * time.Millisecond)
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 2, 3, []byte("ij"))

	// Assert
	require.NoError(t, err)
	after, err := f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	require.NoError(t, err)
	assert.True(t, after.ExpiresAt.After(before.ExpiresAt))
	assert.True(t, after.LastActivityAt.After(before.LastActivityAt))
}

func TestUploadService_ReceiveChunk_ParallelIndices(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 1000)
	data := randomBytes(64, 2)
	total := uint32(16)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.bin", uint64(len(data)), total)
	require.NoError(t, err)

	// Act
	var wg sync.WaitGroup
	errs := make(chan error, total)
	for i := uint32(0); i < total; i++ {
		wg.Add(1)
		go func(index uint32) {
			defer wg.Done()
			_, err := f.service.ReceiveChunk(ctx, ownerID, uploadID, index, total, data[index*4:index*4+4])
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	// Assert
	for err := range errs {
		require.NoError(t, err)
	}
	descriptor, err := f.service.Finalize(ctx, ownerID, uploadID)
	require.NoError(t, err)
	file, err := f.uow.FileRepo().FindByID(ctx, descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, data, f.readObject(t, file.StorageKey))
}

func TestUploadService_Status(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 2, 3, []byte("ij"))
	require.NoError(t, err)

	// Act
	status, err := f.service.Status(ctx, ownerID, uploadID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uploadID, status.UploadID)
	assert.Equal(t, uint32(3), status.TotalChunks)
	assert.Equal(t, uint32(1), status.ReceivedChunks)
	assert.Equal(t, []uint32{2}, status.ReceivedIndices)
	assert.Equal(t, []uint32{0, 1}, status.MissingIndices)

	_, err = f.service.Status(ctx, "owner-2", uploadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUploadService_Finalize_IncompleteDiscardsSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 0, 3, []byte("abcd"))
	require.NoError(t, err)

	// Act
	descriptor, err := f.service.Finalize(ctx, ownerID, uploadID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrIncompleteUpload)
	assert.Nil(t, descriptor)
	_, err = f.service.Status(ctx, ownerID, uploadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, f.storage.Keys(""))
}

func TestUploadService_Finalize_SizeMismatchDiscardsSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)
	for i, part := range []string{"abcd", "efgh", "ijkl"} {
		_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, uint32(i), 3, []byte(part))
		require.NoError(t, err)
	}

	// Act
	_, err = f.service.Finalize(ctx, ownerID, uploadID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrSizeMismatch)
	_, err = f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, f.storage.Keys(""))
	files, err := f.uow.FileRepo().ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUploadService_Finalize_Twice(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID := f.sendAll(t, ctx, []byte("0123456789"), 4)
	_, err := f.service.Finalize(ctx, ownerID, uploadID)
	require.NoError(t, err)

	// Act
	_, err = f.service.Finalize(ctx, ownerID, uploadID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUploadService_Finalize_QuotaBoundary(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 10)
	uploadID := f.sendAll(t, ctx, []byte("0123456789"), 4)

	// Act
	_, err := f.service.Finalize(ctx, ownerID, uploadID)

	// Assert
	require.NoError(t, err)
	usage, err := f.uow.QuotaRepo().Find(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), usage.Remaining())

	_, err = f.service.Initiate(ctx, ownerID, "b.txt", 1, 1)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestUploadService_Finalize_ConcurrentWithinQuota(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 10)
	first := f.sendAll(t, ctx, []byte("aaaaaa"), 4)
	second := f.sendAll(t, ctx, []byte("bbbbbb"), 4)

	// Act
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uuid.UUID{first, second} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.service.Finalize(ctx, ownerID, id)
		}(i, id)
	}
	wg.Wait()

	// Assert
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	}
	assert.Equal(t, 1, succeeded)

	usage, err := f.uow.QuotaRepo().Find(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), usage.SpaceUsed)

	files, err := f.uow.FileRepo().ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []string{files[0].StorageKey}, f.storage.Keys(""))
}

func TestUploadService_Cancel(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 0, 3, []byte("abcd"))
	require.NoError(t, err)

	// Act
	err = f.service.Cancel(ctx, ownerID, uploadID)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, f.storage.Keys(""))

	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 1, 3, []byte("efgh"))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.service.Finalize(ctx, ownerID, uploadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUploadService_Cancel_UnknownOrForeignSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, 4, 100)
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)

	// Act
	errUnknown := f.service.Cancel(ctx, ownerID, uuid.New())
	errForeign := f.service.Cancel(ctx, "owner-2", uploadID)

	// Assert
	assert.NoError(t, errUnknown)
	assert.NoError(t, errForeign)
	_, err = f.service.Status(ctx, ownerID, uploadID)
	assert.NoError(t, err)
}

// failingStorage fails every write under prefix until healed
type failingStorage struct {
	port.BlobStorage
	mu     sync.Mutex
	prefix string
}

func (s *failingStorage) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	prefix := s.prefix
	s.mu.Unlock()
	if prefix != "" && strings.HasPrefix(key, prefix) {
		_, _ = io.Copy(io.Discard, reader)
		return assert.AnError
	}
	return s.BlobStorage.PutObject(ctx, key, reader, size, contentType)
}

func (s *failingStorage) heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = ""
}

func TestUploadService_Finalize_AssembleFailureIsRetryable(t *testing.T) {
	// Arrange
	ctx := context.Background()
	var failing *failingStorage
	f := newFixtureWithStorage(t, 4, 100, func(s port.BlobStorage) port.BlobStorage {
		failing = &failingStorage{BlobStorage: s, prefix: "files/"}
		return failing
	})
	uploadID := f.sendAll(t, ctx, []byte("0123456789"), 4)

	// Act
	_, err := f.service.Finalize(ctx, ownerID, uploadID)

	// Assert
	require.ErrorIs(t, err, assert.AnError)
	status, err := f.service.Status(ctx, ownerID, uploadID)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadSessionStateReceiving, status.State)
	assert.Equal(t, uint32(3), status.ReceivedChunks)
	assert.Empty(t, f.storage.Keys("files/"))

	failing.heal()
	descriptor, err := f.service.Finalize(ctx, ownerID, uploadID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), descriptor.SizeBytes)
}

func TestUploadService_ReceiveChunk_StorageFailureRecordsNothing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixtureWithStorage(t, 4, 100, func(s port.BlobStorage) port.BlobStorage {
		return &failingStorage{BlobStorage: s, prefix: "chunks/"}
	})
	uploadID, err := f.service.Initiate(ctx, ownerID, "a.txt", 10, 3)
	require.NoError(t, err)

	// Act
	_, err = f.service.ReceiveChunk(ctx, ownerID, uploadID, 0, 3, []byte("abcd"))

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	_, err = f.uow.UploadChunkRepo().Find(ctx, uploadID, 0)
	assert.ErrorIs(t, err, domain.ErrChunkNotFound)
}

// gatedStorage holds every read until released
type gatedStorage struct {
	port.BlobStorage
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedStorage(s port.BlobStorage) *gatedStorage {
	return &gatedStorage{BlobStorage: s, entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedStorage) GetObject(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	s.once.Do(func() { close(s.entered) })
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.BlobStorage.GetObject(ctx, key)
}

type finalizeResult struct {
	descriptor *domain.FileDescriptor
	err        error
}

func (f *fixture) finalizeAsync(ctx context.Context, uploadID uuid.UUID) <-chan finalizeResult {
	done := make(chan finalizeResult, 1)
	go func() {
		descriptor, err := f.service.Finalize(ctx, ownerID, uploadID)
		done <- finalizeResult{descriptor: descriptor, err: err}
	}()
	return done
}

func TestUploadService_Finalize_SurvivesCleanupWhileAssembling(t *testing.T) {
	// Arrange
	ctx := context.Background()
	var gate *gatedStorage
	f := newFixtureWithStorage(t, 4, 100, func(s port.BlobStorage) port.BlobStorage {
		gate = newGatedStorage(s)
		return gate
	})
	data := []byte("0123456789")
	uploadID := f.sendAll(t, ctx, data, 4)
	started := time.Now().UTC()

	done := f.finalizeAsync(ctx, uploadID)
	<-gate.entered

	session, err := f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	require.NoError(t, err)
	require.Equal(t, domain.UploadSessionStateFinalizing, session.State)
	assert.False(t, session.ExpiresAt.Before(started.Add(time.Hour)))

	sweeper := cleanup.NewCleanupService(f.uow, f.storage, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Act
	err = sweeper.CleanupExpiredSessions(ctx, session.ExpiresAt.Add(time.Second))
	close(gate.release)
	result := <-done

	// Assert
	require.NoError(t, err)
	require.NoError(t, result.err)
	file, err := f.uow.FileRepo().FindByID(ctx, result.descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, data, f.readObject(t, file.StorageKey))
	_, err = f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, f.storage.Keys(chunk.Prefix(uploadID)))
}

func TestUploadService_Finalize_ExtendsExpiryWhileAssembling(t *testing.T) {
	// Arrange
	ctx := context.Background()
	var gate *gatedStorage
	cfg := config.FileUploadConfig{ChunkSize: 4, MaxFileSize: 1 << 40, SessionTTL: 150 * time.Millisecond}
	f := newFixtureWithConfig(t, cfg, 100, func(s port.BlobStorage) port.BlobStorage {
		gate = newGatedStorage(s)
		return gate
	})
	data := []byte("0123456789")
	uploadID := f.sendAll(t, ctx, data, 4)

	done := f.finalizeAsync(ctx, uploadID)
	<-gate.entered
	first, err := f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	require.NoError(t, err)

	// Act
	time.Sleep(3 * cfg.SessionTTL)
	later, err := f.uow.UploadSessionRepo().FindByID(ctx, uploadID)
	require.NoError(t, err)
	close(gate.release)
	result := <-done

	// Assert
	assert.True(t, later.ExpiresAt.After(first.ExpiresAt))
	assert.True(t, later.ExpiresAt.After(time.Now().UTC().Add(-cfg.SessionTTL)))
	require.NoError(t, result.err)
}
