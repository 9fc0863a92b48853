// Package chunk splits files into fixed-size byte ranges and maps them to storage keys.
package chunk

import (
	"cmp"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"xenbox/internal/core/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/zeebo/blake3"
)

// DefaultSize is the size of every chunk except possibly the last one (10MB)
const DefaultSize uint32 = 10 << 20

// Range is the byte range of one chunk inside a file
type Range struct {
	Index  uint32
	Offset uint64
	Length uint32
}

// Count returns ceil(fileSize / chunkSize)
func Count(fileSize uint64, chunkSize uint32) uint64 {
	if chunkSize == 0 || fileSize == 0 {
		return 0
	}
	size := uint64(chunkSize)
	return (fileSize + size - 1) / size
}

// RangeOf returns the byte range covered by chunk index
func RangeOf(index uint32, fileSize uint64, chunkSize uint32) (Range, error) {
	if uint64(index) >= Count(fileSize, chunkSize) {
		return Range{}, domain.ErrChunkIndexOutOfRange
	}
	offset := uint64(index) * uint64(chunkSize)
	length := min(uint64(chunkSize), fileSize-offset)
	return Range{Index: index, Offset: offset, Length: uint32(length)}, nil
}

// Ranges returns every chunk range of a file in index order
func Ranges(fileSize uint64, chunkSize uint32) []Range {
	total := Count(fileSize, chunkSize)
	ranges := make([]Range, 0, total)
	for i := uint64(0); i < total; i++ {
		r, _ := RangeOf(uint32(i), fileSize, chunkSize)
		ranges = append(ranges, r)
	}
	return ranges
}

// Split reads r to the end and calls fn with every chunk in index order.
// The slice passed to fn is reused between calls.
func Split(r io.Reader, chunkSize uint32, fn func(index uint32, data []byte) error) error {
	if chunkSize == 0 {
		return errors.New("chunk size must be positive")
	}
	buf := make([]byte, chunkSize)
	for index := uint32(0); ; index++ {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if fnErr := fn(index, buf[:n]); fnErr != nil {
				return fnErr
			}
		}
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read chunk %d: %w", index, err)
		}
	}
}

// Encode encodes chunk bytes for transport
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode decodes a transported chunk. A data URL prefix ("data:...;base64,") is accepted.
func Decode(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i != -1 {
			payload = payload[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidChunkData, err)
	}
	return data, nil
}

// Digest returns the hex BLAKE3 digest of data
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Prefix returns the storage prefix of every chunk of an upload
func Prefix(uploadID uuid.UUID) string {
	return fmt.Sprintf("chunks/%s/", uploadID.String())
}

// Key returns the storage key of one chunk version. Keys sort in index order and
// differ per content, so a stored chunk object is never overwritten with other bytes.
func Key(uploadID uuid.UUID, index uint32, checksum string) string {
	return fmt.Sprintf("%s%010d-%s", Prefix(uploadID), index, checksum)
}

// Keys returns the storage keys of the given chunks, in index order
func Keys(uploadID uuid.UUID, chunks []domain.UploadChunk) []string {
	sorted := slices.Clone(chunks)
	slices.SortFunc(sorted, func(a, b domain.UploadChunk) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return lo.Map(sorted, func(c domain.UploadChunk, _ int) string {
		return Key(uploadID, c.Index, c.Checksum)
	})
}
