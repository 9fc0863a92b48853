package upload

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"xenbox/internal/core/domain"
	"xenbox/internal/core/port"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// sniffLen is how many leading bytes are used to detect the MIME type
const sniffLen = 3072

const defaultMimeType = "application/octet-stream"

type assembler struct {
	storage port.BlobStorage
}

// NewAssembler creates a FileAssembler streaming chunks from storage back into storage
func NewAssembler(storage port.BlobStorage) port.FileAssembler {
	return &assembler{storage: storage}
}

// Assemble copies the chunk objects, in the given order, into destKey without buffering the file.
// The producer hashes what it writes into a pipe, the consumer sniffs the head and uploads the rest.
func (a *assembler) Assemble(ctx context.Context, chunkKeys []string, destKey string, filename string) (*domain.AssembledObject, error) {
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	hasher := blake3.New()
	var size uint64
	var mimeType string

	g.Go(func() (err error) {
		defer func() { pw.CloseWithError(err) }()

		for _, key := range chunkKeys {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := a.copyObject(gctx, io.MultiWriter(pw, hasher), key)
			size += uint64(n)
			if err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() (err error) {
		defer func() { pr.CloseWithError(err) }()

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(pr, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return err
		}
		head = head[:n]
		mimeType = detectMimeType(head, filename)

		return a.storage.PutObject(gctx, destKey, io.MultiReader(bytes.NewReader(head), pr), -1, mimeType)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AssembledObject{
		StorageKey: destKey,
		SizeBytes:  size,
		Checksum:   hex.EncodeToString(hasher.Sum(nil)),
		MimeType:   mimeType,
	}, nil
}

func (a *assembler) copyObject(ctx context.Context, w io.Writer, key string) (int64, error) {
	obj, err := a.storage.GetObject(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to open chunk %s: %w", key, err)
	}
	defer obj.Close()

	n, err := io.Copy(w, obj)
	if err != nil {
		return n, fmt.Errorf("failed to copy chunk %s: %w", key, err)
	}
	return n, nil
}

// detectMimeType sniffs the content and falls back to the filename extension
func detectMimeType(head []byte, filename string) string {
	detected := mimetype.Detect(head)
	if !detected.Is(defaultMimeType) {
		return detected.String()
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return defaultMimeType
}
