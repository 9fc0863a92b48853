package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadSessionState represents the state of an upload session
type UploadSessionState string

const (
	UploadSessionStateInitiated  UploadSessionState = "initiated"
	UploadSessionStateReceiving  UploadSessionState = "receiving"
	UploadSessionStateFinalizing UploadSessionState = "finalizing"
	UploadSessionStateCommitted  UploadSessionState = "committed"
	UploadSessionStateCancelled  UploadSessionState = "cancelled"
	UploadSessionStateFailed     UploadSessionState = "failed"
)

// AcceptsChunks reports whether chunks may still be written in this state
func (s UploadSessionState) AcceptsChunks() bool {
	return s == UploadSessionStateInitiated || s == UploadSessionStateReceiving
}

// OpenUploadSessionStates are the states in which a session is still alive in the store
var OpenUploadSessionStates = []UploadSessionState{
	UploadSessionStateInitiated,
	UploadSessionStateReceiving,
	UploadSessionStateFinalizing,
}

// UploadSession represents an in-flight chunked upload
type UploadSession struct {
	ID             uuid.UUID
	OwnerID        string
	Filename       string
	FileSize       uint64
	TotalChunks    uint32
	ChunkSize      uint32
	State          UploadSessionState
	CreatedAt      time.Time
	LastActivityAt time.Time
	ExpiresAt      time.Time
}

// UploadChunk represents a received chunk of an upload session
type UploadChunk struct {
	SessionID  uuid.UUID
	Index      uint32
	SizeBytes  uint32
	Checksum   string
	ReceivedAt time.Time
}

// UploadStatus is the read-only progress of an upload session
type UploadStatus struct {
	UploadID        uuid.UUID
	State           UploadSessionState
	TotalChunks     uint32
	ReceivedChunks  uint32
	ReceivedIndices []uint32
	MissingIndices  []uint32
}

// AssembledObject is the result of concatenating every chunk of a session
type AssembledObject struct {
	StorageKey string
	SizeBytes  uint64
	Checksum   string
	MimeType   string
}
