package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is a type that represents the type of an event
type EventType string

const (
	EventTypeFileCommitted   EventType = "file.committed"
	EventTypeFileDeleted     EventType = "file.deleted"
	EventTypeShareDownloaded EventType = "share.downloaded"
)

// Event is a domain event published on the broker
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	FileID     uuid.UUID `json:"file_id"`
	OwnerID    string    `json:"owner_id,omitempty"`
	SizeBytes  uint64    `json:"size_bytes,omitempty"`
	ShareToken string    `json:"share_token,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent creates an event of type t for a file
func NewEvent(t EventType, fileID uuid.UUID) Event {
	return Event{ID: uuid.New(), Type: t, FileID: fileID, OccurredAt: time.Now().UTC()}
}

// ShareAccessEvent represents a recorded download of a shared file
type ShareAccessEvent struct {
	ID         uuid.UUID
	FileID     uuid.UUID
	ShareToken string
	RemoteAddr string
	UserAgent  string
	OccurredAt time.Time
}

// Requester describes the anonymous caller of a share endpoint
type Requester struct {
	RemoteAddr string
	UserAgent  string
}
