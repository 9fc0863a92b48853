package domain

import (
	"time"

	"github.com/google/uuid"
)

// XenBoxFile represents a finalized file owned by a user
type XenBoxFile struct {
	ID           uuid.UUID
	OwnerID      string
	Filename     string
	MimeType     string
	SizeBytes    uint64
	Checksum     string
	StorageKey   string
	ShareToken   string
	PasswordHash *string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether downloads require a password
func (f *XenBoxFile) HasPassword() bool {
	return f.PasswordHash != nil && *f.PasswordHash != ""
}

// IsExpired reports whether the share link is expired at now
func (f *XenBoxFile) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && !now.Before(*f.ExpiresAt)
}

// Descriptor returns what the owner sees of the file
func (f *XenBoxFile) Descriptor(shareURL string) FileDescriptor {
	return FileDescriptor{
		ID:          f.ID,
		Filename:    f.Filename,
		MimeType:    f.MimeType,
		SizeBytes:   f.SizeBytes,
		ShareURL:    shareURL,
		HasPassword: f.HasPassword(),
		ExpiresAt:   f.ExpiresAt,
		CreatedAt:   f.CreatedAt,
	}
}

// FileDescriptor is what owners and upload clients see of a file
type FileDescriptor struct {
	ID          uuid.UUID
	Filename    string
	MimeType    string
	SizeBytes   uint64
	ShareURL    string
	HasPassword bool
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// ShareInfo is what anonymous callers see of a shared file
type ShareInfo struct {
	Filename         string
	MimeType         string
	SizeBytes        uint64
	RequiresPassword bool
}

// Optional carries a tri-state value: unset, explicitly null, or a value
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional that clears the field
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// FileSettings is a settings update: unset fields are untouched, null fields are cleared
type FileSettings struct {
	Password  Optional[string]
	ExpiresAt Optional[time.Time]
}

// FileSettingsResult is the share state after a settings update
type FileSettingsResult struct {
	ShareURL    string
	HasPassword bool
	ExpiresAt   *time.Time
}
