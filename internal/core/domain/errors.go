package domain

import "errors"

// ErrQuotaExceeded is an error thrown when an upload would exceed the owner's allowed space
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrChunkIndexOutOfRange is an error thrown when chunk index is outside [0, totalChunks)
var ErrChunkIndexOutOfRange = errors.New("chunk index out of range")

// ErrChunkCountMismatch is an error thrown when total chunks does not match the file size or the session
var ErrChunkCountMismatch = errors.New("chunk count mismatch")

// ErrChunkNotFound is an error thrown when a chunk has not been received
var ErrChunkNotFound = errors.New("chunk not found")

// ErrChunkConflict is an error thrown when an already accepted chunk is resent with different content
var ErrChunkConflict = errors.New("chunk already received with different content")

// ErrEmptyChunk is an error thrown when a chunk carries no bytes
var ErrEmptyChunk = errors.New("empty chunk")

// ErrChunkTooLarge is an error thrown when a chunk is bigger than the chunk size
var ErrChunkTooLarge = errors.New("chunk too large")

// ErrInvalidChunkData is an error thrown when chunk data cannot be decoded
var ErrInvalidChunkData = errors.New("invalid chunk data")

// ErrIncompleteUpload is an error thrown when finalize runs before every chunk arrived
var ErrIncompleteUpload = errors.New("incomplete upload")

// ErrSizeMismatch is an error thrown when sizes mismatch
var ErrSizeMismatch = errors.New("size mismatch")

// ErrInvalidFileSize is an error thrown when declared file size is not accepted
var ErrInvalidFileSize = errors.New("invalid file size")

// ErrInvalidFilename is an error thrown when filename is empty or unusable
var ErrInvalidFilename = errors.New("invalid filename")

// ErrFileNotFound is an error thrown when file is not found
var ErrFileNotFound = errors.New("file not found")

// ErrObjectNotFound is an error thrown when a stored object is missing
var ErrObjectNotFound = errors.New("object not found")

// ErrShareNotFound is an error thrown when share token does not resolve
var ErrShareNotFound = errors.New("share not found")

// ErrShareExpired is an error thrown when share link expired
var ErrShareExpired = errors.New("share expired")

// ErrSharePasswordRequired is an error thrown when a protected share is requested without password
var ErrSharePasswordRequired = errors.New("share password required")

// ErrSharePasswordIncorrect is an error thrown when share password does not match
var ErrSharePasswordIncorrect = errors.New("share password incorrect")

// ErrInvalidPassword is an error thrown when a share password cannot be set
var ErrInvalidPassword = errors.New("invalid password")

// ErrQuotaNotFound is an error thrown when an owner has no quota row yet
var ErrQuotaNotFound = errors.New("quota not found")

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrUnauthenticated is an error thrown when caller identity is missing or invalid
var ErrUnauthenticated = errors.New("unauthenticated")
