package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate unique pair on an explicit create
	ErrConflict = errors.New("already exists")

	// ErrInvalidFormat indicates a malformed or self-inconsistent import document
	ErrInvalidFormat = errors.New("invalid format")

	// ErrStorage indicates the underlying transaction aborted for an
	// environment reason (disk I/O, locked database)
	ErrStorage = errors.New("storage failure")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
