package store

import "errors"

var (
	// ErrRecordNotFound is returned when the requested row does not exist,
	// including marking an already-deleted grant record deleted again.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert collides with the active
	// uniqueness constraint on identity_key. The loser of a concurrent
	// provisioning race sees this.
	ErrDuplicateKey = errors.New("identity key already active")

	// ErrEntryApplied is returned when deleting an allowlist entry whose
	// grant still exists. Teardown must precede allowlist deletion.
	ErrEntryApplied = errors.New("allowlist entry has an applied grant")
)
