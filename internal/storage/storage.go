// Package storage defines the errors shared between storage backends and
// their callers.
package storage

import "errors"

var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken signals a unique-constraint violation on users.email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrReferenceGone signals a foreign-key violation, e.g. a write
	// against a dependency deleted by a concurrent request.
	ErrReferenceGone = errors.New("referenced record no longer exists")
)
