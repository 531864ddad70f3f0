package domain

import "errors"

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	// A malformed identifier resolves to this as well, never to a system error.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a store uniqueness constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
)
