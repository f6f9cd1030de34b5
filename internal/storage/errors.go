package storage

import "errors"

// Errors returned by every store implementation. Ledger records are never
// updated in place, so a repeated id is always an error.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate record id")
	ErrInvalidInput = errors.New("invalid record")
)
