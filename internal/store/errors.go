package store

import "errors"

var (
	// ErrNotFound means no record matched an id or id prefix
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousID means an id prefix matched more than one record
	ErrAmbiguousID = errors.New("ambiguous id")
	// ErrInvalidBackup means an import document was rejected
	ErrInvalidBackup = errors.New("invalid backup file")
)
