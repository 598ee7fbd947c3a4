package store

import "errors"

// Sentinel errors. Services translate these into domain errors; the store
// itself knows nothing about HTTP.
var (
	// ErrNotFound is returned when no document matches the given key or index value.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create would collide on the primary
	// key or a unique index.
	ErrAlreadyExists = errors.New("document already exists")
)
