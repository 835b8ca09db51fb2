package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned by strict getters when no entity exists for the
	// given key. Lenient variants (TryGet) return an empty result instead.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateKey is returned by Add when the key is already present,
	// either in the baseline or as a pending addition.
	ErrDuplicateKey = errors.New("key already present")

	// ErrNotLoaded is returned when mutating an asset whose payload has not
	// been loaded yet. Call Get first.
	ErrNotLoaded = errors.New("asset not loaded")

	// ErrReadOnly is returned by every mutator on a runtime (read-only)
	// repository. This is a hard contract boundary, never a silent no-op.
	ErrReadOnly = errors.New("repository is in read-only mode")
)
