package core

import "context"

// SingleBackend persists one singleton record.
// Adhering to this interface keeps the repositories independent of the
// underlying storage mechanism (Filesystem, SQLite, S3, etc).
type SingleBackend[V any] interface {
	// Load retrieves the record. found=false with a nil error means the
	// backend holds no value yet; that is not a failure.
	Load(ctx context.Context) (value V, found bool, err error)

	// Save persists the record, replacing any previous value.
	Save(ctx context.Context, value V) error
}

// TableBackend persists a keyed collection.
type TableBackend[K comparable, V any] interface {
	// LoadAll streams every (key, value) pair into yield. An empty or missing
	// source must yield zero entries, not error. If yield returns an error,
	// streaming stops and that error is returned.
	LoadAll(ctx context.Context, yield func(key K, value V) error) error

	// SaveAll commits one reconciled diff: inserts for added, replacements
	// for modified, removals for deleted. Implementations should apply the
	// three sets atomically where the medium allows it.
	SaveAll(ctx context.Context, added map[K]V, modified map[K]V, deleted []K) error
}

// AssetBackend persists path-addressable, identity-keyed payloads with a
// separate lightweight metadata record per asset.
type AssetBackend[V any] interface {
	// LoadSummaries enumerates the metadata records only; no payload I/O.
	// A missing or empty source yields zero summaries.
	LoadSummaries(ctx context.Context) ([]AssetSummary, error)

	// LoadAsset loads the full payload for one identity.
	// Returns (nil, nil) when the id is unknown.
	LoadAsset(ctx context.Context, id AssetID) (*Asset[V], error)

	// SaveAsset persists payload and metadata. When the asset's path changed
	// since the last save, the backend relocates the stored files.
	SaveAsset(ctx context.Context, asset *Asset[V]) error

	// DeleteAsset removes payload and metadata. Deleting an unknown id is
	// not an error.
	DeleteAsset(ctx context.Context, id AssetID) error
}
