package repo

import (
	"context"

	"github.com/driftwork/drift/pkg/core"
)

// SingleRepository is the contract for singleton-record repositories.
// Implemented by the editable Single and the read-only RuntimeSingle, so a
// read-only context can embed the same interface without accidental mutation.
type SingleRepository[V any] interface {
	Initialize(ctx context.Context) error
	Initialized() bool

	Get() (value V, found bool)
	Set(value V) error

	TrackPropertyChange(key, property string, value any) (modified bool, err error)
	RevertProperty(key, property string) error
	IsPropertyModified(key, property string) bool
	ModifiedProperties(key string) []string
	PropertyBaseline(key, property string) (any, bool)

	Revert() error
	Save(ctx context.Context) error
	HasChanges() bool
	OnModifiedStateChanged(fn core.ModifiedFunc)
}

// TableRepository is the contract for keyed-collection repositories.
type TableRepository[K comparable, V any] interface {
	Initialize(ctx context.Context) error
	Initialized() bool

	// Get is the strict getter: core.ErrNotFound for unknown or soft-deleted
	// keys. TryGet is the lenient variant.
	Get(key K) (V, error)
	TryGet(key K) (V, bool)
	GetWorkingCopy(key K) (V, error)
	Baseline(key K) (V, bool)

	Add(value V) error
	Update(key K, value V) error
	Remove(key K) error
	MarkAsModified(key K) error

	TrackPropertyChange(key K, property string, value any) (modified bool, err error)
	RevertProperty(key K, property string) error
	IsPropertyModified(key K, property string) bool
	ModifiedProperties(key K) []string
	PropertyBaseline(key K, property string) (any, bool)

	State(key K) core.ChangeState
	AddedKeys() []K
	ModifiedKeys() []K
	DeletedKeys() []K
	Keys() []K
	Len() int
	Find(predicate func(key K, value V) bool) []V

	RevertKey(key K) error
	Revert() error
	Save(ctx context.Context) error
	HasChanges() bool
	OnModifiedStateChanged(fn core.ModifiedFunc)
}

// AssetRepository is the contract for asset repositories.
type AssetRepository[V any] interface {
	Initialize(ctx context.Context) error
	Initialized() bool

	// Get lazily loads and caches the payload. Unknown ids resolve to
	// (nil, nil); use Summary to distinguish "absent" from "not yet loaded".
	Get(ctx context.Context, id core.AssetID) (*core.Asset[V], error)
	GetByPath(ctx context.Context, path string) (*core.Asset[V], error)
	GetWorkingCopy(id core.AssetID) (*core.Asset[V], error)

	Add(payload V, path string) (*core.Asset[V], error)
	Update(id core.AssetID, payload V) error
	UpdateMetadata(id core.AssetID, mutate func(*core.AssetMetadata)) error
	UpdatePath(id core.AssetID, path string) error
	Remove(id core.AssetID) (bool, error)
	MarkAsModified(id core.AssetID) error

	State(id core.AssetID) core.ChangeState
	Summaries() []core.AssetSummary
	Summary(id core.AssetID) (core.AssetSummary, bool)
	Find(predicate func(core.AssetSummary) bool) []core.AssetSummary
	IsLoaded(id core.AssetID) bool
	LoadedAssets() []core.AssetID

	RevertAsset(id core.AssetID) error
	Revert() error
	Save(ctx context.Context, id core.AssetID) error
	SaveAll(ctx context.Context) error
	HasChanges() bool
	OnModifiedStateChanged(fn core.ModifiedFunc)
}
