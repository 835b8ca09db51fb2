package repo

import (
	"context"

	"github.com/driftwork/drift/pkg/core"
)

// Runtime (read-only) variants expose the same interfaces as the editable
// repositories but reject every mutator with core.ErrReadOnly instead of
// silently doing nothing. HasChanges is permanently false and Revert is a
// no-op. This lets a read-only context (e.g. a game runtime) embed the same
// repository interface as the editor without accidental mutation.

// RuntimeSingle is the read-only variant of Single.
type RuntimeSingle[V any] struct {
	inner *Single[V]
}

// NewRuntimeSingle creates a read-only singleton repository.
func NewRuntimeSingle[V any](backend core.SingleBackend[V], cfg SingleConfig[V]) *RuntimeSingle[V] {
	return &RuntimeSingle[V]{inner: NewSingle(backend, cfg)}
}

func (r *RuntimeSingle[V]) Initialize(ctx context.Context) error { return r.inner.Initialize(ctx) }
func (r *RuntimeSingle[V]) Initialized() bool                    { return r.inner.Initialized() }
func (r *RuntimeSingle[V]) Get() (V, bool)                       { return r.inner.Get() }

func (r *RuntimeSingle[V]) Set(V) error { return core.ErrReadOnly }

func (r *RuntimeSingle[V]) TrackPropertyChange(key, property string, value any) (bool, error) {
	return false, core.ErrReadOnly
}
func (r *RuntimeSingle[V]) RevertProperty(key, property string) error   { return core.ErrReadOnly }
func (r *RuntimeSingle[V]) IsPropertyModified(key, property string) bool { return false }
func (r *RuntimeSingle[V]) ModifiedProperties(key string) []string       { return nil }
func (r *RuntimeSingle[V]) PropertyBaseline(key, property string) (any, bool) {
	return nil, false
}

func (r *RuntimeSingle[V]) Revert() error                  { return nil }
func (r *RuntimeSingle[V]) Save(context.Context) error     { return core.ErrReadOnly }
func (r *RuntimeSingle[V]) HasChanges() bool               { return false }
func (r *RuntimeSingle[V]) OnModifiedStateChanged(core.ModifiedFunc) {}

var _ SingleRepository[struct{}] = (*RuntimeSingle[struct{}])(nil)

// RuntimeTable is the read-only variant of Table.
type RuntimeTable[K comparable, V any] struct {
	inner *Table[K, V]
}

// NewRuntimeTable creates a read-only table repository.
func NewRuntimeTable[K comparable, V any](backend core.TableBackend[K, V], cfg TableConfig[K, V]) *RuntimeTable[K, V] {
	return &RuntimeTable[K, V]{inner: NewTable(backend, cfg)}
}

func (r *RuntimeTable[K, V]) Initialize(ctx context.Context) error { return r.inner.Initialize(ctx) }
func (r *RuntimeTable[K, V]) Initialized() bool                    { return r.inner.Initialized() }
func (r *RuntimeTable[K, V]) Get(key K) (V, error)                 { return r.inner.Get(key) }
func (r *RuntimeTable[K, V]) TryGet(key K) (V, bool)               { return r.inner.TryGet(key) }
func (r *RuntimeTable[K, V]) Baseline(key K) (V, bool)             { return r.inner.Baseline(key) }
func (r *RuntimeTable[K, V]) State(key K) core.ChangeState         { return r.inner.State(key) }
func (r *RuntimeTable[K, V]) Keys() []K                            { return r.inner.Keys() }
func (r *RuntimeTable[K, V]) Len() int                             { return r.inner.Len() }

func (r *RuntimeTable[K, V]) Find(predicate func(K, V) bool) []V {
	return r.inner.Find(predicate)
}

func (r *RuntimeTable[K, V]) GetWorkingCopy(key K) (V, error) {
	var zero V
	return zero, core.ErrReadOnly
}

func (r *RuntimeTable[K, V]) Add(V) error               { return core.ErrReadOnly }
func (r *RuntimeTable[K, V]) Update(K, V) error         { return core.ErrReadOnly }
func (r *RuntimeTable[K, V]) Remove(K) error            { return core.ErrReadOnly }
func (r *RuntimeTable[K, V]) MarkAsModified(K) error    { return core.ErrReadOnly }

func (r *RuntimeTable[K, V]) TrackPropertyChange(key K, property string, value any) (bool, error) {
	return false, core.ErrReadOnly
}
func (r *RuntimeTable[K, V]) RevertProperty(K, string) error        { return core.ErrReadOnly }
func (r *RuntimeTable[K, V]) IsPropertyModified(K, string) bool     { return false }
func (r *RuntimeTable[K, V]) ModifiedProperties(K) []string         { return nil }
func (r *RuntimeTable[K, V]) PropertyBaseline(K, string) (any, bool) { return nil, false }

func (r *RuntimeTable[K, V]) AddedKeys() []K    { return nil }
func (r *RuntimeTable[K, V]) ModifiedKeys() []K { return nil }
func (r *RuntimeTable[K, V]) DeletedKeys() []K  { return nil }

func (r *RuntimeTable[K, V]) RevertKey(K) error             { return nil }
func (r *RuntimeTable[K, V]) Revert() error                 { return nil }
func (r *RuntimeTable[K, V]) Save(context.Context) error    { return core.ErrReadOnly }
func (r *RuntimeTable[K, V]) HasChanges() bool              { return false }
func (r *RuntimeTable[K, V]) OnModifiedStateChanged(core.ModifiedFunc) {}

var _ TableRepository[string, struct{}] = (*RuntimeTable[string, struct{}])(nil)

// RuntimeAssets is the read-only variant of Assets. Lazy loading still works;
// only mutation is rejected.
type RuntimeAssets[V any] struct {
	inner *Assets[V]
}

// NewRuntimeAssets creates a read-only asset repository.
func NewRuntimeAssets[V any](backend core.AssetBackend[V], cfg AssetConfig[V]) *RuntimeAssets[V] {
	return &RuntimeAssets[V]{inner: NewAssets(backend, cfg)}
}

func (r *RuntimeAssets[V]) Initialize(ctx context.Context) error { return r.inner.Initialize(ctx) }
func (r *RuntimeAssets[V]) Initialized() bool                    { return r.inner.Initialized() }

func (r *RuntimeAssets[V]) Get(ctx context.Context, id core.AssetID) (*core.Asset[V], error) {
	return r.inner.Get(ctx, id)
}

func (r *RuntimeAssets[V]) GetByPath(ctx context.Context, path string) (*core.Asset[V], error) {
	return r.inner.GetByPath(ctx, path)
}

func (r *RuntimeAssets[V]) GetWorkingCopy(core.AssetID) (*core.Asset[V], error) {
	return nil, core.ErrReadOnly
}

func (r *RuntimeAssets[V]) Add(V, string) (*core.Asset[V], error) { return nil, core.ErrReadOnly }
func (r *RuntimeAssets[V]) Update(core.AssetID, V) error          { return core.ErrReadOnly }
func (r *RuntimeAssets[V]) UpdateMetadata(core.AssetID, func(*core.AssetMetadata)) error {
	return core.ErrReadOnly
}
func (r *RuntimeAssets[V]) UpdatePath(core.AssetID, string) error { return core.ErrReadOnly }
func (r *RuntimeAssets[V]) Remove(core.AssetID) (bool, error)     { return false, core.ErrReadOnly }
func (r *RuntimeAssets[V]) MarkAsModified(core.AssetID) error     { return core.ErrReadOnly }

func (r *RuntimeAssets[V]) State(id core.AssetID) core.ChangeState { return r.inner.State(id) }
func (r *RuntimeAssets[V]) Summaries() []core.AssetSummary         { return r.inner.Summaries() }

func (r *RuntimeAssets[V]) Summary(id core.AssetID) (core.AssetSummary, bool) {
	return r.inner.Summary(id)
}

func (r *RuntimeAssets[V]) Find(predicate func(core.AssetSummary) bool) []core.AssetSummary {
	return r.inner.Find(predicate)
}

func (r *RuntimeAssets[V]) IsLoaded(id core.AssetID) bool { return r.inner.IsLoaded(id) }
func (r *RuntimeAssets[V]) LoadedAssets() []core.AssetID  { return r.inner.LoadedAssets() }

func (r *RuntimeAssets[V]) RevertAsset(core.AssetID) error             { return nil }
func (r *RuntimeAssets[V]) Revert() error                              { return nil }
func (r *RuntimeAssets[V]) Save(context.Context, core.AssetID) error   { return core.ErrReadOnly }
func (r *RuntimeAssets[V]) SaveAll(context.Context) error              { return core.ErrReadOnly }
func (r *RuntimeAssets[V]) HasChanges() bool                           { return false }
func (r *RuntimeAssets[V]) OnModifiedStateChanged(core.ModifiedFunc)   {}

var _ AssetRepository[struct{}] = (*RuntimeAssets[struct{}])(nil)
