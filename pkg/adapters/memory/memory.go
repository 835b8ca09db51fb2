// Package memory provides in-memory storage backends. They are primarily
// meant for tests and prototyping: every backend records how many times each
// operation was called so callers can assert on lazy-loading behavior.
package memory

import (
	"context"
	"sync"

	"github.com/driftwork/drift/pkg/core"
)

// Single is an in-memory core.SingleBackend.
type Single[V any] struct {
	mu    sync.Mutex
	value V
	set   bool

	LoadCalls int
	SaveCalls int
}

// NewSingle creates an empty singleton backend.
func NewSingle[V any]() *Single[V] {
	return &Single[V]{}
}

// Seed stores an initial value without counting as a Save.
func (b *Single[V]) Seed(value V) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = value
	b.set = true
}

func (b *Single[V]) Load(ctx context.Context) (V, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LoadCalls++
	return b.value, b.set, nil
}

func (b *Single[V]) Save(ctx context.Context, value V) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SaveCalls++
	b.value = value
	b.set = true
	return nil
}

var _ core.SingleBackend[struct{}] = (*Single[struct{}])(nil)

// Table is an in-memory core.TableBackend.
type Table[K comparable, V any] struct {
	mu      sync.Mutex
	records map[K]V

	LoadAllCalls int
	SaveAllCalls int
}

// NewTable creates an empty table backend.
func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{records: make(map[K]V)}
}

// Seed stores initial records without counting as a Save.
func (b *Table[K, V]) Seed(records map[K]V) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range records {
		b.records[k] = v
	}
}

// Records returns a copy of the stored records.
func (b *Table[K, V]) Records() map[K]V {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[K]V, len(b.records))
	for k, v := range b.records {
		out[k] = v
	}
	return out
}

func (b *Table[K, V]) LoadAll(ctx context.Context, yield func(K, V) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LoadAllCalls++
	for k, v := range b.records {
		if err := yield(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (b *Table[K, V]) SaveAll(ctx context.Context, added, modified map[K]V, deleted []K) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SaveAllCalls++
	for k, v := range added {
		b.records[k] = v
	}
	for k, v := range modified {
		b.records[k] = v
	}
	for _, k := range deleted {
		delete(b.records, k)
	}
	return nil
}

var _ core.TableBackend[string, struct{}] = (*Table[string, struct{}])(nil)

// Assets is an in-memory core.AssetBackend.
type Assets[V any] struct {
	mu     sync.Mutex
	assets map[core.AssetID]*core.Asset[V]

	LoadSummariesCalls int
	LoadAssetCalls     int
	SaveAssetCalls     int
	DeleteAssetCalls   int
}

// NewAssets creates an empty asset backend.
func NewAssets[V any]() *Assets[V] {
	return &Assets[V]{assets: make(map[core.AssetID]*core.Asset[V])}
}

// Seed stores an asset without counting as a Save.
func (b *Assets[V]) Seed(asset *core.Asset[V]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := *asset
	b.assets[asset.ID] = &cp
}

// Stored returns the asset as currently persisted, or nil.
func (b *Assets[V]) Stored(id core.AssetID) *core.Asset[V] {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.assets[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (b *Assets[V]) LoadSummaries(ctx context.Context) ([]core.AssetSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LoadSummariesCalls++
	out := make([]core.AssetSummary, 0, len(b.assets))
	for _, a := range b.assets {
		out = append(out, a.Summary())
	}
	return out, nil
}

func (b *Assets[V]) LoadAsset(ctx context.Context, id core.AssetID) (*core.Asset[V], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LoadAssetCalls++
	a, ok := b.assets[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (b *Assets[V]) SaveAsset(ctx context.Context, asset *core.Asset[V]) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SaveAssetCalls++
	cp := *asset
	b.assets[asset.ID] = &cp
	return nil
}

func (b *Assets[V]) DeleteAsset(ctx context.Context, id core.AssetID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DeleteAssetCalls++
	delete(b.assets, id)
	return nil
}

var _ core.AssetBackend[struct{}] = (*Assets[struct{}])(nil)
