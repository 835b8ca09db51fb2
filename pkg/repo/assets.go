package repo

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/driftwork/drift/pkg/core"
)

// AssetConfig configures an Assets repository.
type AssetConfig[V any] struct {
	// Clone produces value-independent copies of the payload.
	// Defaults to core.JSONClone.
	Clone core.CloneFunc[V]
	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

// Assets manages path-addressable, identity-keyed payloads.
//
// Initialization builds a summary index from metadata records only; payloads
// are loaded on demand via Get and cached. The baseline map is populated only
// once an asset has been loaded or added.
//
// Identity is path-independent: the AssetID is the sole addressing key, and
// the path index is a secondary lookup that follows the working state.
type Assets[V any] struct {
	backend core.AssetBackend[V]
	clone   core.CloneFunc[V]
	logger  *slog.Logger

	summaries map[core.AssetID]core.AssetSummary
	loaded    map[core.AssetID]*core.Asset[V]
	baseline  map[core.AssetID]*core.Asset[V]
	states    map[core.AssetID]core.ChangeState
	explicit  map[core.AssetID]bool
	paths     map[string]core.AssetID
	events    notifier

	initialized bool
}

// NewAssets creates an asset repository over the given backend.
func NewAssets[V any](backend core.AssetBackend[V], cfg AssetConfig[V]) *Assets[V] {
	clone := cfg.Clone
	if clone == nil {
		clone = core.JSONClone[V]()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assets[V]{
		backend:   backend,
		clone:     clone,
		logger:    logger,
		summaries: make(map[core.AssetID]core.AssetSummary),
		loaded:    make(map[core.AssetID]*core.Asset[V]),
		baseline:  make(map[core.AssetID]*core.Asset[V]),
		states:    make(map[core.AssetID]core.ChangeState),
		explicit:  make(map[core.AssetID]bool),
		paths:     make(map[string]core.AssetID),
	}
}

// Initialize enumerates summaries only; no payload I/O happens here.
// Idempotent. A missing or empty source yields an empty index.
func (a *Assets[V]) Initialize(ctx context.Context) error {
	if a.initialized {
		return nil
	}

	sums, err := a.backend.LoadSummaries(ctx)
	if err != nil {
		return err
	}

	summaries := make(map[core.AssetID]core.AssetSummary, len(sums))
	paths := make(map[string]core.AssetID, len(sums))
	for _, sum := range sums {
		summaries[sum.ID] = sum
		paths[sum.Path] = sum.ID
	}

	a.summaries = summaries
	a.paths = paths
	a.initialized = true
	a.logger.Debug("asset repository initialized", "summaries", len(summaries))
	return nil
}

// Initialized reports whether Initialize has completed.
func (a *Assets[V]) Initialized() bool {
	return a.initialized
}

// Get returns the asset for id, loading and caching the payload on first
// access. Ids without a summary resolve to (nil, nil). The returned asset is
// always a clone; mutations to it are invisible until written back.
func (a *Assets[V]) Get(ctx context.Context, id core.AssetID) (*core.Asset[V], error) {
	if cached, ok := a.loaded[id]; ok {
		return a.cloneAsset(cached), nil
	}
	if _, ok := a.summaries[id]; !ok {
		return nil, nil
	}

	asset, err := a.backend.LoadAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, nil
	}

	owned := a.cloneAsset(asset)
	a.loaded[id] = owned
	a.baseline[id] = a.cloneAsset(asset)
	a.logger.Debug("asset loaded", "id", id, "path", owned.Path)
	return a.cloneAsset(owned), nil
}

// GetByPath resolves the id through the path index, then loads as Get does.
// Soft-deleted assets still resolve until the deletion is committed.
func (a *Assets[V]) GetByPath(ctx context.Context, p string) (*core.Asset[V], error) {
	id, ok := a.paths[p]
	if !ok {
		return nil, nil
	}
	return a.Get(ctx, id)
}

// GetWorkingCopy returns a clone of the working asset for in-place editing.
// Mutating the clone never marks the entity; call MarkAsModified afterwards.
func (a *Assets[V]) GetWorkingCopy(id core.AssetID) (*core.Asset[V], error) {
	asset, err := a.workingAsset(id)
	if err != nil {
		return nil, err
	}
	return a.cloneAsset(asset), nil
}

// Add mints a fresh identity and registers a new asset at the given path.
// There is no lazy phase: the payload is caller-supplied, so summary, cache,
// and path index are populated immediately.
func (a *Assets[V]) Add(payload V, p string) (*core.Asset[V], error) {
	if existing, ok := a.paths[p]; ok {
		return nil, fmt.Errorf("path %q already used by %s: %w", p, existing, core.ErrDuplicateKey)
	}

	id := core.NewAssetID()
	asset := &core.Asset[V]{
		ID: id,
		Metadata: core.AssetMetadata{
			ID:   id,
			Name: displayName(p),
		},
		Payload: a.clone(payload),
		Path:    p,
	}

	a.loaded[id] = asset
	a.summaries[id] = asset.Summary()
	a.paths[p] = id
	a.states[id] = core.Added
	a.events.publish(true)
	return a.cloneAsset(asset), nil
}

// displayName derives the initial metadata name from the file path.
func displayName(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Update replaces the payload of a loaded asset. Assets must be loaded (or
// freshly added) before they can be updated; loading first is what seeds the
// baseline the revert path depends on.
func (a *Assets[V]) Update(id core.AssetID, payload V) error {
	asset, err := a.workingAsset(id)
	if err != nil {
		return err
	}
	asset.Payload = a.clone(payload)
	a.markModified(id)
	a.events.publish(true)
	return nil
}

// UpdateMetadata applies a mutation to the working copy's metadata and marks
// the asset Modified. The identity field is pinned; mutators cannot change it.
func (a *Assets[V]) UpdateMetadata(id core.AssetID, mutate func(*core.AssetMetadata)) error {
	asset, err := a.workingAsset(id)
	if err != nil {
		return err
	}
	mutate(&asset.Metadata)
	asset.Metadata.ID = id
	a.summaries[id] = asset.Summary()
	a.markModified(id)
	a.events.publish(true)
	return nil
}

// UpdatePath moves the asset to a new path. The identity is untouched: the
// path index follows the working state, and the backend relocates the stored
// files at save time.
func (a *Assets[V]) UpdatePath(id core.AssetID, p string) error {
	asset, err := a.workingAsset(id)
	if err != nil {
		return err
	}
	if existing, ok := a.paths[p]; ok && existing != id {
		return fmt.Errorf("path %q already used by %s: %w", p, existing, core.ErrDuplicateKey)
	}

	a.dropPathsFor(id)
	a.paths[p] = id
	asset.Path = p
	a.summaries[id] = asset.Summary()
	a.markModified(id)
	a.events.publish(true)
	return nil
}

// MarkAsModified flags a loaded asset as explicitly modified, typically after
// the host edited a working copy in place.
func (a *Assets[V]) MarkAsModified(id core.AssetID) error {
	if _, err := a.workingAsset(id); err != nil {
		return err
	}
	a.markModified(id)
	a.events.publish(true)
	return nil
}

func (a *Assets[V]) markModified(id core.AssetID) {
	if a.states[id] != core.Added {
		a.states[id] = core.Modified
		a.explicit[id] = true
	}
}

// Remove deletes the asset. A pending addition is dropped with no trace.
// Otherwise the asset is marked Deleted but stays resolvable (including by
// path) until the deletion is committed. Returns false for unknown ids.
func (a *Assets[V]) Remove(id core.AssetID) (bool, error) {
	if a.states[id] == core.Added {
		a.purge(id)
		a.events.publish(a.HasChanges())
		return true, nil
	}
	if _, ok := a.summaries[id]; !ok {
		return false, nil
	}
	a.states[id] = core.Deleted
	a.events.publish(true)
	return true, nil
}

// State returns the change state; Unchanged for any unknown id.
func (a *Assets[V]) State(id core.AssetID) core.ChangeState {
	return a.states[id]
}

// Summary returns the index entry for id, including soft-deleted assets
// (retained for revert until commit).
func (a *Assets[V]) Summary(id core.AssetID) (core.AssetSummary, bool) {
	sum, ok := a.summaries[id]
	return sum, ok
}

// Summaries returns the index entries of every live asset.
func (a *Assets[V]) Summaries() []core.AssetSummary {
	out := make([]core.AssetSummary, 0, len(a.summaries))
	for id, sum := range a.summaries {
		if a.states[id] == core.Deleted {
			continue
		}
		out = append(out, sum)
	}
	return out
}

// Find filters the summary index without forcing any payload load.
func (a *Assets[V]) Find(predicate func(core.AssetSummary) bool) []core.AssetSummary {
	var out []core.AssetSummary
	for id, sum := range a.summaries {
		if a.states[id] == core.Deleted {
			continue
		}
		if predicate(sum) {
			out = append(out, sum)
		}
	}
	return out
}

// IsLoaded reports whether the payload for id is cached.
func (a *Assets[V]) IsLoaded(id core.AssetID) bool {
	_, ok := a.loaded[id]
	return ok
}

// LoadedAssets returns the ids with cached payloads.
func (a *Assets[V]) LoadedAssets() []core.AssetID {
	out := make([]core.AssetID, 0, len(a.loaded))
	for id := range a.loaded {
		out = append(out, id)
	}
	return out
}

// RevertAsset restores one asset to its baseline: pending additions are
// dropped, modifications rolled back, deletions cancelled.
func (a *Assets[V]) RevertAsset(id core.AssetID) error {
	switch a.states[id] {
	case core.Added:
		a.purge(id)
	case core.Modified:
		a.restoreBaseline(id)
	case core.Deleted:
		a.restoreBaseline(id)
	}
	a.events.publish(a.HasChanges())
	return nil
}

func (a *Assets[V]) restoreBaseline(id core.AssetID) {
	if base, ok := a.baseline[id]; ok {
		restored := a.cloneAsset(base)
		a.loaded[id] = restored
		a.summaries[id] = restored.Summary()
		a.dropPathsFor(id)
		a.paths[restored.Path] = id
	}
	delete(a.states, id)
	delete(a.explicit, id)
}

// Revert restores every asset to the baseline. Reverting with no
// modifications is a no-op and emits no notification.
func (a *Assets[V]) Revert() error {
	if !a.HasChanges() {
		return nil
	}
	ids := make([]core.AssetID, 0, len(a.states))
	for id := range a.states {
		ids = append(ids, id)
	}
	for _, id := range ids {
		if err := a.RevertAsset(id); err != nil {
			return err
		}
	}
	a.events.publish(false)
	return nil
}

// Save commits one asset: Added and Modified persist through the backend and
// advance the baseline; Deleted removes the stored files and purges the entry
// from every map, including the path index. Unchanged is a no-op. On backend
// failure the in-memory state is left untouched.
func (a *Assets[V]) Save(ctx context.Context, id core.AssetID) error {
	switch a.states[id] {
	case core.Added, core.Modified:
		asset := a.loaded[id]
		if err := a.backend.SaveAsset(ctx, a.cloneAsset(asset)); err != nil {
			return err
		}
		a.baseline[id] = a.cloneAsset(asset)
		a.summaries[id] = asset.Summary()
		delete(a.states, id)
		delete(a.explicit, id)
	case core.Deleted:
		if err := a.backend.DeleteAsset(ctx, id); err != nil {
			return err
		}
		a.purge(id)
	default:
		return nil
	}
	a.events.publish(a.HasChanges())
	return nil
}

// SaveAll commits every pending change, asset by asset. Commits are per-asset:
// on failure, already-committed assets stay committed and the failing one
// keeps its pending state.
func (a *Assets[V]) SaveAll(ctx context.Context) error {
	ids := make([]core.AssetID, 0, len(a.states))
	for id := range a.states {
		ids = append(ids, id)
	}
	for _, id := range ids {
		if err := a.Save(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// HasChanges reports whether any asset has a pending change.
func (a *Assets[V]) HasChanges() bool {
	return len(a.states) > 0
}

// OnModifiedStateChanged registers a listener for transitions of the
// aggregate has-changes flag.
func (a *Assets[V]) OnModifiedStateChanged(fn core.ModifiedFunc) {
	a.events.subscribe(fn)
}

// workingAsset returns the mutable working copy, gating on load state:
// unknown ids yield ErrNotFound, known-but-unloaded ids yield ErrNotLoaded,
// and soft-deleted ids are treated as absent.
func (a *Assets[V]) workingAsset(id core.AssetID) (*core.Asset[V], error) {
	if a.states[id] == core.Deleted {
		return nil, fmt.Errorf("asset %s is deleted: %w", id, core.ErrNotFound)
	}
	asset, ok := a.loaded[id]
	if !ok {
		if _, known := a.summaries[id]; known {
			return nil, fmt.Errorf("asset %s: %w", id, core.ErrNotLoaded)
		}
		return nil, fmt.Errorf("asset %s: %w", id, core.ErrNotFound)
	}
	return asset, nil
}

func (a *Assets[V]) cloneAsset(asset *core.Asset[V]) *core.Asset[V] {
	copied := *asset
	copied.Payload = a.clone(asset.Payload)
	return &copied
}

// purge drops every trace of an asset.
func (a *Assets[V]) purge(id core.AssetID) {
	a.dropPathsFor(id)
	delete(a.summaries, id)
	delete(a.loaded, id)
	delete(a.baseline, id)
	delete(a.states, id)
	delete(a.explicit, id)
}

func (a *Assets[V]) dropPathsFor(id core.AssetID) {
	for p, owner := range a.paths {
		if owner == id {
			delete(a.paths, p)
		}
	}
}

var _ AssetRepository[struct{}] = (*Assets[struct{}])(nil)
