package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driftwork/drift/pkg/core"
	"github.com/driftwork/drift/pkg/track"
)

// TableConfig configures a Table repository.
type TableConfig[K comparable, V any] struct {
	// KeyOf extracts the key from a value. Required.
	KeyOf func(V) K
	// Clone produces value-independent copies. Defaults to core.JSONClone.
	Clone core.CloneFunc[V]
	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

// Table manages a keyed collection with per-key change states and
// property-level dirty tracking.
//
// Soft deletes: Remove on a persisted key marks it Deleted but keeps both the
// baseline (for revert) and the working value. Deleted keys are excluded from
// Keys, Len, Find, TryGet, and Get; they remain visible through State,
// Baseline, and DeletedKeys until committed.
type Table[K comparable, V any] struct {
	backend core.TableBackend[K, V]
	keyOf   func(V) K
	clone   core.CloneFunc[V]
	logger  *slog.Logger

	baseline map[K]V
	working  map[K]V
	states   map[K]core.ChangeState // absent means Unchanged
	explicit map[K]bool             // explicit marks from Update/MarkAsModified
	props    *track.Properties[K]
	events   notifier

	initialized bool
}

// NewTable creates a Table repository over the given backend.
// Panics if cfg.KeyOf is nil.
func NewTable[K comparable, V any](backend core.TableBackend[K, V], cfg TableConfig[K, V]) *Table[K, V] {
	if cfg.KeyOf == nil {
		panic("repo: TableConfig.KeyOf is required")
	}
	clone := cfg.Clone
	if clone == nil {
		clone = core.JSONClone[V]()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Table[K, V]{
		backend:  backend,
		keyOf:    cfg.KeyOf,
		clone:    clone,
		logger:   logger,
		baseline: make(map[K]V),
		working:  make(map[K]V),
		states:   make(map[K]core.ChangeState),
		explicit: make(map[K]bool),
		props:    track.NewProperties[K](),
	}
}

// Initialize streams all pairs from the backend into baseline and working maps
// as independent clones. Idempotent. On backend failure nothing is retained.
func (t *Table[K, V]) Initialize(ctx context.Context) error {
	if t.initialized {
		return nil
	}

	baseline := make(map[K]V)
	working := make(map[K]V)
	err := t.backend.LoadAll(ctx, func(key K, value V) error {
		baseline[key] = t.clone(value)
		working[key] = t.clone(value)
		return nil
	})
	if err != nil {
		return err
	}

	t.baseline = baseline
	t.working = working
	t.initialized = true
	t.logger.Debug("table repository initialized", "entries", len(working))
	return nil
}

// Initialized reports whether Initialize has completed.
func (t *Table[K, V]) Initialized() bool {
	return t.initialized
}

// Add registers a new entity. The key is extracted from the value. Rejects
// keys already present, whether persisted or pending addition.
func (t *Table[K, V]) Add(value V) error {
	key := t.keyOf(value)
	if _, exists := t.working[key]; exists {
		return fmt.Errorf("add %v: %w", key, core.ErrDuplicateKey)
	}
	t.working[key] = t.clone(value)
	t.states[key] = core.Added
	t.events.publish(true)
	return nil
}

// Update replaces the working value and marks the entity Modified explicitly
// (no value diffing). An entity pending addition stays Added.
func (t *Table[K, V]) Update(key K, value V) error {
	if _, err := t.liveValue(key); err != nil {
		return err
	}
	t.working[key] = t.clone(value)
	if t.states[key] != core.Added {
		t.states[key] = core.Modified
		t.explicit[key] = true
	}
	t.events.publish(true)
	return nil
}

// Remove deletes the entity. Removing a pending addition drops it entirely,
// leaving no residual state; removing a persisted entity marks it Deleted and
// keeps the baseline for revert.
func (t *Table[K, V]) Remove(key K) error {
	if t.states[key] == core.Added {
		t.forget(key)
		t.events.publish(t.HasChanges())
		return nil
	}
	if _, err := t.liveValue(key); err != nil {
		return err
	}
	t.states[key] = core.Deleted
	t.events.publish(true)
	return nil
}

// GetWorkingCopy returns a clone of the working value for in-place editing.
// Mutating the returned clone never marks the entity; call MarkAsModified
// afterwards. This is the isolation invariant, not an omission.
func (t *Table[K, V]) GetWorkingCopy(key K) (V, error) {
	value, err := t.liveValue(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.clone(value), nil
}

// MarkAsModified flags the entity as explicitly modified.
func (t *Table[K, V]) MarkAsModified(key K) error {
	if _, err := t.liveValue(key); err != nil {
		return err
	}
	if t.states[key] != core.Added {
		t.states[key] = core.Modified
		t.explicit[key] = true
	}
	t.events.publish(true)
	return nil
}

// TrackPropertyChange records value into the working entity's named property,
// compares it against the property baseline, and returns whether the property
// is now modified. Entity-level state is the conservative OR of explicit
// marks and property differences.
func (t *Table[K, V]) TrackPropertyChange(key K, property string, value any) (bool, error) {
	working, err := t.liveValue(key)
	if err != nil {
		return false, err
	}

	var baseVal any
	if base, ok := t.baseline[key]; ok {
		baseVal, err = track.Get(base, property)
	} else {
		// Never persisted: the first-seen working value is the reference.
		baseVal, err = track.Get(working, property)
	}
	if err != nil {
		return false, err
	}

	updated, err := track.Set(working, property, value)
	if err != nil {
		return false, err
	}
	t.working[key] = updated.(V)

	modified := t.props.Track(key, property, baseVal, value)
	t.reconcile(key)
	t.events.publish(t.HasChanges())
	return modified, nil
}

// RevertProperty restores just one property to its baseline value and
// re-evaluates the aggregate state. Untracked properties are a no-op.
func (t *Table[K, V]) RevertProperty(key K, property string) error {
	baseVal, ok := t.props.Baseline(key, property)
	if !ok {
		return nil
	}
	working, err := t.liveValue(key)
	if err != nil {
		return err
	}

	updated, err := track.Set(working, property, baseVal)
	if err != nil {
		return err
	}
	t.working[key] = updated.(V)

	t.props.ClearProperty(key, property)
	t.reconcile(key)
	t.events.publish(t.HasChanges())
	return nil
}

// IsPropertyModified reports whether the named property differs from its baseline.
func (t *Table[K, V]) IsPropertyModified(key K, property string) bool {
	return t.props.IsModified(key, property)
}

// ModifiedProperties returns the sorted names of modified properties.
func (t *Table[K, V]) ModifiedProperties(key K) []string {
	return t.props.Modified(key)
}

// PropertyBaseline returns the recorded baseline for a tracked property.
func (t *Table[K, V]) PropertyBaseline(key K, property string) (any, bool) {
	return t.props.Baseline(key, property)
}

// reconcile folds explicit marks and property differences into the
// entity-level state. Added and Deleted states are never downgraded here.
func (t *Table[K, V]) reconcile(key K) {
	switch t.states[key] {
	case core.Added, core.Deleted:
		return
	}
	if t.explicit[key] || t.props.HasModifications(key) {
		t.states[key] = core.Modified
	} else {
		delete(t.states, key)
	}
}

// Get is the strict getter: unknown and soft-deleted keys yield core.ErrNotFound.
// The returned value is a clone.
func (t *Table[K, V]) Get(key K) (V, error) {
	value, err := t.liveValue(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.clone(value), nil
}

// TryGet is the lenient getter: unknown and soft-deleted keys yield false.
func (t *Table[K, V]) TryGet(key K) (V, bool) {
	value, err := t.liveValue(key)
	if err != nil {
		var zero V
		return zero, false
	}
	return t.clone(value), true
}

// Baseline returns a clone of the last-persisted value, including for keys
// currently marked Deleted.
func (t *Table[K, V]) Baseline(key K) (V, bool) {
	value, ok := t.baseline[key]
	if !ok {
		var zero V
		return zero, false
	}
	return t.clone(value), true
}

// State returns the change state; Unchanged for any unknown key.
func (t *Table[K, V]) State(key K) core.ChangeState {
	return t.states[key]
}

// AddedKeys returns keys pending addition.
func (t *Table[K, V]) AddedKeys() []K { return t.keysInState(core.Added) }

// ModifiedKeys returns keys pending modification.
func (t *Table[K, V]) ModifiedKeys() []K { return t.keysInState(core.Modified) }

// DeletedKeys returns keys pending deletion.
func (t *Table[K, V]) DeletedKeys() []K { return t.keysInState(core.Deleted) }

func (t *Table[K, V]) keysInState(state core.ChangeState) []K {
	var keys []K
	for key, s := range t.states {
		if s == state {
			keys = append(keys, key)
		}
	}
	return keys
}

// Keys returns every live key (soft-deleted keys excluded).
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.working))
	for key := range t.working {
		if t.states[key] != core.Deleted {
			keys = append(keys, key)
		}
	}
	return keys
}

// Len counts live entities.
func (t *Table[K, V]) Len() int {
	n := len(t.working)
	for key, s := range t.states {
		if s == core.Deleted {
			if _, ok := t.working[key]; ok {
				n--
			}
		}
	}
	return n
}

// Find scans the working set (soft-deleted keys excluded) and returns clones
// of the values matching the predicate.
func (t *Table[K, V]) Find(predicate func(key K, value V) bool) []V {
	var out []V
	for key, value := range t.working {
		if t.states[key] == core.Deleted {
			continue
		}
		if predicate(key, value) {
			out = append(out, t.clone(value))
		}
	}
	return out
}

// RevertKey restores one key to its baseline, clearing its state and
// property tracking. Reverting a pending addition drops it.
func (t *Table[K, V]) RevertKey(key K) error {
	switch t.states[key] {
	case core.Added:
		t.forget(key)
	case core.Modified, core.Deleted:
		t.working[key] = t.clone(t.baseline[key])
		delete(t.states, key)
		delete(t.explicit, key)
		t.props.Clear(key)
	default:
		// Unchanged: drop any advisory property tracking.
		t.props.Clear(key)
	}
	t.events.publish(t.HasChanges())
	return nil
}

// Revert restores every key to the baseline. Reverting with no modifications
// is a no-op and emits no notification.
func (t *Table[K, V]) Revert() error {
	if !t.HasChanges() {
		return nil
	}
	working := make(map[K]V, len(t.baseline))
	for key, value := range t.baseline {
		working[key] = t.clone(value)
	}
	t.working = working
	t.states = make(map[K]core.ChangeState)
	t.explicit = make(map[K]bool)
	t.props.Reset()
	t.events.publish(false)
	return nil
}

// Save partitions the pending changes into added/modified/deleted sets,
// commits them through one backend call, and on success advances the baseline
// and resets all states. On failure the in-memory state is left untouched.
//
// The three sets are snapshotted (cloned) before the backend call, so the
// backend may retain them.
func (t *Table[K, V]) Save(ctx context.Context) error {
	if !t.HasChanges() {
		return nil
	}

	added := make(map[K]V)
	modified := make(map[K]V)
	var deleted []K
	for key, state := range t.states {
		switch state {
		case core.Added:
			added[key] = t.clone(t.working[key])
		case core.Modified:
			modified[key] = t.clone(t.working[key])
		case core.Deleted:
			deleted = append(deleted, key)
		}
	}

	if err := t.backend.SaveAll(ctx, added, modified, deleted); err != nil {
		return err
	}

	for _, key := range deleted {
		delete(t.baseline, key)
		delete(t.working, key)
		t.forgetTracking(key)
	}
	for key := range added {
		t.baseline[key] = t.clone(t.working[key])
		t.forgetTracking(key)
	}
	for key := range modified {
		t.baseline[key] = t.clone(t.working[key])
		t.forgetTracking(key)
	}

	t.logger.Debug("table repository saved",
		"added", len(added), "modified", len(modified), "deleted", len(deleted))
	t.events.publish(false)
	return nil
}

// HasChanges reports whether any entity has a pending change.
func (t *Table[K, V]) HasChanges() bool {
	return len(t.states) > 0
}

// OnModifiedStateChanged registers a listener for transitions of the
// aggregate has-changes flag.
func (t *Table[K, V]) OnModifiedStateChanged(fn core.ModifiedFunc) {
	t.events.subscribe(fn)
}

// liveValue returns the working value for a key that exists and is not
// soft-deleted.
func (t *Table[K, V]) liveValue(key K) (V, error) {
	value, ok := t.working[key]
	if !ok || t.states[key] == core.Deleted {
		var zero V
		return zero, fmt.Errorf("key %v: %w", key, core.ErrNotFound)
	}
	return value, nil
}

// forget drops every trace of a key from the working side.
func (t *Table[K, V]) forget(key K) {
	delete(t.working, key)
	t.forgetTracking(key)
}

func (t *Table[K, V]) forgetTracking(key K) {
	delete(t.states, key)
	delete(t.explicit, key)
	t.props.Clear(key)
}

var _ TableRepository[string, struct{}] = (*Table[string, struct{}])(nil)
