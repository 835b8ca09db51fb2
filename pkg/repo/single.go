package repo

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/driftwork/drift/pkg/core"
	"github.com/driftwork/drift/pkg/track"
)

const (
	// SingletonKey is the well-known key accepted by the property-tracking
	// calls on a Single repository, for compatibility with generic callers
	// that always pass a key.
	SingletonKey = "default"

	// LegacySingletonKey is the historical alias, still accepted.
	LegacySingletonKey = "config"
)

// SingleConfig configures a Single repository.
type SingleConfig[V any] struct {
	// Clone produces value-independent copies. Defaults to core.JSONClone.
	Clone core.CloneFunc[V]
	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

// Single manages one singleton record: a mutable current value layered over
// the last-persisted baseline.
type Single[V any] struct {
	backend core.SingleBackend[V]
	clone   core.CloneFunc[V]
	logger  *slog.Logger

	baseline *V
	current  *V
	props    *track.Properties[string]
	events   notifier

	initialized bool
}

// NewSingle creates a Single repository over the given backend.
func NewSingle[V any](backend core.SingleBackend[V], cfg SingleConfig[V]) *Single[V] {
	clone := cfg.Clone
	if clone == nil {
		clone = core.JSONClone[V]()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Single[V]{
		backend: backend,
		clone:   clone,
		logger:  logger,
		props:   track.NewProperties[string](),
	}
}

// Initialize loads the baseline via the backend and seeds both baseline and
// current with independent clones. Idempotent: subsequent calls are no-ops.
func (s *Single[V]) Initialize(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	value, found, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	if found {
		b := s.clone(value)
		c := s.clone(value)
		s.baseline = &b
		s.current = &c
	}
	s.initialized = true
	s.logger.Debug("single repository initialized", "found", found)
	return nil
}

// Initialized reports whether Initialize has completed.
func (s *Single[V]) Initialized() bool {
	return s.initialized
}

// Get returns the current value. found=false means no value has been loaded
// or set yet.
func (s *Single[V]) Get() (V, bool) {
	if s.current == nil {
		var zero V
		return zero, false
	}
	return *s.current, true
}

// Set replaces the current value wholesale. HasChanges is recomputed as
// "current differs from baseline".
func (s *Single[V]) Set(value V) error {
	c := s.clone(value)
	s.current = &c
	s.events.publish(s.HasChanges())
	return nil
}

func normalizeSingletonKey(key string) (string, error) {
	switch key {
	case SingletonKey, LegacySingletonKey:
		return SingletonKey, nil
	default:
		return "", fmt.Errorf("unknown singleton key %q: %w", key, core.ErrNotFound)
	}
}

// TrackPropertyChange records value into the current entity's named property,
// compares it against the property baseline, and returns whether the property
// is now modified.
func (s *Single[V]) TrackPropertyChange(key, property string, value any) (bool, error) {
	if _, err := normalizeSingletonKey(key); err != nil {
		return false, err
	}
	if s.current == nil {
		return false, fmt.Errorf("no current value: %w", core.ErrNotFound)
	}

	baseVal, err := s.propertyBaselineValue(property)
	if err != nil {
		return false, err
	}

	updated, err := track.Set(*s.current, property, value)
	if err != nil {
		return false, err
	}
	u := updated.(V)
	s.current = &u

	modified := s.props.Track(SingletonKey, property, baseVal, value)
	s.events.publish(s.HasChanges())
	return modified, nil
}

// propertyBaselineValue reads the property from the persisted baseline, or
// from the current value when no baseline exists yet (never-saved record).
func (s *Single[V]) propertyBaselineValue(property string) (any, error) {
	if s.baseline != nil {
		return track.Get(*s.baseline, property)
	}
	return track.Get(*s.current, property)
}

// RevertProperty restores just one property to its baseline value and
// re-evaluates the aggregate flag. Untracked properties are a no-op.
func (s *Single[V]) RevertProperty(key, property string) error {
	if _, err := normalizeSingletonKey(key); err != nil {
		return err
	}
	baseVal, ok := s.props.Baseline(SingletonKey, property)
	if !ok || s.current == nil {
		return nil
	}

	updated, err := track.Set(*s.current, property, baseVal)
	if err != nil {
		return err
	}
	u := updated.(V)
	s.current = &u

	s.props.ClearProperty(SingletonKey, property)
	s.events.publish(s.HasChanges())
	return nil
}

// IsPropertyModified reports whether the named property differs from its baseline.
func (s *Single[V]) IsPropertyModified(key, property string) bool {
	if _, err := normalizeSingletonKey(key); err != nil {
		return false
	}
	return s.props.IsModified(SingletonKey, property)
}

// ModifiedProperties returns the sorted names of modified properties.
func (s *Single[V]) ModifiedProperties(key string) []string {
	if _, err := normalizeSingletonKey(key); err != nil {
		return nil
	}
	return s.props.Modified(SingletonKey)
}

// PropertyBaseline returns the recorded baseline for a tracked property.
func (s *Single[V]) PropertyBaseline(key, property string) (any, bool) {
	if _, err := normalizeSingletonKey(key); err != nil {
		return nil, false
	}
	return s.props.Baseline(SingletonKey, property)
}

// HasChanges reports whether current differs from baseline or any tracked
// property is modified.
func (s *Single[V]) HasChanges() bool {
	if s.props.HasModifications(SingletonKey) {
		return true
	}
	return !s.valuesEqual()
}

func (s *Single[V]) valuesEqual() bool {
	if (s.current == nil) != (s.baseline == nil) {
		return false
	}
	if s.current == nil {
		return true
	}
	return reflect.DeepEqual(*s.current, *s.baseline)
}

// Revert discards the working value and restores it from the baseline.
// Reverting with no modifications is a no-op and emits no notification.
func (s *Single[V]) Revert() error {
	if !s.HasChanges() {
		return nil
	}
	if s.baseline == nil {
		s.current = nil
	} else {
		c := s.clone(*s.baseline)
		s.current = &c
	}
	s.props.Reset()
	s.events.publish(false)
	return nil
}

// Save persists the current value and advances the baseline. On backend
// failure the in-memory state is left exactly as it was, so HasChanges stays
// true and the host can retry.
func (s *Single[V]) Save(ctx context.Context) error {
	if s.current == nil {
		return nil
	}
	if err := s.backend.Save(ctx, s.clone(*s.current)); err != nil {
		return err
	}
	b := s.clone(*s.current)
	s.baseline = &b
	s.props.Reset()
	s.events.publish(false)
	return nil
}

// OnModifiedStateChanged registers a listener for transitions of the
// aggregate has-changes flag.
func (s *Single[V]) OnModifiedStateChanged(fn core.ModifiedFunc) {
	s.events.subscribe(fn)
}

var _ SingleRepository[struct{}] = (*Single[struct{}])(nil)
