// Package track implements property-level dirty tracking: per-entity maps
// from property name to a baseline snapshot, compared against current values
// to compute fine-grained modification flags independent of entity-level state.
package track

import (
	"reflect"
	"sort"
)

// Properties records property baselines per entity key and derives which
// properties currently differ from their baseline.
//
// The baseline for a (key, property) pair is captured on the first Track call
// and kept until the pair is cleared (revert or save). Setting a property back
// to its baseline value clears its modified flag.
type Properties[K comparable] struct {
	baselines map[K]map[string]any
	modified  map[K]map[string]struct{}
}

// NewProperties creates an empty tracker.
func NewProperties[K comparable]() *Properties[K] {
	return &Properties[K]{
		baselines: make(map[K]map[string]any),
		modified:  make(map[K]map[string]struct{}),
	}
}

// Track compares current against the property baseline and returns whether the
// property is modified. baseline is only recorded the first time the pair is
// seen; later calls ignore it so the original snapshot wins.
func (p *Properties[K]) Track(key K, property string, baseline, current any) bool {
	entry, ok := p.baselines[key]
	if !ok {
		entry = make(map[string]any)
		p.baselines[key] = entry
	}
	recorded, ok := entry[property]
	if !ok {
		entry[property] = baseline
		recorded = baseline
	}

	dirty := !reflect.DeepEqual(recorded, current)
	if dirty {
		set, ok := p.modified[key]
		if !ok {
			set = make(map[string]struct{})
			p.modified[key] = set
		}
		set[property] = struct{}{}
	} else if set, ok := p.modified[key]; ok {
		delete(set, property)
		if len(set) == 0 {
			delete(p.modified, key)
		}
	}
	return dirty
}

// IsModified reports whether the property currently differs from its baseline.
func (p *Properties[K]) IsModified(key K, property string) bool {
	set, ok := p.modified[key]
	if !ok {
		return false
	}
	_, ok = set[property]
	return ok
}

// HasModifications reports whether any tracked property of the entity differs.
func (p *Properties[K]) HasModifications(key K) bool {
	return len(p.modified[key]) > 0
}

// Modified returns the sorted names of the currently modified properties.
func (p *Properties[K]) Modified(key K) []string {
	set := p.modified[key]
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Baseline returns the recorded baseline value for the property, if tracked.
func (p *Properties[K]) Baseline(key K, property string) (any, bool) {
	entry, ok := p.baselines[key]
	if !ok {
		return nil, false
	}
	v, ok := entry[property]
	return v, ok
}

// ClearProperty forgets one tracked property (after a property revert).
func (p *Properties[K]) ClearProperty(key K, property string) {
	if entry, ok := p.baselines[key]; ok {
		delete(entry, property)
		if len(entry) == 0 {
			delete(p.baselines, key)
		}
	}
	if set, ok := p.modified[key]; ok {
		delete(set, property)
		if len(set) == 0 {
			delete(p.modified, key)
		}
	}
}

// Clear forgets every tracked property of one entity (after save or revert).
func (p *Properties[K]) Clear(key K) {
	delete(p.baselines, key)
	delete(p.modified, key)
}

// Reset forgets everything.
func (p *Properties[K]) Reset() {
	p.baselines = make(map[K]map[string]any)
	p.modified = make(map[K]map[string]struct{})
}
