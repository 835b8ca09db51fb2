package core

import "encoding/json"

// CloneFunc produces a value-independent deep copy of V.
//
// Repositories clone pervasively: on load (baseline vs working), on
// GetWorkingCopy, and when advancing the baseline after a save. The baseline
// must never share mutable state with what the host can touch.
type CloneFunc[V any] func(v V) V

// JSONClone returns a CloneFunc that deep-copies via a JSON round-trip.
// It is the default cloner and works for any JSON-serializable value
// (maps, slices, exported struct fields). Values that fail to round-trip
// are returned as-is; inject a custom CloneFunc for such types.
func JSONClone[V any]() CloneFunc[V] {
	return func(v V) V {
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		var out V
		if err := json.Unmarshal(data, &out); err != nil {
			return v
		}
		return out
	}
}
