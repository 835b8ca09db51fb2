package core

import "fmt"

// ModifiedFunc receives the aggregate has-changes flag. Repositories invoke it
// on every transition of the flag, not on every call: two Sets in a row fire
// once, and reverting with nothing to revert fires nothing.
type ModifiedFunc func(hasChanges bool)

// EventType represents the kind of external change observed in a backing store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents an external change to a backing store (e.g. an asset file
// edited outside the repository). Emitted by watch-capable backends.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
