// Package lifecycle bridges drift change events into the generic lifecycle
// event pipeline, so a supervisor can consume asset change notifications next
// to its other sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/driftwork/drift/pkg/core"
)

// Source adapts a drift event channel, e.g. the channel of an fs.Watcher, to
// the lifecycle.Source contract. An optional filter drops events before they
// reach the pipeline.
type Source struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	keep   func(core.Event) bool
}

// NewSource creates a source that forwards every event.
func NewSource(events <-chan core.Event) *Source {
	return NewFilteredSource(events, nil)
}

// NewFilteredSource creates a source that forwards only events for which keep
// returns true. A nil keep forwards everything.
func NewFilteredSource(events <-chan core.Event, keep func(core.Event) bool) *Source {
	return &Source{
		events: events,
		out:    make(chan lifecycle.Event),
		keep:   keep,
	}
}

func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start launches the bridge goroutine under lifecycle.Go so it is tracked and
// panic-safe like every other worker. The output channel closes when the
// input channel closes or the context ends.
func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.keep != nil && !s.keep(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

var _ lifecycle.Source = (*Source)(nil)
