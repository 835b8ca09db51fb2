package fs

import (
	"sync"
	"time"

	"github.com/driftwork/drift/pkg/core"
)

// debouncer coalesces bursts of events for the same path into a single
// delivery. Editors commonly emit several writes in quick succession for one
// logical save; only the last event within the window is forwarded.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules event for delivery after the quiet window. A newer event for
// the same path resets the window and replaces the pending one.
func (d *debouncer) add(event core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if timer, ok := d.timers[event.Path]; ok {
		timer.Stop()
		d.wg.Done()
	}

	d.wg.Add(1)
	d.timers[event.Path] = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, event.Path)
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			deliver(event)
		}
	})
}

// stopAndWait rejects new events and waits for in-flight timers to fire or be
// cancelled, up to the given timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
