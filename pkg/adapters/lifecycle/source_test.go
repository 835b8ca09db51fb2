package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/driftwork/drift/pkg/core"
)

func TestSource(t *testing.T) {
	t.Run("ForwardsEvents", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		in := make(chan core.Event, 2)
		src := NewSource(in)
		if err := src.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		want := core.Event{Type: core.EventModify, Path: "textures/wood.yaml", Timestamp: 42}
		in <- want
		close(in)

		got, ok := <-src.Events()
		if !ok {
			t.Fatal("output closed before delivering the event")
		}
		if got.String() != want.String() {
			t.Errorf("got %q, want %q", got.String(), want.String())
		}
		if _, ok := <-src.Events(); ok {
			t.Error("output should close after the input closes")
		}
	})

	t.Run("FilterDropsEvents", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		in := make(chan core.Event, 2)
		src := NewFilteredSource(in, func(e core.Event) bool {
			return e.Type == core.EventDelete
		})
		if err := src.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		in <- core.Event{Type: core.EventModify, Path: "kept-out"}
		in <- core.Event{Type: core.EventDelete, Path: "kept-in"}
		close(in)

		got, ok := <-src.Events()
		if !ok {
			t.Fatal("output closed before delivering the kept event")
		}
		if got.(core.Event).Path != "kept-in" {
			t.Errorf("filter passed the wrong event: %v", got)
		}
	})

	t.Run("CancelClosesOutput", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		in := make(chan core.Event)
		src := NewSource(in)
		if err := src.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		cancel()
		select {
		case _, ok := <-src.Events():
			if ok {
				t.Error("expected a close, got an event")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("output did not close after cancel")
		}
	})
}
