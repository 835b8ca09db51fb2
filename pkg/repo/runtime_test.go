package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/driftwork/drift/pkg/adapters/memory"
	"github.com/driftwork/drift/pkg/core"
	"github.com/driftwork/drift/pkg/repo"
)

func TestRuntimeSingle(t *testing.T) {
	backend := memory.NewSingle[settings]()
	backend.Seed(settings{Theme: "dark"})
	s := repo.NewRuntimeSingle(backend, repo.SingleConfig[settings]{})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Reads delegate.
	got, found := s.Get()
	if !found || got.Theme != "dark" {
		t.Errorf("Expected read to work, got %+v (found=%v)", got, found)
	}

	// Every mutator fails loudly instead of silently doing nothing.
	if err := s.Set(settings{Theme: "light"}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Set: expected ErrReadOnly, got %v", err)
	}
	if _, err := s.TrackPropertyChange(repo.SingletonKey, "Theme", "light"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("TrackPropertyChange: expected ErrReadOnly, got %v", err)
	}
	if err := s.Save(context.Background()); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Save: expected ErrReadOnly, got %v", err)
	}
	if backend.SaveCalls != 0 {
		t.Error("Backend must never see a save")
	}

	if s.HasChanges() {
		t.Error("Runtime repository never has changes")
	}
	if err := s.Revert(); err != nil {
		t.Errorf("Revert is a no-op, got %v", err)
	}
}

func TestRuntimeTable(t *testing.T) {
	backend := memory.NewTable[string, item]()
	backend.Seed(seedItems())
	tbl := repo.NewRuntimeTable(backend, repo.TableConfig[string, item]{KeyOf: itemKey})
	if err := tbl.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if tbl.Len() != 2 {
		t.Errorf("Expected 2 items, got %d", tbl.Len())
	}
	if got, err := tbl.Get("sword"); err != nil || got.Name != "Sword" {
		t.Errorf("Expected read to work, got %+v, %v", got, err)
	}

	if err := tbl.Add(item{ID: "bow"}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Add: expected ErrReadOnly, got %v", err)
	}
	if err := tbl.Update("sword", item{ID: "sword"}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Update: expected ErrReadOnly, got %v", err)
	}
	if err := tbl.Remove("sword"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Remove: expected ErrReadOnly, got %v", err)
	}
	if _, err := tbl.GetWorkingCopy("sword"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("GetWorkingCopy: expected ErrReadOnly, got %v", err)
	}
	if err := tbl.Save(context.Background()); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Save: expected ErrReadOnly, got %v", err)
	}

	if tbl.HasChanges() {
		t.Error("Runtime repository never has changes")
	}
	if got := tbl.State("sword"); got != core.Unchanged {
		t.Errorf("Expected Unchanged, got %v", got)
	}
}

func TestRuntimeAssets(t *testing.T) {
	seeded := seedAsset("a.yaml", "v1")
	backend := memory.NewAssets[blob]()
	backend.Seed(seeded)
	a := repo.NewRuntimeAssets(backend, repo.AssetConfig[blob]{})
	ctx := context.Background()
	if err := a.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Lazy loading still works read-only.
	got, err := a.Get(ctx, seeded.ID)
	if err != nil || got == nil || got.Payload.Data != "v1" {
		t.Fatalf("Expected lazy load to work, got %+v, %v", got, err)
	}
	if !a.IsLoaded(seeded.ID) {
		t.Error("Expected payload cached")
	}

	if _, err := a.Add(blob{}, "b.yaml"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Add: expected ErrReadOnly, got %v", err)
	}
	if err := a.Update(seeded.ID, blob{}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Update: expected ErrReadOnly, got %v", err)
	}
	if err := a.UpdatePath(seeded.ID, "b.yaml"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("UpdatePath: expected ErrReadOnly, got %v", err)
	}
	if _, err := a.Remove(seeded.ID); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Remove: expected ErrReadOnly, got %v", err)
	}
	if err := a.SaveAll(ctx); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("SaveAll: expected ErrReadOnly, got %v", err)
	}

	if a.HasChanges() {
		t.Error("Runtime repository never has changes")
	}
}
