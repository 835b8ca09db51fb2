package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/driftwork/drift/pkg/adapters/memory"
	"github.com/driftwork/drift/pkg/core"
	"github.com/driftwork/drift/pkg/repo"
)

type settings struct {
	Theme  string  `json:"theme"`
	Volume float64 `json:"volume"`
}

func newSingle(t *testing.T, seed *settings) (*repo.Single[settings], *memory.Single[settings]) {
	t.Helper()
	backend := memory.NewSingle[settings]()
	if seed != nil {
		backend.Seed(*seed)
	}
	s := repo.NewSingle(backend, repo.SingleConfig[settings]{})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s, backend
}

func TestSingle_InitializeEmpty(t *testing.T) {
	s, _ := newSingle(t, nil)

	if _, found := s.Get(); found {
		t.Error("Expected no value in an empty repository")
	}
	if s.HasChanges() {
		t.Error("Empty repository should have no changes")
	}
}

func TestSingle_SetAndRevert(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark", Volume: 0.5})

	var transitions []bool
	s.OnModifiedStateChanged(func(modified bool) {
		transitions = append(transitions, modified)
	})

	if err := s.Set(settings{Theme: "light", Volume: 0.5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !s.HasChanges() {
		t.Fatal("Expected changes after Set")
	}

	// A second differing Set must not fire a second notification.
	if err := s.Set(settings{Theme: "solarized", Volume: 0.5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Revert(); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	got, found := s.Get()
	if !found || got.Theme != "dark" {
		t.Errorf("Expected baseline restored, got %+v (found=%v)", got, found)
	}
	if s.HasChanges() {
		t.Error("Expected no changes after Revert")
	}

	want := []bool{true, false}
	if len(transitions) != len(want) {
		t.Fatalf("Expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("Expected transitions %v, got %v", want, transitions)
		}
	}
}

func TestSingle_RevertWithoutChangesIsSilent(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark"})

	fired := false
	s.OnModifiedStateChanged(func(bool) { fired = true })

	if err := s.Revert(); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if fired {
		t.Error("Revert with nothing to revert must not notify")
	}
}

func TestSingle_SetBackToBaseline(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark", Volume: 0.5})

	if err := s.Set(settings{Theme: "light", Volume: 0.5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(settings{Theme: "dark", Volume: 0.5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if s.HasChanges() {
		t.Error("Value equal to baseline should report no changes")
	}
}

func TestSingle_TrackPropertyChange(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark", Volume: 0.5})

	modified, err := s.TrackPropertyChange(repo.SingletonKey, "Theme", "light")
	if err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}
	if !modified {
		t.Error("Expected property to be modified")
	}

	// The new value must land in the working copy.
	got, _ := s.Get()
	if got.Theme != "light" {
		t.Errorf("Expected working copy updated, got %+v", got)
	}

	if !s.IsPropertyModified(repo.SingletonKey, "Theme") {
		t.Error("Expected Theme to be flagged modified")
	}
	props := s.ModifiedProperties(repo.SingletonKey)
	if len(props) != 1 || props[0] != "Theme" {
		t.Errorf("Expected [Theme], got %v", props)
	}
	base, ok := s.PropertyBaseline(repo.SingletonKey, "Theme")
	if !ok || base != "dark" {
		t.Errorf("Expected baseline 'dark', got %v (ok=%v)", base, ok)
	}

	// Writing the baseline value again clears the flag.
	modified, err = s.TrackPropertyChange(repo.SingletonKey, "Theme", "dark")
	if err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}
	if modified {
		t.Error("Property back at baseline should not be modified")
	}
	if s.HasChanges() {
		t.Error("Expected no aggregate changes")
	}
}

func TestSingle_TrackPropertyChange_LegacyKey(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark"})

	if _, err := s.TrackPropertyChange(repo.LegacySingletonKey, "Theme", "light"); err != nil {
		t.Fatalf("Legacy key should be accepted: %v", err)
	}
	if !s.IsPropertyModified(repo.SingletonKey, "Theme") {
		t.Error("Tracking via legacy key should land on the canonical key")
	}
}

func TestSingle_TrackPropertyChange_UnknownKey(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark"})

	_, err := s.TrackPropertyChange("other", "Theme", "light")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestSingle_RevertProperty(t *testing.T) {
	s, _ := newSingle(t, &settings{Theme: "dark", Volume: 0.5})

	if _, err := s.TrackPropertyChange(repo.SingletonKey, "Theme", "light"); err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}
	if _, err := s.TrackPropertyChange(repo.SingletonKey, "Volume", 0.9); err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}

	if err := s.RevertProperty(repo.SingletonKey, "Theme"); err != nil {
		t.Fatalf("RevertProperty failed: %v", err)
	}

	got, _ := s.Get()
	if got.Theme != "dark" {
		t.Errorf("Expected Theme restored, got %+v", got)
	}
	if got.Volume != 0.9 {
		t.Errorf("Volume must keep its tracked change, got %+v", got)
	}
	if s.IsPropertyModified(repo.SingletonKey, "Theme") {
		t.Error("Reverted property should not be modified")
	}
	if !s.HasChanges() {
		t.Error("Volume change should keep the aggregate flag set")
	}
}

func TestSingle_Save(t *testing.T) {
	s, backend := newSingle(t, &settings{Theme: "dark"})

	var transitions []bool
	s.OnModifiedStateChanged(func(modified bool) {
		transitions = append(transitions, modified)
	})

	if _, err := s.TrackPropertyChange(repo.SingletonKey, "Theme", "light"); err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if backend.SaveCalls != 1 {
		t.Errorf("Expected 1 backend save, got %d", backend.SaveCalls)
	}
	if s.HasChanges() {
		t.Error("Expected no changes after Save")
	}

	// The baseline advanced: tracking the old value now counts as a change.
	modified, err := s.TrackPropertyChange(repo.SingletonKey, "Theme", "dark")
	if err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}
	if !modified {
		t.Error("Expected change relative to the new baseline")
	}

	if len(transitions) < 2 || transitions[0] != true || transitions[1] != false {
		t.Errorf("Expected [true false ...] transitions, got %v", transitions)
	}
}

func TestSingle_NeverSavedRecord(t *testing.T) {
	s, backend := newSingle(t, nil)

	if err := s.Set(settings{Theme: "dark"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !s.HasChanges() {
		t.Error("New value over empty baseline should count as a change")
	}

	// Property tracking against a never-saved record baselines on the
	// current value.
	modified, err := s.TrackPropertyChange(repo.SingletonKey, "Theme", "light")
	if err != nil {
		t.Fatalf("TrackPropertyChange failed: %v", err)
	}
	if !modified {
		t.Error("Expected modification against the first-seen value")
	}

	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if backend.SaveCalls != 1 {
		t.Errorf("Expected 1 save, got %d", backend.SaveCalls)
	}
	if s.HasChanges() {
		t.Error("Expected clean state after first save")
	}
}
