package track

import (
	"reflect"
	"testing"
)

func TestTrack_FirstCallRecordsBaseline(t *testing.T) {
	p := NewProperties[string]()

	if dirty := p.Track("k", "name", "old", "new"); !dirty {
		t.Error("Expected property to be dirty after change")
	}

	base, ok := p.Baseline("k", "name")
	if !ok {
		t.Fatal("Expected baseline to be recorded")
	}
	if base != "old" {
		t.Errorf("Expected baseline 'old', got %v", base)
	}

	// A second Track must not overwrite the original baseline.
	p.Track("k", "name", "something-else", "newer")
	base, _ = p.Baseline("k", "name")
	if base != "old" {
		t.Errorf("Baseline was overwritten: got %v", base)
	}
}

func TestTrack_BackToBaselineClearsFlag(t *testing.T) {
	p := NewProperties[string]()

	p.Track("k", "count", 1, 2)
	if !p.IsModified("k", "count") {
		t.Fatal("Expected count to be modified")
	}

	if dirty := p.Track("k", "count", 1, 1); dirty {
		t.Error("Expected property back at baseline to be clean")
	}
	if p.IsModified("k", "count") {
		t.Error("Modified flag should clear when value returns to baseline")
	}
	if p.HasModifications("k") {
		t.Error("Entity should have no modifications left")
	}
}

func TestTrack_DeepEqualComparison(t *testing.T) {
	p := NewProperties[string]()

	baseline := []string{"a", "b"}
	same := []string{"a", "b"}
	if dirty := p.Track("k", "tags", baseline, same); dirty {
		t.Error("Structurally equal slices should not be dirty")
	}

	if dirty := p.Track("k", "tags", baseline, []string{"a", "c"}); !dirty {
		t.Error("Different slices should be dirty")
	}
}

func TestModified_SortedNames(t *testing.T) {
	p := NewProperties[string]()
	p.Track("k", "zeta", 1, 2)
	p.Track("k", "alpha", 1, 2)
	p.Track("k", "mid", 1, 2)

	got := p.Modified("k")
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestClearProperty(t *testing.T) {
	p := NewProperties[string]()
	p.Track("k", "a", 1, 2)
	p.Track("k", "b", 1, 2)

	p.ClearProperty("k", "a")

	if p.IsModified("k", "a") {
		t.Error("Cleared property should not be modified")
	}
	if _, ok := p.Baseline("k", "a"); ok {
		t.Error("Cleared property should have no baseline")
	}
	if !p.IsModified("k", "b") {
		t.Error("Other property should be untouched")
	}
}

func TestClearAndReset(t *testing.T) {
	p := NewProperties[int]()
	p.Track(1, "a", "x", "y")
	p.Track(2, "a", "x", "y")

	p.Clear(1)
	if p.HasModifications(1) {
		t.Error("Cleared entity should have no modifications")
	}
	if !p.HasModifications(2) {
		t.Error("Other entity should be untouched")
	}

	p.Reset()
	if p.HasModifications(2) {
		t.Error("Reset should forget everything")
	}
}
