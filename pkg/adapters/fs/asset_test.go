package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftwork/drift/pkg/core"
)

type texture struct {
	Pixels string `yaml:"pixels"`
}

func saveTestAsset(t *testing.T, b *Assets[texture], path, pixels string) *core.Asset[texture] {
	t.Helper()
	id := core.NewAssetID()
	asset := &core.Asset[texture]{
		ID:       id,
		Metadata: core.AssetMetadata{ID: id, Name: "tex", Category: "textures"},
		Payload:  texture{Pixels: pixels},
		Path:     path,
	}
	if err := b.SaveAsset(context.Background(), asset); err != nil {
		t.Fatalf("SaveAsset failed: %v", err)
	}
	return asset
}

func TestAssets_MissingRootIsEmpty(t *testing.T) {
	backend := NewAssets[texture](filepath.Join(t.TempDir(), "absent"), YAML{})
	sums, err := backend.LoadSummaries(context.Background())
	if err != nil {
		t.Fatalf("LoadSummaries failed: %v", err)
	}
	if len(sums) != 0 {
		t.Errorf("Expected no summaries, got %v", sums)
	}
}

func TestAssets_SaveScanLoad(t *testing.T) {
	root := t.TempDir()
	backend := NewAssets[texture](root, YAML{})
	ctx := context.Background()

	saved := saveTestAsset(t, backend, "deep/nested/wood.yaml", "abc")

	// Payload and sidecar on disk.
	if _, err := os.Stat(filepath.Join(root, "deep", "nested", "wood.yaml")); err != nil {
		t.Errorf("Payload file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "deep", "nested", "wood.yaml"+metaExt)); err != nil {
		t.Errorf("Sidecar file missing: %v", err)
	}

	// A fresh backend discovers it from the sidecar scan.
	fresh := NewAssets[texture](root, YAML{})
	sums, err := fresh.LoadSummaries(ctx)
	if err != nil {
		t.Fatalf("LoadSummaries failed: %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(sums))
	}
	sum := sums[0]
	if sum.ID != saved.ID || sum.Path != "deep/nested/wood.yaml" || sum.Metadata.Category != "textures" {
		t.Errorf("Unexpected summary: %+v", sum)
	}

	loaded, err := fresh.LoadAsset(ctx, saved.ID)
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}
	if loaded == nil || loaded.Payload.Pixels != "abc" {
		t.Errorf("Expected payload round trip, got %+v", loaded)
	}
}

func TestAssets_LoadUnknownID(t *testing.T) {
	backend := NewAssets[texture](t.TempDir(), YAML{})
	if _, err := backend.LoadSummaries(context.Background()); err != nil {
		t.Fatal(err)
	}

	loaded, err := backend.LoadAsset(context.Background(), core.NewAssetID())
	if err != nil {
		t.Fatalf("Unknown id should not error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil, got %+v", loaded)
	}
}

func TestAssets_SaveRelocates(t *testing.T) {
	root := t.TempDir()
	backend := NewAssets[texture](root, YAML{})
	ctx := context.Background()

	saved := saveTestAsset(t, backend, "old.yaml", "abc")

	moved := *saved
	moved.Path = "new/home.yaml"
	if err := backend.SaveAsset(ctx, &moved); err != nil {
		t.Fatalf("SaveAsset failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "new", "home.yaml")); err != nil {
		t.Errorf("New payload missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "old.yaml")); !os.IsNotExist(err) {
		t.Error("Old payload should be removed after relocation")
	}
	if _, err := os.Stat(filepath.Join(root, "old.yaml"+metaExt)); !os.IsNotExist(err) {
		t.Error("Old sidecar should be removed after relocation")
	}

	loaded, err := backend.LoadAsset(ctx, saved.ID)
	if err != nil || loaded == nil {
		t.Fatalf("LoadAsset failed: %+v, %v", loaded, err)
	}
	if loaded.Path != "new/home.yaml" {
		t.Errorf("Expected new path, got %q", loaded.Path)
	}
}

func TestAssets_Delete(t *testing.T) {
	root := t.TempDir()
	backend := NewAssets[texture](root, YAML{})
	ctx := context.Background()

	saved := saveTestAsset(t, backend, "doomed.yaml", "x")

	if err := backend.DeleteAsset(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "doomed.yaml")); !os.IsNotExist(err) {
		t.Error("Payload should be gone")
	}
	if _, err := os.Stat(filepath.Join(root, "doomed.yaml"+metaExt)); !os.IsNotExist(err) {
		t.Error("Sidecar should be gone")
	}

	// Unknown ids are not an error.
	if err := backend.DeleteAsset(ctx, core.NewAssetID()); err != nil {
		t.Errorf("Deleting an unknown id should be fine: %v", err)
	}
}

func TestAssets_DuplicateIDDetected(t *testing.T) {
	root := t.TempDir()
	backend := NewAssets[texture](root, YAML{})
	saved := saveTestAsset(t, backend, "a.yaml", "x")

	// Forge a second sidecar claiming the same id.
	clone := *saved
	clone.Path = "b.yaml"
	if err := backend.SaveAsset(context.Background(), &clone); err != nil {
		t.Fatalf("SaveAsset failed: %v", err)
	}
	// The relocation removed a.yaml, so recreate a conflicting pair by hand.
	if err := os.WriteFile(filepath.Join(root, "a.yaml"), []byte("pixels: y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sidecar, err := os.ReadFile(filepath.Join(root, "b.yaml"+metaExt))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.yaml"+metaExt), sidecar, 0o644); err != nil {
		t.Fatal(err)
	}

	fresh := NewAssets[texture](root, YAML{})
	if _, err := fresh.LoadSummaries(context.Background()); err == nil {
		t.Error("Expected duplicate id to be rejected")
	}
}
