package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "record.yaml")

	if err := writeFileAtomic(target, []byte("first"), 0o644); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("Expected 'first', got %q", data)
	}

	// Overwrite goes through the same rename path.
	if err := writeFileAtomic(target, []byte("second"), 0o644); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}
	data, _ = os.ReadFile(target)
	if string(data) != "second" {
		t.Errorf("Expected 'second', got %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), TempFilePrefix) {
			t.Errorf("Leftover temp file: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the target file, got %d entries", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nope", "record.yaml")

	if err := writeFileAtomic(target, []byte("x"), 0o644); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}
