// Package fs implements file-backed storage backends.
//
// Singleton records live in a single file, table records in a directory with
// one file per key, and assets as payload files with a small sidecar metadata
// record next to each payload. All writes go through an atomic
// write-to-temp-then-rename so a crash never leaves a half-written file.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftwork/drift/pkg/core"
)

// Single persists a singleton record in one file.
type Single[V any] struct {
	path   string
	format Format
}

// NewSingle creates a singleton backend writing to path. The file extension
// does not have to match the format; path is used as given.
func NewSingle[V any](path string, format Format) *Single[V] {
	if format == nil {
		format = DefaultFormat()
	}
	return &Single[V]{path: path, format: format}
}

// Load reads the record. A missing file is not an error; it reports found=false.
func (b *Single[V]) Load(ctx context.Context) (V, bool, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	var value V
	if err := b.format.Unmarshal(data, &value); err != nil {
		return zero, false, fmt.Errorf("failed to decode %s: %w", b.path, err)
	}
	return value, true, nil
}

// Save writes the record atomically, creating parent directories as needed.
func (b *Single[V]) Save(ctx context.Context, value V) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := b.format.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", b.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", b.path, err)
	}

	return writeFileAtomic(b.path, data, 0o644)
}

var _ core.SingleBackend[struct{}] = (*Single[struct{}])(nil)
