package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftwork/drift/pkg/core"
)

// KeyCodec converts table keys to and from file names (without extension).
type KeyCodec[K comparable] struct {
	Encode func(key K) (string, error)
	Decode func(name string) (K, error)
}

// StringKeys is the codec for string-keyed tables. Keys containing a path
// separator are rejected so a key can never escape the table directory.
func StringKeys() KeyCodec[string] {
	return KeyCodec[string]{
		Encode: func(key string) (string, error) {
			if key == "" {
				return "", errors.New("empty key")
			}
			if strings.ContainsAny(key, `/\`) {
				return "", fmt.Errorf("key %q contains a path separator", key)
			}
			return key, nil
		},
		Decode: func(name string) (string, error) {
			return name, nil
		},
	}
}

// Table persists a keyed collection as a directory with one file per record.
type Table[K comparable, V any] struct {
	dir    string
	format Format
	codec  KeyCodec[K]
}

// NewTable creates a table backend rooted at dir.
func NewTable[K comparable, V any](dir string, format Format, codec KeyCodec[K]) *Table[K, V] {
	if format == nil {
		format = DefaultFormat()
	}
	if codec.Encode == nil || codec.Decode == nil {
		panic("fs: KeyCodec must define both Encode and Decode")
	}
	return &Table[K, V]{dir: dir, format: format, codec: codec}
}

// NewStringTable creates a table backend with string keys mapped directly to
// file names.
func NewStringTable[V any](dir string, format Format) *Table[string, V] {
	return NewTable[string, V](dir, format, StringKeys())
}

// LoadAll reads every record file in the table directory. A missing directory
// yields zero records. Files with a different extension are skipped.
//
// Workflow:
// 1. List the directory (absent directory means an empty table).
// 2. For each file with the format's extension, decode the key from the name.
// 3. Decode the payload and hand both to yield.
func (b *Table[K, V]) LoadAll(ctx context.Context, yield func(K, V) error) error {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read table directory %s: %w", b.dir, err)
	}

	ext := b.format.Ext()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		key, err := b.codec.Decode(name)
		if err != nil {
			return fmt.Errorf("failed to decode key from %s: %w", entry.Name(), err)
		}

		path := filepath.Join(b.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var value V
		if err := b.format.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}

		if err := yield(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SaveAll writes added and modified records atomically and removes deleted
// ones. Removing an already-absent file is not an error.
func (b *Table[K, V]) SaveAll(ctx context.Context, added, modified map[K]V, deleted []K) error {
	if len(added) > 0 || len(modified) > 0 {
		if err := os.MkdirAll(b.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create table directory %s: %w", b.dir, err)
		}
	}

	for _, records := range []map[K]V{added, modified} {
		for key, value := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := b.recordPath(key)
			if err != nil {
				return err
			}
			data, err := b.format.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to encode record %v: %w", key, err)
			}
			if err := writeFileAtomic(path, data, 0o644); err != nil {
				return err
			}
		}
	}

	for _, key := range deleted {
		path, err := b.recordPath(key)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func (b *Table[K, V]) recordPath(key K) (string, error) {
	name, err := b.codec.Encode(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode key %v: %w", key, err)
	}
	return filepath.Join(b.dir, name+b.format.Ext()), nil
}

var _ core.TableBackend[string, struct{}] = (*Table[string, struct{}])(nil)
