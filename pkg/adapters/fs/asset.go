package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/driftwork/drift/pkg/core"
)

const metaExt = ".meta"

// metaRecord is the sidecar file written next to each payload. It carries
// everything needed to build a summary without decoding the payload.
type metaRecord struct {
	ID       core.AssetID `yaml:"id"`
	Name     string       `yaml:"name"`
	Category string       `yaml:"category,omitempty"`
}

// Assets persists assets as payload files under a root directory. Each
// payload file <path> has a sidecar <path>.meta holding the identity record,
// so summaries can be listed without touching payload bytes.
type Assets[V any] struct {
	root   string
	format Format

	mu    sync.RWMutex
	paths map[core.AssetID]string // repo-relative payload path, slash separated
}

// NewAssets creates an asset backend rooted at root.
func NewAssets[V any](root string, format Format) *Assets[V] {
	if format == nil {
		format = DefaultFormat()
	}
	return &Assets[V]{
		root:   root,
		format: format,
		paths:  make(map[core.AssetID]string),
	}
}

// LoadSummaries scans the root for sidecar files and returns one summary per
// asset. A missing root directory yields no summaries. The scan also rebuilds
// the internal id-to-path index used by the other operations.
func (b *Assets[V]) LoadSummaries(ctx context.Context) ([]core.AssetSummary, error) {
	if _, err := os.Stat(b.root); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat asset root %s: %w", b.root, err)
	}

	matches, err := doublestar.Glob(os.DirFS(b.root), "**/*"+metaExt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan asset root %s: %w", b.root, err)
	}
	sort.Strings(matches)

	paths := make(map[core.AssetID]string, len(matches))
	summaries := make([]core.AssetSummary, 0, len(matches))
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := b.readMeta(filepath.Join(b.root, filepath.FromSlash(match)))
		if err != nil {
			return nil, err
		}

		payloadPath := strings.TrimSuffix(match, metaExt)
		if record.ID.IsZero() {
			return nil, fmt.Errorf("sidecar for %s has no id", payloadPath)
		}
		if prev, ok := paths[record.ID]; ok {
			return nil, fmt.Errorf("asset id %s claimed by both %s and %s", record.ID, prev, payloadPath)
		}

		paths[record.ID] = payloadPath
		summaries = append(summaries, core.AssetSummary{
			ID: record.ID,
			Metadata: core.AssetMetadata{
				ID:       record.ID,
				Name:     record.Name,
				Category: record.Category,
			},
			Path: payloadPath,
		})
	}

	b.mu.Lock()
	b.paths = paths
	b.mu.Unlock()

	return summaries, nil
}

// LoadAsset reads the payload for an id. Unknown ids resolve to (nil, nil).
func (b *Assets[V]) LoadAsset(ctx context.Context, id core.AssetID) (*core.Asset[V], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	relPath, ok := b.paths[id]
	b.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	full := b.payloadFile(relPath)
	record, err := b.readMeta(full + metaExt)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset payload %s: %w", relPath, err)
	}
	var payload V
	if err := b.format.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode asset payload %s: %w", relPath, err)
	}

	return &core.Asset[V]{
		ID: id,
		Metadata: core.AssetMetadata{
			ID:       id,
			Name:     record.Name,
			Category: record.Category,
		},
		Payload: payload,
		Path:    relPath,
	}, nil
}

// SaveAsset writes the payload and its sidecar. If the asset's path differs
// from the one on record, the files are written at the new location first and
// the old ones removed after, so a crash mid-move leaves the asset readable.
func (b *Assets[V]) SaveAsset(ctx context.Context, asset *core.Asset[V]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if asset.Path == "" {
		return errors.New("asset has no path")
	}

	relPath := filepath.ToSlash(asset.Path)
	full := b.payloadFile(relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", relPath, err)
	}

	data, err := b.format.Marshal(asset.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode asset payload %s: %w", relPath, err)
	}
	if err := writeFileAtomic(full, data, 0o644); err != nil {
		return err
	}

	meta, err := yaml.Marshal(metaRecord{
		ID:       asset.ID,
		Name:     asset.Metadata.Name,
		Category: asset.Metadata.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sidecar for %s: %w", relPath, err)
	}
	if err := writeFileAtomic(full+metaExt, meta, 0o644); err != nil {
		return err
	}

	b.mu.Lock()
	oldPath, moved := b.paths[asset.ID]
	b.paths[asset.ID] = relPath
	b.mu.Unlock()

	if moved && oldPath != relPath {
		b.removeFiles(oldPath)
	}
	return nil
}

// DeleteAsset removes the payload and sidecar. Unknown ids are not an error.
func (b *Assets[V]) DeleteAsset(ctx context.Context, id core.AssetID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	relPath, ok := b.paths[id]
	delete(b.paths, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}

	b.removeFiles(relPath)
	return nil
}

func (b *Assets[V]) payloadFile(relPath string) string {
	return filepath.Join(b.root, filepath.FromSlash(relPath))
}

func (b *Assets[V]) readMeta(path string) (metaRecord, error) {
	var record metaRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("failed to decode sidecar %s: %w", path, err)
	}
	return record, nil
}

// removeFiles drops a payload and its sidecar, ignoring already-absent files.
func (b *Assets[V]) removeFiles(relPath string) {
	full := b.payloadFile(relPath)
	_ = os.Remove(full)
	_ = os.Remove(full + metaExt)
}

var _ core.AssetBackend[struct{}] = (*Assets[struct{}])(nil)
