package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/driftwork/drift/pkg/adapters/fs"
	"github.com/driftwork/drift/pkg/core"
	"github.com/driftwork/drift/pkg/repo"
)

const (
	// MarkerDir is the directory that marks a workspace root.
	MarkerDir = ".drift"
	// DocumentsDir holds the keyed document collection.
	DocumentsDir = "documents"
	// AssetsDir holds asset payloads and their sidecars.
	AssetsDir = "assets"
	// ConfigName is the singleton config file name, without extension.
	ConfigName = "config"
)

// Document is the schemaless record stored in the documents table. The "id"
// field is its key.
type Document = map[string]any

// DocumentKey extracts the table key from a document.
func DocumentKey(doc Document) string {
	key, _ := doc["id"].(string)
	return key
}

// Components is the wired result of opening a workspace. Repositories are
// runtime (read-only) variants when the workspace was opened read-only.
type Components struct {
	Path     string
	ReadOnly bool
	Logger   *slog.Logger

	Config    repo.SingleRepository[Document]
	Documents repo.TableRepository[string, Document]
	Assets    repo.AssetRepository[Document]

	// Watcher is non-nil when WithWatch was given. The caller owns its
	// lifecycle; it has not been started.
	Watcher *fs.Watcher
}

// Build wires backends and repositories for the workspace at path.
//
// Workflow:
// 1. Resolve the path and check or create the on-disk layout.
// 2. Build file backends for config, documents, and assets.
// 3. Wrap them in editable or runtime repositories depending on mode.
func Build(path string, opts ...Option) (*Components, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path %s: %w", path, err)
	}

	if err := ensureLayout(abs, o); err != nil {
		return nil, err
	}

	configPath := filepath.Join(abs, ConfigName+o.format.Ext())
	configBackend := fs.NewSingle[Document](configPath, o.format)
	documentBackend := fs.NewStringTable[Document](filepath.Join(abs, DocumentsDir), o.format)
	assetBackend := fs.NewAssets[Document](filepath.Join(abs, AssetsDir), o.format)

	clone := o.clone

	c := &Components{
		Path:     abs,
		ReadOnly: o.readOnly,
		Logger:   o.logger,
	}

	if o.readOnly {
		c.Config = repo.NewRuntimeSingle[Document](configBackend, repo.SingleConfig[Document]{
			Clone:  clone,
			Logger: o.logger,
		})
		c.Documents = repo.NewRuntimeTable[string, Document](documentBackend, repo.TableConfig[string, Document]{
			KeyOf:  DocumentKey,
			Clone:  clone,
			Logger: o.logger,
		})
		c.Assets = repo.NewRuntimeAssets[Document](assetBackend, repo.AssetConfig[Document]{
			Clone:  clone,
			Logger: o.logger,
		})
	} else {
		c.Config = repo.NewSingle[Document](configBackend, repo.SingleConfig[Document]{
			Clone:  clone,
			Logger: o.logger,
		})
		c.Documents = repo.NewTable[string, Document](documentBackend, repo.TableConfig[string, Document]{
			KeyOf:  DocumentKey,
			Clone:  clone,
			Logger: o.logger,
		})
		c.Assets = repo.NewAssets[Document](assetBackend, repo.AssetConfig[Document]{
			Clone:  clone,
			Logger: o.logger,
		})
	}

	if o.watch {
		c.Watcher = fs.NewWatcher(filepath.Join(abs, AssetsDir), o.logger)
	}

	return c, nil
}

// ensureLayout validates or creates the workspace directories.
func ensureLayout(abs string, o *options) error {
	marker := filepath.Join(abs, MarkerDir)
	_, err := os.Stat(marker)
	exists := err == nil

	if o.mustExist && !exists {
		return fmt.Errorf("no workspace at %s: %w", abs, core.ErrNotFound)
	}

	if o.readOnly || exists {
		return nil
	}

	if !o.autoInit {
		// Lazily created on first save; nothing to do up front.
		return nil
	}

	for _, dir := range []string{marker, filepath.Join(abs, DocumentsDir), filepath.Join(abs, AssetsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	o.logger.Info("workspace initialized", "path", abs)
	return nil
}
