package drift

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/driftwork/drift/internal/platform"
	"github.com/driftwork/drift/pkg/adapters/fs"
	"github.com/driftwork/drift/pkg/core"
	"github.com/driftwork/drift/pkg/repo"
)

// --- Types ---

// ChangeState is a public alias for the per-record change state.
type ChangeState = core.ChangeState

const (
	Unchanged = core.Unchanged
	Added     = core.Added
	Modified  = core.Modified
	Deleted   = core.Deleted
)

// AssetID is a public alias for the asset identifier.
type AssetID = core.AssetID

// Asset is a public alias for a loaded asset.
type Asset[V any] = core.Asset[V]

// AssetMetadata is a public alias for the asset identity record.
type AssetMetadata = core.AssetMetadata

// AssetSummary is a public alias for the lightweight asset listing entry.
type AssetSummary = core.AssetSummary

// Event is a public alias for external change notifications.
type Event = core.Event

// Document is the schemaless record stored in workspace tables. Its "id"
// field is the table key.
type Document = platform.Document

// --- Errors ---

var (
	ErrNotFound     = core.ErrNotFound
	ErrDuplicateKey = core.ErrDuplicateKey
	ErrNotLoaded    = core.ErrNotLoaded
	ErrReadOnly     = core.ErrReadOnly
)

// --- Configuration ---

// Option defines a functional option for configuring a workspace.
type Option = platform.Option

// WithLogger sets the logger for the workspace and its repositories.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithFormat sets the on-disk encoding (YAML by default).
func WithFormat(format fs.Format) Option {
	return platform.WithFormat(format)
}

// WithClone overrides the deep-clone function used for baselines and working
// copies. Defaults to a JSON round-trip.
func WithClone(clone core.CloneFunc[Document]) Option {
	return platform.WithClone(clone)
}

// WithReadOnly opens the workspace in read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithAutoInit creates the workspace layout if it does not exist yet.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist requires the workspace to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithWatch enables a filesystem watcher over the asset root.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// --- Workspace ---

// Workspace bundles the three repository shapes over one directory layout:
// a singleton config record, a keyed document table, and a lazily loaded
// asset store.
type Workspace struct {
	Config    repo.SingleRepository[Document]
	Documents repo.TableRepository[string, Document]
	Assets    repo.AssetRepository[Document]

	path     string
	readOnly bool
	logger   *slog.Logger
	watcher  *fs.Watcher
}

// Open wires and initializes a workspace at path.
//
// Workflow:
// 1. Build backends and repositories from the options.
// 2. Initialize each repository (loads config, documents, asset summaries).
// 3. Hand back the workspace; the watcher (if enabled) starts on Watch.
func Open(ctx context.Context, path string, opts ...Option) (*Workspace, error) {
	c, err := platform.Build(path, opts...)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Config:    c.Config,
		Documents: c.Documents,
		Assets:    c.Assets,
		path:      c.Path,
		readOnly:  c.ReadOnly,
		logger:    c.Logger,
		watcher:   c.Watcher,
	}

	if err := ws.Config.Initialize(ctx); err != nil {
		return nil, err
	}
	if err := ws.Documents.Initialize(ctx); err != nil {
		return nil, err
	}
	if err := ws.Assets.Initialize(ctx); err != nil {
		return nil, err
	}

	ws.logger.Debug("workspace opened", "path", ws.path, "read_only", ws.readOnly)
	return ws, nil
}

// FindRoot looks upwards from startDir for a workspace root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// Path returns the absolute workspace root.
func (ws *Workspace) Path() string { return ws.path }

// ReadOnly reports whether the workspace rejects mutation.
func (ws *Workspace) ReadOnly() bool { return ws.readOnly }

// HasChanges reports whether any repository holds uncommitted changes.
func (ws *Workspace) HasChanges() bool {
	return ws.Config.HasChanges() || ws.Documents.HasChanges() || ws.Assets.HasChanges()
}

// SaveAll commits pending changes in every repository. Repositories without
// changes are skipped. On error the remaining repositories are still
// attempted and the errors joined.
func (ws *Workspace) SaveAll(ctx context.Context) error {
	if ws.readOnly {
		return ErrReadOnly
	}

	var errs []error
	if ws.Config.HasChanges() {
		if err := ws.Config.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if ws.Documents.HasChanges() {
		if err := ws.Documents.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if ws.Assets.HasChanges() {
		if err := ws.Assets.SaveAll(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RevertAll discards pending changes in every repository.
func (ws *Workspace) RevertAll() error {
	return errors.Join(ws.Config.Revert(), ws.Documents.Revert(), ws.Assets.Revert())
}

// Watch starts the asset watcher and returns its event channel. Requires the
// workspace to have been opened with WithWatch.
func (ws *Workspace) Watch(ctx context.Context) (<-chan Event, error) {
	if ws.watcher == nil {
		return nil, errors.New("workspace opened without WithWatch")
	}
	if err := ws.watcher.Start(ctx); err != nil {
		return nil, err
	}
	return ws.watcher.Events(), nil
}

// Close stops the watcher if one is running.
func (ws *Workspace) Close(ctx context.Context) error {
	if ws.watcher == nil {
		return nil
	}
	return ws.watcher.Stop(ctx)
}

// --- Introspection ---

// WorkspaceState exposes workspace state for observability.
type WorkspaceState struct {
	Path         string `json:"path"`
	ReadOnly     bool   `json:"read_only"`
	HasChanges   bool   `json:"has_changes"`
	Documents    int    `json:"documents"`
	Assets       int    `json:"assets"`
	LoadedAssets int    `json:"loaded_assets"`
	Watching     bool   `json:"watching"`
}

// State implements introspection.Introspectable.
func (ws *Workspace) State() any {
	return WorkspaceState{
		Path:         ws.path,
		ReadOnly:     ws.readOnly,
		HasChanges:   ws.HasChanges(),
		Documents:    ws.Documents.Len(),
		Assets:       len(ws.Assets.Summaries()),
		LoadedAssets: len(ws.Assets.LoadedAssets()),
		Watching:     ws.watcher != nil,
	}
}

// ComponentType implements introspection.Component.
func (ws *Workspace) ComponentType() string {
	return "workspace"
}

var _ introspection.Introspectable = (*Workspace)(nil)
var _ introspection.Component = (*Workspace)(nil)
