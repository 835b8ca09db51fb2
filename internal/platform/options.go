// Package platform wires storage backends and repositories into a workspace.
// It owns the on-disk layout and the functional options shared by the public
// facade and the CLI.
package platform

import (
	"log/slog"

	"github.com/driftwork/drift/pkg/adapters/fs"
	"github.com/driftwork/drift/pkg/core"
)

// options holds the internal configuration for a workspace.
type options struct {
	logger    *slog.Logger
	format    fs.Format
	clone     core.CloneFunc[Document]
	readOnly  bool
	autoInit  bool
	mustExist bool
	watch     bool
}

// Option defines a functional option for configuring a workspace.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
		format: fs.DefaultFormat(),
		clone:  core.JSONClone[Document](),
	}
}

// WithLogger sets the logger for the workspace and its repositories.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFormat sets the on-disk encoding for records and asset payloads.
// Defaults to YAML.
func WithFormat(format fs.Format) Option {
	return func(o *options) {
		if format != nil {
			o.format = format
		}
	}
}

// WithClone overrides the deep-clone function used for baselines and working
// copies. Defaults to a JSON round-trip.
func WithClone(clone core.CloneFunc[Document]) Option {
	return func(o *options) {
		if clone != nil {
			o.clone = clone
		}
	}
}

// WithReadOnly opens the workspace in read-only mode. Every mutating
// repository operation fails with ErrReadOnly, and initialization does not
// create any directories.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithAutoInit creates the workspace layout (marker and data directories) if
// it does not exist yet.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist requires the workspace marker to already be present.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithWatch starts a filesystem watcher over the asset root so external edits
// surface as events.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}
