package fs

import (
	"github.com/aretw0/introspection"
)

// AssetsState exposes internal backend state for observability.
type AssetsState struct {
	Root    string `json:"root"`
	Format  string `json:"format"`
	Indexed int    `json:"indexed_assets"`
}

// State implements introspection.Introspectable.
func (b *Assets[V]) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return AssetsState{
		Root:    b.root,
		Format:  b.format.Ext(),
		Indexed: len(b.paths),
	}
}

// ComponentType implements introspection.Component.
func (b *Assets[V]) ComponentType() string {
	return "asset-backend"
}

var _ introspection.Introspectable = (*Assets[struct{}])(nil)
var _ introspection.Component = (*Assets[struct{}])(nil)
