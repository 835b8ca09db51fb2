// Package core holds the domain contracts shared by every repository kind:
// the change-state lifecycle, the clone contract, the asset identity model,
// the storage backend interfaces, and the sentinel errors.
//
// The core is agnostic to file format, wire protocol, and UI framework; those
// belong to the adapter packages.
package core
