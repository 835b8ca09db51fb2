// Package repo implements the change-tracking repositories: an editable
// working copy layered over an immutable baseline, with entity-level change
// states, property-level dirty tracking, and atomic commit to a pluggable
// storage backend.
//
// Three kinds are provided, mirroring the three data shapes:
//
//   - Single: one singleton record (typically configuration).
//   - Table: a keyed collection with per-key state.
//   - Assets: path-addressable, identity-keyed payloads with a lightweight
//     summary index and lazy payload loading.
//
// Each kind has a Runtime (read-only) variant exposing the same interface
// with every mutator rejected.
//
// Concurrency: a repository instance assumes a single logical owner. Only
// Initialize, Save, and the lazy asset load perform I/O; all other operations
// are synchronous in-memory mutations. Concurrent mutation from multiple
// goroutines without external synchronization is undefined behavior.
package repo
