// Package drift is the composition root for the drift library.
//
// Drift provides change-tracking repositories: every record keeps an
// immutable baseline next to an editable working copy, and the repository
// knows at all times whether anything differs between the two. Edits
// accumulate in memory with per-record change states (added, modified,
// deleted) and per-property dirty tracking, then either commit to the backing
// store in one save or roll back to the baseline in one revert.
//
// Three repository shapes cover the common storage patterns:
//
//   - Single: one record (settings, project manifest).
//   - Table: a keyed collection with soft deletes until save.
//   - Assets: GUID-identified file payloads, loaded lazily from a
//     summary-only index.
//
// Storage is pluggable. The built-in backends persist to plain files
// (YAML or JSON), SQLite, or memory, and a workspace wires the three
// repositories over a directory layout:
//
//	ws, err := drift.Open(ctx, "./project",
//		drift.WithAutoInit(true),
//		drift.WithLogger(logger),
//	)
//
//	doc := drift.Document{"id": "intro", "title": "Intro"}
//	_ = ws.Documents.Add(doc)
//	err = ws.SaveAll(ctx)
//
// Read-only mode opens the same layout behind the same interfaces but fails
// every mutation with ErrReadOnly, so runtime consumers and editors can share
// code paths.
package drift
