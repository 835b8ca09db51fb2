package drift_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/driftwork/drift"
)

// Example_basic demonstrates opening a workspace, staging a document, and
// committing it in one save.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "drift-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()

	// WithAutoInit(true) creates the workspace layout on first open.
	ws, err := drift.Open(ctx, tmpDir, drift.WithAutoInit(true))
	if err != nil {
		log.Fatal(err)
	}

	// 1. Stage a document. It lives only in memory for now.
	err = ws.Documents.Add(drift.Document{"id": "hello", "title": "Hello"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("pending:", ws.HasChanges())

	// 2. Commit everything in one save.
	if err := ws.SaveAll(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("pending:", ws.HasChanges())

	// 3. Read it back.
	doc, err := ws.Documents.Get("hello")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("title:", doc["title"])

	// Output:
	// pending: true
	// pending: false
	// title: Hello
}

// Example_revert demonstrates rolling staged edits back to the baseline.
func Example_revert() {
	tmpDir, err := os.MkdirTemp("", "drift-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	ws, err := drift.Open(ctx, tmpDir, drift.WithAutoInit(true))
	if err != nil {
		log.Fatal(err)
	}

	if err := ws.Documents.Add(drift.Document{"id": "note", "title": "First"}); err != nil {
		log.Fatal(err)
	}
	if err := ws.SaveAll(ctx); err != nil {
		log.Fatal(err)
	}

	// Stage an edit, observe the state, then throw it away.
	err = ws.Documents.Update("note", drift.Document{"id": "note", "title": "Second"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("state:", ws.Documents.State("note"))

	if err := ws.RevertAll(); err != nil {
		log.Fatal(err)
	}
	doc, err := ws.Documents.Get("note")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("title:", doc["title"])

	// Output:
	// state: modified
	// title: First
}
