package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/driftwork/drift"
)

var setFromFile string

var setCmd = &cobra.Command{
	Use:   "set <id> [field=value ...]",
	Short: "Create or update a document",
	Long: `Set fields on a document and save. Values are parsed as YAML scalars,
so numbers and booleans keep their type. With --from-file the document is
replaced by the file's contents instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			fatal("Failed to open workspace", err)
		}

		doc, err := candidateDocument(ws, id, args[1:])
		if err != nil {
			fatal("Failed to build document", err)
		}

		if _, exists := ws.Documents.TryGet(id); exists {
			err = ws.Documents.Update(id, doc)
		} else {
			err = ws.Documents.Add(doc)
		}
		if err != nil {
			fatal(fmt.Sprintf("Failed to stage document '%s'", id), err)
		}

		if err := ws.SaveAll(ctx); err != nil {
			fatal("Failed to save workspace", err)
		}
		fmt.Printf("Document '%s' saved.\n", id)
	},
}

// candidateDocument builds the new document value: either the --from-file
// contents or the current document with the field assignments applied.
func candidateDocument(ws *drift.Workspace, id string, fields []string) (drift.Document, error) {
	if setFromFile != "" {
		data, err := os.ReadFile(setFromFile)
		if err != nil {
			return nil, err
		}
		var doc drift.Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid document file: %w", err)
		}
		if doc == nil {
			doc = drift.Document{}
		}
		doc["id"] = id
		return doc, nil
	}

	doc, ok := ws.Documents.TryGet(id)
	if !ok {
		doc = drift.Document{"id": id}
	}

	for _, field := range fields {
		name, raw, found := strings.Cut(field, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid field assignment %q, want name=value", field)
		}
		if name == "id" {
			return nil, errors.New("the id field cannot be reassigned")
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		doc[name] = value
	}
	return doc, nil
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setFromFile, "from-file", "", "Replace the document with this YAML file")
}
