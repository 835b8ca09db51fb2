package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/driftwork/drift"
)

var diffCmd = &cobra.Command{
	Use:   "diff <id> <file>",
	Short: "Show what would change if a document were replaced by a file",
	Long: `Compare the stored document against a candidate YAML file without
staging anything. Useful to preview a set --from-file.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, file := args[0], args[1]
		ctx := context.Background()
		ws, err := openWorkspace(ctx, drift.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open workspace", err)
		}

		current := ""
		if doc, ok := ws.Documents.TryGet(id); ok {
			out, err := yaml.Marshal(doc)
			if err != nil {
				fatal("Failed to encode document", err)
			}
			current = string(out)
		}

		data, err := os.ReadFile(file)
		if err != nil {
			fatal("Failed to read candidate file", err)
		}
		// Round-trip through the document type so formatting differences
		// (key order, indentation) do not show up as changes.
		var candidate drift.Document
		if err := yaml.Unmarshal(data, &candidate); err != nil {
			fatal("Invalid candidate file", err)
		}
		if candidate == nil {
			candidate = drift.Document{}
		}
		candidate["id"] = id
		normalized, err := yaml.Marshal(candidate)
		if err != nil {
			fatal("Failed to encode candidate", err)
		}

		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(current, string(normalized), false)
		if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
			fmt.Println("No changes.")
			return
		}
		fmt.Print(dmp.DiffPrettyText(diffs))
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
