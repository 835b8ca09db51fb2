package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwork/drift"
)

var (
	listJSON       bool
	listAssets     bool
	filterCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents (or assets) in the workspace",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx, drift.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open workspace", err)
		}

		if listAssets {
			listAssetSummaries(ws)
			return
		}

		keys := ws.Documents.Keys()
		if listJSON {
			docs := make([]drift.Document, 0, len(keys))
			for _, key := range keys {
				if doc, ok := ws.Documents.TryGet(key); ok {
					docs = append(docs, doc)
				}
			}
			printJSON(docs)
			return
		}

		for _, key := range keys {
			title := ""
			if doc, ok := ws.Documents.TryGet(key); ok {
				if t, ok := doc["title"].(string); ok {
					title = fmt.Sprintf("- %s", t)
				}
			}
			fmt.Printf("%s %s\n", key, title)
		}
	},
}

func listAssetSummaries(ws *drift.Workspace) {
	summaries := ws.Assets.Find(func(s drift.AssetSummary) bool {
		return filterCategory == "" || s.Metadata.Category == filterCategory
	})

	if listJSON {
		printJSON(summaries)
		return
	}
	for _, s := range summaries {
		fmt.Printf("%s %s (%s)\n", s.ID, s.Path, s.Metadata.Name)
	}
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Failed to encode JSON", err)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listAssets, "assets", false, "List assets instead of documents")
	listCmd.Flags().StringVar(&filterCategory, "category", "", "Filter assets by category")
}
