package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftwork/drift"
	"gopkg.in/yaml.v3"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx, drift.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open workspace", err)
		}

		doc, err := ws.Documents.Get(args[0])
		if err != nil {
			fatal(fmt.Sprintf("Failed to get document '%s'", args[0]), err)
		}

		if getJSON {
			printJSON(doc)
			return
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			fatal("Failed to encode document", err)
		}
		fmt.Print(string(out))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
}
