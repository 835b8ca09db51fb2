package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			fatal("Failed to open workspace", err)
		}

		if err := ws.Documents.Remove(args[0]); err != nil {
			fatal(fmt.Sprintf("Failed to remove document '%s'", args[0]), err)
		}
		if err := ws.SaveAll(ctx); err != nil {
			fatal("Failed to save workspace", err)
		}
		fmt.Printf("Document '%s' removed.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
