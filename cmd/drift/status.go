package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/driftwork/drift"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace state",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx, drift.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open workspace", err)
		}

		printJSON(ws.State())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
