package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwork/drift"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a workspace",
	Long:  `Create the workspace layout (marker, documents and assets directories).`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := workspacePath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			wd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			path = wd
		}

		ws, err := drift.Open(context.Background(), path,
			drift.WithLogger(slog.Default()),
			drift.WithFormat(configuredFormat()),
			drift.WithAutoInit(true),
		)
		if err != nil {
			fatal("Failed to initialize workspace", err)
		}

		fmt.Printf("Initialized workspace at %s\n", ws.Path())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
