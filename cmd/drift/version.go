package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driftwork/drift"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drift",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("drift version %s\n", strings.TrimSpace(drift.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
