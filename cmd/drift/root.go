package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftwork/drift"
	"github.com/driftwork/drift/pkg/adapters/fs"
)

var (
	verbose       bool
	workspacePath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drift",
	Short: "A change-tracking document and asset store on plain files",
	Long: `Drift keeps a baseline and a working copy for every record.
Edits accumulate in memory and land on disk in a single save, or roll
back to the baseline in a single revert. The CLI operates on a workspace
directory holding a config record, a document table, and an asset store.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose || viper.GetBool("verbose") {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspacePath, "path", "p", "", "Workspace path (default: found from cwd)")
}

// initConfig loads optional defaults from a drift.yaml in the workspace (or
// cwd) and DRIFT_* environment variables. Known keys: format, verbose.
func initConfig() {
	viper.SetConfigName("drift")
	viper.SetConfigType("yaml")
	if workspacePath != "" {
		viper.AddConfigPath(workspacePath)
	}
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("DRIFT")
	viper.AutomaticEnv()

	// Absent config file is fine; any other error is worth surfacing.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: could not read drift.yaml: %v\n", err)
		}
	}
}

// resolvePath returns the workspace root: the --path flag if given, otherwise
// the nearest root above the working directory.
func resolvePath() (string, error) {
	if workspacePath != "" {
		return workspacePath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := drift.FindRoot(wd)
	if err != nil {
		// Fall back to cwd so commands like init still work.
		return wd, nil
	}
	return root, nil
}

func configuredFormat() fs.Format {
	if viper.GetString("format") == "json" {
		return fs.JSON{}
	}
	return fs.YAML{}
}

// openWorkspace opens the workspace for the current invocation.
func openWorkspace(ctx context.Context, extra ...drift.Option) (*drift.Workspace, error) {
	path, err := resolvePath()
	if err != nil {
		return nil, err
	}

	opts := []drift.Option{
		drift.WithLogger(slog.Default()),
		drift.WithFormat(configuredFormat()),
		drift.WithMustExist(true),
	}
	opts = append(opts, extra...)
	return drift.Open(ctx, path, opts...)
}
