package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowforge",
	Short: "Flowforge assembles and drives graphs of processing blocks",
	Long: `Flowforge loads a graph of blocks and lines from a YAML/JSON file or a directory of
Markdown documents, resolves it and lets you inspect and step it by hand or over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "flowforge.yaml", "Graph file (.yaml, .yml, .json) or document directory")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

// graphPath prefers a positional argument over --file.
func graphPath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		path = args[0]
	}
	return path
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// openFlow builds the flow named on the command line with the shared logger.
func openFlow(cmd *cobra.Command, args []string, opts ...flowforge.Option) (*flowforge.Flow, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	opts = append([]flowforge.Option{flowforge.WithLogger(logger)}, opts...)
	return flowforge.NewContext(cmd.Context(), graphPath(cmd, args), opts...)
}
