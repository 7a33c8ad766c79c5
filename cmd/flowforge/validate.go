package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/internal/validator"
	"github.com/aretw0/flowforge/pkg/blocks"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check the graph for consistency",
	Long: `Loads the graph definition, reports every structural problem (duplicate ids, unknown block
types, dangling lines), then assembles and resolves it. Blocks no entry can reach are reported
as warnings.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Graph is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	loader, err := flowforge.OpenLoader(graphPath(cmd, args))
	if err != nil {
		return err
	}

	def, err := loader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	if err := validator.ValidateGraph(def, blocks.NewBuilder().SupportedBlockTypeIDs()); err != nil {
		return err
	}

	// Assembly also checks block parameters and runs the resolution.
	if _, err := openFlow(cmd, args, flowforge.WithLoader(loader)); err != nil {
		return err
	}

	if unreachable := validator.Unreachable(def); len(unreachable) > 0 {
		fmt.Printf("Warning: blocks unreachable from any entry: %s\n", strings.Join(unreachable, ", "))
	}
	return nil
}
