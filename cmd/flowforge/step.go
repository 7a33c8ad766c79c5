package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step <block-id>...",
	Short: "Step blocks in the given order and print the resulting snapshot",
	Long: `Assembles the graph with in-memory stores (or a JSON context file), invokes each named block once, in order, and
prints the snapshot of every block and line as JSON. Without ids every block is stepped in
definition order.`,
	Run: func(cmd *cobra.Command, args []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		contextFile, _ := cmd.Flags().GetString("context-file")

		var opts []flowforge.Option
		if contextFile != "" {
			opts = append(opts, flowforge.WithStore(file.NewStore(contextFile)))
		}

		flow, err := openFlow(cmd, nil, opts...)
		if err != nil {
			fmt.Printf("Error initializing flowforge: %v\n", err)
			os.Exit(1)
		}

		ids := args
		if len(ids) == 0 {
			for _, b := range flow.Graph().Blocks() {
				ids = append(ids, b.ID())
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		failed := false
		for _, id := range ids {
			if err := flow.Step(ctx, id); err != nil {
				fmt.Fprintf(os.Stderr, "step %s: %v\n", id, err)
				failed = true
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(flow.Snapshot()); err != nil {
			fmt.Printf("Error encoding snapshot: %v\n", err)
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)
	stepCmd.Flags().Duration("timeout", 30*time.Second, "Deadline for all steps")
	stepCmd.Flags().String("context-file", "", "Keep the context store in this JSON file across runs")
}
