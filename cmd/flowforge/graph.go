package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Export the flow graph visualization",
	Long:  `Assembles the graph and outputs a Mermaid diagram (graph TD) of its blocks and lines.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flow, err := openFlow(cmd, args)
		if err != nil {
			fmt.Printf("Error initializing flowforge: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(flow.Mermaid())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
