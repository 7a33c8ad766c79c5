package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/flowforge/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [path]",
	Short: "Expose the flow as MCP tools",
	Long: `Starts a Model Context Protocol server whose tools list, step and control the blocks of
the flow. Uses stdio by default, or SSE with --transport sse.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		logger, err := newLogger(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		flow, err := openFlow(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing flowforge: %v\n", err)
			os.Exit(1)
		}

		srv := mcp.NewServer(flow, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			err = srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = srv.ServeSSE(ctx, port)
		default:
			err = fmt.Errorf("unknown transport %q (use stdio or sse)", transport)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port for the SSE transport")
}
