package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/internal/presentation/tui"
	"github.com/aretw0/flowforge/pkg/adapters/file"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statusCmd = &cobra.Command{
	Use:   "status [block-id]...",
	Short: "Render the state of every block as a table",
	Long: `Assembles the graph, steps the named blocks in order (if any) and renders a table of
blocks and lines. On a terminal the table is styled; pass --plain for raw markdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
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

		for _, id := range args {
			if err := flow.Step(cmd.Context(), id); err != nil {
				fmt.Fprintf(os.Stderr, "step %s: %v\n", id, err)
			}
		}

		snap := flow.Snapshot()
		md := tui.StatusMarkdown(snap)

		fd := int(os.Stdout.Fd())
		if plain || !term.IsTerminal(fd) {
			fmt.Print(md)
			fmt.Println(tui.Summary(termenv.Ascii, snap))
			return
		}

		width, _, err := term.GetSize(fd)
		if err != nil || width <= 0 {
			width = 80
		}
		profile := termenv.NewOutput(os.Stdout).ColorProfile()
		render, err := tui.NewRenderer(profile, width)
		if err != nil {
			fmt.Print(md)
			return
		}
		out, err := render(md)
		if err != nil {
			fmt.Print(md)
			return
		}
		fmt.Print(out)
		fmt.Println(tui.Summary(profile, snap))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
	statusCmd.Flags().String("context-file", "", "Keep the context store in this JSON file across runs")
}
