package main

import (
	"fmt"

	"github.com/aretw0/delta/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the automaton as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the automaton. With --input the states
visited by that run are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildAutomaton(cmd)
		if err != nil {
			return err
		}
		table := a.Snapshot()

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			overlay = graph.OverlayFromResult(table, a.CheckContext(cmd.Context(), input))
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(table, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("input", "", "Highlight the run of this input")
}
