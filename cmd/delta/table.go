package main

import (
	"fmt"

	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the transition table",
	Long: `Prints the transition table of the automaton. On a terminal the table is
rendered with glamour; when piped the raw Markdown is written instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildAutomaton(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cfg.Output != config.OutputText {
			return encode(out, cfg.Output, a.Snapshot())
		}

		var render func(string) (string, error)
		if isTerminal(out) && cfg.Color != "never" {
			if render, err = tui.NewRenderer(); err != nil {
				return err
			}
		}

		rendered, err := tui.RenderTable(a.Snapshot(), render)
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
}
