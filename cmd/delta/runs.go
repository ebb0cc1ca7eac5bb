package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/internal/presentation/tui"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored runs",
	Long: `List, show and remove run records kept by the configured store. Only the
redis store outlives a single process.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored run IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		ids, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if cfg.Output != config.OutputText {
			return encode(out, cfg.Output, ids)
		}
		if len(ids) == 0 {
			fmt.Fprintln(out, "No stored runs found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the trace of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		run, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load run '%s': %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if cfg.Output != config.OutputText {
			return encode(out, cfg.Output, run)
		}
		fmt.Fprintf(out, "%s  %s  %q  %s\n", run.ID, run.Automaton, run.Input, run.CreatedAt.Format("2006-01-02 15:04:05"))
		return tui.NewPrinter(out, colorProfile(cfg.Color, out)).PrintResult(run.Result)
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		var errs []error
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed run '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func requireStore(cmd *cobra.Command) (ports.RunStore, func() error, error) {
	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, errors.New("no run store configured (use --store or the store config key)")
	}
	return store, closeStore, nil
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRmCmd)
}
