package main

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/delta/internal/config"
	sanitize "github.com/aretw0/delta/internal/input"
	"github.com/aretw0/delta/internal/presentation/tui"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// errRejected makes the process exit non-zero when any input is rejected.
var errRejected = errors.New("input rejected")

var checkCmd = &cobra.Command{
	Use:   "check [input]...",
	Short: "Run inputs through the automaton",
	Long: `Evaluates each input and prints its trace and verdict. Without arguments the
inputs are read from stdin, one per line. The exit status is 1 when any input
is rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := args
		if len(inputs) == 0 {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				inputs = append(inputs, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
		}

		a, err := buildAutomaton(cmd)
		if err != nil {
			return err
		}

		store, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		flush, err := setupTracing(cmd.ErrOrStderr(), cfg)
		if err != nil {
			return err
		}
		defer flush()

		out := cmd.OutOrStdout()
		printer := tui.NewPrinter(out, colorProfile(cfg.Color, out))
		rejected := 0

		for _, input := range inputs {
			if err := sanitize.Validate(input, cfg.MaxInputSize); err != nil {
				return fmt.Errorf("input %q: %w", truncate(input, 32), err)
			}
			ctx, span := observability.StartCheck(cmd.Context(), observability.Tracer(), a.Name)
			run := &domain.Run{
				ID:        uuid.NewString(),
				Automaton: a.Name,
				Input:     input,
				Result:    a.CheckContext(ctx, input),
				CreatedAt: time.Now().UTC(),
			}
			span.End()
			if !run.Result.Accepted() {
				rejected++
			}

			if store != nil {
				if err := store.Save(cmd.Context(), run); err != nil {
					return err
				}
				logger.Debug("run saved", "run_id", run.ID)
			}

			switch cfg.Output {
			case config.OutputText:
				if len(inputs) > 1 {
					fmt.Fprintf(out, "== %q\n", input)
				}
				if err := printer.PrintResult(run.Result); err != nil {
					return err
				}
			default:
				if err := encode(out, cfg.Output, run); err != nil {
					return err
				}
			}
		}

		if rejected > 0 {
			return fmt.Errorf("%w: %d of %d", errRejected, rejected, len(inputs))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
