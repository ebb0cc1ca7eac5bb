package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/internal/demo"
	"github.com/aretw0/delta/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.Default()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "delta",
	Short: "delta builds and runs table-driven finite automata",
	Long: `delta evaluates inputs against deterministic finite automata described by
a transition table, printing the step-by-step trace of every run.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.StringP("output", "o", "", "Output format (text, json, yaml)")
	flags.String("color", "", "Colour mode (auto, always, never)")
	flags.String("store", "", "Run store (none, memory, redis)")
	flags.String("redis-addr", "", "Redis address for the redis run store")
	flags.StringP("automaton", "a", demo.AB1Name, "Automaton to use")
	flags.Bool("trace", false, "Print an OpenTelemetry span per evaluation to stderr")
}

// flagOverrides maps command line flags onto config keys. Only flags the
// user actually set take part, so the config file keeps its values.
var flagOverrides = map[string]string{
	"log-level":  "log_level",
	"output":     "output",
	"color":      "color",
	"store":      "store",
	"redis-addr": "redis.addr",
	"trace":      "trace",
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	overrides := make(map[string]any)
	for flag, key := range flagOverrides {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path, overrides)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(loaded.LogLevel)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(level)
	slog.SetDefault(logger)
	return nil
}
