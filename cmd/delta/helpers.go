package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/internal/config"
	"github.com/aretw0/delta/internal/demo"
	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/adapters/redis"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/observability"
	"github.com/aretw0/delta/pkg/persistence/middleware"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// catalog holds the automata selectable with --automaton.
var catalog = demo.Catalog()

// buildAutomaton builds the automaton selected with --automaton. Step and
// verdict events are logged at debug level, extra hooks run after that.
func buildAutomaton(cmd *cobra.Command, extra ...domain.LifecycleHooks) (*delta.Automaton, error) {
	name, _ := cmd.Flags().GetString("automaton")

	hooks := append([]domain.LifecycleHooks{
		observability.LoggingHooks(logger),
		observability.TracingHooks(),
	}, extra...)
	return catalog.Build(name,
		delta.WithLogger(logger),
		delta.WithLifecycleHooks(observability.Chain(hooks...)),
	)
}

// openStore returns the configured run store, or nil when runs are not kept.
// The returned func releases the backend.
func openStore(ctx context.Context, c config.Config) (ports.RunStore, func() error, error) {
	noop := func() error { return nil }

	var (
		store     ports.RunStore
		closeFunc = noop
	)
	switch c.Store {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreRedis:
		rs := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redis.WithPrefix(c.Redis.Prefix),
			redis.WithTTL(c.Redis.TTL),
		)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", c.Redis.Addr, err)
		}
		store, closeFunc = rs, rs.Close
	default:
		return nil, noop, nil
	}

	// Redaction runs before encryption so masked symbols are what gets sealed.
	var mws []middleware.Middleware
	if c.Redact != "" {
		redact, err := middleware.NewRedactMiddleware(c.Redact)
		if err != nil {
			closeFunc()
			return nil, noop, err
		}
		mws = append(mws, redact)
	}
	if c.Encryption.Enabled() {
		active, fallback, err := c.Encryption.Keys()
		if err != nil {
			closeFunc()
			return nil, noop, err
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			closeFunc()
			return nil, noop, err
		}
		mws = append(mws, encrypt)
	}
	return middleware.Wrap(store, mws...), closeFunc, nil
}

// setupTracing installs the stdout span exporter when tracing is on. The
// returned func flushes pending spans.
func setupTracing(w io.Writer, c config.Config) (func(), error) {
	if !c.Trace {
		return func() {}, nil
	}
	tp, err := observability.NewStdoutTracerProvider(w)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to flush spans", "error", err)
		}
	}, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile resolves the colour mode against the writer.
func colorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.ANSI256
	default:
		if !isTerminal(w) {
			return termenv.Ascii
		}
		return termenv.EnvColorProfile()
	}
}

// encode writes v in the structured output format.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
