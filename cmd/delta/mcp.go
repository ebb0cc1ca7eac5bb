package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpAdapter "github.com/aretw0/delta/pkg/adapters/mcp"
	"github.com/aretw0/delta/pkg/observability"
	"github.com/spf13/cobra"
)

const (
	transportStdio = "stdio"
	transportSSE   = "sse"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the automaton as an MCP server with the tools check, table and
graph and the resource delta://table.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if transport != transportStdio && transport != transportSSE {
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
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

		opts := []mcpAdapter.Option{
			mcpAdapter.WithLogger(logger),
			mcpAdapter.WithTracer(observability.Tracer()),
			mcpAdapter.WithMaxInputSize(cfg.MaxInputSize),
		}
		if store != nil {
			opts = append(opts, mcpAdapter.WithStore(store))
		}
		srv := mcpAdapter.NewServer(a, opts...)

		switch transport {
		case transportSSE:
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting delta MCP server (SSE)", "port", port, "automaton", a.Name)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			// Keep stray log output off the JSON-RPC stream on stdout.
			log.SetOutput(os.Stderr)
			logger.Info("Starting delta MCP server (stdio)", "automaton", a.Name)
			return srv.ServeStdio()
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", transportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
