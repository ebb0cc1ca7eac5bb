package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/internal/input"
	"github.com/aretw0/delta/internal/presentation/graph"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/observability"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TableURI is the resource holding the transition table snapshot.
const TableURI = "delta://table"

// Automaton is the read side of a built automaton exposed as MCP tools.
type Automaton interface {
	CheckContext(ctx context.Context, input string) domain.Result
	Snapshot() domain.Table
}

// CheckArgs are the arguments of the check tool.
type CheckArgs struct {
	Input string `json:"input"`
}

// GraphArgs are the arguments of the graph tool.
type GraphArgs struct {
	Input *string `json:"input,omitempty"`
}

// GraphResponse carries the Mermaid flowchart of the automaton.
type GraphResponse struct {
	Mermaid string `json:"mermaid" jsonschema_description:"Mermaid flowchart source"`
}

// Server wraps an Automaton and exposes it as an MCP server.
type Server struct {
	automaton    Automaton
	store        ports.RunStore
	tracer       trace.Tracer
	logger       *slog.Logger
	maxInputSize int
	mcpServer    *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists every check as a domain.Run.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithTracer sets the tracer that opens one span per check.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize caps the byte length of checked inputs.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInputSize = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(a Automaton, opts ...Option) *Server {
	s := &Server{
		automaton: a,
		tracer:    observability.Tracer(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("delta-mcp", strings.TrimSpace(delta.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	r.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: check
	s.mcpServer.AddTool(mcp.NewTool("check",
		mcp.WithDescription("Run the automaton over an input string and return the verdict with the step-by-step trace."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string, one symbol per character")),
	), mcp.NewStructuredToolHandler(s.handleCheck))

	// TOOL: table
	s.mcpServer.AddTool(mcp.NewTool("table",
		mcp.WithDescription("Get the transition table of the automaton."),
	), mcp.NewStructuredToolHandler(s.handleTable))

	// TOOL: graph
	s.mcpServer.AddTool(mcp.NewTool("graph",
		mcp.WithDescription("Get the automaton as a Mermaid flowchart. With input, the path of that run is highlighted."),
		mcp.WithString("input", mcp.Description("Input whose run is highlighted (optional)")),
		mcp.WithOutputSchema[GraphResponse](),
	), mcp.NewStructuredToolHandler(s.handleGraph))
}

func (s *Server) handleCheck(ctx context.Context, _ mcp.CallToolRequest, args CheckArgs) (domain.Run, error) {
	if err := input.Validate(args.Input, s.maxInputSize); err != nil {
		s.logger.Warn("MCP Check: Input rejected", "error", err, "size", len(args.Input))
		return domain.Run{}, fmt.Errorf("input rejected: %w", err)
	}

	name := s.automaton.Snapshot().Name
	spanCtx, span := observability.StartCheck(ctx, s.tracer, name)
	run := domain.Run{
		ID:        uuid.NewString(),
		Automaton: name,
		Input:     args.Input,
		Result:    s.automaton.CheckContext(spanCtx, args.Input),
		CreatedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("delta.run_id", run.ID))
	span.End()

	if s.store != nil {
		if err := s.store.Save(ctx, &run); err != nil {
			s.logger.Error("MCP Check: save failed", "error", err, "run_id", run.ID)
			return domain.Run{}, fmt.Errorf("save failed: %w", err)
		}
	}
	return run, nil
}

func (s *Server) handleTable(_ context.Context, _ mcp.CallToolRequest, _ struct{}) (domain.Table, error) {
	return s.automaton.Snapshot(), nil
}

func (s *Server) handleGraph(ctx context.Context, _ mcp.CallToolRequest, args GraphArgs) (GraphResponse, error) {
	table := s.automaton.Snapshot()

	var overlay *graph.GraphOverlay
	if args.Input != nil {
		if err := input.Validate(*args.Input, s.maxInputSize); err != nil {
			return GraphResponse{}, fmt.Errorf("input rejected: %w", err)
		}
		overlay = graph.OverlayFromResult(table, s.automaton.CheckContext(ctx, *args.Input))
	}
	return GraphResponse{Mermaid: graph.GenerateMermaid(table, overlay)}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: delta://table
	s.mcpServer.AddResource(mcp.NewResource(TableURI, "Transition Table",
		mcp.WithMIMEType("application/json"),
	), s.readTable)
}

func (s *Server) readTable(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.automaton.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode table: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TableURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
