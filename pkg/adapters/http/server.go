package http

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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxInputBytes bounds the request body of POST /check.
const MaxInputBytes = 1 << 20

// Automaton is the read side of a built automaton that the server evaluates.
type Automaton interface {
	CheckContext(ctx context.Context, input string) domain.Result
	Snapshot() domain.Table
}

// Server serves one automaton over HTTP.
type Server struct {
	Automaton Automaton
	// Store keeps run records. Nil disables GET /runs and persistence.
	Store    ports.RunStore
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Tracer   trace.Tracer
	// MaxInputSize caps one input in bytes. Zero uses input.MaxInputSize.
	MaxInputSize int
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists every evaluation as a domain.Run.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithGatherer exposes the gatherer on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithMaxInputSize caps the byte length of checked inputs.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.MaxInputSize = n
	}
}

// WithTracer sets the tracer that opens one span per POST /check.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.Tracer = tracer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the automaton.
func NewHandler(a Automaton, opts ...Option) http.Handler {
	server := &Server{
		Automaton: a,
		Streams:   NewStreamManager(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:    observability.Tracer(),
	}
	for _, opt := range opts {
		opt(server)
	}
	return server.Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/check", s.Check)
	r.Get("/table", s.GetTable)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
	})

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckRequest is the body of POST /check.
type CheckRequest struct {
	Input string `json:"input"`
}

// Check handles the POST /check request.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	var body CheckRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxInputBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Check: Invalid request body", "error", err)
		return
	}
	if err := input.Validate(body.Input, s.MaxInputSize); err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Check: Input rejected", "error", err, "size", len(body.Input))
		return
	}

	table := s.Automaton.Snapshot()
	ctx, span := observability.StartCheck(r.Context(), s.Tracer, table.Name)
	run := &domain.Run{
		ID:        uuid.NewString(),
		Automaton: table.Name,
		Input:     body.Input,
		Result:    s.Automaton.CheckContext(ctx, body.Input),
		CreatedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("delta.run_id", run.ID))
	span.End()

	if s.Store != nil {
		if err := s.Store.Save(r.Context(), run); err != nil {
			http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
			s.Logger.Error("Check: save failed", "error", err, "run_id", run.ID)
			return
		}
	}

	if bytes, err := json.Marshal(run); err == nil {
		s.Streams.Broadcast(string(bytes))
	}

	writeJSON(w, s.Logger, http.StatusOK, run)
}

// GetTable handles the GET /table request.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, s.Automaton.Snapshot())
}

// GetGraph handles the GET /graph request. With ?input=... the path of that
// run is highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	table := s.Automaton.Snapshot()

	var overlay *graph.GraphOverlay
	if q := r.URL.Query(); q.Has("input") {
		if err := input.Validate(q.Get("input"), s.MaxInputSize); err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			return
		}
		res := s.Automaton.CheckContext(r.Context(), q.Get("input"))
		overlay = graph.OverlayFromResult(table, res)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(table, overlay))
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.Logger, http.StatusOK, ids)
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	run, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("GetRun failed", "error", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, run)
}

// DeleteRun handles the DELETE /runs/{id} request.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("DeleteRun failed", "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":       "delta-http",
		"version":   strings.TrimSpace(delta.Version),
		"automaton": s.Automaton.Snapshot().Name,
	})
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "Run store disabled", http.StatusNotImplemented)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
