package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine is the part of a flowforge.Flow the HTTP adapter drives.
type Engine interface {
	Snapshot() flowforge.Snapshot
	BlockSnapshot(id string) (flowforge.BlockSnapshot, bool)
	Step(ctx context.Context, id string) error
	Stop(id string) error
	Abort(id string) error
	Ready(id string) error
	Reset(id string) error
	Mermaid() string
}

var _ Engine = (*flowforge.Flow)(nil)

// Server serves inspection and manual control of one flow.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStreams enables GET /events on the given manager. The manager must also be registered
// as a listener of the flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithGatherer exposes the series of g at GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return enableCORS(s.Router())
}

// Router registers the routes of the server, without CORS handling.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/swagger", s.GetSwagger)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/blocks", s.ListBlocks)
	r.Get("/blocks/{id}", s.GetBlock)
	r.Post("/blocks/{id}/{action}", s.PostAction)
	r.Get("/lines", s.ListLines)
	r.Get("/graph", s.GetGraph)
	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", observability.Handler(s.gatherer))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, flowforge.ErrUnknownBlock):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConfigurationMismatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "flowforge-http",
		"version": strings.TrimSpace(flowforge.Version),
		"graph":   s.Engine.Snapshot().Name,
	})
}

// ListBlocks handles GET /blocks.
func (s *Server) ListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks := s.Engine.Snapshot().Blocks
	if blocks == nil {
		blocks = []flowforge.BlockSnapshot{}
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

// GetBlock handles GET /blocks/{id}.
func (s *Server) GetBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, ok := s.Engine.BlockSnapshot(id)
	if !ok {
		s.writeError(w, fmt.Errorf("%w: %q", flowforge.ErrUnknownBlock, id))
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

// PostAction handles POST /blocks/{id}/{action} and answers with the block after the action.
func (s *Server) PostAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")

	var err error
	switch action {
	case "step":
		err = s.Engine.Step(r.Context(), id)
	case "stop":
		err = s.Engine.Stop(id)
	case "abort":
		err = s.Engine.Abort(id)
	case "ready":
		err = s.Engine.Ready(id)
	case "reset":
		err = s.Engine.Reset(id)
	default:
		s.writeError(w, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidArgument, action))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("block action", "block_id", id, "action", action)
	b, _ := s.Engine.BlockSnapshot(id)
	s.writeJSON(w, http.StatusOK, b)
}

// ListLines handles GET /lines.
func (s *Server) ListLines(w http.ResponseWriter, r *http.Request) {
	lines := s.Engine.Snapshot().Lines
	if lines == nil {
		lines = []flowforge.LineSnapshot{}
	}
	s.writeJSON(w, http.StatusOK, lines)
}

// GetGraph handles GET /graph with the Mermaid rendering of the flow.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(s.Engine.Mermaid())); err != nil {
		s.logger.Error("graph write failed", "err", err)
	}
}
