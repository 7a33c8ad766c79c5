package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/internal/logging"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the current snapshot of the flow.
const GraphURI = "flowforge://graph"

// Engine is the part of a flowforge.Flow exposed as MCP tools.
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

// BlockArgs addresses one block.
type BlockArgs struct {
	BlockID string `json:"block_id"`
}

// ControlArgs applies a manual control to one block.
type ControlArgs struct {
	BlockID string `json:"block_id"`
	Action  string `json:"action"`
}

// BlocksResponse lists every block of the flow.
type BlocksResponse struct {
	Name   string                    `json:"name" jsonschema_description:"Name of the flow"`
	Blocks []flowforge.BlockSnapshot `json:"blocks" jsonschema_description:"Every block in definition order"`
}

// Server exposes a flow as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer registers the flow tools and the graph resource on a new MCP server.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("flowforge-mcp", strings.TrimSpace(flowforge.Version), server.WithToolCapabilities(false)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio serves on stdin and stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port using SSE until ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List every block of the flow with its state, input and result."),
		mcp.WithOutputSchema[BlocksResponse](),
	), mcp.NewStructuredToolHandler(s.handleListBlocks))

	s.mcpServer.AddTool(mcp.NewTool("get_block",
		mcp.WithDescription("Get one block by id."),
		mcp.WithString("block_id", mcp.Required(), mcp.Description("The block id")),
		mcp.WithOutputSchema[flowforge.BlockSnapshot](),
	), mcp.NewStructuredToolHandler(s.handleGetBlock))

	s.mcpServer.AddTool(mcp.NewTool("step_block",
		mcp.WithDescription("Invoke one block: read its incoming lines, run it and propagate its result."),
		mcp.WithString("block_id", mcp.Required(), mcp.Description("The block id")),
		mcp.WithOutputSchema[flowforge.BlockSnapshot](),
	), mcp.NewStructuredToolHandler(s.handleStep))

	s.mcpServer.AddTool(mcp.NewTool("control_block",
		mcp.WithDescription("Apply a manual control to a block."),
		mcp.WithString("block_id", mcp.Required(), mcp.Description("The block id")),
		mcp.WithString("action", mcp.Required(), mcp.Enum("stop", "abort", "ready", "reset")),
		mcp.WithOutputSchema[flowforge.BlockSnapshot](),
	), mcp.NewStructuredToolHandler(s.handleControl))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the Mermaid rendering of the flow with live states."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(s.engine.Mermaid()), nil
	})
}

func (s *Server) handleListBlocks(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (BlocksResponse, error) {
	snap := s.engine.Snapshot()
	blocks := snap.Blocks
	if blocks == nil {
		blocks = []flowforge.BlockSnapshot{}
	}
	return BlocksResponse{Name: snap.Name, Blocks: blocks}, nil
}

func (s *Server) handleGetBlock(ctx context.Context, request mcp.CallToolRequest, args BlockArgs) (flowforge.BlockSnapshot, error) {
	b, ok := s.engine.BlockSnapshot(args.BlockID)
	if !ok {
		return flowforge.BlockSnapshot{}, fmt.Errorf("%w: %q", flowforge.ErrUnknownBlock, args.BlockID)
	}
	return b, nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args BlockArgs) (flowforge.BlockSnapshot, error) {
	if err := s.engine.Step(ctx, args.BlockID); err != nil {
		if !errors.Is(err, flowforge.ErrUnknownBlock) {
			s.logger.Error("MCP step failed", "block_id", args.BlockID, "err", err)
		}
		return flowforge.BlockSnapshot{}, err
	}
	return s.handleGetBlock(ctx, request, args)
}

func (s *Server) handleControl(ctx context.Context, request mcp.CallToolRequest, args ControlArgs) (flowforge.BlockSnapshot, error) {
	var err error
	switch args.Action {
	case "stop":
		err = s.engine.Stop(args.BlockID)
	case "abort":
		err = s.engine.Abort(args.BlockID)
	case "ready":
		err = s.engine.Ready(args.BlockID)
	case "reset":
		err = s.engine.Reset(args.BlockID)
	default:
		err = fmt.Errorf("%w: unknown action %q", domain.ErrInvalidArgument, args.Action)
	}
	if err != nil {
		return flowforge.BlockSnapshot{}, err
	}
	s.logger.Info("MCP block control", "block_id", args.BlockID, "action", args.Action)
	return s.handleGetBlock(ctx, request, BlockArgs{BlockID: args.BlockID})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Flow Snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
