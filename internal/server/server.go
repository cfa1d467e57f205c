// Package server exposes the harvester's commands and results as MCP tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/monitor"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/sink"
)

// Deps are the running components the tools operate on.
type Deps struct {
	Monitor *monitor.State
	Driver  *harvest.Driver
	Sink    *sink.Sink
	Events  *EventLog
	Window  platform.Window
	Log     *zap.Logger
}

// Config holds MCP transport settings.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server with the harvester components.
type Server struct {
	deps Deps
	log  *zap.Logger
	mcp  *mcpserver.MCPServer
}

// New creates and configures an MCP server with all listscan tools.
func New(deps Deps, version string) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{deps: deps, log: log}
	s.mcp = mcpserver.NewMCPServer(
		"listscan",
		version,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve runs the configured transport until ctx is done.
func (s *Server) Serve(ctx context.Context, cfg Config, stdin io.Reader, stdout io.Writer) error {
	switch cfg.Transport {
	case "", "stdio":
		err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, stdin, stdout)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(fmt.Sprintf(":%d", cfg.Port)) }()
		s.log.Info("mcp server listening", zap.Int("port", cfg.Port))
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown mcp server: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("start_monitoring",
			mcp.WithDescription("Turn list harvesting on. The next qualifying tree change starts a scan."),
			mcp.WithString("label", mcp.Description("Label to attach to harvested entries (default: All)")),
		),
		s.handleStart,
	)

	s.mcp.AddTool(
		mcp.NewTool("stop_monitoring",
			mcp.WithDescription("Turn list harvesting off. A running scan aborts on its next tick."),
		),
		s.handleStop,
	)

	s.mcp.AddTool(
		mcp.NewTool("is_monitoring_active",
			mcp.WithDescription("Report whether list harvesting is on"),
		),
		s.handleIsActive,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_current_label",
			mcp.WithDescription("Return the label configured for harvested entries"),
		),
		s.handleLabel,
	)

	s.mcp.AddTool(
		mcp.NewTool("scan_status",
			mcp.WithDescription("State of the active or most recent scan session and event delivery counters"),
		),
		s.handleStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("interrupt_scan",
			mcp.WithDescription("Abort the active scan session without a final flush"),
		),
		s.handleInterrupt,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_events",
			mcp.WithDescription("Return delivered AutoScan events after a sequence number"),
			mcp.WithNumber("since", mcp.Description("Only events with a higher sequence number (default: 0)")),
			mcp.WithNumber("limit", mcp.Description("Max events to return (0 = unlimited)")),
		),
		s.handleEvents,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_entries",
			mcp.WithDescription("Return the distinct harvested entries grouped by label"),
		),
		s.handleEntries,
	)

	s.mcp.AddTool(
		mcp.NewTool("classify",
			mcp.WithDescription("Classify a text value as a list entry or noise"),
			mcp.WithString("text", mcp.Description("Text to classify"), mcp.Required()),
		),
		s.handleClassify,
	)

	s.mcp.AddTool(
		mcp.NewTool("read_tree",
			mcp.WithDescription("Read the current accessibility tree of the observed window"),
			mcp.WithString("text", mcp.Description("Filter elements by text or view id")),
			mcp.WithNumber("depth", mcp.Description("Max depth to traverse (0 = unlimited)")),
			mcp.WithBoolean("flat", mcp.Description("Flatten the tree into a list with paths")),
		),
		s.handleReadTree,
	)
}
