package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/listscan/internal/harvest"
	"github.com/mj1618/listscan/internal/model"
	"github.com/mj1618/listscan/internal/output"
	"github.com/mj1618/listscan/internal/platform"
	"github.com/mj1618/listscan/internal/sink"
)

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) *mcp.CallToolResult {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

type monitoringResult struct {
	Monitoring bool   `yaml:"is_monitoring"`
	Label      string `yaml:"current_label"`
}

func (s *Server) handleStart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := stringParam(request.GetArguments(), "label", "")
	if err := s.deps.Monitor.Start(label); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.deps.Monitor.Snapshot()
	return toText(monitoringResult{Monitoring: snap.Monitoring, Label: snap.Label}), nil
}

func (s *Server) handleStop(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.deps.Monitor.Stop(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.deps.Monitor.Snapshot()
	return toText(monitoringResult{Monitoring: snap.Monitoring, Label: snap.Label}), nil
}

func (s *Server) handleIsActive(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf("%t", s.deps.Monitor.Active())), nil
}

func (s *Server) handleLabel(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.deps.Monitor.Label()), nil
}

type statusResult struct {
	Monitoring bool           `yaml:"is_monitoring"`
	Label      string         `yaml:"current_label"`
	Scan       harvest.Status `yaml:"scan"`
	Delivery   *sink.Stats    `yaml:"delivery,omitempty"`
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.deps.Monitor.Snapshot()
	res := statusResult{Monitoring: snap.Monitoring, Label: snap.Label}
	if s.deps.Driver != nil {
		res.Scan = s.deps.Driver.Status()
	}
	if s.deps.Sink != nil {
		st := s.deps.Sink.Stats()
		res.Delivery = &st
	}
	return toText(res), nil
}

func (s *Server) handleInterrupt(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.deps.Driver == nil {
		return mcp.NewToolResultError("no scan driver running"), nil
	}
	s.deps.Driver.Interrupt()
	return mcp.NewToolResultText("interrupt requested"), nil
}

func (s *Server) handleEvents(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.deps.Events == nil {
		return mcp.NewToolResultError("event log not enabled"), nil
	}
	params := request.GetArguments()
	events := s.deps.Events.Since(intParam(params, "since", 0), intParam(params, "limit", 0))
	if events == nil {
		events = []LoggedEvent{}
	}
	return toText(events), nil
}

func (s *Server) handleEntries(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.deps.Events == nil {
		return mcp.NewToolResultError("event log not enabled"), nil
	}
	return toText(s.deps.Events.Labels()), nil
}

func (s *Server) handleClassify(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := stringParam(request.GetArguments(), "text", "")
	v := harvest.Classify(text)
	return toText(output.ClassifyResult{Text: text, Accept: v.Accept, Reason: string(v.Reason)}), nil
}

func (s *Server) handleReadTree(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	depth := intParam(params, "depth", 0)
	flat := boolParam(params, "flat", false)

	if s.deps.Window == nil {
		return mcp.NewToolResultError("no window attached"), nil
	}
	root := s.deps.Window.Root()
	if root == nil {
		return mcp.NewToolResultError("window has no accessibility root"), nil
	}
	defer root.Release()
	el := platform.Capture(root, depth)

	elements := model.PruneHidden([]model.Element{el})
	if text != "" {
		elements = model.FilterByText(elements, text)
	}

	pkg := s.deps.Window.Package()
	ts := time.Now().UnixMilli()
	if flat {
		return toText(output.ReadFlatResult{Package: pkg, TS: ts, Elements: model.FlattenElements(elements)}), nil
	}
	return toText(output.ReadResult{Package: pkg, TS: ts, Elements: elements}), nil
}

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
