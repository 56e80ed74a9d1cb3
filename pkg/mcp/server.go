// Package mcp implements a Model Context Protocol server exposing comment
// extraction and comment lifecycle history as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "commentlife"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// WalkMetrics receives per-file walk statistics of lifecycle calls.
	WalkMetrics *observability.WalkMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Version is reported as the server implementation version.
	Version string
}

// Server wraps the MCP SDK server with the commentlife tools.
type Server struct {
	inner  *mcpsdk.Server
	deps   ServerDeps
	mu     sync.RWMutex
	tools  []string
	walkMu sync.Mutex // lifecycle calls check files out; one at a time
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	inner := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version}, opts)

	srv := &Server{
		inner: inner,
		deps:  deps,
		tools: make([]string, 0, toolCount),
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run serves on stdio until ctx is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameExtract,
		Description: extractToolDescription,
	}, withMetrics(s.deps.Metrics, ToolNameExtract, withTracing(s.deps.Tracer, ToolNameExtract, handleExtract)))

	s.trackTool(ToolNameExtract)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameLifecycle,
		Description: lifecycleToolDescription,
	}, withMetrics(s.deps.Metrics, ToolNameLifecycle, withTracing(s.deps.Tracer, ToolNameLifecycle, s.handleLifecycle)))

	s.trackTool(ToolNameLifecycle)
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

func (s *Server) logger() *slog.Logger {
	if s.deps.Logger == nil {
		return slog.Default()
	}

	return s.deps.Logger
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps a tool handler in a server span and appends the trace
// id to sampled responses.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())})
		}

		return result, output, err
	}
}

// withMetrics wraps a tool handler to record RED metrics per call.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		done := metrics.TrackInflight(ctx, toolName)
		defer done()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordCall(ctx, toolName, status, time.Since(start))

		return result, output, err
	}
}

// Tool descriptions.
const (
	extractToolDescription = "Extract the set of source comments from inline code. " +
		"Supports python, cpp (C-family: // and /* */) and fortran (!). " +
		"Returns the sorted, normalized comment texts."

	lifecycleToolDescription = "Replay the git history of one file and report, for every comment text, " +
		"when it was last introduced and last removed. Historical versions are checked out " +
		"into the working tree one at a time and HEAD's version is restored afterwards."
)
