package mcpserver

import (
	"encoding/json"
	"fmt"

	"stdsdb/internal/service"
	"stdsdb/internal/standards"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server is the MCP server for the standards database.
// It exposes query tools and the run log so AI agents can inspect the data.
type Server struct {
	mcp       *server.MCPServer
	pipeline  *service.Pipeline
	codes     []standards.Code
	resolver  *standards.Resolver
	assembler *standards.Assembler
	logger    *zap.SugaredLogger
}

// Deps holds everything the MCP server needs from the command layer.
type Deps struct {
	Pipeline *service.Pipeline
	Codes    []standards.Code
	Logger   *zap.SugaredLogger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	reg := deps.Pipeline.Registry()
	s := &Server{
		pipeline:  deps.Pipeline,
		codes:     deps.Codes,
		resolver:  standards.NewResolver(reg),
		assembler: standards.NewAssembler(reg, deps.Logger),
		logger:    deps.Logger,
	}

	s.mcp = server.NewMCPServer(
		"stdsdb-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTableTools()
	s.registerStandardsTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Infow("starting stdio server", "tables", len(s.pipeline.Registry().Names()))
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveCode returns the named code, or the first configured one when name
// is empty.
func (s *Server) resolveCode(name string) (standards.Code, error) {
	if len(s.codes) == 0 {
		return standards.Code{}, fmt.Errorf("no codes configured")
	}
	if name == "" {
		return s.codes[0], nil
	}
	for _, c := range s.codes {
		if c.Name == name {
			return c, nil
		}
	}
	return standards.Code{}, fmt.Errorf("unknown code %q", name)
}

func boolPtr(v bool) *bool { return &v }
