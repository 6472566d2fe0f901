package mcpserver

import (
	"context"
	"fmt"

	"stdsdb/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerStandardsTools() {
	s.mcp.AddTool(mcp.NewTool("resolve_template",
		mcp.WithDescription("Resolve a template name (e.g. 90.1-2019) to its lighting and ventilation tables"),
		mcp.WithString("template", mcp.Description("Template name"), mcp.Required()),
	), s.handleResolveTemplate)

	s.mcp.AddTool(mcp.NewTool("space_types",
		mcp.WithDescription("Assemble the space types of one code version, exactly as the generator writes them"),
		mcp.WithString("version", mcp.Description("Code version, e.g. 2019"), mcp.Required()),
		mcp.WithString("code", mcp.Description("Code name (optional, defaults to the first configured code)")),
		mcp.WithString("spaceType", mcp.Description("Return only the space type with this name (optional)")),
	), s.handleSpaceTypes)

	s.mcp.AddTool(mcp.NewTool("rebuild",
		mcp.WithDescription("🛑 DESTRUCTIVE: Reload every table from the seed files and regenerate the data files."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRebuild)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleResolveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("template")
	if err != nil {
		return nil, err
	}
	tmpl, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return jsonResult(tmpl)
}

func (s *Server) handleSpaceTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	version, err := req.RequireString("version")
	if err != nil {
		return nil, err
	}
	code, err := s.resolveCode(req.GetString("code", ""))
	if err != nil {
		return nil, err
	}
	tmpl, err := s.resolver.Resolve(ctx, code.Template(version))
	if err != nil {
		return nil, err
	}
	spaces, err := s.assembler.Assemble(ctx, tmpl, version, code.Hierarchy)
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", tmpl.Template, err)
	}

	if want := req.GetString("spaceType", ""); want != "" {
		for _, st := range spaces {
			if st.SpaceType == want {
				return jsonResult(st)
			}
		}
		return nil, fmt.Errorf("space type %q not found in %s", want, tmpl.Template)
	}
	return jsonResult(map[string]any{"space_types": spaces})
}

func (s *Server) handleRebuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.pipeline.Rebuild(ctx, service.TriggerMCP); err != nil {
		return nil, err
	}
	runs, err := s.pipeline.Runs(ctx, 2)
	if err != nil {
		return nil, err
	}
	return jsonResult(runs)
}
