package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	runsURI        = "stdsdb://runs"
	tableURIPrefix = "stdsdb://tables/"
)

func (s *Server) registerResources() {
	// ── stdsdb://runs ──────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		runsURI,
		"Recent Pipeline Runs",
		mcp.WithMIMEType("application/json"),
	), s.handleRunsResource)

	// ── stdsdb://tables/{name} ─────────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			tableURIPrefix+"{name}",
			"Rows of a Table",
		),
		s.handleTableResource,
	)
}

func (s *Server) handleRunsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	runs, err := s.pipeline.Runs(ctx, 20)
	if err != nil {
		return nil, err
	}
	return jsonResource(runsURI, runs)
}

func (s *Server) handleTableResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, tableURIPrefix)
	if name == uri || name == "" {
		return nil, fmt.Errorf("invalid table URI: %s", uri)
	}
	table, err := s.pipeline.Registry().Table(name)
	if err != nil {
		return nil, err
	}
	records, err := table.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, records)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
