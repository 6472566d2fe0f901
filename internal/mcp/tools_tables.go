package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"stdsdb/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTableTools() {
	s.mcp.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List every table in the standards database with its key column and row count"),
	), s.handleListTables)

	s.mcp.AddTool(mcp.NewTool("fetch_table",
		mcp.WithDescription("Fetch the rows of one table, optionally filtered by exact column values"),
		mcp.WithString("table", mcp.Description("Table name (use list_tables to see available names)"), mcp.Required()),
		mcp.WithString("where", mcp.Description(`Optional JSON object of column filters, e.g. {"template": "90.1-2019"}`)),
		mcp.WithNumber("limit", mcp.Description("Maximum rows to return (optional, 0 = all)")),
	), s.handleFetchTable)
}

// tableSummary is one entry of list_tables.
type tableSummary struct {
	Name  string `json:"name"`
	Key   string `json:"key,omitempty"`
	Rows  int    `json:"rows"`
	Ready bool   `json:"ready"`
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tables := s.pipeline.Registry().Tables()
	out := make([]tableSummary, 0, len(tables))
	for _, t := range tables {
		summary := tableSummary{Name: t.Name(), Key: t.Schema().Key}
		n, err := t.Count(ctx)
		if err != nil {
			// Tables that were never built have no rows to count.
			s.logger.Debugw("count failed", "table", t.Name(), "error", err)
		} else {
			summary.Rows = n
			summary.Ready = true
		}
		out = append(out, summary)
	}
	return jsonResult(out)
}

func (s *Server) handleFetchTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("table")
	if err != nil {
		return nil, err
	}
	table, err := s.pipeline.Registry().Table(name)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	if where := req.GetString("where", ""); where != "" {
		filter := map[string]any{}
		if err := json.Unmarshal([]byte(where), &filter); err != nil {
			return nil, fmt.Errorf("parse where JSON: %w", err)
		}
		records, err = table.FetchWhere(ctx, filter)
	} else {
		records, err = table.FetchAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	if limit := req.GetInt("limit", 0); limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return jsonResult(map[string]any{
		"table":   name,
		"count":   len(records),
		"records": records,
	})
}
