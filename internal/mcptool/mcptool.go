// Package mcptool exposes the search pipeline as MCP tools over stdio so an
// agent can run searches without the dashboard.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/stats"
)

const (
	ServerName = "jobfinder"

	ToolSearchJobs   = "search_jobs"
	ToolListJobTypes = "list_job_types"
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
	Buckets() []search.Bucket
}

type handler struct {
	searcher Searcher
	log      *slog.Logger
}

// NewServer registers the tools on a fresh MCP server.
func NewServer(searcher Searcher, version string, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	h := handler{searcher: searcher, log: logger.With("component", "mcp")}

	s := server.NewMCPServer(ServerName, version)
	s.AddTool(searchJobsTool(searcher.Buckets()), h.searchJobs)
	s.AddTool(listJobTypesTool(), h.listJobTypes)
	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func searchJobsTool(buckets []search.Bucket) mcp.Tool {
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = b.Name
	}
	modes := make([]string, len(filter.LocationModes))
	for i, m := range filter.LocationModes {
		modes[i] = string(m)
	}

	tool := mcp.NewTool(ToolSearchJobs,
		mcp.WithDescription("Search job boards for a keyword across one or more job types. Returns tagged, deduplicated postings as JSON."),
	)
	tool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"keyword":  map[string]interface{}{"type": "string", "description": "Job keyword, 2 to 100 characters"},
			"location": map[string]interface{}{"type": "string", "description": "City, state or country (optional)"},
			"job_types": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string", "enum": names},
				"description": "Job types to search (default: the first one)",
			},
			"location_mode": map[string]interface{}{"type": "string", "enum": modes, "description": "Remote filter (default: Include Remote)"},
			"sort_by":       map[string]interface{}{"type": "string", "description": "Relevance, Date Posted or Company"},
			"max_results":   map[string]interface{}{"type": "integer", "description": "10, 25, 50 or 100 (default: 25)"},
			"date_posted":   map[string]interface{}{"type": "string", "description": "all, today, 3days, week or month"},
		},
		Required: []string{"keyword"},
	}
	return tool
}

func listJobTypesTool() mcp.Tool {
	tool := mcp.NewTool(ToolListJobTypes,
		mcp.WithDescription("List the job types search_jobs accepts and the search terms each one adds."),
	)
	tool.InputSchema = mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
	return tool
}

type searchOutput struct {
	Summary string             `json:"summary"`
	Stats   stats.Summary      `json:"stats"`
	Jobs    []domain.JobRecord `json:"jobs"`
}

func (h handler) searchJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	req, err := parseRequest(args, h.searcher.Buckets())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.searcher.Search(ctx, req)
	if err != nil {
		h.log.Warn("search failed", "keyword", req.Keyword, "error", err)
		return mcp.NewToolResultError(describe(err)), nil
	}

	out := searchOutput{Summary: res.Summary, Stats: stats.Jobs(res.Records), Jobs: res.Records}
	if out.Jobs == nil {
		out.Jobs = []domain.JobRecord{}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (h handler) listJobTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(h.searcher.Buckets(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// parseRequest maps loosely typed tool arguments onto a search request.
// Numbers arrive as float64 and lists as []interface{}.
func parseRequest(args map[string]interface{}, buckets []search.Bucket) (search.Request, error) {
	var req search.Request
	req.Keyword = strings.TrimSpace(cast.ToString(args["keyword"]))
	req.Location = strings.TrimSpace(cast.ToString(args["location"]))
	req.LocationMode = filter.LocationMode(cast.ToString(args["location_mode"]))
	req.SortBy = filter.SortOrder(cast.ToString(args["sort_by"]))
	req.DatePosted = cast.ToString(args["date_posted"])

	if v, ok := args["max_results"]; ok && v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return req, fmt.Errorf("max_results: %v", err)
		}
		req.MaxResults = n
	}

	switch v := args["job_types"].(type) {
	case nil:
	case string:
		req.Buckets = []string{v}
	default:
		types, err := cast.ToStringSliceE(v)
		if err != nil {
			return req, fmt.Errorf("job_types: %v", err)
		}
		req.Buckets = types
	}
	if len(req.Buckets) == 0 && len(buckets) > 0 {
		req.Buckets = []string{buckets[0].Name}
	}
	return req, nil
}

func describe(err error) string {
	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case domain.IsConfiguration(err):
		return "Search is not configured: " + err.Error()
	case domain.IsTransport(err):
		return "The job search service could not be reached. Please try again in a moment. (" + err.Error() + ")"
	}
	return "Search failed: " + err.Error()
}
