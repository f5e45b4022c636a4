package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/fitpoints/internal/fitness/kpi"
	"github.com/2beens/fitpoints/pkg"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler turns tool calls into service calls for the user the session is bound to.
type Handler struct {
	service contextService
	userID  int
	now     func() time.Time
}

func NewHandler(service contextService, userID int) *Handler {
	return &Handler{
		service: service,
		userID:  userID,
		now:     time.Now,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// NoInput is the input of tools without arguments.
type NoInput struct{}

// GetFitpointsContextTool returns the MCP tool handler for get_fitpoints_context.
func (h *Handler) GetFitpointsContextTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// GetExercisesTool returns the MCP tool handler for get_exercises.
func (h *Handler) GetExercisesTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListExercises(ctx)
		if err != nil {
			return errorResult("Error listing exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// RangeSummaryInput is the input for get_range_summary.
type RangeSummaryInput struct {
	StartDate string `json:"start_date" jsonschema:"First day of the range (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"Last day of the range, inclusive (YYYY-MM-DD)"`
}

// GetRangeSummaryTool returns the MCP tool handler for get_range_summary.
func (h *Handler) GetRangeSummaryTool() func(context.Context, *mcp.CallToolRequest, RangeSummaryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RangeSummaryInput) (*mcp.CallToolResult, any, error) {
		w, err := kpi.ParseRange(in.StartDate, in.EndDate)
		if err != nil {
			return errorResult("Invalid range: " + err.Error()), nil, nil
		}
		summary, err := h.service.RangeSummary(ctx, h.userID, w)
		if err != nil {
			return errorResult("Error computing range summary: " + err.Error()), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}

// HistoricalWeeksInput is the input for get_historical_weeks.
type HistoricalWeeksInput struct {
	WeeksBack int    `json:"weeks_back,omitempty" jsonschema:"Number of trailing weeks, 1 to 104 (default 6)"`
	AsOf      string `json:"as_of,omitempty" jsonschema:"Anchor date (YYYY-MM-DD), defaults to today"`
}

// GetHistoricalWeeksTool returns the MCP tool handler for get_historical_weeks.
func (h *Handler) GetHistoricalWeeksTool() func(context.Context, *mcp.CallToolRequest, HistoricalWeeksInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HistoricalWeeksInput) (*mcp.CallToolResult, any, error) {
		weeksBack := in.WeeksBack
		if weeksBack == 0 {
			weeksBack = kpi.DefaultWeeksBack
		}

		asOf := pkg.DateOf(h.now())
		if in.AsOf != "" {
			parsed, err := pkg.ParseDate(in.AsOf)
			if err != nil {
				return errorResult("Invalid as_of: use YYYY-MM-DD"), nil, nil
			}
			asOf = parsed
		}

		stats, err := h.service.HistoricalWeeks(ctx, h.userID, weeksBack, asOf)
		if err != nil {
			return errorResult("Error computing historical weeks: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}
