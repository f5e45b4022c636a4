package mcp

import (
	"net/http"

	"github.com/2beens/fitpoints/internal/auth"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server whose KPI tools answer for userID.
// cmd/fitpoints_mcp serves it over stdio; NewHTTPHandler serves it at /mcp.
func NewServer(service contextService, userID int) *mcp.Server {
	h := NewHandler(service, userID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitpoints",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fitpoints_context",
		Description: "Returns the DB schema of the fitpoints tables (exercise, routine, routine_exercise, routine_plan, exercise_log, weekly_target): columns, types, nullable, default.",
	}, h.GetFitpointsContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercises",
		Description: "Returns all exercises ordered by name, with activity, type, muscle group and training points.",
	}, h.GetExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_range_summary",
		Description: "Returns planned and completed training points for a date range, achievement against the weekly target of the first week, and a per-day breakdown. Args: start_date, end_date (YYYY-MM-DD, inclusive).",
	}, h.GetRangeSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_historical_weeks",
		Description: "Returns per-week target, planned and completed points for the trailing weeks, oldest first. Optional: weeks_back (default 6), as_of (YYYY-MM-DD, default today).",
	}, h.GetHistoricalWeeksTool())

	return s
}

// NewHTTPHandler serves the MCP tools over streamable HTTP, bound to the
// authenticated caller of each request.
func NewHTTPHandler(service contextService) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return nil
		}
		return NewServer(service, userID)
	}, nil)
}
