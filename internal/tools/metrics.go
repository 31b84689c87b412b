package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/m.wallace/momentum-engine/internal/models"
)

// MetricsTodayTool handles the metrics_today tool.
type MetricsTodayTool struct {
	deps Deps
}

func (t *MetricsTodayTool) Definition() mcp.Tool {
	return mcp.NewTool("metrics_today",
		mcp.WithDescription("Today's completed-move count, estimated minutes, and pacing percent against the daily target."),
	)
}

func (t *MetricsTodayTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	daily, err := t.deps.Momentum.Today()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(daily), nil
}

// MetricsWeeklyTool handles the metrics_weekly tool.
type MetricsWeeklyTool struct {
	deps Deps
}

func (t *MetricsWeeklyTool) Definition() mcp.Tool {
	return mcp.NewTool("metrics_weekly",
		mcp.WithDescription("The current Monday-to-Sunday week's per-day metrics and the momentum score with its label."),
	)
}

func (t *MetricsWeeklyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weekly, err := t.deps.Momentum.Weekly()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(weekly), nil
}

// BacklogHealthTool handles the backlog_health tool.
type BacklogHealthTool struct {
	deps Deps
}

func (t *BacklogHealthTool) Definition() mcp.Tool {
	return mcp.NewTool("backlog_health",
		mcp.WithDescription(
			"Per-client backlog aging report with an overall "+
				"healthy/warning/critical status, plus whether the next move "+
				"should be pulled from the backlog.",
		),
	)
}

func (t *BacklogHealthTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.deps.Backlog.Health()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	advice, err := t.deps.Backlog.ShouldPull()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"health":      report,
		"pull_advice": advice,
	}), nil
}

// ClientListTool handles the client_list tool.
type ClientListTool struct {
	deps Deps
}

func (t *ClientListTool) Definition() mcp.Tool {
	return mcp.NewTool("client_list",
		mcp.WithDescription("List clients with their IDs, categories, and active flags."),
		mcp.WithBoolean("active_only",
			mcp.Description("Only return active clients."),
		),
	)
}

func (t *ClientListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clients, err := t.deps.DB.ListClients(req.GetBool("active_only", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return jsonResult(clients), nil
}
