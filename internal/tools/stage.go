package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/m.wallace/momentum-engine/internal/models"
)

// MovePromoteTool handles the move_promote tool.
type MovePromoteTool struct {
	deps Deps
}

func (t *MovePromoteTool) Definition() mcp.Tool {
	return mcp.NewTool("move_promote",
		mcp.WithDescription(
			"Advance a move one stage (backlog -> queued -> active), or jump "+
				"forward to target_stage. Promoting from active is a no-op. "+
				"The client's pipeline is rebalanced afterwards.",
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Move ID."),
		),
		mcp.WithString("target_stage",
			mcp.Description("Jump directly to this stage if it is ahead of the current one."),
		),
	)
}

func (t *MovePromoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	var target *models.Stage
	if v := req.GetString("target_stage", ""); v != "" {
		stage := models.Stage(v)
		target = &stage
	}

	move, err := t.deps.Engine.Promote(id, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if move == nil {
		return mcp.NewToolResultError(fmt.Sprintf("move %d not found", id)), nil
	}
	return jsonResult(move), nil
}

// MoveDemoteTool handles the move_demote tool.
type MoveDemoteTool struct {
	deps Deps
}

func (t *MoveDemoteTool) Definition() mcp.Tool {
	return mcp.NewTool("move_demote",
		mcp.WithDescription("Retreat a move one stage (active -> queued -> backlog). Demoting from backlog is a no-op."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Move ID."),
		),
	)
}

func (t *MoveDemoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	move, err := t.deps.Engine.Demote(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if move == nil {
		return mcp.NewToolResultError(fmt.Sprintf("move %d not found", id)), nil
	}
	return jsonResult(move), nil
}

// MoveCompleteTool handles the move_complete tool.
type MoveCompleteTool struct {
	deps Deps
}

func (t *MoveCompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("move_complete",
		mcp.WithDescription(
			"Mark a move done from any stage, logging it in today's daily log. "+
				"Completing an already-done move changes nothing.",
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Move ID."),
		),
		mcp.WithNumber("effort_actual",
			mcp.Description("Actual effort ordinal 1-4. Defaults to the estimate."),
		),
	)
}

func (t *MoveCompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	var effort *int
	if v := int(req.GetFloat("effort_actual", 0)); v > 0 {
		effort = &v
	}

	move, err := t.deps.Engine.Complete(id, effort)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if move == nil {
		return mcp.NewToolResultError(fmt.Sprintf("move %d not found", id)), nil
	}
	return jsonResult(move), nil
}
