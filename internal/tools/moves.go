package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/m.wallace/momentum-engine/internal/models"
)

// MoveCreateTool handles the move_create tool.
type MoveCreateTool struct {
	deps Deps
}

// Definition returns the MCP tool definition for registration.
func (t *MoveCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("move_create",
		mcp.WithDescription(
			"Create a move (a unit of work). Defaults to the backlog stage; "+
				"creating it as queued or active rebalances the client's pipeline "+
				"so at most one move is active and one is queued.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title for the move."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
		mcp.WithNumber("client_id",
			mcp.Description("Owning client ID. Omit for an unassigned move."),
		),
		mcp.WithString("stage",
			mcp.Description("Initial stage: backlog (default), queued, active, or done."),
		),
		mcp.WithNumber("effort_estimate",
			mcp.Description("Effort ordinal 1-4 (10/20/45/90 earned minutes). Default 2."),
		),
		mcp.WithString("drain_type",
			mcp.Description("Optional categorical drain tag."),
		),
	)
}

// Handle processes the move_create tool call.
func (t *MoveCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := strings.TrimSpace(req.GetString("title", ""))
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	input := models.CreateMoveInput{
		Title:          title,
		Description:    req.GetString("description", ""),
		Stage:          req.GetString("stage", ""),
		EffortEstimate: int(req.GetFloat("effort_estimate", 0)),
	}
	if id := int(req.GetFloat("client_id", 0)); id > 0 {
		input.ClientID = &id
	}
	if drain := req.GetString("drain_type", ""); drain != "" {
		input.DrainType = &drain
	}

	move, err := t.deps.Engine.CreateMove(input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(move), nil
}

// MoveListTool handles the move_list tool.
type MoveListTool struct {
	deps Deps
}

func (t *MoveListTool) Definition() mcp.Tool {
	return mcp.NewTool("move_list",
		mcp.WithDescription("List moves, optionally filtered by stage and client. Completed moves are hidden unless include_completed is set."),
		mcp.WithString("stage",
			mcp.Description("Filter by stage: backlog, queued, active, or done."),
		),
		mcp.WithNumber("client_id",
			mcp.Description("Filter by owning client ID."),
		),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include done moves in the listing."),
		),
	)
}

func (t *MoveListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := models.MoveFilter{IncludeCompleted: req.GetBool("include_completed", false)}
	if stage := req.GetString("stage", ""); stage != "" {
		st := models.Stage(stage)
		if !st.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown stage %q", stage)), nil
		}
		filter.Stage = &st
	}
	if id := int(req.GetFloat("client_id", 0)); id > 0 {
		filter.ClientID = &id
	}

	moves, err := t.deps.Engine.ListMoves(filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if moves == nil {
		moves = []models.Move{}
	}
	return jsonResult(moves), nil
}

// MoveUpdateTool handles the move_update tool.
type MoveUpdateTool struct {
	deps Deps
}

func (t *MoveUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("move_update",
		mcp.WithDescription(
			"Partially update a move. Changing the stage keeps the backlog "+
				"ledger consistent; moving a done move back into the pipeline "+
				"clears its completion fields.",
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Move ID."),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("description", mcp.Description("New description.")),
		mcp.WithString("stage", mcp.Description("New stage: backlog, queued, active, or done.")),
		mcp.WithNumber("client_id", mcp.Description("New owning client ID.")),
		mcp.WithNumber("effort_estimate", mcp.Description("New effort ordinal 1-4.")),
		mcp.WithString("drain_type", mcp.Description("New drain tag.")),
	)
}

func (t *MoveUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	var input models.UpdateMoveInput
	if v := req.GetString("title", ""); v != "" {
		input.Title = &v
	}
	if v := req.GetString("description", ""); v != "" {
		input.Description = &v
	}
	if v := req.GetString("stage", ""); v != "" {
		input.Stage = &v
	}
	if v := int(req.GetFloat("client_id", 0)); v > 0 {
		input.ClientID = &v
	}
	if v := int(req.GetFloat("effort_estimate", 0)); v > 0 {
		input.EffortEstimate = &v
	}
	if v := req.GetString("drain_type", ""); v != "" {
		input.DrainType = &v
	}

	move, err := t.deps.Engine.UpdateMove(id, input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if move == nil {
		return mcp.NewToolResultError(fmt.Sprintf("move %d not found", id)), nil
	}
	return jsonResult(move), nil
}

// MoveDeleteTool handles the move_delete tool.
type MoveDeleteTool struct {
	deps Deps
}

func (t *MoveDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("move_delete",
		mcp.WithDescription("Hard-delete a move and its backlog ledger history."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Move ID."),
		),
	)
}

func (t *MoveDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int(req.GetFloat("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	found, err := t.deps.Engine.DeleteMove(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("move %d not found", id)), nil
	}
	return jsonResult(map[string]any{"deleted": id}), nil
}
