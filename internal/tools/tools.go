// Package tools exposes every engine operation as a named MCP tool so the
// conversational agent can read and write the pipeline. Tool results are
// JSON payloads; domain errors come back as tool-result errors rather than
// transport failures, so the agent loop can show them to the user.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/momentum"
)

// Deps are the shared dependencies injected into every tool.
type Deps struct {
	DB       *database.DB
	Engine   *engine.Engine
	Backlog  *backlog.Service
	Momentum *momentum.Service
}

// Register adds all pipeline tools to the MCP server.
func Register(s *server.MCPServer, deps Deps) {
	moveCreate := &MoveCreateTool{deps}
	s.AddTool(moveCreate.Definition(), moveCreate.Handle)

	moveList := &MoveListTool{deps}
	s.AddTool(moveList.Definition(), moveList.Handle)

	moveUpdate := &MoveUpdateTool{deps}
	s.AddTool(moveUpdate.Definition(), moveUpdate.Handle)

	moveComplete := &MoveCompleteTool{deps}
	s.AddTool(moveComplete.Definition(), moveComplete.Handle)

	movePromote := &MovePromoteTool{deps}
	s.AddTool(movePromote.Definition(), movePromote.Handle)

	moveDemote := &MoveDemoteTool{deps}
	s.AddTool(moveDemote.Definition(), moveDemote.Handle)

	moveDelete := &MoveDeleteTool{deps}
	s.AddTool(moveDelete.Definition(), moveDelete.Handle)

	metricsToday := &MetricsTodayTool{deps}
	s.AddTool(metricsToday.Definition(), metricsToday.Handle)

	metricsWeekly := &MetricsWeeklyTool{deps}
	s.AddTool(metricsWeekly.Definition(), metricsWeekly.Handle)

	backlogHealth := &BacklogHealthTool{deps}
	s.AddTool(backlogHealth.Definition(), backlogHealth.Handle)

	clientList := &ClientListTool{deps}
	s.AddTool(clientList.Definition(), clientList.Handle)
}

// jsonResult marshals v as the tool's text result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}
