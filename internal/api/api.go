package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/momentum"
)

// Server holds the API server dependencies
type Server struct {
	db       *database.DB
	engine   *engine.Engine
	backlog  *backlog.Service
	momentum *momentum.Service
}

// NewServer creates a new API server
func NewServer(db *database.DB, eng *engine.Engine, bl *backlog.Service, mom *momentum.Service) *Server {
	return &Server{
		db:       db,
		engine:   eng,
		backlog:  bl,
		momentum: mom,
	}
}

// RegisterRoutes registers all API routes with the Huma API
func (s *Server) RegisterRoutes(api huma.API) {
	// GET /health - Liveness check
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, s.health)

	// POST /moves - Create a new move
	huma.Register(api, huma.Operation{
		OperationID: "create-move",
		Method:      http.MethodPost,
		Path:        "/moves",
		Summary:     "Create a move",
		Description: "Create a new move in any stage (default backlog)",
		Tags:        []string{"moves"},
	}, s.createMove)

	// GET /moves - List moves
	huma.Register(api, huma.Operation{
		OperationID: "list-moves",
		Method:      http.MethodGet,
		Path:        "/moves",
		Summary:     "List moves",
		Description: "List moves filtered by stage and client; completed moves are hidden unless requested",
		Tags:        []string{"moves"},
	}, s.listMoves)

	// GET /moves/{id} - Get a specific move
	huma.Register(api, huma.Operation{
		OperationID: "get-move",
		Method:      http.MethodGet,
		Path:        "/moves/{id}",
		Summary:     "Get a move",
		Tags:        []string{"moves"},
	}, s.getMove)

	// PATCH /moves/{id} - Partial update
	huma.Register(api, huma.Operation{
		OperationID: "update-move",
		Method:      http.MethodPatch,
		Path:        "/moves/{id}",
		Summary:     "Update a move",
		Description: "Partially update a move; stage changes keep the backlog ledger and completion fields consistent",
		Tags:        []string{"moves"},
	}, s.updateMove)

	// POST /moves/{id}/complete - Complete a move
	huma.Register(api, huma.Operation{
		OperationID: "complete-move",
		Method:      http.MethodPost,
		Path:        "/moves/{id}/complete",
		Summary:     "Complete a move",
		Description: "Mark a move done from any stage and log it in the daily log",
		Tags:        []string{"moves"},
	}, s.completeMove)

	// POST /moves/{id}/promote - Promote a move
	huma.Register(api, huma.Operation{
		OperationID: "promote-move",
		Method:      http.MethodPost,
		Path:        "/moves/{id}/promote",
		Summary:     "Promote a move",
		Description: "Advance a move one stage (or jump forward to a target stage); promoting from active is a no-op",
		Tags:        []string{"moves"},
	}, s.promoteMove)

	// POST /moves/{id}/demote - Demote a move
	huma.Register(api, huma.Operation{
		OperationID: "demote-move",
		Method:      http.MethodPost,
		Path:        "/moves/{id}/demote",
		Summary:     "Demote a move",
		Description: "Retreat a move one stage; demoting from backlog is a no-op",
		Tags:        []string{"moves"},
	}, s.demoteMove)

	// DELETE /moves/{id} - Delete a move
	huma.Register(api, huma.Operation{
		OperationID: "delete-move",
		Method:      http.MethodDelete,
		Path:        "/moves/{id}",
		Summary:     "Delete a move",
		Tags:        []string{"moves"},
	}, s.deleteMove)

	// POST /clients - Create a client
	huma.Register(api, huma.Operation{
		OperationID: "create-client",
		Method:      http.MethodPost,
		Path:        "/clients",
		Summary:     "Create a client",
		Tags:        []string{"clients"},
	}, s.createClient)

	// GET /clients - List clients
	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients",
		Tags:        []string{"clients"},
	}, s.listClients)

	// PATCH /clients/{id} - Update a client
	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPatch,
		Path:        "/clients/{id}",
		Summary:     "Update a client",
		Tags:        []string{"clients"},
	}, s.updateClient)

	// GET /metrics/today - Today's pacing
	huma.Register(api, huma.Operation{
		OperationID: "metrics-today",
		Method:      http.MethodGet,
		Path:        "/metrics/today",
		Summary:     "Today's metrics",
		Tags:        []string{"metrics"},
	}, s.metricsToday)

	// GET /metrics/weekly - Weekly metrics and momentum score
	huma.Register(api, huma.Operation{
		OperationID: "metrics-weekly",
		Method:      http.MethodGet,
		Path:        "/metrics/weekly",
		Summary:     "Weekly metrics",
		Tags:        []string{"metrics"},
	}, s.metricsWeekly)

	// GET /metrics/backlog-health - Backlog aging report
	huma.Register(api, huma.Operation{
		OperationID: "metrics-backlog-health",
		Method:      http.MethodGet,
		Path:        "/metrics/backlog-health",
		Summary:     "Backlog health",
		Tags:        []string{"metrics"},
	}, s.metricsBacklogHealth)

	// GET /metrics/clients - Per-client rollups
	huma.Register(api, huma.Operation{
		OperationID: "metrics-clients",
		Method:      http.MethodGet,
		Path:        "/metrics/clients",
		Summary:     "Per-client metrics",
		Tags:        []string{"metrics"},
	}, s.metricsClients)

	// GET /metrics/drain-types - Completions by drain tag
	huma.Register(api, huma.Operation{
		OperationID: "metrics-drain-types",
		Method:      http.MethodGet,
		Path:        "/metrics/drain-types",
		Summary:     "Drain type breakdown",
		Tags:        []string{"metrics"},
	}, s.metricsDrainTypes)
}

type HealthResponse struct {
	Body struct {
		Status string `json:"status" doc:"Service status"`
	}
}

func (s *Server) health(ctx context.Context, input *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	return resp, nil
}
