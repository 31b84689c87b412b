package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/models"
)

// Request/Response types

type CreateMoveRequest struct {
	Body models.CreateMoveInput
}

type MoveResponse struct {
	Body models.Move
}

type ListMovesRequest struct {
	Status           string `query:"status" enum:"backlog,queued,active,done" required:"false" doc:"Filter by stage"`
	ClientID         int    `query:"clientId" required:"false" doc:"Filter by owning client"`
	IncludeCompleted bool   `query:"includeCompleted" required:"false" doc:"Include done moves"`
}

type ListMovesResponse struct {
	Body []models.Move
}

type GetMoveRequest struct {
	ID int `path:"id" minimum:"1" doc:"Move ID"`
}

type UpdateMoveRequest struct {
	ID   int `path:"id" minimum:"1" doc:"Move ID"`
	Body models.UpdateMoveInput
}

type CompleteMoveRequest struct {
	ID   int `path:"id" minimum:"1" doc:"Move ID"`
	Body models.CompleteMoveInput
}

type PromoteMoveRequest struct {
	ID   int `path:"id" minimum:"1" doc:"Move ID"`
	Body struct {
		TargetStage string `json:"target_stage,omitempty" enum:"backlog,queued,active" doc:"Jump directly to this stage if it is ahead of the current one"`
	}
}

type DemoteMoveRequest struct {
	ID int `path:"id" minimum:"1" doc:"Move ID"`
}

type DeleteMoveRequest struct {
	ID int `path:"id" minimum:"1" doc:"Move ID"`
}

// Handler implementations

func (s *Server) createMove(ctx context.Context, input *CreateMoveRequest) (*MoveResponse, error) {
	move, err := s.engine.CreateMove(input.Body)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidStage) {
			return nil, huma.Error422UnprocessableEntity("Invalid stage", err)
		}
		return nil, huma.Error500InternalServerError("Failed to create move", err)
	}
	return &MoveResponse{Body: *move}, nil
}

func (s *Server) listMoves(ctx context.Context, input *ListMovesRequest) (*ListMovesResponse, error) {
	filter := models.MoveFilter{IncludeCompleted: input.IncludeCompleted}
	if input.Status != "" {
		stage := models.Stage(input.Status)
		filter.Stage = &stage
	}
	if input.ClientID > 0 {
		filter.ClientID = &input.ClientID
	}

	moves, err := s.engine.ListMoves(filter)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list moves", err)
	}

	// Return empty array instead of nil
	if moves == nil {
		moves = []models.Move{}
	}

	return &ListMovesResponse{Body: moves}, nil
}

func (s *Server) getMove(ctx context.Context, input *GetMoveRequest) (*MoveResponse, error) {
	move, err := s.engine.GetMove(input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get move", err)
	}
	if move == nil {
		return nil, huma.Error404NotFound("Move not found")
	}
	return &MoveResponse{Body: *move}, nil
}

func (s *Server) updateMove(ctx context.Context, input *UpdateMoveRequest) (*MoveResponse, error) {
	move, err := s.engine.UpdateMove(input.ID, input.Body)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidStage) {
			return nil, huma.Error422UnprocessableEntity("Invalid stage", err)
		}
		return nil, huma.Error500InternalServerError("Failed to update move", err)
	}
	if move == nil {
		return nil, huma.Error404NotFound("Move not found")
	}
	return &MoveResponse{Body: *move}, nil
}

func (s *Server) completeMove(ctx context.Context, input *CompleteMoveRequest) (*MoveResponse, error) {
	move, err := s.engine.Complete(input.ID, input.Body.EffortActual)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to complete move", err)
	}
	if move == nil {
		return nil, huma.Error404NotFound("Move not found")
	}
	return &MoveResponse{Body: *move}, nil
}

func (s *Server) promoteMove(ctx context.Context, input *PromoteMoveRequest) (*MoveResponse, error) {
	var target *models.Stage
	if input.Body.TargetStage != "" {
		stage := models.Stage(input.Body.TargetStage)
		target = &stage
	}

	move, err := s.engine.Promote(input.ID, target)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to promote move", err)
	}
	if move == nil {
		return nil, huma.Error404NotFound("Move not found")
	}
	return &MoveResponse{Body: *move}, nil
}

func (s *Server) demoteMove(ctx context.Context, input *DemoteMoveRequest) (*MoveResponse, error) {
	move, err := s.engine.Demote(input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to demote move", err)
	}
	if move == nil {
		return nil, huma.Error404NotFound("Move not found")
	}
	return &MoveResponse{Body: *move}, nil
}

func (s *Server) deleteMove(ctx context.Context, input *DeleteMoveRequest) (*struct{}, error) {
	found, err := s.engine.DeleteMove(input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete move", err)
	}
	if !found {
		return nil, huma.Error404NotFound("Move not found")
	}
	return nil, nil
}
