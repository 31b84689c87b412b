package engine

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/models"
)

// CreateMove creates a move in any stage (default backlog) and restores the
// pipeline invariants for its client.
func (e *Engine) CreateMove(input models.CreateMoveInput) (*models.Move, error) {
	stage := models.StageBacklog
	if input.Stage != "" {
		stage = models.Stage(input.Stage)
		if !stage.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStage, input.Stage)
		}
	}

	effort := input.EffortEstimate
	if effort == 0 {
		effort = 2
	}

	now := e.cal.Now()
	move, err := e.db.CreateMove(&models.Move{
		Title:          input.Title,
		Description:    input.Description,
		ClientID:       input.ClientID,
		Stage:          stage,
		EffortEstimate: effort,
		DrainType:      input.DrainType,
		TaskRef:        input.TaskRef,
	}, now)
	if err != nil {
		return nil, err
	}

	switch stage {
	case models.StageBacklog:
		if err := e.openLedger(move); err != nil {
			return nil, err
		}
	case models.StageDone:
		// Created directly as done: stamp completion fields and log it.
		move, err = e.db.UpdateMove(move.ID, database.MoveUpdate{
			EffortActual: &effort,
			CompletedAt:  &now,
		}, now)
		if err != nil {
			return nil, err
		}
		e.recordCompletion(move, models.SourcePipeline)
	case models.StageQueued, models.StageActive:
		if move.ClientID != nil {
			if err := e.rebalance(*move.ClientID, move.ID); err != nil {
				return nil, err
			}
			return e.db.GetMove(move.ID)
		}
	}

	return move, nil
}

// GetMove returns a move, or nil when the ID does not resolve.
func (e *Engine) GetMove(id int) (*models.Move, error) {
	return e.db.GetMove(id)
}

// ListMoves returns moves matching the filter.
func (e *Engine) ListMoves(filter models.MoveFilter) ([]models.Move, error) {
	return e.db.ListMoves(filter)
}

// UpdateMove applies a partial update. A stage change out of done clears
// the completion fields and amends that date's log; transitions through the
// backlog keep the ledger consistent; landing in queued or active triggers
// a rebalance.
func (e *Engine) UpdateMove(id int, input models.UpdateMoveInput) (*models.Move, error) {
	move, err := e.db.GetMove(id)
	if err != nil {
		return nil, err
	}
	if move == nil {
		return nil, nil
	}

	upd := database.MoveUpdate{
		Title:          input.Title,
		Description:    input.Description,
		ClientID:       input.ClientID,
		EffortEstimate: input.EffortEstimate,
		DrainType:      input.DrainType,
		SortOrder:      input.SortOrder,
	}

	now := e.cal.Now()
	var newStage *models.Stage
	if input.Stage != nil {
		st := models.Stage(*input.Stage)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStage, *input.Stage)
		}
		if st != move.Stage {
			newStage = &st
			upd.Stage = &st
		}
	}

	completing := newStage != nil && *newStage == models.StageDone
	reopening := newStage != nil && move.Stage == models.StageDone

	if reopening {
		// Leaving done: clear completion fields in the same update.
		upd.ClearCompletedAt = true
		upd.ClearEffortActual = true
		if move.CompletedAt != nil {
			date := e.cal.DateKey(*move.CompletedAt)
			if _, err := e.db.RemoveCompletion(date, move.ID); err != nil {
				return nil, err
			}
		}
	}

	var source string
	if completing {
		effort := move.EffortEstimate
		if input.EffortEstimate != nil {
			effort = *input.EffortEstimate
		}
		upd.EffortActual = &effort
		upd.CompletedAt = &now
		source = e.completionSource(move)
	}

	updated, err := e.db.UpdateMove(id, upd, now)
	if err != nil {
		return nil, err
	}

	if newStage != nil {
		if err := e.syncLedger(move.Stage, *newStage, updated); err != nil {
			return nil, err
		}
		if completing {
			e.recordCompletion(updated, source)
		}
	}

	needsRebalance := updated.ClientID != nil &&
		(updated.Stage == models.StageQueued || updated.Stage == models.StageActive) &&
		(newStage != nil || input.ClientID != nil)
	if needsRebalance {
		if err := e.rebalance(*updated.ClientID, id); err != nil {
			return nil, err
		}
		return e.db.GetMove(id)
	}

	return updated, nil
}

// syncLedger opens or closes the move's backlog entry after a stage change.
func (e *Engine) syncLedger(oldStage, newStage models.Stage, move *models.Move) error {
	if newStage == models.StageBacklog && oldStage != models.StageBacklog {
		return e.openLedger(move)
	}
	if oldStage == models.StageBacklog && newStage != models.StageBacklog {
		_, err := e.db.CloseBacklogEntry(move.ID, e.cal.Now(), false)
		return err
	}
	if newStage == models.StageDone {
		// Completing a move that still has an open entry from an earlier
		// backlog residency.
		_, err := e.db.CloseBacklogEntry(move.ID, e.cal.Now(), false)
		return err
	}
	return nil
}

// completionSource classifies a completion as backlog-sourced when the move
// sits in the backlog or still has an open ledger row.
func (e *Engine) completionSource(move *models.Move) string {
	if move.Stage == models.StageBacklog {
		return models.SourceBacklog
	}
	entry, err := e.db.OpenEntryForMove(move.ID)
	if err == nil && entry != nil {
		return models.SourceBacklog
	}
	return models.SourcePipeline
}

// DeleteMove hard-deletes a move and its ledger history. Returns false when
// the ID does not resolve. The daily log keeps any completion records; the
// log is amended only when a completion is undone, never by deletes.
func (e *Engine) DeleteMove(id int) (bool, error) {
	move, err := e.db.GetMove(id)
	if err != nil {
		return false, err
	}
	if move == nil {
		return false, nil
	}

	if err := e.db.DeleteEntriesForMove(id); err != nil {
		return false, err
	}
	if err := e.db.DeleteMove(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
