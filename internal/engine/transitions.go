package engine

import (
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/models"
)

// Promote advances a move one stage, or jumps directly to targetStage when
// that is strictly ahead of the current stage. A move that has nowhere to
// go (active, done, or an unrecognized stage) is returned unchanged.
func (e *Engine) Promote(id int, targetStage *models.Stage) (*models.Move, error) {
	move, err := e.db.GetMove(id)
	if err != nil {
		return nil, err
	}
	if move == nil {
		return nil, nil
	}

	next := models.NextStage(move.Stage)
	if next == nil {
		return move, nil
	}
	if targetStage != nil && models.StageAhead(*targetStage, move.Stage) {
		next = targetStage
	}

	updated, err := e.setStage(move, *next, false)
	if err != nil {
		return nil, err
	}

	if updated.ClientID != nil {
		if err := e.rebalance(*updated.ClientID, id); err != nil {
			return nil, err
		}
		return e.db.GetMove(id)
	}
	return updated, nil
}

// Demote retreats a move one stage. Backlog, done and unrecognized stages
// are returned unchanged. Demotion only frees capacity, so no rebalance.
func (e *Engine) Demote(id int) (*models.Move, error) {
	move, err := e.db.GetMove(id)
	if err != nil {
		return nil, err
	}
	if move == nil {
		return nil, nil
	}

	prev := models.PrevStage(move.Stage)
	if prev == nil {
		return move, nil
	}

	return e.setStage(move, *prev, false)
}

// Complete marks a move done from any stage, stamping the completion time
// and actual effort (defaulting to the estimate). Completing an already
// done move is a no-op, so one completion record results either way.
func (e *Engine) Complete(id int, effortActual *int) (*models.Move, error) {
	move, err := e.db.GetMove(id)
	if err != nil {
		return nil, err
	}
	if move == nil {
		return nil, nil
	}
	if move.Stage == models.StageDone {
		return move, nil
	}

	effort := move.EffortEstimate
	if effortActual != nil {
		effort = *effortActual
	}
	source := e.completionSource(move)

	now := e.cal.Now()
	done := models.StageDone
	updated, err := e.db.UpdateMove(id, database.MoveUpdate{
		Stage:        &done,
		EffortActual: &effort,
		CompletedAt:  &now,
	}, now)
	if err != nil {
		return nil, err
	}

	if _, err := e.db.CloseBacklogEntry(id, now, false); err != nil {
		return nil, err
	}

	e.recordCompletion(updated, source)
	return updated, nil
}

// AutoPromote moves an aged backlog item to queued, closing its ledger
// entry with the auto flag. Called by the backlog sweep; moves that have
// already left the backlog are returned unchanged.
func (e *Engine) AutoPromote(id int) (*models.Move, error) {
	move, err := e.db.GetMove(id)
	if err != nil {
		return nil, err
	}
	if move == nil {
		return nil, nil
	}
	if move.Stage != models.StageBacklog {
		return move, nil
	}

	updated, err := e.setStage(move, models.StageQueued, true)
	if err != nil {
		return nil, err
	}

	if updated.ClientID != nil {
		if err := e.rebalance(*updated.ClientID, id); err != nil {
			return nil, err
		}
		return e.db.GetMove(id)
	}
	return updated, nil
}

// setStage is the normal update path for non-completing stage changes:
// it persists the stage, clears completion fields when leaving done, and
// keeps the backlog ledger consistent. auto marks a ledger close as
// automatic.
func (e *Engine) setStage(move *models.Move, newStage models.Stage, auto bool) (*models.Move, error) {
	now := e.cal.Now()
	upd := database.MoveUpdate{Stage: &newStage}

	if move.Stage == models.StageDone && newStage != models.StageDone {
		upd.ClearCompletedAt = true
		upd.ClearEffortActual = true
		if move.CompletedAt != nil {
			date := e.cal.DateKey(*move.CompletedAt)
			if _, err := e.db.RemoveCompletion(date, move.ID); err != nil {
				return nil, err
			}
		}
	}

	updated, err := e.db.UpdateMove(move.ID, upd, now)
	if err != nil {
		return nil, err
	}

	if newStage == models.StageBacklog && move.Stage != models.StageBacklog {
		if err := e.openLedger(updated); err != nil {
			return nil, err
		}
	}
	if move.Stage == models.StageBacklog && newStage != models.StageBacklog {
		if _, err := e.db.CloseBacklogEntry(move.ID, now, auto); err != nil {
			return nil, err
		}
	}

	return updated, nil
}
