package engine

import "github.com/m.wallace/momentum-engine/internal/models"

// rebalance restores the "at most one active, at most one queued" invariant
// for a client by cascading demotions. The move that triggered the
// rebalance is preserved; otherwise the newest move in the stage wins.
// The cascade is greedy and single-pass, not globally optimal.
func (e *Engine) rebalance(clientID, preserveID int) error {
	lock := e.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	// Pass one: collapse extra actives into queued.
	actives, err := e.db.MovesByClientStage(clientID, models.StageActive)
	if err != nil {
		return err
	}
	if len(actives) > 1 {
		keep := pickKeeper(actives, preserveID)
		for _, m := range actives {
			if m.ID == keep {
				continue
			}
			if _, err := e.setStage(&m, models.StageQueued, false); err != nil {
				return err
			}
		}
	}

	// Pass two: collapse extra queued (including just-demoted) into backlog.
	queued, err := e.db.MovesByClientStage(clientID, models.StageQueued)
	if err != nil {
		return err
	}
	if len(queued) > 1 {
		keep := pickKeeper(queued, preserveID)
		for _, m := range queued {
			if m.ID == keep {
				continue
			}
			if _, err := e.setStage(&m, models.StageBacklog, false); err != nil {
				return err
			}
		}
	}

	return nil
}

// pickKeeper returns the preserved move's ID when present, otherwise the
// first (newest-created) move's.
func pickKeeper(moves []models.Move, preserveID int) int {
	for _, m := range moves {
		if m.ID == preserveID {
			return preserveID
		}
	}
	return moves[0].ID
}
