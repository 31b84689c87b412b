package engine

import (
	"log/slog"

	"github.com/m.wallace/momentum-engine/internal/models"
)

// StaleActiveSweep demotes active moves last touched before the start of
// the current local day back to queued, so nothing squats in "active"
// across day boundaries without being worked. Returns how many moves were
// demoted. Safe to run concurrently with API traffic: it only ever demotes.
func (e *Engine) StaleActiveSweep() (int, error) {
	now := e.cal.Now()
	cutoff := e.cal.StartOfDay(now)

	stale, err := e.db.StaleActiveMoves(cutoff)
	if err != nil {
		return 0, err
	}

	yesterday := e.cal.DateKey(now.AddDate(0, 0, -1))
	demoted := 0
	for _, m := range stale {
		if _, err := e.setStage(&m, models.StageQueued, false); err != nil {
			return demoted, err
		}
		demoted++

		// A stale active means its client got no attention yesterday.
		if name := e.clientName(&m); name != "" {
			if err := e.db.MarkClientSkipped(yesterday, name); err != nil {
				slog.Warn("failed to mark client skipped", "client", name, "error", err)
			}
		}
	}

	return demoted, nil
}
