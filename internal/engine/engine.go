// Package engine implements the work-item pipeline: stage transitions,
// per-client capacity rebalancing, backlog ledger bookkeeping and
// completion logging.
package engine

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/models"
	"github.com/m.wallace/momentum-engine/internal/momentum"
)

// ErrInvalidStage is returned when input names a stage the pipeline does
// not know. Legal-but-pointless transitions are no-ops, never errors.
var ErrInvalidStage = errors.New("invalid stage")

// Notifier dispatches a pacing milestone notification. Implementations are
// fire-and-forget; a returned error is logged and never rolls back the
// mutation that triggered it.
type Notifier interface {
	Dispatch(milestone, count int) error
}

// Engine coordinates all pipeline mutations over the store.
type Engine struct {
	db                 *database.DB
	cal                *clock.Calendar
	notifier           Notifier
	milestones         []int
	dailyTargetMinutes int

	mu          sync.Mutex
	clientLocks map[int]*sync.Mutex
}

// New creates an engine. notifier may be nil when notifications are not
// configured; milestones are pacing percent thresholds.
func New(db *database.DB, cal *clock.Calendar, notifier Notifier, milestones []int, dailyTargetMinutes int) *Engine {
	return &Engine{
		db:                 db,
		cal:                cal,
		notifier:           notifier,
		milestones:         milestones,
		dailyTargetMinutes: dailyTargetMinutes,
		clientLocks:        make(map[int]*sync.Mutex),
	}
}

// clientLock returns the mutex serializing rebalances for one client.
func (e *Engine) clientLock(clientID int) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.clientLocks[clientID]
	if !ok {
		lock = &sync.Mutex{}
		e.clientLocks[clientID] = lock
	}
	return lock
}

// clientName resolves a move's owning client name, empty for unassigned.
func (e *Engine) clientName(move *models.Move) string {
	if move.ClientID == nil {
		return ""
	}
	client, err := e.db.GetClient(*move.ClientID)
	if err != nil || client == nil {
		return ""
	}
	return client.Name
}

// openLedger records the move entering the backlog. The ledger's task ID is
// the tracker reference when the move has one, otherwise a minted UUID.
func (e *Engine) openLedger(move *models.Move) error {
	taskID := uuid.NewString()
	if move.TaskRef != nil && *move.TaskRef != "" {
		taskID = *move.TaskRef
	}
	_, err := e.db.OpenBacklogEntry(move.ID, taskID, e.clientName(move), e.cal.Now())
	return err
}

// recordCompletion appends the move to the date's daily log and runs the
// milestone pacing check. Duplicate completions are absorbed silently.
func (e *Engine) recordCompletion(move *models.Move, source string) {
	now := e.cal.Now()
	if move.CompletedAt != nil {
		now = *move.CompletedAt
	}
	date := e.cal.DateKey(now)

	added, err := e.db.AppendCompletion(date, models.CompletionRecord{
		MoveID:        move.ID,
		Description:   move.Title,
		ClientName:    e.clientName(move),
		CompletedAt:   now,
		Source:        source,
		EarnedMinutes: momentum.EarnedMinutes(move.EffortEstimate),
	})
	if err != nil {
		slog.Error("failed to log completion", "move_id", move.ID, "date", date, "error", err)
		return
	}
	if !added {
		slog.Debug("completion already logged", "move_id", move.ID, "date", date)
		return
	}

	e.checkMilestones(date)
}

// checkMilestones dispatches notifications for newly crossed pacing
// thresholds. Dispatch failures are logged; the set of sent milestones
// only grows within a day.
func (e *Engine) checkMilestones(date string) {
	recs, err := e.db.CompletionsForDate(date)
	if err != nil {
		slog.Error("failed to read completions for milestone check", "date", date, "error", err)
		return
	}

	minutes := 0
	for _, r := range recs {
		minutes += r.EarnedMinutes
	}
	pacing := momentum.PacingPercent(minutes, e.dailyTargetMinutes)

	sent, err := e.db.NotifiedMilestones(date)
	if err != nil {
		slog.Error("failed to read notified milestones", "date", date, "error", err)
		return
	}
	sentSet := make(map[int]bool, len(sent))
	for _, m := range sent {
		sentSet[m] = true
	}

	for _, milestone := range e.milestones {
		if pacing < milestone || sentSet[milestone] {
			continue
		}
		if e.notifier != nil {
			if err := e.notifier.Dispatch(milestone, len(recs)); err != nil {
				slog.Warn("milestone dispatch failed", "milestone", milestone, "error", err)
			}
		}
		if err := e.db.MarkMilestoneNotified(date, milestone); err != nil {
			slog.Error("failed to mark milestone", "date", date, "milestone", milestone, "error", err)
		}
	}
}
