// Package worker runs background maintenance on a fixed interval: the
// stale-active sweep, the backlog auto-promotion sweep, and the push of
// local stage changes to the external tracker. The sweeps only demote or
// auto-promote per their own rules and are idempotent, so they are safe to
// run alongside normal API traffic.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/models"
	"github.com/m.wallace/momentum-engine/internal/tracker"
)

// Worker manages the background maintenance loop.
type Worker struct {
	db          *database.DB
	engine      *engine.Engine
	backlog     *backlog.Service
	tracker     tracker.Client
	shutdown    chan struct{}
	maintTicker *time.Ticker
	syncTicker  *time.Ticker
	running     atomic.Bool
	stopped     bool

	maintInterval time.Duration
	syncInterval  time.Duration
}

// New creates a worker instance.
func New(db *database.DB, eng *engine.Engine, bl *backlog.Service, tr tracker.Client, maintInterval, syncInterval time.Duration) *Worker {
	return &Worker{
		db:            db,
		engine:        eng,
		backlog:       bl,
		tracker:       tr,
		shutdown:      make(chan struct{}),
		maintInterval: maintInterval,
		syncInterval:  syncInterval,
	}
}

// Start begins the worker loop
func (w *Worker) Start() {
	slog.Info("worker starting", "maintenance_interval", w.maintInterval, "sync_interval", w.syncInterval)

	w.maintTicker = time.NewTicker(w.maintInterval)
	w.syncTicker = time.NewTicker(w.syncInterval)

	go w.workerLoop()
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	// Check if already stopped (idempotent)
	if w.stopped {
		return
	}
	w.stopped = true

	slog.Info("worker stopping")
	close(w.shutdown)

	if w.maintTicker != nil {
		w.maintTicker.Stop()
	}
	if w.syncTicker != nil {
		w.syncTicker.Stop()
	}
}

// workerLoop is the main worker loop
func (w *Worker) workerLoop() {
	for {
		select {
		case <-w.maintTicker.C:
			if !w.running.Load() {
				w.runMaintenance()
			}

		case <-w.syncTicker.C:
			w.syncTracker()

		case <-w.shutdown:
			slog.Info("worker loop exiting")
			return
		}
	}
}

// runMaintenance runs the stale-active and auto-promotion sweeps.
func (w *Worker) runMaintenance() {
	w.running.Store(true)
	defer w.running.Store(false)

	demoted, err := w.engine.StaleActiveSweep()
	if err != nil {
		slog.Error("stale-active sweep failed", "error", err)
	} else if demoted > 0 {
		slog.Info("stale-active sweep demoted moves", "count", demoted)
	}

	promoted, err := w.backlog.AutoPromoteSweep(false)
	if err != nil {
		slog.Error("auto-promote sweep failed", "error", err)
	} else if len(promoted) > 0 {
		slog.Info("auto-promote sweep promoted moves", "count", len(promoted))
	}
}

// syncTracker pushes local stages for tracker-linked moves of every active
// client. Tracker failures are logged and never touch local state.
func (w *Worker) syncTracker() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clients, err := w.db.ListClients(true)
	if err != nil {
		slog.Error("tracker sync: failed to list clients", "error", err)
		return
	}

	for _, c := range clients {
		clientID := c.ID
		moves, err := w.db.ListMoves(models.MoveFilter{ClientID: &clientID, IncludeCompleted: true})
		if err != nil {
			slog.Error("tracker sync: failed to list moves", "client", c.Name, "error", err)
			continue
		}

		for _, m := range moves {
			if m.TaskRef == nil || *m.TaskRef == "" {
				continue
			}
			if err := w.tracker.SetTaskStage(ctx, *m.TaskRef, string(m.Stage)); err != nil {
				slog.Warn("tracker sync: stage push failed", "task", *m.TaskRef, "error", err)
			}
		}
	}
}
