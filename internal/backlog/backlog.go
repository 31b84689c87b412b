// Package backlog tracks how long moves sit in the backlog, classifies
// per-client backlog health, and promotes items that have aged out.
package backlog

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/models"
)

// Health thresholds beyond the configurable aging/auto-promote days.
const (
	criticalAgingCount = 5
	warningAgingCount  = 2

	pullWindowDays = 7
	pullMultiple   = 5
	pullRatio      = 0.10
	pullMinSample  = 10
)

// Service aggregates ledger state and runs the auto-promotion sweep.
type Service struct {
	db              *database.DB
	cal             *clock.Calendar
	engine          *engine.Engine
	agingDays       int
	autoPromoteDays int
}

// NewService creates a backlog service. agingDays is when an entry starts
// counting as aging; autoPromoteDays is when the sweep promotes it.
func NewService(db *database.DB, cal *clock.Calendar, eng *engine.Engine, agingDays, autoPromoteDays int) *Service {
	return &Service{
		db:              db,
		cal:             cal,
		engine:          eng,
		agingDays:       agingDays,
		autoPromoteDays: autoPromoteDays,
	}
}

// Health reports backlog aging per client and an overall classification.
// Inactive and internal clients are excluded; clients with an empty backlog
// are still reported, sorted first, because no ready work is its own risk.
func (s *Service) Health() (*models.BacklogHealthReport, error) {
	clients, err := s.db.ListClients(true)
	if err != nil {
		return nil, err
	}

	eligible := make(map[string]bool)
	var rows []models.ClientBacklogHealth
	idx := make(map[string]int)
	for _, c := range clients {
		if c.Category == models.CategoryInternal {
			continue
		}
		key := strings.ToLower(c.Name)
		eligible[key] = true
		idx[key] = len(rows)
		rows = append(rows, models.ClientBacklogHealth{ClientName: c.Name})
	}

	entries, err := s.db.OpenBacklogEntries()
	if err != nil {
		return nil, err
	}

	now := s.cal.Now()
	sums := make(map[string]int)
	report := &models.BacklogHealthReport{Status: models.HealthHealthy}
	for _, e := range entries {
		key := strings.ToLower(e.ClientName)
		i, ok := idx[key]
		if !ok || !eligible[key] {
			continue
		}

		age := e.AgeDays(now)
		rows[i].TotalCount++
		sums[key] += age
		if age >= s.agingDays {
			rows[i].AgingCount++
		}
		if age > rows[i].OldestDays {
			rows[i].OldestDays = age
		}

		report.TotalCount++
		if age >= s.agingDays {
			report.AgingCount++
		}
		if age > report.OldestDays {
			report.OldestDays = age
		}
	}

	for i := range rows {
		if rows[i].TotalCount > 0 {
			avg := float64(sums[strings.ToLower(rows[i].ClientName)]) / float64(rows[i].TotalCount)
			rows[i].AvgDays = int(avg + 0.5)
		}
	}

	// Empty backlogs first, then oldest-first among the rest.
	sort.SliceStable(rows, func(a, b int) bool {
		ea, eb := rows[a].TotalCount == 0, rows[b].TotalCount == 0
		if ea != eb {
			return ea
		}
		return rows[a].OldestDays > rows[b].OldestDays
	})
	report.Clients = rows

	switch {
	case report.OldestDays >= s.autoPromoteDays || report.AgingCount >= criticalAgingCount:
		report.Status = models.HealthCritical
	case report.OldestDays >= s.agingDays || report.AgingCount >= warningAgingCount:
		report.Status = models.HealthWarning
	}

	return report, nil
}

// AutoPromoteSweep finds entries aged past the threshold and, unless
// dryRun is set, promotes their moves to queued with the auto flag. The
// candidate list is returned either way.
func (s *Service) AutoPromoteSweep(dryRun bool) ([]models.BacklogEntry, error) {
	entries, err := s.db.OpenBacklogEntries()
	if err != nil {
		return nil, err
	}

	now := s.cal.Now()
	var candidates []models.BacklogEntry
	for _, e := range entries {
		if e.AgeDays(now) >= s.autoPromoteDays {
			candidates = append(candidates, e)
		}
	}

	if dryRun {
		return candidates, nil
	}

	for _, e := range candidates {
		if _, err := s.engine.AutoPromote(e.MoveID); err != nil {
			slog.Error("auto-promote failed", "move_id", e.MoveID, "error", err)
		}
	}

	return candidates, nil
}

// PullAdvice is the "should pull from backlog" recommendation.
type PullAdvice struct {
	ShouldPull   bool    `json:"should_pull"`
	BacklogDone  int     `json:"backlog_done"`
	OtherDone    int     `json:"other_done"`
	BacklogRatio float64 `json:"backlog_ratio"`
}

// ShouldPull compares the trailing week's backlog-sourced completions
// against the rest. Pulling is recommended when other work outpaces
// backlog work fivefold, or when the backlog ratio drops under 10% with
// enough sample.
func (s *Service) ShouldPull() (*PullAdvice, error) {
	now := s.cal.Now()
	from := s.cal.DateKey(now.AddDate(0, 0, -(pullWindowDays - 1)))
	to := s.cal.DateKey(now)

	recs, err := s.db.CompletionsBetween(from, to)
	if err != nil {
		return nil, err
	}

	advice := &PullAdvice{}
	for _, r := range recs {
		if r.Source == models.SourceBacklog {
			advice.BacklogDone++
		} else {
			advice.OtherDone++
		}
	}

	total := advice.BacklogDone + advice.OtherDone
	if total > 0 {
		advice.BacklogRatio = float64(advice.BacklogDone) / float64(total)
	}

	if advice.OtherDone > advice.BacklogDone*pullMultiple && advice.OtherDone > 0 {
		advice.ShouldPull = true
	}
	if total >= pullMinSample && advice.BacklogRatio < pullRatio {
		advice.ShouldPull = true
	}

	return advice, nil
}
