package momentum

import (
	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/config"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/models"
)

// Service computes daily and weekly metrics over the store.
type Service struct {
	db      *database.DB
	cal     *clock.Calendar
	targets config.TargetsConfig
}

// NewService creates a metrics service.
func NewService(db *database.DB, cal *clock.Calendar, targets config.TargetsConfig) *Service {
	return &Service{db: db, cal: cal, targets: targets}
}

// DailyMetrics summarizes one calendar date's completed work.
type DailyMetrics struct {
	Date             string `json:"date"`
	CompletedCount   int    `json:"completed_count"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	PacingPercent    int    `json:"pacing_percent"`
	TargetMinutes    int    `json:"target_minutes"`
}

// WeeklyMetrics summarizes the current Monday-to-Sunday week.
type WeeklyMetrics struct {
	WeekStart    string         `json:"week_start"`
	Days         []DailyMetrics `json:"days"`
	TotalMinutes int            `json:"total_minutes"`
	ActiveDays   int            `json:"active_days"`
	Momentum     Score          `json:"momentum"`
}

// Today returns the current date's metrics.
func (s *Service) Today() (*DailyMetrics, error) {
	return s.metricsForDate(s.cal.Today())
}

func (s *Service) metricsForDate(date string) (*DailyMetrics, error) {
	recs, err := s.db.CompletionsForDate(date)
	if err != nil {
		return nil, err
	}

	minutes := 0
	for _, r := range recs {
		minutes += r.EarnedMinutes
	}

	return &DailyMetrics{
		Date:             date,
		CompletedCount:   len(recs),
		EstimatedMinutes: minutes,
		PacingPercent:    PacingPercent(minutes, s.targets.DailyMinutes),
		TargetMinutes:    s.targets.DailyMinutes,
	}, nil
}

// Weekly returns the current week's per-day metrics and momentum score.
func (s *Service) Weekly() (*WeeklyMetrics, error) {
	dates := s.cal.WeekDates(s.cal.Now())

	weekly := &WeeklyMetrics{WeekStart: dates[0]}
	highMinutes := 0

	for _, date := range dates {
		recs, err := s.db.CompletionsForDate(date)
		if err != nil {
			return nil, err
		}

		minutes := 0
		for _, r := range recs {
			minutes += r.EarnedMinutes
			if r.EarnedMinutes >= HighEffortMinutes {
				highMinutes += r.EarnedMinutes
			}
		}

		weekly.Days = append(weekly.Days, DailyMetrics{
			Date:             date,
			CompletedCount:   len(recs),
			EstimatedMinutes: minutes,
			PacingPercent:    PacingPercent(minutes, s.targets.DailyMinutes),
			TargetMinutes:    s.targets.DailyMinutes,
		})

		weekly.TotalMinutes += minutes
		if len(recs) > 0 {
			weekly.ActiveDays++
		}
	}

	weekly.Momentum = ComputeScore(
		weekly.TotalMinutes, highMinutes, weekly.ActiveDays,
		s.targets.WeeklyMinutes, s.targets.ActiveDays,
	)

	return weekly, nil
}

// DrainTypeStat aggregates completed moves sharing a drain tag.
type DrainTypeStat struct {
	DrainType string `json:"drain_type"`
	Count     int    `json:"count"`
	Minutes   int    `json:"minutes"`
}

// DrainTypes groups completions from the trailing window by drain tag.
// Untagged moves land in the "untagged" bucket.
func (s *Service) DrainTypes(windowDays int) ([]DrainTypeStat, error) {
	cutoff := s.cal.StartOfDay(s.cal.Now()).AddDate(0, 0, -windowDays)
	moves, err := s.db.CompletedMovesSince(cutoff)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*DrainTypeStat)
	order := []string{}
	for _, m := range moves {
		tag := "untagged"
		if m.DrainType != nil && *m.DrainType != "" {
			tag = *m.DrainType
		}
		stat, ok := byType[tag]
		if !ok {
			stat = &DrainTypeStat{DrainType: tag}
			byType[tag] = stat
			order = append(order, tag)
		}
		stat.Count++
		stat.Minutes += EarnedMinutes(m.EffortEstimate)
	}

	stats := make([]DrainTypeStat, 0, len(order))
	for _, tag := range order {
		stats = append(stats, *byType[tag])
	}
	return stats, nil
}

// ClientRollup summarizes one client's pipeline and recent output.
type ClientRollup struct {
	Client             models.Client `json:"client"`
	BacklogCount       int           `json:"backlog_count"`
	QueuedCount        int           `json:"queued_count"`
	ActiveCount        int           `json:"active_count"`
	CompletionsWeek    int           `json:"completions_week"`
	LastCompletionDate string        `json:"last_completion_date,omitempty"`
}

// Clients returns per-client pipeline rollups for active clients.
func (s *Service) Clients() ([]ClientRollup, error) {
	clients, err := s.db.ListClients(true)
	if err != nil {
		return nil, err
	}

	dates := s.cal.WeekDates(s.cal.Now())
	weekCounts, err := s.db.CompletionCountsByClient(dates[0], dates[6])
	if err != nil {
		return nil, err
	}
	lastByClient, err := s.db.LastCompletionByClient()
	if err != nil {
		return nil, err
	}

	rollups := make([]ClientRollup, 0, len(clients))
	for _, c := range clients {
		r := ClientRollup{Client: c, CompletionsWeek: weekCounts[c.Name]}
		for stage, dst := range map[models.Stage]*int{
			models.StageBacklog: &r.BacklogCount,
			models.StageQueued:  &r.QueuedCount,
			models.StageActive:  &r.ActiveCount,
		} {
			n, err := s.db.CountMovesByClientStage(c.ID, stage)
			if err != nil {
				return nil, err
			}
			*dst = n
		}
		if at, ok := lastByClient[c.Name]; ok {
			r.LastCompletionDate = s.cal.DateKey(at)
		}
		rollups = append(rollups, r)
	}

	return rollups, nil
}
