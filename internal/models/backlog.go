package models

import "time"

// BacklogEntry is one ledger row tracking a move's most recent backlog
// residency. At most one entry per move has PromotedAt == nil at a time;
// re-entering the backlog opens a new row rather than reopening the old one.
type BacklogEntry struct {
	ID           int        `json:"id" db:"id"`
	MoveID       int        `json:"move_id" db:"move_id"`
	TaskID       string     `json:"task_id" db:"task_id"`
	ClientName   string     `json:"client_name" db:"client_name"`
	EnteredAt    time.Time  `json:"entered_at" db:"entered_at"`
	PromotedAt   *time.Time `json:"promoted_at,omitempty" db:"promoted_at"`
	AutoPromoted bool       `json:"auto_promoted" db:"auto_promoted"`
}

// AgeDays returns the entry's age in whole days at the given instant.
func (e *BacklogEntry) AgeDays(now time.Time) int {
	d := now.Sub(e.EnteredAt)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// ClientBacklogHealth summarizes one client's backlog aging.
type ClientBacklogHealth struct {
	ClientName string `json:"client_name"`
	TotalCount int    `json:"total_count"`
	AgingCount int    `json:"aging_count"`
	OldestDays int    `json:"oldest_days"`
	AvgDays    int    `json:"avg_days"`
}

// Backlog health statuses
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// BacklogHealthReport is the overall backlog health aggregation.
type BacklogHealthReport struct {
	Status     string                `json:"status"`
	OldestDays int                   `json:"oldest_days"`
	AgingCount int                   `json:"aging_count"`
	TotalCount int                   `json:"total_count"`
	Clients    []ClientBacklogHealth `json:"clients"`
}
