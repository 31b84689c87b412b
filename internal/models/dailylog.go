package models

import "time"

// Completion sources
const (
	SourceBacklog  = "backlog"
	SourcePipeline = "pipeline"
)

// CompletionRecord is one completed-move entry in a day's log.
type CompletionRecord struct {
	MoveID        int       `json:"move_id" db:"move_id"`
	Description   string    `json:"description" db:"description"`
	ClientName    string    `json:"client_name" db:"client_name"`
	CompletedAt   time.Time `json:"completed_at" db:"completed_at"`
	Source        string    `json:"source" db:"source"`
	EarnedMinutes int       `json:"earned_minutes" db:"earned_minutes"`
}

// DailyLog aggregates one calendar date's completions. A move ID appears at
// most once in Completions for a given date; NotifiedMilestones only grows
// within a day.
type DailyLog struct {
	Date               string             `json:"date"`
	Completions        []CompletionRecord `json:"completions"`
	ClientsTouched     []string           `json:"clients_touched"`
	ClientsSkipped     []string           `json:"clients_skipped"`
	BacklogDone        int                `json:"backlog_done"`
	OtherDone          int                `json:"other_done"`
	NotifiedMilestones []int              `json:"notified_milestones"`
}
