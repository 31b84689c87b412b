package models

import "time"

// Move represents a single unit of trackable work
type Move struct {
	ID             int        `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description,omitempty" db:"description"`
	ClientID       *int       `json:"client_id,omitempty" db:"client_id"`
	Stage          Stage      `json:"stage" db:"stage"`
	EffortEstimate int        `json:"effort_estimate" db:"effort_estimate"`
	EffortActual   *int       `json:"effort_actual,omitempty" db:"effort_actual"`
	DrainType      *string    `json:"drain_type,omitempty" db:"drain_type"`
	SortOrder      int        `json:"sort_order" db:"sort_order"`
	TaskRef        *string    `json:"task_ref,omitempty" db:"task_ref"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// CreateMoveInput represents the input for creating a new move
type CreateMoveInput struct {
	Title          string  `json:"title" minLength:"1" maxLength:"200" doc:"Short title for the move"`
	Description    string  `json:"description,omitempty" maxLength:"2000" doc:"Optional longer description"`
	ClientID       *int    `json:"client_id,omitempty" doc:"Owning client ID"`
	Stage          string  `json:"stage,omitempty" enum:"backlog,queued,active,done" doc:"Initial stage (default backlog)"`
	EffortEstimate int     `json:"effort_estimate,omitempty" minimum:"1" maximum:"4" doc:"Effort ordinal 1-4"`
	DrainType      *string `json:"drain_type,omitempty" maxLength:"40" doc:"Categorical drain tag"`
	TaskRef        *string `json:"task_ref,omitempty" maxLength:"80" doc:"Opaque external tracker task ID"`
}

// UpdateMoveInput represents the input for a partial move update
type UpdateMoveInput struct {
	Title          *string `json:"title,omitempty" minLength:"1" maxLength:"200" doc:"Short title for the move"`
	Description    *string `json:"description,omitempty" maxLength:"2000" doc:"Longer description"`
	ClientID       *int    `json:"client_id,omitempty" doc:"Owning client ID"`
	Stage          *string `json:"stage,omitempty" enum:"backlog,queued,active,done" doc:"New stage"`
	EffortEstimate *int    `json:"effort_estimate,omitempty" minimum:"1" maximum:"4" doc:"Effort ordinal 1-4"`
	DrainType      *string `json:"drain_type,omitempty" maxLength:"40" doc:"Categorical drain tag"`
	SortOrder      *int    `json:"sort_order,omitempty" doc:"Manual sort position"`
}

// CompleteMoveInput represents the input for completing a move
type CompleteMoveInput struct {
	EffortActual *int `json:"effort_actual,omitempty" minimum:"1" maximum:"4" doc:"Actual effort ordinal (defaults to the estimate)"`
}

// MoveFilter is used to filter move listings.
type MoveFilter struct {
	Stage            *Stage
	ClientID         *int
	IncludeCompleted bool
}
