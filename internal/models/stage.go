package models

// Stage is a move's position in the fixed-capacity pipeline.
type Stage string

const (
	StageBacklog Stage = "backlog"
	StageQueued  Stage = "queued"
	StageActive  Stage = "active"
	StageDone    Stage = "done"
)

// stageTransitions is the explicit transition table. A nil entry means the
// transition is a no-op in that direction. Done is reachable from any stage
// via Complete and left via a generic update, so it has no promote/demote row.
var stageTransitions = map[Stage]struct {
	Promote *Stage
	Demote  *Stage
}{
	StageBacklog: {Promote: stagePtr(StageQueued), Demote: nil},
	StageQueued:  {Promote: stagePtr(StageActive), Demote: stagePtr(StageBacklog)},
	StageActive:  {Promote: nil, Demote: stagePtr(StageQueued)},
	StageDone:    {Promote: nil, Demote: nil},
}

// stageRank orders the three pipeline stages for forward-jump checks.
// Done is deliberately absent: it is terminal, not "ahead".
var stageRank = map[Stage]int{
	StageBacklog: 0,
	StageQueued:  1,
	StageActive:  2,
}

func stagePtr(s Stage) *Stage { return &s }

// Valid reports whether s is one of the four known stages.
func (s Stage) Valid() bool {
	_, ok := stageTransitions[s]
	return ok
}

// NextStage returns the stage one step ahead of s, or nil when s has no
// successor (active, done, or an unrecognized value).
func NextStage(s Stage) *Stage {
	t, ok := stageTransitions[s]
	if !ok {
		return nil
	}
	return t.Promote
}

// PrevStage returns the stage one step behind s, or nil when s has no
// predecessor (backlog, done, or an unrecognized value).
func PrevStage(s Stage) *Stage {
	t, ok := stageTransitions[s]
	if !ok {
		return nil
	}
	return t.Demote
}

// StageAhead reports whether target is strictly ahead of current in the
// pipeline order. Returns false if either stage is done or unrecognized.
func StageAhead(target, current Stage) bool {
	tr, ok := stageRank[target]
	if !ok {
		return false
	}
	cr, ok := stageRank[current]
	if !ok {
		return false
	}
	return tr > cr
}
