// Package momentum converts completed work into pacing and momentum
// metrics. The scoring functions here are pure; Service wires them to the
// store and calendar.
package momentum

import "math"

// effortMinutes maps an effort ordinal to its earned-minute value.
var effortMinutes = map[int]int{
	1: 10,
	2: 20,
	3: 45,
	4: 90,
}

// DefaultEarnedMinutes is used for a missing or unrecognized effort ordinal.
const DefaultEarnedMinutes = 20

// HighEffortMinutes is the earned-minute floor for "high impact" moves.
const HighEffortMinutes = 45

// Momentum score weights and targets.
const (
	velocityWeight    = 0.4
	consistencyWeight = 0.3
	impactWeight      = 0.3

	impactTargetRatio = 0.5
)

// EarnedMinutes returns the fixed minute value for an effort ordinal.
// The drain-type tag does not affect minutes yet.
func EarnedMinutes(effort int) int {
	if m, ok := effortMinutes[effort]; ok {
		return m
	}
	return DefaultEarnedMinutes
}

// PacingPercent returns estimated/target as a percentage clamped to [0, 100].
func PacingPercent(estimatedMinutes, targetMinutes int) int {
	if targetMinutes <= 0 || estimatedMinutes <= 0 {
		return 0
	}
	pct := int(math.Round(float64(estimatedMinutes) / float64(targetMinutes) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Score is the weighted momentum blend for one week.
type Score struct {
	Velocity    float64 `json:"velocity"`
	Consistency float64 `json:"consistency"`
	Impact      float64 `json:"impact"`
	Score       int     `json:"score"`
	Trend       string  `json:"trend"`
	Label       string  `json:"label"`
}

// ComputeScore blends velocity, consistency and impact for the current week.
// totalMinutes and highMinutes are earned minutes; activeDays counts days
// with at least one completion.
func ComputeScore(totalMinutes, highMinutes, activeDays, targetWeeklyMinutes, targetActiveDays int) Score {
	velocity := clamp01(float64(totalMinutes)/float64(targetWeeklyMinutes)) * 100
	consistency := clamp01(float64(activeDays)/float64(targetActiveDays)) * 100

	impactRatio := 0.0
	if totalMinutes > 0 {
		impactRatio = float64(highMinutes) / float64(totalMinutes)
	}
	impact := clamp01(impactRatio/impactTargetRatio) * 100

	score := int(math.Round(velocity*velocityWeight + consistency*consistencyWeight + impact*impactWeight))
	trend, label := scoreLabel(score)

	return Score{
		Velocity:    velocity,
		Consistency: consistency,
		Impact:      impact,
		Score:       score,
		Trend:       trend,
		Label:       label,
	}
}

func scoreLabel(score int) (trend, label string) {
	switch {
	case score >= 80:
		return "up", "Unstoppable"
	case score >= 60:
		return "stable", "Solid"
	case score >= 40:
		return "stable", "Gaining Traction"
	default:
		return "down", "Recovery Mode"
	}
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
