package momentum

import "testing"

func TestEarnedMinutes(t *testing.T) {
	cases := []struct {
		effort int
		want   int
	}{
		{1, 10},
		{2, 20},
		{3, 45},
		{4, 90},
		{0, DefaultEarnedMinutes},
		{5, DefaultEarnedMinutes},
		{-1, DefaultEarnedMinutes},
	}
	for _, c := range cases {
		if got := EarnedMinutes(c.effort); got != c.want {
			t.Errorf("EarnedMinutes(%d) = %d, want %d", c.effort, got, c.want)
		}
	}
}

func TestPacingPercent(t *testing.T) {
	cases := []struct {
		name      string
		estimated int
		target    int
		want      int
	}{
		{"zero estimated", 0, 180, 0},
		{"quarter", 45, 180, 25},
		{"half", 90, 180, 50},
		{"exact", 180, 180, 100},
		{"over target clamps", 400, 180, 100},
		{"rounds", 100, 180, 56},
		{"zero target", 90, 0, 0},
		{"negative estimated", -10, 180, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PacingPercent(c.estimated, c.target); got != c.want {
				t.Errorf("PacingPercent(%d, %d) = %d, want %d", c.estimated, c.target, got, c.want)
			}
		})
	}
}

func TestComputeScorePerfectWeek(t *testing.T) {
	// Hitting every target yields 100 across the board.
	s := ComputeScore(900, 450, 5, 900, 5)
	if s.Score != 100 {
		t.Fatalf("expected score 100, got %d", s.Score)
	}
	if s.Trend != "up" || s.Label != "Unstoppable" {
		t.Fatalf("expected up/Unstoppable, got %s/%s", s.Trend, s.Label)
	}
}

func TestComputeScoreEmptyWeek(t *testing.T) {
	s := ComputeScore(0, 0, 0, 900, 5)
	if s.Score != 0 {
		t.Fatalf("expected score 0, got %d", s.Score)
	}
	if s.Trend != "down" || s.Label != "Recovery Mode" {
		t.Fatalf("expected down/Recovery Mode, got %s/%s", s.Trend, s.Label)
	}
}

func TestComputeScoreOverachievingClamps(t *testing.T) {
	// Doubling every target still caps each component at 100.
	s := ComputeScore(1800, 1800, 7, 900, 5)
	if s.Velocity != 100 || s.Consistency != 100 || s.Impact != 100 {
		t.Fatalf("components should clamp at 100, got %v/%v/%v", s.Velocity, s.Consistency, s.Impact)
	}
	if s.Score != 100 {
		t.Fatalf("expected score 100, got %d", s.Score)
	}
}

func TestComputeScoreComponents(t *testing.T) {
	// 450/900 velocity, 3/5 consistency, 90/450 high-effort against the 0.5
	// impact target: 0.4*50 + 0.3*60 + 0.3*40 = 50.
	s := ComputeScore(450, 90, 3, 900, 5)
	if s.Score != 50 {
		t.Fatalf("expected score 50, got %d", s.Score)
	}
	if s.Label != "Gaining Traction" {
		t.Fatalf("expected Gaining Traction, got %s", s.Label)
	}
}

func TestScoreLabelBoundaries(t *testing.T) {
	cases := []struct {
		score int
		trend string
		label string
	}{
		{100, "up", "Unstoppable"},
		{80, "up", "Unstoppable"},
		{79, "stable", "Solid"},
		{60, "stable", "Solid"},
		{59, "stable", "Gaining Traction"},
		{40, "stable", "Gaining Traction"},
		{39, "down", "Recovery Mode"},
		{0, "down", "Recovery Mode"},
	}
	for _, c := range cases {
		trend, label := scoreLabel(c.score)
		if trend != c.trend || label != c.label {
			t.Errorf("scoreLabel(%d) = %s/%s, want %s/%s", c.score, trend, label, c.trend, c.label)
		}
	}
}
