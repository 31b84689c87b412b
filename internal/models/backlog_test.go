package models

import (
	"testing"
	"time"
)

func TestAgeDays(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		entered time.Time
		want    int
	}{
		{"same instant", now, 0},
		{"under a day", now.Add(-23 * time.Hour), 0},
		{"exactly one day", now.AddDate(0, 0, -1), 1},
		{"partial days floor", now.Add(-36 * time.Hour), 1},
		{"a week", now.AddDate(0, 0, -7), 7},
		{"future entry", now.Add(time.Hour), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := BacklogEntry{EnteredAt: c.entered}
			if got := e.AgeDays(now); got != c.want {
				t.Errorf("AgeDays = %d, want %d", got, c.want)
			}
		})
	}
}
