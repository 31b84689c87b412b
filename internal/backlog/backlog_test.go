package backlog

import (
	"testing"
	"time"

	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/models"
)

var now = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db  *database.DB
	svc *Service
	eng *engine.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewMemory()
	if err != nil {
		t.Fatalf("new memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cal := clock.NewFixed(time.UTC, now)
	eng := engine.New(db, cal, nil, nil, 180)
	return &fixture{
		db:  db,
		svc: NewService(db, cal, eng, 7, 10),
		eng: eng,
	}
}

func (f *fixture) client(t *testing.T, name string, category string) int {
	t.Helper()
	c, err := f.db.CreateClient(name, category)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c.ID
}

// backlogMove creates a backlog move whose ledger entry is backdated by
// ageDays, simulating an item that has been sitting since then.
func (f *fixture) backlogMove(t *testing.T, clientID int, title string, ageDays int) *models.Move {
	t.Helper()
	past := now.AddDate(0, 0, -ageDays)
	cal := clock.NewFixed(time.UTC, past)
	eng := engine.New(f.db, cal, nil, nil, 180)
	m, err := eng.CreateMove(models.CreateMoveInput{Title: title, ClientID: &clientID})
	if err != nil {
		t.Fatalf("create backlog move: %v", err)
	}
	return m
}

func TestHealthHealthy(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "acme", models.CategoryExternal)
	f.backlogMove(t, acme, "fresh", 2)

	report, err := f.svc.Health()
	if err != nil {
		t.Fatal(err)
	}
	if report.Status != models.HealthHealthy {
		t.Fatalf("expected healthy, got %s", report.Status)
	}
	if report.TotalCount != 1 || report.AgingCount != 0 || report.OldestDays != 2 {
		t.Fatalf("unexpected totals: %+v", report)
	}
}

func TestHealthWarningOnAging(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "acme", models.CategoryExternal)
	f.backlogMove(t, acme, "aging", 8)

	report, err := f.svc.Health()
	if err != nil {
		t.Fatal(err)
	}
	if report.Status != models.HealthWarning {
		t.Fatalf("an 8-day entry against a 7-day threshold should warn, got %s", report.Status)
	}
	if report.AgingCount != 1 {
		t.Fatalf("expected one aging entry, got %d", report.AgingCount)
	}
}

func TestHealthCriticalOnOldest(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "acme", models.CategoryExternal)
	f.backlogMove(t, acme, "ancient", 12)

	report, err := f.svc.Health()
	if err != nil {
		t.Fatal(err)
	}
	if report.Status != models.HealthCritical {
		t.Fatalf("a 12-day entry against a 10-day threshold is critical, got %s", report.Status)
	}
}

func TestHealthExcludesInternalAndSortsEmptyFirst(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "acme", models.CategoryExternal)
	f.client(t, "globex", models.CategoryExternal) // empty backlog
	ops := f.client(t, "ops", models.CategoryInternal)

	f.backlogMove(t, acme, "work", 3)
	f.backlogMove(t, ops, "chore", 20)

	report, err := f.svc.Health()
	if err != nil {
		t.Fatal(err)
	}

	// The internal client's ancient entry must not drag the status down.
	if report.Status != models.HealthHealthy {
		t.Fatalf("internal clients should be excluded, got %s", report.Status)
	}
	if len(report.Clients) != 2 {
		t.Fatalf("expected two client rows, got %+v", report.Clients)
	}
	if report.Clients[0].ClientName != "globex" {
		t.Fatalf("empty backlog should sort first, got %s", report.Clients[0].ClientName)
	}
	if report.Clients[1].ClientName != "acme" || report.Clients[1].TotalCount != 1 {
		t.Fatalf("unexpected second row: %+v", report.Clients[1])
	}
}

func TestAutoPromoteSweepDryRun(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "acme", models.CategoryExternal)
	old := f.backlogMove(t, acme, "old", 11)
	f.backlogMove(t, acme, "young", 3)

	candidates, err := f.svc.AutoPromoteSweep(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].MoveID != old.ID {
		t.Fatalf("expected only the 11-day entry, got %+v", candidates)
	}

	// Dry run changes nothing.
	m, err := f.db.GetMove(old.ID)
	if err != nil {
		t.Fatal(err)
	}
	if m.Stage != models.StageBacklog {
		t.Fatalf("dry run must not promote, got %s", m.Stage)
	}
}

func TestAutoPromoteSweepPromotes(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "acme", models.CategoryExternal)
	old := f.backlogMove(t, acme, "old", 11)

	candidates, err := f.svc.AutoPromoteSweep(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}

	m, err := f.db.GetMove(old.ID)
	if err != nil {
		t.Fatal(err)
	}
	if m.Stage != models.StageQueued {
		t.Fatalf("sweep should promote to queued, got %s", m.Stage)
	}

	// The closed ledger entry carries the auto flag.
	history, err := f.db.EntriesForMove(old.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].PromotedAt == nil || !history[0].AutoPromoted {
		t.Fatalf("expected a closed auto-promoted entry, got %+v", history)
	}
}

func TestShouldPullOnImbalance(t *testing.T) {
	f := newFixture(t)

	// Six pipeline completions against one backlog completion this week.
	for i := 1; i <= 6; i++ {
		seedCompletion(t, f.db, "2025-01-07", i, models.SourcePipeline)
	}
	seedCompletion(t, f.db, "2025-01-07", 7, models.SourceBacklog)

	advice, err := f.svc.ShouldPull()
	if err != nil {
		t.Fatal(err)
	}
	if !advice.ShouldPull {
		t.Fatalf("6:1 should trigger the fivefold rule, got %+v", advice)
	}
	if advice.BacklogDone != 1 || advice.OtherDone != 6 {
		t.Fatalf("unexpected counts: %+v", advice)
	}
}

func TestShouldPullBalanced(t *testing.T) {
	f := newFixture(t)

	seedCompletion(t, f.db, "2025-01-06", 1, models.SourceBacklog)
	seedCompletion(t, f.db, "2025-01-07", 2, models.SourcePipeline)
	seedCompletion(t, f.db, "2025-01-08", 3, models.SourcePipeline)

	advice, err := f.svc.ShouldPull()
	if err != nil {
		t.Fatal(err)
	}
	if advice.ShouldPull {
		t.Fatalf("balanced week should not recommend pulling, got %+v", advice)
	}
}

func TestShouldPullIgnoresOldCompletions(t *testing.T) {
	f := newFixture(t)

	// Outside the trailing 7-day window.
	for i := 1; i <= 6; i++ {
		seedCompletion(t, f.db, "2024-12-20", i, models.SourcePipeline)
	}

	advice, err := f.svc.ShouldPull()
	if err != nil {
		t.Fatal(err)
	}
	if advice.ShouldPull || advice.OtherDone != 0 {
		t.Fatalf("stale completions should be ignored, got %+v", advice)
	}
}

func seedCompletion(t *testing.T, db *database.DB, date string, moveID int, source string) {
	t.Helper()
	_, err := db.AppendCompletion(date, models.CompletionRecord{
		MoveID:        moveID,
		Description:   "seeded",
		CompletedAt:   now,
		Source:        source,
		EarnedMinutes: 20,
	})
	if err != nil {
		t.Fatalf("seed completion: %v", err)
	}
}
