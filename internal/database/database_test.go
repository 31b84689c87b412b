package database

import (
	"testing"
	"time"

	"github.com/m.wallace/momentum-engine/internal/models"
)

var testNow = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedMove(t *testing.T, db *DB, m models.Move) *models.Move {
	t.Helper()
	created, err := db.CreateMove(&m, testNow)
	if err != nil {
		t.Fatalf("create move: %v", err)
	}
	return created
}

func TestClientNameIsCaseInsensitivelyUnique(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateClient("Acme", models.CategoryExternal); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateClient("acme", models.CategoryInternal); err == nil {
		t.Fatal("expected unique violation for same name in different case")
	}

	c, err := db.GetClientByName("ACME")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Name != "Acme" {
		t.Fatalf("case-insensitive lookup failed: %+v", c)
	}
}

func TestCreateClientDefaultsCategory(t *testing.T) {
	db := newTestDB(t)

	c, err := db.CreateClient("acme", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Category != models.CategoryExternal {
		t.Fatalf("expected external default, got %s", c.Category)
	}
	if !c.Active {
		t.Fatal("new clients should be active")
	}
}

func TestListClientsActiveOnly(t *testing.T) {
	db := newTestDB(t)

	a, err := db.CreateClient("acme", models.CategoryExternal)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateClient("globex", models.CategoryExternal); err != nil {
		t.Fatal(err)
	}

	inactive := false
	if _, err := db.UpdateClient(a.ID, models.UpdateClientInput{Active: &inactive}); err != nil {
		t.Fatal(err)
	}

	all, err := db.ListClients(false)
	if err != nil {
		t.Fatal(err)
	}
	active, err := db.ListClients(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || len(active) != 1 || active[0].Name != "globex" {
		t.Fatalf("expected 2 total / 1 active, got %d/%d", len(all), len(active))
	}
}

func TestListMovesExcludesCompletedByDefault(t *testing.T) {
	db := newTestDB(t)

	seedMove(t, db, models.Move{Title: "open", Stage: models.StageBacklog, EffortEstimate: 2})
	done := seedMove(t, db, models.Move{Title: "closed", Stage: models.StageDone, EffortEstimate: 2})
	if _, err := db.UpdateMove(done.ID, MoveUpdate{CompletedAt: &testNow}, testNow); err != nil {
		t.Fatal(err)
	}

	moves, err := db.ListMoves(models.MoveFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 1 || moves[0].Title != "open" {
		t.Fatalf("default list should hide done moves, got %+v", moves)
	}

	moves, err = db.ListMoves(models.MoveFilter{IncludeCompleted: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 {
		t.Fatalf("expected both moves, got %d", len(moves))
	}

	doneStage := models.StageDone
	moves, err = db.ListMoves(models.MoveFilter{Stage: &doneStage})
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 1 || moves[0].Title != "closed" {
		t.Fatalf("stage filter should surface done moves, got %+v", moves)
	}
}

func TestListMovesClientFilter(t *testing.T) {
	db := newTestDB(t)

	acme, err := db.CreateClient("acme", models.CategoryExternal)
	if err != nil {
		t.Fatal(err)
	}
	seedMove(t, db, models.Move{Title: "theirs", ClientID: &acme.ID, Stage: models.StageBacklog, EffortEstimate: 2})
	seedMove(t, db, models.Move{Title: "nobody's", Stage: models.StageBacklog, EffortEstimate: 2})

	moves, err := db.ListMoves(models.MoveFilter{ClientID: &acme.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 1 || moves[0].Title != "theirs" {
		t.Fatalf("expected only the client's move, got %+v", moves)
	}
}

func TestUpdateMovePartial(t *testing.T) {
	db := newTestDB(t)

	m := seedMove(t, db, models.Move{Title: "before", Stage: models.StageBacklog, EffortEstimate: 2})

	title := "after"
	effort := 4
	later := testNow.Add(time.Hour)
	updated, err := db.UpdateMove(m.ID, MoveUpdate{Title: &title, EffortEstimate: &effort}, later)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "after" || updated.EffortEstimate != 4 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Stage != models.StageBacklog {
		t.Fatalf("untouched fields must survive, got stage %s", updated.Stage)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatal("updated_at should be stamped")
	}
}

func TestUpdateMoveClearsCompletion(t *testing.T) {
	db := newTestDB(t)

	m := seedMove(t, db, models.Move{Title: "done", Stage: models.StageDone, EffortEstimate: 2})
	actual := 3
	if _, err := db.UpdateMove(m.ID, MoveUpdate{CompletedAt: &testNow, EffortActual: &actual}, testNow); err != nil {
		t.Fatal(err)
	}

	cleared, err := db.UpdateMove(m.ID, MoveUpdate{ClearCompletedAt: true, ClearEffortActual: true}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.CompletedAt != nil || cleared.EffortActual != nil {
		t.Fatalf("completion fields should be cleared, got %+v", cleared)
	}
}

func TestUpdateMoveMissing(t *testing.T) {
	db := newTestDB(t)
	title := "x"
	m, err := db.UpdateMove(9999, MoveUpdate{Title: &title}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Fatal("expected nil for a missing move")
	}
}

func TestAppendCompletionIdempotentPerDate(t *testing.T) {
	db := newTestDB(t)

	rec := models.CompletionRecord{
		MoveID: 1, Description: "d", ClientName: "acme",
		CompletedAt: testNow, Source: models.SourcePipeline, EarnedMinutes: 20,
	}
	added, err := db.AppendCompletion("2025-01-08", rec)
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Fatal("first append should add")
	}
	added, err = db.AppendCompletion("2025-01-08", rec)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Fatal("second append for the same date should be a no-op")
	}

	log, err := db.GetDailyLog("2025-01-08")
	if err != nil {
		t.Fatal(err)
	}
	if log.OtherDone != 1 || log.BacklogDone != 0 {
		t.Fatalf("counter should be bumped once, got %d/%d", log.OtherDone, log.BacklogDone)
	}
	if len(log.ClientsTouched) != 1 || log.ClientsTouched[0] != "acme" {
		t.Fatalf("expected acme touched, got %+v", log.ClientsTouched)
	}
}

func TestRemoveCompletion(t *testing.T) {
	db := newTestDB(t)

	rec := models.CompletionRecord{
		MoveID: 1, CompletedAt: testNow, Source: models.SourceBacklog, EarnedMinutes: 45,
	}
	if _, err := db.AppendCompletion("2025-01-08", rec); err != nil {
		t.Fatal(err)
	}

	removed, err := db.RemoveCompletion("2025-01-08", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Fatal("expected removal")
	}

	log, err := db.GetDailyLog("2025-01-08")
	if err != nil {
		t.Fatal(err)
	}
	if log.BacklogDone != 0 || len(log.Completions) != 0 {
		t.Fatalf("log should be amended, got %+v", log)
	}

	removed, err = db.RemoveCompletion("2025-01-08", 1)
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Fatal("second removal should report not found")
	}
}

func TestGetDailyLogMissing(t *testing.T) {
	db := newTestDB(t)
	log, err := db.GetDailyLog("2025-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if log != nil {
		t.Fatal("expected nil for a date with no log")
	}
}

func TestOpenBacklogEntrySingleOpenRow(t *testing.T) {
	db := newTestDB(t)

	first, err := db.OpenBacklogEntry(1, "task-a", "acme", testNow)
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.OpenBacklogEntry(1, "task-b", "acme", testNow.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatal("a move with an open entry should not get a second one")
	}

	closed, err := db.CloseBacklogEntry(1, testNow.Add(2*time.Hour), false)
	if err != nil {
		t.Fatal(err)
	}
	if !closed {
		t.Fatal("expected the open entry to close")
	}

	open, err := db.OpenEntryForMove(1)
	if err != nil {
		t.Fatal(err)
	}
	if open != nil {
		t.Fatal("no entry should remain open")
	}

	closed, err = db.CloseBacklogEntry(1, testNow, false)
	if err != nil {
		t.Fatal(err)
	}
	if closed {
		t.Fatal("closing with nothing open should report false")
	}
}

func TestMarkMilestoneNotified(t *testing.T) {
	db := newTestDB(t)

	for _, m := range []int{50, 25, 50} {
		if err := db.MarkMilestoneNotified("2025-01-08", m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.NotifiedMilestones("2025-01-08")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 25 || got[1] != 50 {
		t.Fatalf("expected sorted deduplicated [25 50], got %v", got)
	}
}

func TestCompletionCountsByClient(t *testing.T) {
	db := newTestDB(t)

	recs := []struct {
		date   string
		moveID int
		client string
	}{
		{"2025-01-06", 1, "acme"},
		{"2025-01-07", 2, "acme"},
		{"2025-01-07", 3, "globex"},
		{"2025-01-01", 4, "acme"}, // out of range
		{"2025-01-07", 5, ""},     // unassigned
	}
	for _, r := range recs {
		_, err := db.AppendCompletion(r.date, models.CompletionRecord{
			MoveID: r.moveID, ClientName: r.client,
			CompletedAt: testNow, Source: models.SourcePipeline, EarnedMinutes: 20,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	counts, err := db.CompletionCountsByClient("2025-01-06", "2025-01-12")
	if err != nil {
		t.Fatal(err)
	}
	if counts["acme"] != 2 || counts["globex"] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if _, ok := counts[""]; ok {
		t.Fatal("unassigned completions should not be counted")
	}
}

func TestCompletedMovesSince(t *testing.T) {
	db := newTestDB(t)

	old := seedMove(t, db, models.Move{Title: "old", Stage: models.StageDone, EffortEstimate: 2})
	oldAt := testNow.AddDate(0, 0, -40)
	if _, err := db.UpdateMove(old.ID, MoveUpdate{CompletedAt: &oldAt}, testNow); err != nil {
		t.Fatal(err)
	}

	recent := seedMove(t, db, models.Move{Title: "recent", Stage: models.StageDone, EffortEstimate: 2})
	recentAt := testNow.AddDate(0, 0, -2)
	if _, err := db.UpdateMove(recent.ID, MoveUpdate{CompletedAt: &recentAt}, testNow); err != nil {
		t.Fatal(err)
	}

	moves, err := db.CompletedMovesSince(testNow.AddDate(0, 0, -30))
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 1 || moves[0].Title != "recent" {
		t.Fatalf("expected only the recent completion, got %+v", moves)
	}
}
