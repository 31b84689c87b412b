package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"

	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/config"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/models"
	"github.com/m.wallace/momentum-engine/internal/momentum"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	db, err := database.NewMemory()
	if err != nil {
		t.Fatalf("new memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cal := clock.NewFixed(time.UTC, time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC))
	eng := engine.New(db, cal, nil, []int{25, 50, 75, 100}, 180)
	backlogSvc := backlog.NewService(db, cal, eng, 7, 10)
	momentumSvc := momentum.NewService(db, cal, config.TargetsConfig{DailyMinutes: 180, WeeklyMinutes: 900, ActiveDays: 5})

	_, api := humatest.New(t, huma.DefaultConfig("Momentum API", "1.0.0"))
	NewServer(db, eng, backlogSvc, momentumSvc).RegisterRoutes(api)
	return api
}

func decodeMove(t *testing.T, body []byte) models.Move {
	t.Helper()
	var m models.Move
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode move: %v", err)
	}
	return m
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMoveLifecycle(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/moves", map[string]any{"title": "draft proposal", "effort_estimate": 3})
	if resp.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decodeMove(t, resp.Body.Bytes())
	if created.Stage != models.StageBacklog {
		t.Fatalf("expected backlog default, got %s", created.Stage)
	}

	resp = api.Post(fmt.Sprintf("/moves/%d/promote", created.ID), map[string]any{})
	if resp.Code != http.StatusOK {
		t.Fatalf("promote: expected 200, got %d", resp.Code)
	}
	if m := decodeMove(t, resp.Body.Bytes()); m.Stage != models.StageQueued {
		t.Fatalf("expected queued, got %s", m.Stage)
	}

	resp = api.Post(fmt.Sprintf("/moves/%d/complete", created.ID), map[string]any{"effort_actual": 2})
	if resp.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", resp.Code)
	}
	done := decodeMove(t, resp.Body.Bytes())
	if done.Stage != models.StageDone || done.CompletedAt == nil {
		t.Fatalf("expected a stamped done move, got %+v", done)
	}

	// The completed move is hidden from the default list.
	resp = api.Get("/moves")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var moves []models.Move
	if err := json.Unmarshal(resp.Body.Bytes(), &moves); err != nil {
		t.Fatal(err)
	}
	if len(moves) != 0 {
		t.Fatalf("done moves should be hidden by default, got %+v", moves)
	}

	resp = api.Get("/moves?includeCompleted=true")
	if err := json.Unmarshal(resp.Body.Bytes(), &moves); err != nil {
		t.Fatal(err)
	}
	if len(moves) != 1 {
		t.Fatalf("expected the done move when asked, got %d", len(moves))
	}

	resp = api.Delete(fmt.Sprintf("/moves/%d", created.ID))
	if resp.Code != http.StatusNoContent && resp.Code != http.StatusOK {
		t.Fatalf("delete: unexpected status %d", resp.Code)
	}
}

func TestGetMoveNotFound(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/moves/9999")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCreateMoveInvalidStage(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/moves", map[string]any{"title": "x", "stage": "limbo"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestClientEndpoints(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/clients", map[string]any{"name": "Acme"})
	if resp.Code != http.StatusOK {
		t.Fatalf("create client: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Same name in a different case collides.
	resp = api.Post("/clients", map[string]any{"name": "acme"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d", resp.Code)
	}

	resp = api.Get("/clients")
	if resp.Code != http.StatusOK {
		t.Fatalf("list clients: expected 200, got %d", resp.Code)
	}
	var clients []models.Client
	if err := json.Unmarshal(resp.Body.Bytes(), &clients); err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 || clients[0].Name != "Acme" {
		t.Fatalf("unexpected clients: %+v", clients)
	}
}

func TestMetricsEndpoints(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{
		"/metrics/today",
		"/metrics/weekly",
		"/metrics/backlog-health",
		"/metrics/clients",
		"/metrics/drain-types",
	} {
		resp := api.Get(path)
		if resp.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestMetricsTodayReflectsCompletions(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/moves", map[string]any{"title": "big one", "effort_estimate": 3})
	created := decodeMove(t, resp.Body.Bytes())
	api.Post(fmt.Sprintf("/moves/%d/complete", created.ID), map[string]any{})

	resp = api.Get("/metrics/today")
	var daily momentum.DailyMetrics
	if err := json.Unmarshal(resp.Body.Bytes(), &daily); err != nil {
		t.Fatal(err)
	}
	if daily.CompletedCount != 1 || daily.EstimatedMinutes != 45 || daily.PacingPercent != 25 {
		t.Fatalf("unexpected daily metrics: %+v", daily)
	}
}
