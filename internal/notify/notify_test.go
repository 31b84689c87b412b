package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDispatchPostsPayload(t *testing.T) {
	var got map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
	}))
	defer srv.Close()

	d := New(srv.URL)
	if err := d.Dispatch(50, 3); err != nil {
		t.Fatal(err)
	}
	if got["milestone"] != 50 || got["count"] != 3 {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestDispatchDisabledWithoutURL(t *testing.T) {
	d := New("")
	if err := d.Dispatch(25, 1); err != nil {
		t.Fatalf("empty URL should be a silent no-op, got %v", err)
	}
}

func TestDispatchReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := New(srv.URL)
	if err := d.Dispatch(25, 1); err == nil {
		t.Fatal("expected error for a 500 response")
	}
}
