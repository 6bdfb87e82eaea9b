package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mara/opsdesk/internal/domain"
)

func TestClient_AuthAndRequestIDHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(&entryPayload{ID: "e1", Status: "running"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", time.Second)
	_, err := c.StartTimeEntry(context.Background(), StartTimeEntryRequest{
		OwnerID: "o1", ClientID: "c1", TaskLabel: "design",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("mutations must carry a request id")
	}
}

func TestClient_GetOmitsRequestID(t *testing.T) {
	var gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode([]*clientPayload{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	if _, err := c.ListClients(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReqID != "" {
		t.Fatalf("reads are idempotent and carry no request id, got %q", gotReqID)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorReply{Error: "timer already active"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	_, err := c.StartTimeEntry(context.Background(), StartTimeEntryRequest{OwnerID: "o1"})
	if err == nil {
		t.Fatalf("expected error")
	}

	var re *domain.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *domain.RemoteError, got %T", err)
	}
	if re.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", re.StatusCode)
	}
	if re.Message != "timer already active" {
		t.Fatalf("expected server message, got %q", re.Message)
	}
	if re.Op != "startTimeEntry" {
		t.Fatalf("expected op name, got %q", re.Op)
	}
}

func TestClient_CommitRoundTrip(t *testing.T) {
	end := time.Date(2026, 8, 10, 17, 30, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/entries/e1/commit" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			EndTime         time.Time `json:"end_time"`
			DurationMinutes int64     `json:"duration_minutes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !body.EndTime.Equal(end) || body.DurationMinutes != 90 {
			t.Fatalf("unexpected commit body: %+v", body)
		}

		minutes := body.DurationMinutes
		json.NewEncoder(w).Encode(&entryPayload{
			ID:              "e1",
			EndTime:         &body.EndTime,
			DurationMinutes: &minutes,
			HourlyRate:      decimal.NewFromInt(120),
			IsBillable:      true,
			Status:          "committed",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	entry, err := c.CommitTimeEntry(context.Background(), "e1", end, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != domain.EntryStatusCommitted {
		t.Fatalf("expected committed status, got %s", entry.Status)
	}
	if !entry.DurationHours().Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("expected 1.5 hours, got %s", entry.DurationHours())
	}
	if !entry.TotalCost().Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected cost 180, got %s", entry.TotalCost())
	}
}

func TestClient_ListProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/projects" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]*projectPayload{
			{
				ID:          "p1",
				ClientID:    "c1",
				Name:        "Brand refresh",
				HourlyRate:  decimal.NewFromInt(120),
				LoggedHours: decimal.RequireFromString("12.5"),
			},
			{ID: "p2", ClientID: "c1", Name: "Retainer"},
		})
	}))
	defer srv.Close()

	// The full Service contract must be reachable over HTTP; the
	// synchronizer refetches projects through this call.
	var svc Service = NewClient(srv.URL, "tok", time.Second)
	projects, err := svc.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "Brand refresh" || !projects[0].HourlyRate.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unexpected project: %+v", projects[0])
	}
	if !projects[0].LoggedHours.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected derived aggregates to survive the round trip, got %s", projects[0].LoggedHours)
	}
}

func TestClient_ListEntriesFilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("project_id") != "p1" || q.Get("billable") != "true" || q.Get("unbilled") != "true" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]*entryPayload{{ID: "e1", Status: "committed"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	entries, err := c.ListTimeEntries(context.Background(), EntryFilter{
		ProjectID: "p1", BillableOnly: true, UnbilledOnly: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}
