package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

func committedEntry(id, projectID, task string, start time.Time, minutes int64, billable bool) *domain.TimeEntry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return &domain.TimeEntry{
		ID:              id,
		OwnerID:         "owner-1",
		ClientID:        "c1",
		ProjectID:       projectID,
		TaskLabel:       task,
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: &minutes,
		HourlyRate:      decimal.NewFromInt(100),
		IsBillable:      billable,
		Status:          domain.EntryStatusCommitted,
	}
}

func seededCaches() *cache.Caches {
	caches := cache.New()
	base := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	caches.Projects.Replace([]*domain.Project{
		{ID: "p1", ClientID: "c1", Name: "Website", HourlyRate: decimal.NewFromInt(120)},
		{ID: "p2", ClientID: "c1", Name: "API", HourlyRate: decimal.NewFromInt(150)},
	})
	caches.Entries.Replace([]*domain.TimeEntry{
		committedEntry("e1", "p1", "design", base, 90, true),
		committedEntry("e2", "p2", "backend", base.Add(time.Hour), 60, true),
		committedEntry("e3", "p1", "design", base.Add(2*time.Hour), 90, false),
		committedEntry("e4", "p2", "meeting", base.Add(3*time.Hour), 30, true),
	})
	return caches
}

func TestList_FiltersAndSorts(t *testing.T) {
	svc := NewLedgerService(&mockRemote{}, seededCaches(), &mockSyncer{})

	got := svc.List(EntryFilter{ProjectID: "p1"}, EntrySort{Field: SortFieldStartTime})
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e3" {
		t.Fatalf("expected [e1 e3], got %v", entryIDs(got))
	}

	got = svc.List(EntryFilter{BillableOnly: true}, EntrySort{Field: SortFieldDuration, Descending: true})
	if len(got) != 3 || got[0].ID != "e1" {
		t.Fatalf("expected e1 (90 min) first, got %v", entryIDs(got))
	}

	got = svc.List(EntryFilter{TaskLabel: "Design"}, EntrySort{Field: SortFieldStartTime})
	if len(got) != 2 {
		t.Fatalf("expected case-insensitive task match, got %v", entryIDs(got))
	}

	// Project name sort: "API" (p2) before "Website" (p1).
	got = svc.List(EntryFilter{}, EntrySort{Field: SortFieldProject})
	if got[0].ProjectID != "p2" {
		t.Fatalf("expected p2 entries first when sorting by project name, got %v", entryIDs(got))
	}
}

func TestList_StableSortKeepsInsertionOrder(t *testing.T) {
	svc := NewLedgerService(&mockRemote{}, seededCaches(), &mockSyncer{})

	// e1 and e3 have equal 90 minute durations; insertion order must
	// survive the sort, deterministically, on every call.
	for i := 0; i < 10; i++ {
		got := svc.List(EntryFilter{ProjectID: "p1"}, EntrySort{Field: SortFieldDuration})
		if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e3" {
			t.Fatalf("run %d: expected stable [e1 e3], got %v", i, entryIDs(got))
		}
	}
}

func entryIDs(entries []*domain.TimeEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestCreateManual_Validation(t *testing.T) {
	ctx := context.Background()
	rm := &mockRemote{}
	remoteCalled := false
	rm.createFn = func(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
		remoteCalled = true
		created := *entry
		created.ID = "entry-created"
		return &created, nil
	}
	svc := NewLedgerService(rm, seededCaches(), &mockSyncer{})

	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	input := ManualEntryInput{
		OwnerID:   "owner-1",
		ClientID:  "c1",
		ProjectID: "p1",
		TaskLabel: "retro",
		Start:     base,
		End:       base, // end == start
		Billable:  true,
	}

	if _, err := svc.CreateManual(ctx, input); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for end == start, got %v", err)
	}

	input.End = base.Add(-time.Hour)
	if _, err := svc.CreateManual(ctx, input); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for end < start, got %v", err)
	}
	if remoteCalled {
		t.Fatalf("invalid input must never reach the remote service")
	}

	input.End = base.Add(90 * time.Minute)
	entry, err := svc.CreateManual(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entry.DurationHours().Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("expected 1.5 hours, got %s", entry.DurationHours())
	}
	// The rate comes from the project contract, never from the input.
	if !entry.HourlyRate.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected project rate 120, got %s", entry.HourlyRate)
	}
}

func TestMutations_TriggerSynchronizer(t *testing.T) {
	ctx := context.Background()
	syncer := &mockSyncer{}
	svc := NewLedgerService(&mockRemote{}, seededCaches(), syncer)

	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	if _, err := svc.CreateManual(ctx, ManualEntryInput{
		OwnerID: "owner-1", ClientID: "c1", ProjectID: "p1",
		TaskLabel: "retro", Start: base, End: base.Add(time.Hour), Billable: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label := "amended"
	if _, err := svc.Update(ctx, "e1", remote.EntryPatch{TaskLabel: &label}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(syncer.kinds) != 3 {
		t.Fatalf("expected 3 synchronizations, got %d", len(syncer.kinds))
	}
	for _, kind := range syncer.kinds {
		if kind != MutationTimeEntry {
			t.Fatalf("expected time entry mutation kind, got %s", kind)
		}
	}
}

func TestUpdate_RejectsInvertedBounds(t *testing.T) {
	ctx := context.Background()
	rm := &mockRemote{}
	rm.updateFn = func(ctx context.Context, id string, patch remote.EntryPatch) (*domain.TimeEntry, error) {
		t.Fatalf("invalid patch must never reach the remote service")
		return nil, nil
	}
	svc := NewLedgerService(rm, seededCaches(), &mockSyncer{})

	// e1 starts 2026-08-03 09:00; an end before that is invalid even
	// though the patch only carries the end bound.
	bad := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	if _, err := svc.Update(ctx, "e1", remote.EntryPatch{EndTime: &bad}); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDelete_RemoteFailureSkipsSynchronizer(t *testing.T) {
	ctx := context.Background()
	rm := &mockRemote{}
	rm.deleteFn = func(ctx context.Context, id string) error {
		return &domain.RemoteError{Op: "deleteTimeEntry", Err: errors.New("timeout")}
	}
	syncer := &mockSyncer{}
	svc := NewLedgerService(rm, seededCaches(), syncer)

	if err := svc.Delete(ctx, "e1"); err == nil {
		t.Fatalf("expected remote error")
	}
	if len(syncer.kinds) != 0 {
		t.Fatalf("no synchronization may run after a failed mutation")
	}
}
