package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/domain"
)

func TestRefreshPlan(t *testing.T) {
	tests := []struct {
		kind MutationKind
		want []Collection
	}{
		{MutationTimeEntry, []Collection{CollectionClients, CollectionProjects, CollectionEntries}},
		{MutationInvoice, []Collection{CollectionClients, CollectionProjects, CollectionInvoices}},
		{MutationProject, []Collection{CollectionClients, CollectionProjects, CollectionInvoices, CollectionEntries}},
		{MutationClient, []Collection{CollectionClients}},
	}

	s := NewSyncService(&mockRemote{}, cache.New(), "owner-1")
	for _, tt := range tests {
		got := s.Plan(tt.kind)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: expected %d collections, got %d", tt.kind, len(tt.want), len(got))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: expected %v, got %v", tt.kind, tt.want, got)
			}
		}
	}
}

func TestSynchronize_InstallsAllCollections(t *testing.T) {
	rm := &mockRemote{
		clients:  []*domain.Client{{ID: "c1", Name: "ACME"}},
		projects: []*domain.Project{{ID: "p1", ClientID: "c1", Name: "Website"}},
		entries:  []*domain.TimeEntry{{ID: "e1", OwnerID: "owner-1"}},
	}
	caches := cache.New()
	s := NewSyncService(rm, caches, "owner-1")

	if err := s.Synchronize(context.Background(), MutationTimeEntry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !caches.Clients.Fresh() || !caches.Projects.Fresh() || !caches.Entries.Fresh() {
		t.Fatalf("expected clients, projects and entries to be fresh")
	}
	if caches.Invoices.Fresh() {
		t.Fatalf("invoices are not part of the time entry plan and must stay stale")
	}
	if len(caches.Clients.Items()) != 1 || len(caches.Entries.Items()) != 1 {
		t.Fatalf("expected snapshots to be installed")
	}
	if len(caches.Projects.Items()) != 1 {
		t.Fatalf("expected the projects snapshot to be installed")
	}
	if rm.listProjectsCalls != 1 {
		t.Fatalf("expected one projects refetch, got %d", rm.listProjectsCalls)
	}
	if rm.listInvoicesCalls != 0 {
		t.Fatalf("expected no invoice refetch for a time entry mutation, got %d", rm.listInvoicesCalls)
	}
}

func TestSynchronize_AllOrNothing(t *testing.T) {
	rm := &mockRemote{
		clients:        []*domain.Client{{ID: "c1", Name: "ACME"}},
		projects:       []*domain.Project{{ID: "p1", Name: "Website"}},
		listEntriesErr: errors.New("service unavailable"),
	}
	caches := cache.New()
	// Seed all caches fresh so we can observe the stale transition.
	caches.Clients.Replace([]*domain.Client{{ID: "old"}})
	caches.Projects.Replace([]*domain.Project{{ID: "old"}})
	caches.Invoices.Replace([]*domain.Invoice{{ID: "old"}})
	caches.Entries.Replace([]*domain.TimeEntry{{ID: "old"}})

	s := NewSyncService(rm, caches, "owner-1")
	err := s.Synchronize(context.Background(), MutationTimeEntry)
	if err == nil {
		t.Fatalf("expected error when one refetch fails")
	}

	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected *SyncError, got %T", err)
	}
	if len(syncErr.Failed) != 1 || syncErr.Failed[0] != CollectionEntries {
		t.Fatalf("expected entries to be the failed collection, got %v", syncErr.Failed)
	}

	// None of the planned caches may be fresh, and none may have been
	// replaced with a partial result.
	if caches.Clients.Fresh() || caches.Projects.Fresh() || caches.Entries.Fresh() {
		t.Fatalf("expected all planned caches to be stale after partial failure")
	}
	if got := caches.Clients.Items(); len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("expected client snapshot to be untouched, got %v", got)
	}
	if got := caches.Projects.Items(); len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("expected project snapshot to be untouched, got %v", got)
	}
	// Invoices were not in the plan and keep their freshness.
	if !caches.Invoices.Fresh() {
		t.Fatalf("expected invoice cache to be unaffected")
	}
}

func TestSynchronize_UnknownKind(t *testing.T) {
	s := NewSyncService(&mockRemote{}, cache.New(), "owner-1")
	if err := s.Synchronize(context.Background(), MutationKind("bogus")); err == nil {
		t.Fatalf("expected error for unknown mutation kind")
	}
}

// slowRemote blocks ListClients until released so two synchronize calls
// overlap and the coalescing can be observed.
type slowRemote struct {
	mockRemote
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (m *slowRemote) ListClients(ctx context.Context) ([]*domain.Client, error) {
	m.mu.Lock()
	m.calls++
	first := m.calls == 1
	m.mu.Unlock()
	if first {
		close(m.entered)
	}
	<-m.release
	return nil, nil
}

func TestSynchronize_CoalescesInFlightRefetches(t *testing.T) {
	rm := &slowRemote{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSyncService(rm, cache.New(), "owner-1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.Synchronize(context.Background(), MutationClient)
	}()

	<-rm.entered
	go func() {
		defer wg.Done()
		_ = s.Synchronize(context.Background(), MutationClient)
	}()

	// Give the second call time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(rm.release)
	wg.Wait()

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.calls != 1 {
		t.Fatalf("expected coalesced refetch, got %d calls", rm.calls)
	}
}
