package cache

import (
	"testing"

	"github.com/mara/opsdesk/internal/domain"
)

func TestStore_StartsStale(t *testing.T) {
	caches := New()
	if caches.Clients.Fresh() || caches.Entries.Fresh() {
		t.Fatalf("stores must start stale until the first refetch")
	}
	if len(caches.Clients.Items()) != 0 {
		t.Fatalf("expected empty initial snapshot")
	}
}

func TestStore_ReplaceAndMarkStale(t *testing.T) {
	caches := New()
	caches.Clients.Replace([]*domain.Client{{ID: "c1"}, {ID: "c2"}})

	if !caches.Clients.Fresh() {
		t.Fatalf("expected fresh after replace")
	}
	if caches.Clients.RefreshedAt().IsZero() {
		t.Fatalf("expected refresh timestamp")
	}

	caches.Clients.MarkStale()
	if caches.Clients.Fresh() {
		t.Fatalf("expected stale after MarkStale")
	}
	// The old snapshot is kept for display, just flagged.
	if len(caches.Clients.Items()) != 2 {
		t.Fatalf("stale data must remain readable")
	}
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	caches := New()
	caches.Projects.Replace([]*domain.Project{{ID: "p1"}, {ID: "p2"}})

	items := caches.Projects.Items()
	items[0], items[1] = items[1], items[0]

	again := caches.Projects.Items()
	if again[0].ID != "p1" {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestCaches_Lookups(t *testing.T) {
	caches := New()
	caches.Clients.Replace([]*domain.Client{{ID: "c1", Name: "ACME"}})
	caches.Projects.Replace([]*domain.Project{{ID: "p1", Name: "Website"}})

	if c := caches.ClientByID("c1"); c == nil || c.Name != "ACME" {
		t.Fatalf("expected client lookup to succeed")
	}
	if caches.ClientByID("nope") != nil {
		t.Fatalf("expected nil for unknown client")
	}
	if p := caches.ProjectByID("p1"); p == nil || p.Name != "Website" {
		t.Fatalf("expected project lookup to succeed")
	}
}
