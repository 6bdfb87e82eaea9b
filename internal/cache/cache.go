// Package cache holds the locally mirrored collections. The remote
// service is the source of truth; every store here is a cache that is
// only ever replaced wholesale by a synchronizer refetch. Derived
// aggregates (balances, totals) are never mutated locally.
package cache

import (
	"sync"
	"time"

	"github.com/mara/opsdesk/internal/domain"
)

// Store holds one mirrored collection with a freshness flag. A store
// starts stale and becomes fresh only when Replace installs a snapshot.
type Store[T any] struct {
	mu          sync.RWMutex
	items       []T
	fresh       bool
	refreshedAt time.Time
}

// Items returns the current snapshot. The returned slice is a copy;
// callers may sort or filter it freely.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Replace installs a new snapshot and marks the store fresh.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.fresh = true
	s.refreshedAt = time.Now()
}

// MarkStale flags the snapshot as possibly out of date. The data is kept
// so the UI can still render it, clearly flagged, until a retry succeeds.
func (s *Store[T]) MarkStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fresh = false
}

// Fresh reports whether the snapshot reflects the last known
// authoritative state.
func (s *Store[T]) Fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fresh
}

// RefreshedAt returns the time of the last installed snapshot.
func (s *Store[T]) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Caches bundles the four mirrored collections.
type Caches struct {
	Clients  *Store[*domain.Client]
	Projects *Store[*domain.Project]
	Invoices *Store[*domain.Invoice]
	Entries  *Store[*domain.TimeEntry]
}

// New creates an empty, stale set of caches.
func New() *Caches {
	return &Caches{
		Clients:  &Store[*domain.Client]{},
		Projects: &Store[*domain.Project]{},
		Invoices: &Store[*domain.Invoice]{},
		Entries:  &Store[*domain.TimeEntry]{},
	}
}

// ClientByID returns the cached client with the given id, or nil.
func (c *Caches) ClientByID(id string) *domain.Client {
	for _, cl := range c.Clients.Items() {
		if cl.ID == id {
			return cl
		}
	}
	return nil
}

// ProjectByID returns the cached project with the given id, or nil.
func (c *Caches) ProjectByID(id string) *domain.Project {
	for _, p := range c.Projects.Items() {
		if p.ID == id {
			return p
		}
	}
	return nil
}
