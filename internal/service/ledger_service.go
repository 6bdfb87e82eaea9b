package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

// SortField selects the ledger sort key.
type SortField string

const (
	SortFieldStartTime SortField = "start_time"
	SortFieldDuration  SortField = "duration"
	SortFieldProject   SortField = "project"
	SortFieldTask      SortField = "task"
)

// EntrySort describes the ledger ordering. The sort is stable, so equal
// keys keep their insertion order.
type EntrySort struct {
	Field      SortField
	Descending bool
}

// EntryFilter narrows the ledger listing. Zero values match everything.
type EntryFilter struct {
	ProjectID    string
	TaskLabel    string
	BillableOnly bool
}

// ManualEntryInput is the user-supplied form of a manual entry. Duration
// is never part of it; it is always derived from Start and End.
type ManualEntryInput struct {
	OwnerID     string
	ClientID    string
	ProjectID   string
	TaskLabel   string
	Description string
	Start       time.Time
	End         time.Time
	Billable    bool
}

// LedgerService holds the mirrored collection of committed time entries
// and exposes filtering, sorting and the mutating operations. Every
// mutation refreshes the dependent caches before resolving, because
// duration and billability changes move project and client aggregates.
type LedgerService interface {
	// List filters and sorts the cached entries. Pure, no remote call.
	List(filter EntryFilter, order EntrySort) []*domain.TimeEntry

	// CreateManual validates and creates a manual committed entry.
	CreateManual(ctx context.Context, input ManualEntryInput) (*domain.TimeEntry, error)

	// Update amends a committed entry.
	Update(ctx context.Context, id string, patch remote.EntryPatch) (*domain.TimeEntry, error)

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error
}

type ledgerService struct {
	remote remote.Service
	caches *cache.Caches
	syncer SyncService
}

// NewLedgerService creates a ledger service.
func NewLedgerService(svc remote.Service, caches *cache.Caches, syncer SyncService) LedgerService {
	return &ledgerService{remote: svc, caches: caches, syncer: syncer}
}

func (s *ledgerService) List(filter EntryFilter, order EntrySort) []*domain.TimeEntry {
	entries := s.caches.Entries.Items()

	filtered := entries[:0:0]
	for _, e := range entries {
		if filter.ProjectID != "" && e.ProjectID != filter.ProjectID {
			continue
		}
		if filter.TaskLabel != "" && !strings.EqualFold(e.TaskLabel, filter.TaskLabel) {
			continue
		}
		if filter.BillableOnly && !e.IsBillable {
			continue
		}
		filtered = append(filtered, e)
	}

	projectNames := make(map[string]string)
	for _, p := range s.caches.Projects.Items() {
		projectNames[p.ID] = p.Name
	}

	less := s.lessFunc(order.Field, projectNames)
	sort.SliceStable(filtered, func(i, j int) bool {
		if order.Descending {
			return less(filtered[j], filtered[i])
		}
		return less(filtered[i], filtered[j])
	})
	return filtered
}

func (s *ledgerService) lessFunc(field SortField, projectNames map[string]string) func(a, b *domain.TimeEntry) bool {
	switch field {
	case SortFieldDuration:
		return func(a, b *domain.TimeEntry) bool {
			return a.DurationHours().LessThan(b.DurationHours())
		}
	case SortFieldProject:
		return func(a, b *domain.TimeEntry) bool {
			return projectNames[a.ProjectID] < projectNames[b.ProjectID]
		}
	case SortFieldTask:
		return func(a, b *domain.TimeEntry) bool {
			return strings.ToLower(a.TaskLabel) < strings.ToLower(b.TaskLabel)
		}
	default:
		return func(a, b *domain.TimeEntry) bool {
			return a.StartTime.Before(b.StartTime)
		}
	}
}

func (s *ledgerService) CreateManual(ctx context.Context, input ManualEntryInput) (*domain.TimeEntry, error) {
	rate := decimal.Zero
	if input.ProjectID != "" {
		project := s.caches.ProjectByID(input.ProjectID)
		if project == nil {
			return nil, &domain.ValidationError{Field: "project", Reason: "unknown project"}
		}
		rate = project.HourlyRate
	} else if input.Billable {
		return nil, &domain.ValidationError{Field: "project", Reason: "billable entries require a project"}
	}

	entry, err := domain.NewManualEntry(input.OwnerID, input.ClientID, input.ProjectID,
		input.TaskLabel, input.Description, input.Start, input.End, rate, input.Billable)
	if err != nil {
		return nil, err
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	created, err := s.remote.CreateTimeEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	return created, s.syncer.Synchronize(ctx, MutationTimeEntry)
}

func (s *ledgerService) Update(ctx context.Context, id string, patch remote.EntryPatch) (*domain.TimeEntry, error) {
	// Validate the patched start/end pair before touching the network.
	// When only one bound changes, the other comes from the cached entry.
	start, end := s.cachedBounds(id)
	if patch.StartTime != nil {
		start = patch.StartTime
	}
	if patch.EndTime != nil {
		end = patch.EndTime
	}
	if start != nil && end != nil && !end.After(*start) {
		return nil, &domain.ValidationError{Field: "end time", Reason: "must be strictly after start time"}
	}

	updated, err := s.remote.UpdateTimeEntry(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return updated, s.syncer.Synchronize(ctx, MutationTimeEntry)
}

func (s *ledgerService) Delete(ctx context.Context, id string) error {
	if err := s.remote.DeleteTimeEntry(ctx, id); err != nil {
		return err
	}
	return s.syncer.Synchronize(ctx, MutationTimeEntry)
}

func (s *ledgerService) cachedBounds(id string) (*time.Time, *time.Time) {
	for _, e := range s.caches.Entries.Items() {
		if e.ID == id {
			start := e.StartTime
			return &start, e.EndTime
		}
	}
	return nil, nil
}
