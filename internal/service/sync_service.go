package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/remote"
)

// Collection identifies one locally mirrored collection.
type Collection string

const (
	CollectionClients  Collection = "clients"
	CollectionProjects Collection = "projects"
	CollectionInvoices Collection = "invoices"
	CollectionEntries  Collection = "entries"
)

// MutationKind classifies a remote mutation by the entity it touched.
type MutationKind string

const (
	MutationTimeEntry MutationKind = "time_entry"
	MutationInvoice   MutationKind = "invoice"
	MutationProject   MutationKind = "project"
	MutationClient    MutationKind = "client"
)

// refreshPlan maps each mutation kind to the collections whose derived
// aggregates it can change. This table is the whole contract: a time
// entry mutation moves project cost totals and client balances, an
// invoice mutation moves balances and billed state, a project mutation
// can cascade everywhere, a client mutation only touches clients.
var refreshPlan = map[MutationKind][]Collection{
	MutationTimeEntry: {CollectionClients, CollectionProjects, CollectionEntries},
	MutationInvoice:   {CollectionClients, CollectionProjects, CollectionInvoices},
	MutationProject:   {CollectionClients, CollectionProjects, CollectionInvoices, CollectionEntries},
	MutationClient:    {CollectionClients},
}

// allCollections is the warm-up / manual-refresh plan.
var allCollections = []Collection{
	CollectionClients, CollectionProjects, CollectionInvoices, CollectionEntries,
}

// SyncError reports a refetch batch that did not complete. The affected
// caches have been marked stale; none of them were replaced, so the UI
// never observes a half-refreshed snapshot.
type SyncError struct {
	Kind   MutationKind
	Failed []Collection
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("refresh after %s mutation failed for %v: %v", e.Kind, e.Failed, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// SyncService refetches the dependent caches after a mutation so locally
// displayed aggregates match the authoritative source.
type SyncService interface {
	// Synchronize refetches every collection listed for kind. The
	// refetches run concurrently and the call resolves only once all of
	// them have completed. On any failure nothing is installed, the
	// listed caches are marked stale, and a *SyncError is returned.
	Synchronize(ctx context.Context, kind MutationKind) error

	// SynchronizeAll refreshes all four collections. Used at startup and
	// for the manual refresh command.
	SynchronizeAll(ctx context.Context) error

	// Plan returns the collections refreshed for a mutation kind.
	Plan(kind MutationKind) []Collection
}

type syncService struct {
	remote  remote.Service
	caches  *cache.Caches
	ownerID string

	// group coalesces refetches of the same collection so rapid user
	// actions do not multiply identical read calls.
	group singleflight.Group
}

// NewSyncService creates a synchronizer over the given remote service and
// caches. Entry refetches are scoped to ownerID.
func NewSyncService(svc remote.Service, caches *cache.Caches, ownerID string) SyncService {
	return &syncService{
		remote:  svc,
		caches:  caches,
		ownerID: ownerID,
	}
}

func (s *syncService) Plan(kind MutationKind) []Collection {
	plan := refreshPlan[kind]
	out := make([]Collection, len(plan))
	copy(out, plan)
	return out
}

func (s *syncService) Synchronize(ctx context.Context, kind MutationKind) error {
	plan, ok := refreshPlan[kind]
	if !ok {
		return fmt.Errorf("unknown mutation kind %q", kind)
	}
	return s.refresh(ctx, kind, plan)
}

func (s *syncService) SynchronizeAll(ctx context.Context) error {
	return s.refresh(ctx, MutationProject, allCollections)
}

// refresh fetches every collection in plan concurrently, staging the
// results, and installs them only after the whole batch has succeeded.
// Staging is what gives the all-or-nothing guarantee: a partial refresh
// is never visible to readers.
func (s *syncService) refresh(ctx context.Context, kind MutationKind, plan []Collection) error {
	installs := make([]func(), len(plan))
	errs := make([]error, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	for i, col := range plan {
		g.Go(func() error {
			install, err := s.fetch(gctx, col)
			if err != nil {
				errs[i] = err
				return err
			}
			installs[i] = install
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// The batch is inconsistent. Keep the old data so the UI can
		// still render something, but flag every listed cache stale.
		failed := make([]Collection, 0, len(plan))
		for i, col := range plan {
			s.store(col).MarkStale()
			if errs[i] != nil {
				failed = append(failed, col)
			}
		}
		log.Warnf("refresh after %s mutation failed: %v", kind, err)
		return &SyncError{Kind: kind, Failed: failed, Err: err}
	}

	for _, install := range installs {
		install()
	}
	log.Debugf("refreshed %v after %s mutation", plan, kind)
	return nil
}

// staleMarker is the slice of Store methods refresh needs regardless of
// the element type.
type staleMarker interface {
	MarkStale()
}

func (s *syncService) store(col Collection) staleMarker {
	switch col {
	case CollectionClients:
		return s.caches.Clients
	case CollectionProjects:
		return s.caches.Projects
	case CollectionInvoices:
		return s.caches.Invoices
	default:
		return s.caches.Entries
	}
}

// fetch retrieves one collection and returns the closure that installs
// it. Concurrent fetches of the same collection are de-duplicated; the
// refetches are pure reads, so sharing one result between coalesced
// callers is safe.
func (s *syncService) fetch(ctx context.Context, col Collection) (func(), error) {
	v, err, _ := s.group.Do(string(col), func() (interface{}, error) {
		switch col {
		case CollectionClients:
			items, err := s.remote.ListClients(ctx)
			if err != nil {
				return nil, err
			}
			return func() { s.caches.Clients.Replace(items) }, nil
		case CollectionProjects:
			items, err := s.remote.ListProjects(ctx)
			if err != nil {
				return nil, err
			}
			return func() { s.caches.Projects.Replace(items) }, nil
		case CollectionInvoices:
			items, err := s.remote.ListInvoices(ctx)
			if err != nil {
				return nil, err
			}
			return func() { s.caches.Invoices.Replace(items) }, nil
		case CollectionEntries:
			items, err := s.remote.ListTimeEntries(ctx, remote.EntryFilter{OwnerID: s.ownerID})
			if err != nil {
				return nil, err
			}
			return func() { s.caches.Entries.Replace(items) }, nil
		default:
			return nil, fmt.Errorf("unknown collection %q", col)
		}
	})
	if err != nil {
		return nil, err
	}
	return v.(func()), nil
}
