package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

// InvoiceService drafts invoices from unbilled billable time and manages
// invoice status transitions. Finalization is a single atomic remote call
// that creates the invoice and marks the consumed entries billed; issuing
// it as two calls would open a double-billing window.
type InvoiceService interface {
	// DraftFromUnbilled builds a local preview invoice from the
	// project's unbilled billable entries. Nothing is persisted. Fails
	// with a ConflictError wrapping ErrNoUnbilledEntries when the set is
	// empty; callers surface that as a disabled action.
	DraftFromUnbilled(ctx context.Context, projectID string) (*domain.InvoiceDraft, error)

	// Finalize atomically creates the invoice and marks the consumed
	// entries billed, then refreshes the dependent caches. Re-entrant
	// calls for the same project fail with a ConflictError while one is
	// in flight. The created invoice is returned even when the follow-up
	// refresh fails; in that case err is a *SyncError.
	Finalize(ctx context.Context, projectID string, dueDate time.Time) (*domain.Invoice, error)

	// MarkSent transitions an invoice to sent.
	MarkSent(ctx context.Context, id string) error

	// MarkPaid transitions an invoice to paid with the given date.
	MarkPaid(ctx context.Context, id string, paidDate time.Time) error

	// CheckOverdue flags cached sent invoices past their due date as
	// overdue. Returns the number of invoices transitioned.
	CheckOverdue(ctx context.Context) (int, error)

	// List returns cached invoices, optionally filtered by status.
	List(status *domain.InvoiceStatus) []*domain.Invoice
}

type invoiceService struct {
	remote remote.Service
	caches *cache.Caches
	syncer SyncService

	mu         sync.Mutex
	finalizing map[string]bool // finalize in flight, by project
}

// NewInvoiceService creates an invoice service.
func NewInvoiceService(svc remote.Service, caches *cache.Caches, syncer SyncService) InvoiceService {
	return &invoiceService{
		remote:     svc,
		caches:     caches,
		syncer:     syncer,
		finalizing: make(map[string]bool),
	}
}

func (s *invoiceService) DraftFromUnbilled(ctx context.Context, projectID string) (*domain.InvoiceDraft, error) {
	project := s.caches.ProjectByID(projectID)
	if project == nil {
		return nil, &domain.ValidationError{Field: "project", Reason: "unknown project"}
	}

	entries, err := s.remote.ListTimeEntries(ctx, remote.EntryFilter{
		ProjectID:    projectID,
		BillableOnly: true,
		UnbilledOnly: true,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &domain.ConflictError{Op: "draft invoice", Err: domain.ErrNoUnbilledEntries}
	}

	// The line item rate is the project's contract rate at draft time,
	// not the per-entry rate.
	draft := &domain.InvoiceDraft{
		ProjectID: projectID,
		ClientID:  project.ClientID,
		LineItems: make([]*domain.InvoiceLineItem, 0, len(entries)),
		EntryIDs:  make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		desc := e.TaskLabel
		if desc == "" {
			desc = e.Description
		}
		draft.LineItems = append(draft.LineItems, &domain.InvoiceLineItem{
			EntryID:     e.ID,
			Date:        e.StartTime,
			Description: desc,
			Quantity:    e.DurationHours(),
			Rate:        project.HourlyRate,
		})
		draft.EntryIDs = append(draft.EntryIDs, e.ID)
	}
	return draft, nil
}

func (s *invoiceService) Finalize(ctx context.Context, projectID string, dueDate time.Time) (*domain.Invoice, error) {
	s.mu.Lock()
	if s.finalizing[projectID] {
		s.mu.Unlock()
		return nil, &domain.ConflictError{Op: "finalize invoice", Err: domain.ErrFinalizeInFlight}
	}
	s.finalizing[projectID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.finalizing, projectID)
		s.mu.Unlock()
	}()

	invoice, err := s.remote.DraftAndFinalizeInvoice(ctx, projectID, dueDate)
	if err != nil {
		return nil, err
	}

	log.Infof("invoice %s finalized for project %s, total %s",
		invoice.Number, projectID, invoice.Total().StringFixed(2))
	return invoice, s.syncer.Synchronize(ctx, MutationInvoice)
}

func (s *invoiceService) MarkSent(ctx context.Context, id string) error {
	if _, err := s.remote.UpdateInvoiceStatus(ctx, id, domain.InvoiceStatusSent, nil); err != nil {
		return err
	}
	return s.syncer.Synchronize(ctx, MutationInvoice)
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string, paidDate time.Time) error {
	if _, err := s.remote.UpdateInvoiceStatus(ctx, id, domain.InvoiceStatusPaid, &paidDate); err != nil {
		return err
	}
	return s.syncer.Synchronize(ctx, MutationInvoice)
}

func (s *invoiceService) CheckOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	var flagged int
	var firstErr error
	for _, inv := range s.caches.Invoices.Items() {
		if inv.Status != domain.InvoiceStatusSent || !now.After(inv.DueDate) {
			continue
		}
		if _, err := s.remote.UpdateInvoiceStatus(ctx, inv.ID, domain.InvoiceStatusOverdue, nil); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		flagged++
	}
	if flagged > 0 {
		if err := s.syncer.Synchronize(ctx, MutationInvoice); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return flagged, firstErr
}

func (s *invoiceService) List(status *domain.InvoiceStatus) []*domain.Invoice {
	invoices := s.caches.Invoices.Items()
	if status == nil {
		return invoices
	}
	filtered := invoices[:0:0]
	for _, inv := range invoices {
		if inv.Status == *status {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}

// IsEmptyDraft reports whether err is the empty-unbilled-set condition,
// which the UI renders as a disabled action rather than an error.
func IsEmptyDraft(err error) bool {
	return errors.Is(err, domain.ErrNoUnbilledEntries)
}
