// Package remote is the client for the authoritative business-ops
// service. All query and mutation endpoints are assumed transactional on
// the server side; this package only speaks the wire contract and maps
// failures onto domain errors.
package remote

import (
	"context"
	"time"

	"github.com/mara/opsdesk/internal/domain"
)

// StartTimeEntryRequest carries the billing context for a new running
// entry. The server assigns the id and the effective hourly rate.
type StartTimeEntryRequest struct {
	OwnerID   string
	ClientID  string
	ProjectID string
	TaskLabel string
	Billable  bool
}

// EntryPatch holds the amendable fields of a committed entry. Nil fields
// are left untouched.
type EntryPatch struct {
	TaskLabel   *string
	Description *string
	IsBillable  *bool
	StartTime   *time.Time
	EndTime     *time.Time
}

// EntryFilter narrows a ListTimeEntries call.
type EntryFilter struct {
	OwnerID      string
	ProjectID    string
	BillableOnly bool
	UnbilledOnly bool
}

// Service is the remote query/mutation contract. Implementations must
// treat every mutation as atomic; in particular DraftAndFinalizeInvoice
// creates the invoice and marks the consumed entries billed in one
// transaction, which is what makes double-billing impossible.
type Service interface {
	StartTimeEntry(ctx context.Context, req StartTimeEntryRequest) (*domain.TimeEntry, error)
	CommitTimeEntry(ctx context.Context, id string, endTime time.Time, durationMinutes int64) (*domain.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id string, patch EntryPatch) (*domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id string) error
	ListTimeEntries(ctx context.Context, filter EntryFilter) ([]*domain.TimeEntry, error)

	DraftAndFinalizeInvoice(ctx context.Context, projectID string, dueDate time.Time) (*domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]*domain.Invoice, error)

	CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]*domain.Client, error)

	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]*domain.Project, error)
}
