package service

import (
	"context"
	"time"

	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

// mockRemote implements remote.Service with overridable behavior per
// method. Unset methods succeed with zero values.
type mockRemote struct {
	startFn    func(ctx context.Context, req remote.StartTimeEntryRequest) (*domain.TimeEntry, error)
	commitFn   func(ctx context.Context, id string, endTime time.Time, minutes int64) (*domain.TimeEntry, error)
	createFn   func(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	updateFn   func(ctx context.Context, id string, patch remote.EntryPatch) (*domain.TimeEntry, error)
	deleteFn   func(ctx context.Context, id string) error
	listFn     func(ctx context.Context, filter remote.EntryFilter) ([]*domain.TimeEntry, error)
	finalizeFn func(ctx context.Context, projectID string, dueDate time.Time) (*domain.Invoice, error)
	statusFn   func(ctx context.Context, id string, status domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error)

	listClientsCalls  int
	listProjectsCalls int
	listInvoicesCalls int
	listEntriesCalls  int

	clients  []*domain.Client
	projects []*domain.Project
	invoices []*domain.Invoice
	entries  []*domain.TimeEntry

	listClientsErr  error
	listProjectsErr error
	listInvoicesErr error
	listEntriesErr  error
}

var _ remote.Service = (*mockRemote)(nil)

func (m *mockRemote) StartTimeEntry(ctx context.Context, req remote.StartTimeEntryRequest) (*domain.TimeEntry, error) {
	if m.startFn != nil {
		return m.startFn(ctx, req)
	}
	return &domain.TimeEntry{
		ID:        "entry-1",
		OwnerID:   req.OwnerID,
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
		TaskLabel: req.TaskLabel,
		StartTime: time.Now(),
		Status:    domain.EntryStatusRunning,
	}, nil
}

func (m *mockRemote) CommitTimeEntry(ctx context.Context, id string, endTime time.Time, minutes int64) (*domain.TimeEntry, error) {
	if m.commitFn != nil {
		return m.commitFn(ctx, id, endTime, minutes)
	}
	return &domain.TimeEntry{
		ID:              id,
		EndTime:         &endTime,
		DurationMinutes: &minutes,
		Status:          domain.EntryStatusCommitted,
	}, nil
}

func (m *mockRemote) CreateTimeEntry(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	created := *entry
	created.ID = "entry-created"
	return &created, nil
}

func (m *mockRemote) UpdateTimeEntry(ctx context.Context, id string, patch remote.EntryPatch) (*domain.TimeEntry, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return &domain.TimeEntry{ID: id, Status: domain.EntryStatusCommitted}, nil
}

func (m *mockRemote) DeleteTimeEntry(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRemote) ListTimeEntries(ctx context.Context, filter remote.EntryFilter) ([]*domain.TimeEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	m.listEntriesCalls++
	return m.entries, m.listEntriesErr
}

func (m *mockRemote) DraftAndFinalizeInvoice(ctx context.Context, projectID string, dueDate time.Time) (*domain.Invoice, error) {
	if m.finalizeFn != nil {
		return m.finalizeFn(ctx, projectID, dueDate)
	}
	return &domain.Invoice{ID: "inv-1", ProjectID: projectID, DueDate: dueDate, Status: domain.InvoiceStatusDraft}, nil
}

func (m *mockRemote) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, id, status, paidDate)
	}
	return &domain.Invoice{ID: id, Status: status, PaidDate: paidDate}, nil
}

func (m *mockRemote) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	m.listInvoicesCalls++
	return m.invoices, m.listInvoicesErr
}

func (m *mockRemote) CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	created := *client
	created.ID = "client-created"
	return &created, nil
}

func (m *mockRemote) DeleteClient(ctx context.Context, id string) error { return nil }

func (m *mockRemote) ListClients(ctx context.Context) ([]*domain.Client, error) {
	m.listClientsCalls++
	return m.clients, m.listClientsErr
}

func (m *mockRemote) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	created := *project
	created.ID = "project-created"
	return &created, nil
}

func (m *mockRemote) UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	return project, nil
}

func (m *mockRemote) DeleteProject(ctx context.Context, id string) error { return nil }

func (m *mockRemote) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	m.listProjectsCalls++
	return m.projects, m.listProjectsErr
}

// mockSyncer records the mutation kinds it was asked to synchronize.
type mockSyncer struct {
	kinds []MutationKind
	err   error
}

func (m *mockSyncer) Synchronize(ctx context.Context, kind MutationKind) error {
	m.kinds = append(m.kinds, kind)
	return m.err
}

func (m *mockSyncer) SynchronizeAll(ctx context.Context) error { return m.err }

func (m *mockSyncer) Plan(kind MutationKind) []Collection { return refreshPlan[kind] }
