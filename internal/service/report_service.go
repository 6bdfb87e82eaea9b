package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/domain"
)

// WeekSummary provides weekly time tracking aggregates.
type WeekSummary struct {
	TotalHours    decimal.Decimal
	BillableHours decimal.Decimal
	TotalValue    decimal.Decimal
	ByProject     map[string]decimal.Decimal // hours by project ID
}

// ProjectSummary describes one project's budget position.
type ProjectSummary struct {
	Project        *domain.Project
	UnbilledValue  decimal.Decimal
	RemainingHours decimal.Decimal
	OverBudget     bool
}

// ReportService derives read-only summaries from the cached snapshots.
// Everything here is a pure read; staleness follows the caches, which
// callers can check via Fresh before presenting numbers as current.
type ReportService interface {
	// GetWeekSummary aggregates committed entries starting at weekStart.
	GetWeekSummary(weekStart time.Time) *WeekSummary

	// GetOutstandingTotal sums the totals of sent and overdue invoices.
	GetOutstandingTotal() decimal.Decimal

	// GetUnbilledTotal sums the cost of billable entries not yet on an
	// invoice.
	GetUnbilledTotal() decimal.Decimal

	// GetProjectSummaries returns the budget position of every active
	// project.
	GetProjectSummaries() []*ProjectSummary

	// Fresh reports whether every cache feeding the reports is fresh.
	Fresh() bool
}

type reportService struct {
	caches *cache.Caches
}

// NewReportService creates a report service over the caches.
func NewReportService(caches *cache.Caches) ReportService {
	return &reportService{caches: caches}
}

func (s *reportService) GetWeekSummary(weekStart time.Time) *WeekSummary {
	weekEnd := weekStart.AddDate(0, 0, 7)
	summary := &WeekSummary{
		TotalHours:    decimal.Zero,
		BillableHours: decimal.Zero,
		TotalValue:    decimal.Zero,
		ByProject:     make(map[string]decimal.Decimal),
	}

	for _, e := range s.caches.Entries.Items() {
		if e.Status != domain.EntryStatusCommitted {
			continue
		}
		if e.StartTime.Before(weekStart) || !e.StartTime.Before(weekEnd) {
			continue
		}
		hours := e.DurationHours()
		summary.TotalHours = summary.TotalHours.Add(hours)
		if e.IsBillable {
			summary.BillableHours = summary.BillableHours.Add(hours)
			summary.TotalValue = summary.TotalValue.Add(e.TotalCost())
		}
		if e.ProjectID != "" {
			summary.ByProject[e.ProjectID] = summary.ByProject[e.ProjectID].Add(hours)
		}
	}
	return summary
}

func (s *reportService) GetOutstandingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range s.caches.Invoices.Items() {
		if inv.IsOutstanding() {
			total = total.Add(inv.Total())
		}
	}
	return total
}

func (s *reportService) GetUnbilledTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.caches.Entries.Items() {
		if e.Status == domain.EntryStatusCommitted && e.IsBillable && !e.IsBilled() {
			total = total.Add(e.TotalCost())
		}
	}
	return total
}

func (s *reportService) GetProjectSummaries() []*ProjectSummary {
	unbilled := make(map[string]decimal.Decimal)
	for _, e := range s.caches.Entries.Items() {
		if e.Status == domain.EntryStatusCommitted && e.IsBillable && !e.IsBilled() && e.ProjectID != "" {
			unbilled[e.ProjectID] = unbilled[e.ProjectID].Add(e.TotalCost())
		}
	}

	projects := s.caches.Projects.Items()
	summaries := make([]*ProjectSummary, 0, len(projects))
	for _, p := range projects {
		if p.IsArchived {
			continue
		}
		summaries = append(summaries, &ProjectSummary{
			Project:        p,
			UnbilledValue:  unbilled[p.ID],
			RemainingHours: p.RemainingHours(),
			OverBudget:     p.OverBudget(),
		})
	}
	return summaries
}

func (s *reportService) Fresh() bool {
	return s.caches.Entries.Fresh() &&
		s.caches.Invoices.Fresh() &&
		s.caches.Projects.Fresh() &&
		s.caches.Clients.Fresh()
}
