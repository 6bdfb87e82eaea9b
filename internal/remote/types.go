package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mara/opsdesk/internal/domain"
)

// Wire payloads. The service speaks JSON with RFC3339 timestamps and
// string-encoded decimals.

type entryPayload struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	ClientID        string          `json:"client_id"`
	ProjectID       string          `json:"project_id,omitempty"`
	TaskLabel       string          `json:"task_label"`
	Description     string          `json:"description,omitempty"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         *time.Time      `json:"end_time,omitempty"`
	DurationMinutes *int64          `json:"duration_minutes,omitempty"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	IsBillable      bool            `json:"is_billable"`
	InvoiceID       string          `json:"invoice_id,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (p *entryPayload) toDomain() *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:              p.ID,
		OwnerID:         p.OwnerID,
		ClientID:        p.ClientID,
		ProjectID:       p.ProjectID,
		TaskLabel:       p.TaskLabel,
		Description:     p.Description,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		DurationMinutes: p.DurationMinutes,
		HourlyRate:      p.HourlyRate,
		IsBillable:      p.IsBillable,
		InvoiceID:       p.InvoiceID,
		Status:          domain.EntryStatus(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func entryToPayload(e *domain.TimeEntry) *entryPayload {
	return &entryPayload{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		ClientID:        e.ClientID,
		ProjectID:       e.ProjectID,
		TaskLabel:       e.TaskLabel,
		Description:     e.Description,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: e.DurationMinutes,
		HourlyRate:      e.HourlyRate,
		IsBillable:      e.IsBillable,
		InvoiceID:       e.InvoiceID,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

type lineItemPayload struct {
	ID          string          `json:"id"`
	EntryID     string          `json:"entry_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type invoicePayload struct {
	ID        string             `json:"id"`
	Number    string             `json:"number"`
	ClientID  string             `json:"client_id"`
	ProjectID string             `json:"project_id,omitempty"`
	LineItems []*lineItemPayload `json:"line_items"`
	Tax       decimal.Decimal    `json:"tax"`
	Discount  decimal.Decimal    `json:"discount"`
	Status    string             `json:"status"`
	IssueDate time.Time          `json:"issue_date"`
	DueDate   time.Time          `json:"due_date"`
	PaidDate  *time.Time         `json:"paid_date,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (p *invoicePayload) toDomain() *domain.Invoice {
	items := make([]*domain.InvoiceLineItem, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		items = append(items, &domain.InvoiceLineItem{
			ID:          li.ID,
			EntryID:     li.EntryID,
			Date:        li.Date,
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
		})
	}
	return &domain.Invoice{
		ID:        p.ID,
		Number:    p.Number,
		ClientID:  p.ClientID,
		ProjectID: p.ProjectID,
		LineItems: items,
		Tax:       p.Tax,
		Discount:  p.Discount,
		Status:    domain.InvoiceStatus(p.Status),
		IssueDate: p.IssueDate,
		DueDate:   p.DueDate,
		PaidDate:  p.PaidDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type clientPayload struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	IsArchived         bool            `json:"is_archived"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (p *clientPayload) toDomain() *domain.Client {
	return &domain.Client{
		ID:                 p.ID,
		Name:               p.Name,
		Email:              p.Email,
		Notes:              p.Notes,
		IsArchived:         p.IsArchived,
		OutstandingBalance: p.OutstandingBalance,
		TotalRevenue:       p.TotalRevenue,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type projectPayload struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	Name           string          `json:"name"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	IsArchived     bool            `json:"is_archived"`
	LoggedHours    decimal.Decimal `json:"logged_hours"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *projectPayload) toDomain() *domain.Project {
	return &domain.Project{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Name:           p.Name,
		HourlyRate:     p.HourlyRate,
		EstimatedHours: p.EstimatedHours,
		IsArchived:     p.IsArchived,
		LoggedHours:    p.LoggedHours,
		TotalCost:      p.TotalCost,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// errorReply is the JSON error envelope returned on non-2xx responses.
type errorReply struct {
	Error string `json:"error"`
}
