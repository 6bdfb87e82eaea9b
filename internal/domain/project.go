package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Project mirrors the remote project record. The hourly rate is the
// project-level contract rate used when drafting invoices. LoggedHours and
// TotalCost are derived aggregates owned by the remote service.
type Project struct {
	ID             string
	ClientID       string
	Name           string
	HourlyRate     decimal.Decimal
	EstimatedHours decimal.Decimal
	IsArchived     bool

	// Derived aggregates, read-only locally.
	LoggedHours decimal.Decimal
	TotalCost   decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingHours returns estimated minus logged hours. Negative when the
// project is over budget.
func (p *Project) RemainingHours() decimal.Decimal {
	return p.EstimatedHours.Sub(p.LoggedHours)
}

// OverBudget reports whether logged hours exceed the estimate.
func (p *Project) OverBudget() bool {
	return p.EstimatedHours.IsPositive() && p.LoggedHours.GreaterThan(p.EstimatedHours)
}

// Validate returns an error if the project is invalid.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "project name", Reason: "is required"}
	}
	if p.ClientID == "" {
		return &ValidationError{Field: "client", Reason: "is required"}
	}
	if p.HourlyRate.IsNegative() {
		return &ValidationError{Field: "hourly rate", Reason: "cannot be negative"}
	}
	return nil
}
