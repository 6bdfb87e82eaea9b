package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryStatus string

const (
	EntryStatusRunning   EntryStatus = "running"
	EntryStatusPaused    EntryStatus = "paused"
	EntryStatusCommitted EntryStatus = "committed"
)

// minutesPerHour is used for all duration-to-hours derivations so the
// conversion is single-sourced.
var minutesPerHour = decimal.NewFromInt(60)

type TimeEntry struct {
	ID              string
	OwnerID         string
	ClientID        string
	ProjectID       string // optional
	TaskLabel       string
	Description     string
	StartTime       time.Time
	EndTime         *time.Time // nil while running
	DurationMinutes *int64     // derived from start/end, nil while running
	HourlyRate      decimal.Decimal
	IsBillable      bool
	InvoiceID       string // "" = unbilled
	Status          EntryStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewManualEntry builds a committed entry from explicit timestamps. The
// duration is always derived from end-start; callers never supply it.
func NewManualEntry(ownerID, clientID, projectID, taskLabel, description string, start, end time.Time, rate decimal.Decimal, billable bool) (*TimeEntry, error) {
	if !end.After(start) {
		return nil, &ValidationError{Field: "end time", Reason: "must be strictly after start time"}
	}
	now := time.Now()
	minutes := int64(end.Sub(start).Minutes())
	return &TimeEntry{
		OwnerID:         ownerID,
		ClientID:        clientID,
		ProjectID:       projectID,
		TaskLabel:       taskLabel,
		Description:     description,
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: &minutes,
		HourlyRate:      rate,
		IsBillable:      billable,
		Status:          EntryStatusCommitted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// DurationHours returns the entry duration in hours with full decimal
// precision. Zero while the entry is still running.
func (e *TimeEntry) DurationHours() decimal.Decimal {
	if e.DurationMinutes == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(*e.DurationMinutes).Div(minutesPerHour)
}

// TotalCost returns durationHours * hourlyRate for billable entries and
// zero otherwise. Intermediate precision is preserved; rounding happens
// only at display time.
func (e *TimeEntry) TotalCost() decimal.Decimal {
	if !e.IsBillable {
		return decimal.Zero
	}
	return e.DurationHours().Mul(e.HourlyRate)
}

// IsBilled reports whether the entry is attached to an invoice and is no
// longer eligible for drafting.
func (e *TimeEntry) IsBilled() bool {
	return e.InvoiceID != ""
}

// IsActive reports whether the entry is in a running or paused session.
func (e *TimeEntry) IsActive() bool {
	return e.Status == EntryStatusRunning || e.Status == EntryStatusPaused
}

// Validate returns an error if the entry is invalid.
func (e *TimeEntry) Validate() error {
	if e.OwnerID == "" {
		return &ValidationError{Field: "owner", Reason: "is required"}
	}
	if e.StartTime.IsZero() {
		return &ValidationError{Field: "start time", Reason: "is required"}
	}
	if e.EndTime != nil && !e.EndTime.After(e.StartTime) {
		return &ValidationError{Field: "end time", Reason: "must be strictly after start time"}
	}
	if e.HourlyRate.IsNegative() {
		return &ValidationError{Field: "hourly rate", Reason: "cannot be negative"}
	}
	return nil
}
