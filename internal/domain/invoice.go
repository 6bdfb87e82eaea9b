package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

type Invoice struct {
	ID        string
	Number    string
	ClientID  string
	ProjectID string // optional
	LineItems []*InvoiceLineItem
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	Status    InvoiceStatus
	IssueDate time.Time
	DueDate   time.Time
	PaidDate  *time.Time // set only on transition to paid
	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceLineItem struct {
	ID          string
	EntryID     string
	Date        time.Time
	Description string
	Quantity    decimal.Decimal // hours
	Rate        decimal.Decimal
}

// Amount returns quantity * rate at full precision.
func (li *InvoiceLineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// Subtotal returns the sum of line item amounts at full precision. It is
// always recomputed from the line items, never stored.
func (i *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range i.LineItems {
		sum = sum.Add(li.Amount())
	}
	return sum
}

// Total returns subtotal + tax - discount, rounded to cents. Rounding
// happens here and nowhere earlier so many small line items cannot
// accumulate rounding error.
func (i *Invoice) Total() decimal.Decimal {
	return i.Subtotal().Add(i.Tax).Sub(i.Discount).Round(2)
}

// IsOutstanding reports whether the invoice counts toward the client's
// outstanding balance.
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}

// Validate returns an error if the invoice is invalid.
func (i *Invoice) Validate() error {
	if i.ClientID == "" {
		return &ValidationError{Field: "client", Reason: "is required"}
	}
	if i.DueDate.Before(i.IssueDate) {
		return &ValidationError{Field: "due date", Reason: "must not precede issue date"}
	}
	if i.Tax.IsNegative() {
		return &ValidationError{Field: "tax", Reason: "cannot be negative"}
	}
	if i.Discount.IsNegative() {
		return &ValidationError{Field: "discount", Reason: "cannot be negative"}
	}
	return nil
}

// InvoiceDraft is a local preview of an invoice built from unbilled
// entries. Nothing is persisted until Finalize issues the single atomic
// remote call.
type InvoiceDraft struct {
	ProjectID string
	ClientID  string
	LineItems []*InvoiceLineItem
	EntryIDs  []string
}

// Subtotal returns the sum of draft line item amounts at full precision.
func (d *InvoiceDraft) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range d.LineItems {
		sum = sum.Add(li.Amount())
	}
	return sum
}
