package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func lineItem(desc string, quantity, rate string) *InvoiceLineItem {
	return &InvoiceLineItem{
		Description: desc,
		Quantity:    decimal.RequireFromString(quantity),
		Rate:        decimal.RequireFromString(rate),
	}
}

func TestInvoice_TotalInvariant(t *testing.T) {
	items := []*InvoiceLineItem{
		lineItem("design", "1.5", "120"),
		lineItem("backend", "0.25", "150.33"),
		lineItem("review", "3.75", "99.99"),
	}

	inv := &Invoice{
		LineItems: items,
		Tax:       decimal.RequireFromString("18.25"),
		Discount:  decimal.RequireFromString("10"),
	}
	want := inv.Subtotal().Add(inv.Tax).Sub(inv.Discount).Round(2)
	if !inv.Total().Equal(want) {
		t.Fatalf("expected %s, got %s", want, inv.Total())
	}

	// Reordering the line items never changes the total.
	reordered := &Invoice{
		LineItems: []*InvoiceLineItem{items[2], items[0], items[1]},
		Tax:       inv.Tax,
		Discount:  inv.Discount,
	}
	if !reordered.Total().Equal(inv.Total()) {
		t.Fatalf("total depends on item order: %s vs %s", reordered.Total(), inv.Total())
	}
}

func TestInvoice_NoEarlyRounding(t *testing.T) {
	// Many sub-cent amounts; rounding each line would drift from the
	// exact sum rounded once at the end.
	var items []*InvoiceLineItem
	for i := 0; i < 100; i++ {
		items = append(items, lineItem("slice", "0.005", "1"))
	}
	inv := &Invoice{LineItems: items, Tax: decimal.Zero, Discount: decimal.Zero}

	// 100 * 0.005 = 0.50 exactly. Per-line rounding to cents would have
	// produced 0 or 1.00 depending on the mode.
	if !inv.Total().Equal(decimal.RequireFromString("0.50")) {
		t.Fatalf("expected 0.50, got %s", inv.Total())
	}
}

func TestInvoice_IsOutstanding(t *testing.T) {
	tests := []struct {
		status InvoiceStatus
		want   bool
	}{
		{InvoiceStatusDraft, false},
		{InvoiceStatusSent, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusPaid, false},
	}
	for _, tt := range tests {
		inv := &Invoice{Status: tt.status}
		if inv.IsOutstanding() != tt.want {
			t.Fatalf("%s: expected outstanding=%v", tt.status, tt.want)
		}
	}
}

func TestInvoice_Validate(t *testing.T) {
	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	inv := &Invoice{ClientID: "c1", IssueDate: issue, DueDate: issue.AddDate(0, 1, 0)}
	if err := inv.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv.DueDate = issue.AddDate(0, 0, -1)
	if err := inv.Validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for due date before issue date, got %v", err)
	}

	inv.DueDate = issue
	inv.Discount = decimal.NewFromInt(-5)
	if err := inv.Validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for negative discount, got %v", err)
	}
}
