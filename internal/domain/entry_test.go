package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewManualEntry_Validation(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(100)

	// end == start is rejected.
	if _, err := NewManualEntry("o1", "c1", "p1", "task", "", base, base, rate, true); !IsValidation(err) {
		t.Fatalf("expected ValidationError for end == start, got %v", err)
	}

	// end < start is rejected, never clamped.
	if _, err := NewManualEntry("o1", "c1", "p1", "task", "", base.Add(time.Hour), base, rate, true); !IsValidation(err) {
		t.Fatalf("expected ValidationError for end < start, got %v", err)
	}

	entry, err := NewManualEntry("o1", "c1", "p1", "task", "", base, base.Add(90*time.Minute), rate, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entry.DurationHours().Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("expected 1.5 hours, got %s", entry.DurationHours())
	}
	if entry.Status != EntryStatusCommitted {
		t.Fatalf("manual entries are committed immediately, got %s", entry.Status)
	}
}

func TestTimeEntry_TotalCost(t *testing.T) {
	minutes := int64(90)
	entry := &TimeEntry{
		DurationMinutes: &minutes,
		HourlyRate:      decimal.RequireFromString("85.50"),
		IsBillable:      true,
	}

	want := decimal.RequireFromString("128.25") // 1.5 * 85.50
	if !entry.TotalCost().Equal(want) {
		t.Fatalf("expected %s, got %s", want, entry.TotalCost())
	}

	entry.IsBillable = false
	if !entry.TotalCost().IsZero() {
		t.Fatalf("non-billable entries cost zero, got %s", entry.TotalCost())
	}
}

func TestTimeEntry_DurationHoursKeepsPrecision(t *testing.T) {
	// 50 minutes is a repeating decimal in hours; the derivation must
	// not collapse it to a float approximation that breaks cost sums.
	minutes := int64(50)
	entry := &TimeEntry{
		DurationMinutes: &minutes,
		HourlyRate:      decimal.NewFromInt(60),
		IsBillable:      true,
	}

	// 50/60 hours at 60/hour is exactly 50.
	if !entry.TotalCost().Round(2).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50, got %s", entry.TotalCost())
	}
}

func TestTimeEntry_Validate(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	end := base.Add(-time.Minute)

	entry := &TimeEntry{
		OwnerID:    "o1",
		StartTime:  base,
		EndTime:    &end,
		HourlyRate: decimal.NewFromInt(100),
	}
	if err := entry.Validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	entry.EndTime = nil
	entry.HourlyRate = decimal.NewFromInt(-1)
	if err := entry.Validate(); !IsValidation(err) {
		t.Fatalf("expected ValidationError for negative rate, got %v", err)
	}
}
