package tui

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// formatMoney renders an amount truncated to the cent. Truncation is a
// display concern only; the underlying decimals keep full precision.
func formatMoney(amount decimal.Decimal) string {
	return "$" + amount.Truncate(2).StringFixed(2)
}

// formatClock renders a duration as HH:MM:SS for the ticking display.
func formatClock(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// truncate shortens a string to max characters with an ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
