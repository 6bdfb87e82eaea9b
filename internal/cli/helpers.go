package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// formatMoney renders an amount truncated to the cent. Truncation happens
// here, at display time, never inside the arithmetic.
func formatMoney(amount decimal.Decimal) string {
	return "$" + amount.Truncate(2).StringFixed(2)
}

// formatDuration formats a duration as "Xh Ym"
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// formatHours renders decimal hours as "Xh Ym"
func formatHours(hours decimal.Decimal) string {
	minutes := hours.Mul(decimal.NewFromInt(60)).IntPart()
	return formatDuration(time.Duration(minutes) * time.Minute)
}

// parseLocalTime parses "2006-01-02 15:04" in the local timezone
func parseLocalTime(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", s, time.Local)
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

// resolveClientID resolves a cached client by ID or name
func resolveClientID(idOrName string) (string, error) {
	for _, c := range appInstance.DirectoryService.Clients() {
		if c.ID == idOrName || strings.EqualFold(c.Name, idOrName) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("client '%s' not found", idOrName)
}

// resolveProjectID resolves a cached project by ID or name
func resolveProjectID(idOrName string) (string, error) {
	for _, p := range appInstance.DirectoryService.Projects() {
		if p.ID == idOrName || strings.EqualFold(p.Name, idOrName) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("project '%s' not found", idOrName)
}

// clientName returns the cached client name, falling back to the ID.
func clientName(id string) string {
	if c := appInstance.Caches.ClientByID(id); c != nil {
		return c.Name
	}
	return id
}

// projectName returns the cached project name, falling back to the ID.
func projectName(id string) string {
	if p := appInstance.Caches.ProjectByID(id); p != nil {
		return p.Name
	}
	return id
}

// staleWarning prints a notice when the caches are flagged stale.
func staleWarning() {
	if !appInstance.ReportService.Fresh() {
		fmt.Println("! Local data may be stale; run 'opsdesk refresh' to retry")
	}
}
