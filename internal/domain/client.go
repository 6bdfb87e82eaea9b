package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client mirrors the remote client record. OutstandingBalance and
// TotalRevenue are derived aggregates owned by the remote service; the
// local copy is a cache and is only ever replaced wholesale by a
// synchronizer refetch.
type Client struct {
	ID         string
	Name       string
	Email      string
	Notes      string
	IsArchived bool

	// Derived aggregates, read-only locally.
	OutstandingBalance decimal.Decimal // sum of sent/overdue invoice totals
	TotalRevenue       decimal.Decimal // sum of paid invoice totals

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate returns an error if the client is invalid.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "client name", Reason: "is required"}
	}
	return nil
}
