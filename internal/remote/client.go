package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mara/opsdesk/internal/domain"
)

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the service at baseURL, authenticating
// with the given bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				IdleConnTimeout: 60 * time.Second,
			},
		},
	}
}

// do issues a single request and decodes the JSON reply into out (when out
// is non-nil). Mutations carry an X-Request-Id so server-side retries can
// be de-duplicated. Any failure is returned as a domain.RemoteError.
func (c *Client) do(ctx context.Context, op, method, route string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &domain.RemoteError{Op: op, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	log.Tracef("%s %s %s", op, method, route)

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var reply errorReply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return &domain.RemoteError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("%v", resp.Status),
			}
		}
		return &domain.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    reply.Error,
			Err:        fmt.Errorf("%v: %v", resp.Status, reply.Error),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return nil
}

func (c *Client) StartTimeEntry(ctx context.Context, req StartTimeEntryRequest) (*domain.TimeEntry, error) {
	body := struct {
		OwnerID   string `json:"owner_id"`
		ClientID  string `json:"client_id"`
		ProjectID string `json:"project_id,omitempty"`
		TaskLabel string `json:"task_label"`
		Billable  bool   `json:"is_billable"`
	}{req.OwnerID, req.ClientID, req.ProjectID, req.TaskLabel, req.Billable}

	var reply entryPayload
	if err := c.do(ctx, "startTimeEntry", http.MethodPost, "/v1/entries/start", body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) CommitTimeEntry(ctx context.Context, id string, endTime time.Time, durationMinutes int64) (*domain.TimeEntry, error) {
	body := struct {
		EndTime         time.Time `json:"end_time"`
		DurationMinutes int64     `json:"duration_minutes"`
	}{endTime, durationMinutes}

	var reply entryPayload
	route := "/v1/entries/" + url.PathEscape(id) + "/commit"
	if err := c.do(ctx, "commitTimeEntry", http.MethodPost, route, body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) CreateTimeEntry(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	var reply entryPayload
	if err := c.do(ctx, "createTimeEntry", http.MethodPost, "/v1/entries", entryToPayload(entry), &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) UpdateTimeEntry(ctx context.Context, id string, patch EntryPatch) (*domain.TimeEntry, error) {
	body := struct {
		TaskLabel   *string    `json:"task_label,omitempty"`
		Description *string    `json:"description,omitempty"`
		IsBillable  *bool      `json:"is_billable,omitempty"`
		StartTime   *time.Time `json:"start_time,omitempty"`
		EndTime     *time.Time `json:"end_time,omitempty"`
	}{patch.TaskLabel, patch.Description, patch.IsBillable, patch.StartTime, patch.EndTime}

	var reply entryPayload
	route := "/v1/entries/" + url.PathEscape(id)
	if err := c.do(ctx, "updateTimeEntry", http.MethodPatch, route, body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) DeleteTimeEntry(ctx context.Context, id string) error {
	route := "/v1/entries/" + url.PathEscape(id)
	return c.do(ctx, "deleteTimeEntry", http.MethodDelete, route, nil, nil)
}

func (c *Client) ListTimeEntries(ctx context.Context, filter EntryFilter) ([]*domain.TimeEntry, error) {
	q := url.Values{}
	if filter.OwnerID != "" {
		q.Set("owner_id", filter.OwnerID)
	}
	if filter.ProjectID != "" {
		q.Set("project_id", filter.ProjectID)
	}
	if filter.BillableOnly {
		q.Set("billable", "true")
	}
	if filter.UnbilledOnly {
		q.Set("unbilled", "true")
	}
	route := "/v1/entries"
	if len(q) > 0 {
		route += "?" + q.Encode()
	}

	var reply []*entryPayload
	if err := c.do(ctx, "listTimeEntries", http.MethodGet, route, nil, &reply); err != nil {
		return nil, err
	}
	entries := make([]*domain.TimeEntry, 0, len(reply))
	for _, p := range reply {
		entries = append(entries, p.toDomain())
	}
	return entries, nil
}

func (c *Client) DraftAndFinalizeInvoice(ctx context.Context, projectID string, dueDate time.Time) (*domain.Invoice, error) {
	body := struct {
		ProjectID string    `json:"project_id"`
		DueDate   time.Time `json:"due_date"`
	}{projectID, dueDate}

	var reply invoicePayload
	if err := c.do(ctx, "draftAndFinalizeInvoice", http.MethodPost, "/v1/invoices/finalize", body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error) {
	body := struct {
		Status   string     `json:"status"`
		PaidDate *time.Time `json:"paid_date,omitempty"`
	}{string(status), paidDate}

	var reply invoicePayload
	route := "/v1/invoices/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, "updateInvoiceStatus", http.MethodPost, route, body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	var reply []*invoicePayload
	if err := c.do(ctx, "listInvoices", http.MethodGet, "/v1/invoices", nil, &reply); err != nil {
		return nil, err
	}
	invoices := make([]*domain.Invoice, 0, len(reply))
	for _, p := range reply {
		invoices = append(invoices, p.toDomain())
	}
	return invoices, nil
}

func (c *Client) CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	body := struct {
		Name  string `json:"name"`
		Email string `json:"email,omitempty"`
		Notes string `json:"notes,omitempty"`
	}{client.Name, client.Email, client.Notes}

	var reply clientPayload
	if err := c.do(ctx, "createClient", http.MethodPost, "/v1/clients", body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	route := "/v1/clients/" + url.PathEscape(id)
	return c.do(ctx, "deleteClient", http.MethodDelete, route, nil, nil)
}

func (c *Client) ListClients(ctx context.Context) ([]*domain.Client, error) {
	var reply []*clientPayload
	if err := c.do(ctx, "listClients", http.MethodGet, "/v1/clients", nil, &reply); err != nil {
		return nil, err
	}
	clients := make([]*domain.Client, 0, len(reply))
	for _, p := range reply {
		clients = append(clients, p.toDomain())
	}
	return clients, nil
}

func (c *Client) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	body := struct {
		ClientID       string          `json:"client_id"`
		Name           string          `json:"name"`
		HourlyRate     decimal.Decimal `json:"hourly_rate"`
		EstimatedHours decimal.Decimal `json:"estimated_hours"`
	}{project.ClientID, project.Name, project.HourlyRate, project.EstimatedHours}

	var reply projectPayload
	if err := c.do(ctx, "createProject", http.MethodPost, "/v1/projects", body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	var reply projectPayload
	route := "/v1/projects/" + url.PathEscape(project.ID)
	body := projectPayload{
		ID:             project.ID,
		ClientID:       project.ClientID,
		Name:           project.Name,
		HourlyRate:     project.HourlyRate,
		EstimatedHours: project.EstimatedHours,
		IsArchived:     project.IsArchived,
	}
	if err := c.do(ctx, "updateProject", http.MethodPut, route, body, &reply); err != nil {
		return nil, err
	}
	return reply.toDomain(), nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	route := "/v1/projects/" + url.PathEscape(id)
	return c.do(ctx, "deleteProject", http.MethodDelete, route, nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var reply []*projectPayload
	if err := c.do(ctx, "listProjects", http.MethodGet, "/v1/projects", nil, &reply); err != nil {
		return nil, err
	}
	projects := make([]*domain.Project, 0, len(reply))
	for _, p := range reply {
		projects = append(projects, p.toDomain())
	}
	return projects, nil
}
