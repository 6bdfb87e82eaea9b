package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mara/opsdesk/internal/app"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/service"
)

// draftLoadedMsg carries a preview draft back to the screen
type draftLoadedMsg struct {
	projectID string
	draft     *domain.InvoiceDraft
}

// invoiceFinalizedMsg is sent when finalization completes
type invoiceFinalizedMsg struct {
	invoice *domain.Invoice
	syncErr error
}

// emptyDraftMsg is sent when the selected project has nothing to invoice
type emptyDraftMsg struct{}

// InvoicesModel lists invoices and drives the draft/finalize flow. The
// draft is a local preview; finalize is one atomic remote operation and a
// second finalize for the same project is rejected while one is in flight.
type InvoicesModel struct {
	app *app.App

	invoices []*domain.Invoice
	cursor   int

	// Draft flow state
	picking    bool
	projects   []*domain.Project
	draft      *domain.InvoiceDraft
	draftID    string // project being drafted
	finalizing bool

	err       error
	statusMsg string
}

// NewInvoicesModel creates a new invoices model
func NewInvoicesModel(a *app.App) tea.Model {
	m := &InvoicesModel{app: a}
	m.reload()
	return m
}

func (m *InvoicesModel) reload() {
	m.invoices = m.app.InvoiceService.List(nil)
	if m.cursor >= len(m.invoices) {
		m.cursor = len(m.invoices) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	projects := m.app.DirectoryService.Projects()
	active := projects[:0:0]
	for _, p := range projects {
		if !p.IsArchived {
			active = append(active, p)
		}
	}
	m.projects = active
}

func (m *InvoicesModel) Init() tea.Cmd {
	return nil
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.reload()
		return m, nil

	case draftLoadedMsg:
		m.draft = msg.draft
		m.draftID = msg.projectID
		m.picking = false
		return m, nil

	case emptyDraftMsg:
		m.picking = false
		m.statusMsg = "No unbilled entries; nothing to invoice"
		return m, nil

	case invoiceFinalizedMsg:
		m.finalizing = false
		m.draft = nil
		m.draftID = ""
		m.statusMsg = fmt.Sprintf("Invoice %s finalized: %s",
			msg.invoice.Number, formatMoney(msg.invoice.Total()))
		if msg.syncErr != nil {
			m.err = msg.syncErr
		}
		m.reload()
		return m, nil

	case ErrorMsg:
		m.finalizing = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		m.statusMsg = ""

		// Draft preview mode
		if m.draft != nil {
			switch msg.String() {
			case "enter":
				if !m.finalizing {
					m.finalizing = true
					return m, m.finalize(m.draftID)
				}
			case "esc", "backspace":
				if !m.finalizing {
					m.draft = nil
					m.draftID = ""
				}
			}
			return m, nil
		}

		// Project picker mode
		if m.picking {
			switch msg.String() {
			case "esc", "backspace":
				m.picking = false
			case "1", "2", "3", "4", "5", "6", "7", "8", "9":
				idx := int(msg.String()[0] - '1')
				if idx >= 0 && idx < len(m.projects) && idx < 9 {
					return m, m.loadDraft(m.projects[idx].ID)
				}
			}
			return m, nil
		}

		// List mode
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}
		case "n":
			m.picking = true
		case "s":
			if inv := m.selected(); inv != nil {
				return m, m.markSent(inv.ID)
			}
		case "p":
			if inv := m.selected(); inv != nil {
				return m, m.markPaid(inv.ID)
			}
		}
	}

	return m, nil
}

func (m *InvoicesModel) selected() *domain.Invoice {
	if m.cursor < 0 || m.cursor >= len(m.invoices) {
		return nil
	}
	return m.invoices[m.cursor]
}

func (m *InvoicesModel) loadDraft(projectID string) tea.Cmd {
	return func() tea.Msg {
		draft, err := m.app.InvoiceService.DraftFromUnbilled(context.Background(), projectID)
		if err != nil {
			if service.IsEmptyDraft(err) {
				return emptyDraftMsg{}
			}
			return ErrorMsg{Err: err}
		}
		return draftLoadedMsg{projectID: projectID, draft: draft}
	}
}

func (m *InvoicesModel) finalize(projectID string) tea.Cmd {
	return func() tea.Msg {
		dueDate := time.Now().AddDate(0, 0, m.app.Config.Invoice.DefaultDueDays)
		invoice, err := m.app.InvoiceService.Finalize(context.Background(), projectID, dueDate)
		if invoice == nil {
			return ErrorMsg{Err: err}
		}
		return invoiceFinalizedMsg{invoice: invoice, syncErr: err}
	}
}

func (m *InvoicesModel) markSent(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.InvoiceService.MarkSent(context.Background(), id); err != nil {
			return ErrorMsg{Err: err}
		}
		return RefreshDataMsg{}
	}
}

func (m *InvoicesModel) markPaid(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.InvoiceService.MarkPaid(context.Background(), id, time.Now()); err != nil {
			return ErrorMsg{Err: err}
		}
		return RefreshDataMsg{}
	}
}

func (m *InvoicesModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Invoices")

	if m.err != nil {
		return title + "\n\n" +
			lipgloss.NewStyle().Foreground(errorColor).
				Render(fmt.Sprintf("Error: %s", m.err.Error())) +
			"\n\nPress any key to dismiss"
	}

	if m.draft != nil {
		return m.viewDraft(title)
	}
	if m.picking {
		return m.viewPicker(title)
	}
	return m.viewList(title)
}

func (m *InvoicesModel) viewList(title string) string {
	s := title + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.invoices) == 0 {
		s += subtitleStyle.Render("  No invoices") + "\n"
	} else {
		s += fmt.Sprintf("  %-15s %-20s %-12s %12s  %s\n",
			"Number", "Client", "Due", "Total", "Status")
		for i, inv := range m.invoices {
			clientName := inv.ClientID
			if c := m.app.Caches.ClientByID(inv.ClientID); c != nil {
				clientName = c.Name
			}
			line := fmt.Sprintf("  %-15s %-20s %-12s %12s  %s",
				inv.Number,
				truncate(clientName, 20),
				inv.DueDate.Format("2006-01-02"),
				formatMoney(inv.Total()),
				inv.Status,
			)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			s += line + "\n"
		}
	}

	s += "\nKeys: j/k=move, n=new invoice, s=mark sent, p=mark paid\n"
	return s
}

func (m *InvoicesModel) viewPicker(title string) string {
	s := title + "\n\nSelect a project to invoice:\n\n"

	if len(m.projects) == 0 {
		s += "No projects available.\n"
	} else {
		for i, p := range m.projects {
			if i >= 9 {
				break
			}
			s += fmt.Sprintf("[%d] %s\n", i+1, p.Name)
		}
	}
	s += "\nKeys: 1-9=select, esc=cancel\n"
	return s
}

func (m *InvoicesModel) viewDraft(title string) string {
	projectName := m.draftID
	if p := m.app.Caches.ProjectByID(m.draftID); p != nil {
		projectName = p.Name
	}

	s := title + "  " + subtitleStyle.Render("draft preview for "+projectName) + "\n\n"
	s += fmt.Sprintf("  %-12s %-32s %7s %10s %12s\n",
		"Date", "Description", "Hours", "Rate", "Amount")
	for _, li := range m.draft.LineItems {
		s += fmt.Sprintf("  %-12s %-32s %7s %10s %12s\n",
			li.Date.Format("2006-01-02"),
			truncate(li.Description, 32),
			li.Quantity.StringFixed(2),
			formatMoney(li.Rate),
			formatMoney(li.Amount()),
		)
	}
	s += fmt.Sprintf("\n  Subtotal: %s across %d entries\n",
		formatMoney(m.draft.Subtotal()), len(m.draft.EntryIDs))

	if m.finalizing {
		s += subtitleStyle.Render("\nFinalizing...") + "\n"
	} else {
		s += "\nKeys: enter=finalize, esc=cancel\n"
	}
	return s
}
