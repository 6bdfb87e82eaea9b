package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mara/opsdesk/internal/app"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/service"
)

var sortCycle = []service.SortField{
	service.SortFieldStartTime,
	service.SortFieldDuration,
	service.SortFieldProject,
	service.SortFieldTask,
}

// EntriesModel is the ledger screen. Filtering and sorting are pure reads
// over the cached entries, so every keystroke re-lists synchronously.
type EntriesModel struct {
	app *app.App

	entries      []*domain.TimeEntry
	cursor       int
	sortIdx      int
	descending   bool
	billableOnly bool
}

// NewEntriesModel creates a new entries model
func NewEntriesModel(a *app.App) tea.Model {
	m := &EntriesModel{app: a, descending: true}
	m.reload()
	return m
}

func (m *EntriesModel) reload() {
	m.entries = m.app.LedgerService.List(
		service.EntryFilter{BillableOnly: m.billableOnly},
		service.EntrySort{Field: sortCycle[m.sortIdx], Descending: m.descending},
	)
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *EntriesModel) Init() tea.Cmd {
	return nil
}

func (m *EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
			m.reload()
		case "v":
			m.descending = !m.descending
			m.reload()
		case "b":
			m.billableOnly = !m.billableOnly
			m.reload()
		}
	}

	return m, nil
}

func (m *EntriesModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Time Entries")

	filters := fmt.Sprintf("sort=%s", sortCycle[m.sortIdx])
	if m.descending {
		filters += " desc"
	}
	if m.billableOnly {
		filters += "  billable only"
	}

	s := title + "  " + subtitleStyle.Render(filters) + "\n\n"

	if len(m.entries) == 0 {
		s += subtitleStyle.Render("  No entries") + "\n"
	} else {
		s += fmt.Sprintf("  %-12s %-20s %-20s %7s %10s  %s\n",
			"Date", "Project", "Task", "Hours", "Amount", "Billed")
		for i, e := range m.entries {
			projectName := e.ProjectID
			if p := m.app.Caches.ProjectByID(e.ProjectID); p != nil {
				projectName = p.Name
			}
			billed := ""
			if e.IsBilled() {
				billed = "yes"
			}
			line := fmt.Sprintf("  %-12s %-20s %-20s %7s %10s  %s",
				e.StartTime.Format("2006-01-02"),
				truncate(projectName, 20),
				truncate(e.TaskLabel, 20),
				e.DurationHours().StringFixed(2),
				formatMoney(e.TotalCost()),
				billed,
			)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			s += line + "\n"
		}
	}

	s += "\nKeys: j/k=move, s=sort field, v=reverse, b=billable filter\n"
	return s
}
