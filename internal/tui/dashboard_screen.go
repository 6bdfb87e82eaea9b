package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mara/opsdesk/internal/app"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/service"
)

// DashboardModel is the overview home screen. All numbers come straight
// from the cached snapshots, so reloading is synchronous.
type DashboardModel struct {
	app *app.App

	week        *service.WeekSummary
	outstanding string
	unbilled    string
	projects    []*service.ProjectSummary
	activeTimer *domain.ActiveTimer
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	m := &DashboardModel{app: a}
	m.reload()
	return m
}

func (m *DashboardModel) reload() {
	now := time.Now()

	// Week start (Monday)
	weekStart := now
	for weekStart.Weekday() != time.Monday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	reports := m.app.ReportService
	m.week = reports.GetWeekSummary(weekStart)
	m.outstanding = formatMoney(reports.GetOutstandingTotal())
	m.unbilled = formatMoney(reports.GetUnbilledTotal())
	m.projects = reports.GetProjectSummaries()
	m.activeTimer = m.app.TimerService.ActiveTimer(m.app.Config.Remote.OwnerID)
}

func (m *DashboardModel) Init() tea.Cmd {
	if m.activeTimer != nil {
		return tickTimer()
	}
	return nil
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case RefreshDataMsg:
		m.reload()
		if m.activeTimer != nil {
			return m, tickTimer()
		}
		return m, nil

	case TimerTickMsg:
		if m.activeTimer != nil {
			m.activeTimer = m.app.TimerService.ActiveTimer(m.app.Config.Remote.OwnerID)
			return m, tickTimer()
		}
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	var s string

	s += fmt.Sprintf(
		"  This Week:  %-10s  Billable:     %s\n  Unbilled:   %-10s  Outstanding:  %s\n",
		m.week.TotalHours.StringFixed(1)+"h",
		formatMoney(m.week.TotalValue),
		m.unbilled,
		m.outstanding,
	)

	s += "\n"
	if m.activeTimer != nil {
		s += m.renderActiveTimer()
	} else {
		s += subtitleStyle.Render("  No active timer") + "\n"
	}

	s += "\n" + m.renderProjects()

	return s
}

func (m *DashboardModel) renderActiveTimer() string {
	projectName := m.activeTimer.ProjectID
	if p := m.app.Caches.ProjectByID(m.activeTimer.ProjectID); p != nil {
		projectName = p.Name
	}

	stateStyle := timerRunningStyle
	if m.activeTimer.State() == domain.TimerStatePaused {
		stateStyle = timerPausedStyle
	}

	return fmt.Sprintf("  Active Timer\n  %s %s - %s  [%s]\n",
		stateStyle.Render("●"),
		projectName,
		m.activeTimer.TaskLabel,
		timerValueStyle.Render(formatClock(m.activeTimer.Elapsed())),
	)
}

func (m *DashboardModel) renderProjects() string {
	header := "  Projects\n"
	if len(m.projects) == 0 {
		return header + subtitleStyle.Render("  No active projects") + "\n"
	}

	s := header
	for _, p := range m.projects {
		budget := ""
		if p.OverBudget {
			budget = staleStyle.Render(" OVER BUDGET")
		}
		s += fmt.Sprintf("  %-22s unbilled %-10s remaining %6sh%s\n",
			truncate(p.Project.Name, 22),
			formatMoney(p.UnbilledValue),
			p.RemainingHours.StringFixed(1),
			budget,
		)
	}
	return s
}
