package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mara/opsdesk/internal/app"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

// TimerTickMsg is sent every second when a timer is running (screen-local)
type TimerTickMsg struct{}

// tickTimer returns a command that sends TimerTickMsg every second
func tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TimerTickMsg{}
	})
}

// timerStartedMsg is sent when a start round-trip completes
type timerStartedMsg struct{}

// timerStoppedMsg is sent when a timer is committed successfully
type timerStoppedMsg struct {
	entry   *domain.TimeEntry
	syncErr error
}

// TimerModel shows the active timer and its controls. Stop is issued as a
// command so the UI stays responsive while the commit round-trip runs;
// the in-flight guard in the service rejects a second stop meanwhile.
type TimerModel struct {
	app       *app.App
	timer     *domain.ActiveTimer
	projects  []*domain.Project
	stopping  bool
	err       error
	statusMsg string
}

// NewTimerModel creates a new TimerModel
func NewTimerModel(a *app.App) tea.Model {
	m := &TimerModel{app: a}
	m.reload()
	return m
}

func (m *TimerModel) reload() {
	m.timer = m.app.TimerService.ActiveTimer(m.ownerID())
	projects := m.app.DirectoryService.Projects()
	active := projects[:0:0]
	for _, p := range projects {
		if !p.IsArchived {
			active = append(active, p)
		}
	}
	m.projects = active
}

func (m *TimerModel) ownerID() string {
	return m.app.Config.Remote.OwnerID
}

// Init starts the ticker when there's an active timer
func (m *TimerModel) Init() tea.Cmd {
	if m.timer != nil {
		return tickTimer()
	}
	return nil
}

// Update handles key events and ticks
func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.reload()
		if m.timer != nil {
			return m, tickTimer()
		}
		return m, nil

	case timerStartedMsg:
		m.timer = m.app.TimerService.ActiveTimer(m.ownerID())
		return m, tickTimer()

	case timerStoppedMsg:
		m.stopping = false
		m.timer = nil
		m.statusMsg = fmt.Sprintf("Entry committed: %s", msg.entry.DurationHours().StringFixed(1)+"h")
		if msg.syncErr != nil {
			m.err = msg.syncErr
		}
		return m, nil

	case ErrorMsg:
		m.stopping = false
		m.err = msg.Err
		return m, nil

	case TimerTickMsg:
		if m.timer == nil {
			return m, nil
		}
		m.timer = m.app.TimerService.ActiveTimer(m.ownerID())
		if m.timer == nil {
			// Stopped externally (e.g. CLI)
			return m, nil
		}
		return m, tickTimer()

	case tea.KeyMsg:
		m.err = nil
		m.statusMsg = ""

		switch msg.String() {
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if m.timer == nil && len(m.projects) > 0 {
				idx := int(msg.String()[0] - '1')
				if idx >= 0 && idx < len(m.projects) && idx < 9 {
					return m, m.startTimer(m.projects[idx])
				}
			}
		case "p":
			if m.timer != nil {
				if err := m.app.TimerService.Pause(m.ownerID()); err != nil {
					m.err = err
					return m, nil
				}
				m.timer = m.app.TimerService.ActiveTimer(m.ownerID())
			}
			return m, nil
		case "c":
			if m.timer != nil {
				if err := m.app.TimerService.Resume(m.ownerID()); err != nil {
					m.err = err
					return m, nil
				}
				m.timer = m.app.TimerService.ActiveTimer(m.ownerID())
				return m, tickTimer()
			}
		case "x":
			if m.timer != nil && !m.stopping {
				m.stopping = true
				return m, m.stopTimer()
			}
			return m, nil
		case "d":
			if m.timer != nil {
				if err := m.app.TimerService.Reset(m.ownerID()); err != nil {
					m.err = err
					return m, nil
				}
				m.timer = nil
				m.statusMsg = "Timer reset"
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *TimerModel) startTimer(project *domain.Project) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.app.TimerService.Start(ctx, remote.StartTimeEntryRequest{
			OwnerID:   m.ownerID(),
			ClientID:  project.ClientID,
			ProjectID: project.ID,
			Billable:  true,
		})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		// The model is only touched from the event loop; the started
		// message triggers the reload there.
		return timerStartedMsg{}
	}
}

func (m *TimerModel) stopTimer() tea.Cmd {
	return func() tea.Msg {
		entry, err := m.app.TimerService.Stop(context.Background(), m.ownerID())
		if entry == nil {
			return ErrorMsg{Err: err}
		}
		// A non-nil err here is a failed follow-up refresh; the entry is
		// committed and the caches are flagged stale.
		return timerStoppedMsg{entry: entry, syncErr: err}
	}
}

// View renders the timer screen
func (m *TimerModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Active Timer")

	if m.err != nil {
		return title + "\n\n" +
			lipgloss.NewStyle().Foreground(errorColor).
				Render(fmt.Sprintf("Error: %s", m.err.Error())) +
			"\n\nPress any key to dismiss"
	}

	if m.timer == nil {
		var b string
		b += title + "\n\n"

		if m.statusMsg != "" {
			b += lipgloss.NewStyle().Foreground(successColor).
				Render("  "+m.statusMsg) + "\n\n"
		}

		b += "No active timer. Select a project to start:\n\n"

		if len(m.projects) == 0 {
			b += "No projects available. Add a project first.\n"
		} else {
			for i, project := range m.projects {
				if i >= 9 {
					break
				}
				shortcut := fmt.Sprintf("[%d]", i+1)
				rate := formatMoney(project.HourlyRate)
				b += fmt.Sprintf("%s %s (%s/hr)\n", shortcut, project.Name, rate)
			}
		}
		b += "\nKeys: 1-9=start timer\n"
		return b
	}

	// Active timer view
	projectName := m.timer.ProjectID
	if p := m.app.Caches.ProjectByID(m.timer.ProjectID); p != nil {
		projectName = p.Name
	}

	var stateStr string
	if m.timer.State() == domain.TimerStatePaused {
		stateStr = timerPausedStyle.Render("PAUSED")
	} else {
		stateStr = timerRunningStyle.Render("RUNNING")
	}

	var b string
	b += title + "\n\n"
	b += fmt.Sprintf("State: %s\n", stateStr)
	b += fmt.Sprintf("Project: %s\n", projectName)
	if m.timer.TaskLabel != "" {
		b += fmt.Sprintf("Task: %s\n", m.timer.TaskLabel)
	}
	b += fmt.Sprintf("Started: %s\n", m.timer.StartTime.Format("2006-01-02 15:04:05"))
	b += fmt.Sprintf("Elapsed: %s\n", timerValueStyle.Render(formatClock(m.timer.Elapsed())))
	if m.stopping {
		b += subtitleStyle.Render("\nCommitting entry...") + "\n"
		b += "\nKeys: p=pause, c=continue\n"
	} else {
		b += "\nKeys: p=pause, c=continue, x=stop, d=discard (paused only)\n"
	}
	return b
}
