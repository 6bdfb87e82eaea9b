package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg tells the current screen to re-read the caches
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// syncDoneMsg reports the outcome of a manual full refresh
type syncDoneMsg struct {
	err error
}

// (Timer ticks are managed by the timer screen as needed)
