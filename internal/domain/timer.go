package domain

import "time"

type TimerState string

const (
	TimerStateIdle    TimerState = "idle"
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
)

// ActiveTimer is the local state machine for one owner's work session.
// Pause and resume are purely local transitions; the remote entry stays
// running until the session is committed. Elapsed time accumulates active
// intervals rather than diffing wall-clock start to now, so the paused
// stretches never count.
type ActiveTimer struct {
	OwnerID            string
	EntryID            string // remote entry created at start
	ClientID           string
	ProjectID          string
	TaskLabel          string
	StartTime          time.Time
	PausedAt           *time.Time
	TotalPausedSeconds int64
}

// NewActiveTimer creates a running timer backed by the given remote entry.
func NewActiveTimer(ownerID string, entry *TimeEntry) *ActiveTimer {
	return &ActiveTimer{
		OwnerID:   ownerID,
		EntryID:   entry.ID,
		ClientID:  entry.ClientID,
		ProjectID: entry.ProjectID,
		TaskLabel: entry.TaskLabel,
		StartTime: entry.StartTime,
	}
}

// State returns the current timer state.
func (t *ActiveTimer) State() TimerState {
	if t.PausedAt != nil {
		return TimerStatePaused
	}
	return TimerStateRunning
}

// Elapsed returns the accumulated active duration, excluding paused time.
// This drives the once-per-second display only; the committed duration is
// derived from timestamps at stop time.
func (t *ActiveTimer) Elapsed() time.Duration {
	return t.elapsedAt(time.Now())
}

func (t *ActiveTimer) elapsedAt(now time.Time) time.Duration {
	total := now.Sub(t.StartTime)
	paused := time.Duration(t.TotalPausedSeconds) * time.Second
	if t.PausedAt != nil {
		paused += now.Sub(*t.PausedAt)
	}
	return total - paused
}

// Pause freezes the elapsed display. No-op if already paused.
func (t *ActiveTimer) Pause() {
	if t.PausedAt == nil {
		now := time.Now()
		t.PausedAt = &now
	}
}

// Resume folds the current pause into the accumulated pause total so the
// elapsed display continues from where it left off.
func (t *ActiveTimer) Resume() {
	if t.PausedAt != nil {
		t.TotalPausedSeconds += int64(time.Since(*t.PausedAt).Seconds())
		t.PausedAt = nil
	}
}

// CommitTimes returns the end timestamp and final active-interval duration
// in minutes for the remote commit call. The timer itself is not mutated;
// a failed commit leaves the session retryable.
func (t *ActiveTimer) CommitTimes() (time.Time, int64) {
	now := time.Now()
	minutes := int64(t.elapsedAt(now).Minutes())
	return now, minutes
}
