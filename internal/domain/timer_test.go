package domain

import (
	"testing"
	"time"
)

func TestActiveTimer_PauseResumeAccumulation(t *testing.T) {
	base := time.Now().Add(-30 * time.Minute)

	// Ran 10 minutes, paused 15 minutes, then ran again. The elapsed
	// value is the sum of the two active intervals; the length of the
	// pause is irrelevant.
	timer := &ActiveTimer{
		OwnerID:            "owner-1",
		EntryID:            "e1",
		StartTime:          base,
		TotalPausedSeconds: 15 * 60,
	}

	now := base.Add(30 * time.Minute)
	if got := timer.elapsedAt(now); got != 15*time.Minute {
		t.Fatalf("expected 15m elapsed, got %s", got)
	}
}

func TestActiveTimer_ElapsedFrozenWhilePaused(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	pausedAt := base.Add(20 * time.Minute)
	timer := &ActiveTimer{
		OwnerID:   "owner-1",
		EntryID:   "e1",
		StartTime: base,
		PausedAt:  &pausedAt,
	}

	// However long the pause lasts, elapsed stays at the active 20m.
	for _, pause := range []time.Duration{time.Minute, time.Hour} {
		now := pausedAt.Add(pause)
		if got := timer.elapsedAt(now); got != 20*time.Minute {
			t.Fatalf("pause %s: expected 20m elapsed, got %s", pause, got)
		}
	}
}

func TestActiveTimer_StateTransitions(t *testing.T) {
	timer := &ActiveTimer{OwnerID: "owner-1", EntryID: "e1", StartTime: time.Now()}

	if timer.State() != TimerStateRunning {
		t.Fatalf("expected running, got %s", timer.State())
	}

	timer.Pause()
	if timer.State() != TimerStatePaused {
		t.Fatalf("expected paused, got %s", timer.State())
	}
	// Pause is idempotent at the domain level; the service rejects it.
	first := *timer.PausedAt
	timer.Pause()
	if !timer.PausedAt.Equal(first) {
		t.Fatalf("second pause must not move the pause timestamp")
	}

	timer.Resume()
	if timer.State() != TimerStateRunning {
		t.Fatalf("expected running after resume, got %s", timer.State())
	}
	if timer.TotalPausedSeconds < 0 {
		t.Fatalf("accumulated pause must be non-negative")
	}
}

func TestActiveTimer_CommitTimes(t *testing.T) {
	base := time.Now().Add(-45 * time.Minute)
	timer := &ActiveTimer{
		OwnerID:            "owner-1",
		EntryID:            "e1",
		StartTime:          base,
		TotalPausedSeconds: 15 * 60,
	}

	end, minutes := timer.CommitTimes()
	if end.Before(base) {
		t.Fatalf("end time precedes start time")
	}
	// 45 wall-clock minutes minus 15 paused.
	if minutes < 29 || minutes > 31 {
		t.Fatalf("expected ~30 active minutes, got %d", minutes)
	}
	// CommitTimes must not mutate the timer; a failed commit retries.
	if timer.TotalPausedSeconds != 15*60 || timer.PausedAt != nil {
		t.Fatalf("commit computation mutated the timer")
	}
}
