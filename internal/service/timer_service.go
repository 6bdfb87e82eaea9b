package service

import (
	"context"
	"sync"
	"time"

	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

// TimerService manages one stopwatch state machine per owner. Pause,
// resume and reset are purely local and synchronous; only start and stop
// talk to the remote service.
type TimerService interface {
	// State returns the timer state for the owner (idle when none).
	State(ownerID string) domain.TimerState

	// ActiveTimer returns the owner's active timer, or nil when idle.
	ActiveTimer(ownerID string) *domain.ActiveTimer

	// Start creates a running remote entry and an active timer. Fails
	// with a ConflictError if the owner already has an active timer.
	Start(ctx context.Context, req remote.StartTimeEntryRequest) error

	// Pause freezes the elapsed display. Valid only from running.
	Pause(ownerID string) error

	// Resume continues a paused timer. Valid only from paused.
	Resume(ownerID string) error

	// Stop commits the session remotely and refreshes the dependent
	// caches. On a remote failure the timer keeps its pre-stop state so
	// the call can be retried. The committed entry is returned even when
	// the follow-up cache refresh fails; in that case err is a *SyncError
	// and the affected caches are flagged stale.
	Stop(ctx context.Context, ownerID string) (*domain.TimeEntry, error)

	// Reset discards a paused session without a remote call. Not valid
	// from running; an active session cannot be silently dropped.
	Reset(ownerID string) error

	// Elapsed returns the accumulated active duration for display.
	Elapsed(ownerID string) (time.Duration, error)
}

type timerService struct {
	remote remote.Service
	syncer SyncService

	mu       sync.Mutex
	timers   map[string]*domain.ActiveTimer
	starting map[string]bool // start call in flight
	stopping map[string]bool // commit call in flight
}

// NewTimerService creates a timer service.
func NewTimerService(svc remote.Service, syncer SyncService) TimerService {
	return &timerService{
		remote:   svc,
		syncer:   syncer,
		timers:   make(map[string]*domain.ActiveTimer),
		starting: make(map[string]bool),
		stopping: make(map[string]bool),
	}
}

func (s *timerService) State(ownerID string) domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.timers[ownerID]
	if t == nil {
		return domain.TimerStateIdle
	}
	return t.State()
}

func (s *timerService) ActiveTimer(ownerID string) *domain.ActiveTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[ownerID]
}

func (s *timerService) Start(ctx context.Context, req remote.StartTimeEntryRequest) error {
	s.mu.Lock()
	if s.timers[req.OwnerID] != nil || s.starting[req.OwnerID] {
		s.mu.Unlock()
		return &domain.ConflictError{Op: "start timer", Err: domain.ErrTimerAlreadyActive}
	}
	s.starting[req.OwnerID] = true
	s.mu.Unlock()

	entry, err := s.remote.StartTimeEntry(ctx, req)

	s.mu.Lock()
	delete(s.starting, req.OwnerID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.timers[req.OwnerID] = domain.NewActiveTimer(req.OwnerID, entry)
	s.mu.Unlock()

	log.Debugf("timer started for owner %s, entry %s", req.OwnerID, entry.ID)
	return nil
}

func (s *timerService) Pause(ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.timers[ownerID]
	if t == nil {
		return &domain.ConflictError{Op: "pause timer", Err: domain.ErrNoActiveTimer}
	}
	if t.State() != domain.TimerStateRunning {
		return &domain.ConflictError{Op: "pause timer", Err: domain.ErrTimerNotRunning}
	}
	t.Pause()
	return nil
}

func (s *timerService) Resume(ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.timers[ownerID]
	if t == nil {
		return &domain.ConflictError{Op: "resume timer", Err: domain.ErrNoActiveTimer}
	}
	if t.State() != domain.TimerStatePaused {
		return &domain.ConflictError{Op: "resume timer", Err: domain.ErrTimerNotPaused}
	}
	t.Resume()
	return nil
}

func (s *timerService) Stop(ctx context.Context, ownerID string) (*domain.TimeEntry, error) {
	s.mu.Lock()
	t := s.timers[ownerID]
	if t == nil {
		s.mu.Unlock()
		return nil, &domain.ConflictError{Op: "stop timer", Err: domain.ErrNoActiveTimer}
	}
	if s.stopping[ownerID] {
		s.mu.Unlock()
		return nil, &domain.ConflictError{Op: "stop timer", Err: domain.ErrStopInFlight}
	}
	s.stopping[ownerID] = true
	endTime, minutes := t.CommitTimes()
	entryID := t.EntryID
	s.mu.Unlock()

	entry, err := s.remote.CommitTimeEntry(ctx, entryID, endTime, minutes)

	s.mu.Lock()
	delete(s.stopping, ownerID)
	if err != nil {
		// Pre-stop state is untouched; the user can retry.
		s.mu.Unlock()
		return nil, err
	}
	delete(s.timers, ownerID)
	s.mu.Unlock()

	log.Debugf("timer stopped for owner %s, entry %s (%d min)", ownerID, entryID, minutes)
	return entry, s.syncer.Synchronize(ctx, MutationTimeEntry)
}

func (s *timerService) Reset(ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.timers[ownerID]
	if t == nil {
		return &domain.ConflictError{Op: "reset timer", Err: domain.ErrNoActiveTimer}
	}
	if t.State() != domain.TimerStatePaused {
		return &domain.ConflictError{Op: "reset timer", Err: domain.ErrTimerNotPaused}
	}
	delete(s.timers, ownerID)
	return nil
}

func (s *timerService) Elapsed(ownerID string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.timers[ownerID]
	if t == nil {
		return 0, &domain.ConflictError{Op: "read elapsed", Err: domain.ErrNoActiveTimer}
	}
	return t.Elapsed(), nil
}
