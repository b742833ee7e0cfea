// ABOUTME: Frame scheduling primitives
// ABOUTME: One-shot frame callbacks and a cancel-safe self-rescheduling loop
package frame

import (
	"sync"
	"time"
)

// CancelFunc cancels a scheduled frame callback. Calling it after the
// callback has run is a no-op.
type CancelFunc func()

// Scheduler schedules a function to run on the next display frame.
// The production implementation ticks at roughly display refresh
// rate; tests drive callbacks by hand.
type Scheduler interface {
	Schedule(fn func(now time.Time)) CancelFunc
}

// TickerScheduler schedules callbacks one frame interval in the
// future using the wall clock.
type TickerScheduler struct {
	Interval time.Duration
}

// NewTickerScheduler creates a scheduler ticking at ~60Hz
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{Interval: 16 * time.Millisecond}
}

// Schedule runs fn once after one frame interval
func (s *TickerScheduler) Schedule(fn func(now time.Time)) CancelFunc {
	interval := s.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	timer := time.AfterFunc(interval, func() {
		fn(time.Now())
	})
	return func() { timer.Stop() }
}

// LoopState tracks where a frame loop is in its lifecycle. A bare
// boolean cannot tell a callback that was cancelled after being
// queued apart from one that is legitimately still running.
type LoopState int

const (
	LoopStopped LoopState = iota
	LoopScheduled
	LoopRunning
)

// String returns a readable loop state name
func (s LoopState) String() string {
	switch s {
	case LoopStopped:
		return "stopped"
	case LoopScheduled:
		return "scheduled"
	case LoopRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Loop is a self-rescheduling frame loop. Each tick runs the supplied
// function; the loop reschedules itself only while the function
// returns true. Stop both flips the state and cancels the pending
// callback, and every tick checks its generation so a callback that
// was already dispatched when Stop ran exits without doing anything.
type Loop struct {
	sched Scheduler

	mu     sync.Mutex
	state  LoopState
	gen    uint64
	cancel CancelFunc
	fn     func(now time.Time) bool
}

// NewLoop creates a frame loop around fn
func NewLoop(sched Scheduler, fn func(now time.Time) bool) *Loop {
	return &Loop{sched: sched, fn: fn}
}

// Start schedules the first frame. No-op if the loop is already live.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != LoopStopped {
		return
	}

	l.gen++
	l.state = LoopScheduled
	gen := l.gen
	l.cancel = l.sched.Schedule(func(now time.Time) { l.tick(gen, now) })
}

// Stop halts the loop and cancels any pending frame
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == LoopStopped {
		return
	}

	l.gen++
	l.state = LoopStopped
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// State returns the current loop state
func (l *Loop) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) tick(gen uint64, now time.Time) {
	l.mu.Lock()
	if gen != l.gen || l.state == LoopStopped {
		// Stale callback from before a Stop/Start; do nothing
		l.mu.Unlock()
		return
	}
	l.state = LoopRunning
	fn := l.fn
	l.mu.Unlock()

	keepGoing := fn(now)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || l.state == LoopStopped {
		// Stopped while the frame body ran
		return
	}

	if !keepGoing {
		l.state = LoopStopped
		l.cancel = nil
		return
	}

	l.state = LoopScheduled
	l.cancel = l.sched.Schedule(func(now time.Time) { l.tick(gen, now) })
}
