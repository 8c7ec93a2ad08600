// Package focus implements the focus session countdown.
package focus

import (
	"fmt"
	"math"
	"time"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
)

// Status is the lifecycle state of a Timer.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Placeholder is shown instead of a countdown when no session is active.
const Placeholder = "--:--"

// Timer counts one focus session down to zero. Only one session runs at a
// time; starting another discards the current one.
//
// Every Start bumps the generation. Whoever schedules ticks tags them with
// the generation returned by Start and stops rescheduling once Current
// reports false, so a replaced or torn down session never keeps ticking.
type Timer struct {
	status     Status
	session    api.FocusSession
	remaining  int
	total      int
	startedAt  time.Time
	ticked     int
	generation uint64
}

// Start begins session from any state and returns its tick generation.
func (t *Timer) Start(session api.FocusSession, now time.Time) uint64 {
	t.generation++
	total := max(0, session.EstimatedMinutes*60)
	t.session = session
	t.total = total
	t.remaining = total
	t.startedAt = now
	t.ticked = 0
	t.status = StatusRunning
	if total == 0 {
		t.status = StatusCompleted
	}
	log.Printf("focus start session=%s total=%ds gen=%d", session.ID, total, t.generation)
	return t.generation
}

// Tick applies one elapsed second. The tick that reaches zero completes the
// session; ticks outside the running state change nothing.
func (t *Timer) Tick() bool {
	if t.status != StatusRunning {
		return false
	}
	t.ticked++
	t.remaining = max(0, t.remaining-1)
	if t.remaining == 0 {
		t.status = StatusCompleted
		log.Printf("focus completed session=%s", t.session.ID)
	}
	return true
}

// Advance applies every tick owed by the wall clock since Start that has
// not been applied yet, and returns how many it applied. Late or skipped
// scheduler wakeups are caught up here, and a tick is never applied twice.
func (t *Timer) Advance(now time.Time) int {
	if t.status != StatusRunning {
		return 0
	}
	owed := int(now.Sub(t.startedAt) / time.Second)
	applied := 0
	for t.ticked < owed && t.Tick() {
		applied++
	}
	return applied
}

// Acknowledge clears a completed session.
func (t *Timer) Acknowledge() {
	if t.status == StatusCompleted {
		t.reset()
	}
}

// Stop tears the timer down. Any scheduled tick becomes stale.
func (t *Timer) Stop() {
	t.generation++
	t.reset()
}

func (t *Timer) reset() {
	t.status = StatusIdle
	t.session = api.FocusSession{}
	t.remaining = 0
	t.total = 0
	t.ticked = 0
	t.startedAt = time.Time{}
}

// Current reports whether a tick tagged with generation should still run.
func (t *Timer) Current(generation uint64) bool {
	return generation == t.generation && t.status == StatusRunning
}

func (t *Timer) Status() Status {
	return t.status
}

// Active reports whether a session is running or awaiting acknowledgement.
func (t *Timer) Active() bool {
	return t.status != StatusIdle
}

func (t *Timer) SessionID() string {
	return t.session.ID
}

func (t *Timer) Session() api.FocusSession {
	return t.session
}

func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) Total() int {
	return t.total
}

func (t *Timer) Generation() uint64 {
	return t.generation
}

// Progress is the completed share of the session as a whole percentage.
// A zero length session reports 0.
func (t *Timer) Progress() int {
	return Progress(t.total, t.remaining)
}

// Countdown renders the remaining time, or Placeholder when idle.
func (t *Timer) Countdown() string {
	if t.status == StatusIdle {
		return Placeholder
	}
	return FormatCountdown(t.remaining)
}

// Progress returns round(100*(total-remaining)/total) clamped to [0,100].
func Progress(total, remaining int) int {
	if total <= 0 {
		return 0
	}
	pct := math.Round(100 * float64(total-remaining) / float64(total))
	return int(min(100, max(0, pct)))
}

// FormatCountdown renders seconds as MM:SS. Negative input is the
// placeholder.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		return Placeholder
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
