package timing

import (
	"sync"

	"github.com/buildbarn/bb-event-log/pkg/clock"
)

// SpanTime is a snapshot of the busy/idle nanoseconds accumulated by a
// SpanTimer, taken when a span is closed.
type SpanTime struct {
	Busy uint64
	Idle uint64
}

// SpanTimer accumulates the busy (entered) and idle (not entered)
// duration of a single span across however many times it is re-entered.
// It uses clock.Clock rather than time.Now() directly so that tests can
// inject a fake clock and assert exact nanosecond counts, the same way
// the teacher's rate limiters and timeout logic are tested against
// clock.Clock fakes.
type SpanTimer struct {
	mu         sync.Mutex
	clock      clock.Clock
	busy       uint64
	idle       uint64
	lastUpdate int64 // UnixNano of clock.Now() at the last transition.
}

// NewSpanTimer creates a SpanTimer with both counters at zero, using c as
// the source of monotonic-ish time. Passing a nil clock defaults to
// clock.SystemClock.
func NewSpanTimer(c clock.Clock) *SpanTimer {
	if c == nil {
		c = clock.SystemClock
	}
	return &SpanTimer{
		clock:      c,
		lastUpdate: c.Now().UnixNano(),
	}
}

// StartBusy is called when the span is entered. The time elapsed since
// the last transition is credited to idle.
func (t *SpanTimer) StartBusy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now().UnixNano()
	t.idle += uint64(now - t.lastUpdate)
	t.lastUpdate = now
}

// EndBusy is called when the span is exited. The time elapsed since the
// last transition is credited to busy.
func (t *SpanTimer) EndBusy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now().UnixNano()
	t.busy += uint64(now - t.lastUpdate)
	t.lastUpdate = now
}

// Finish reads out a snapshot of the accumulated busy/idle time without
// mutating the timer; the time elapsed since the last transition is
// counted as idle. A span that was created but never entered reports
// only idle time.
func (t *SpanTimer) Finish() SpanTime {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now().UnixNano()
	return SpanTime{Busy: t.busy, Idle: t.idle + uint64(now-t.lastUpdate)}
}
