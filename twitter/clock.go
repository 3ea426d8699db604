package twitter

import (
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback; Stop cancels it if it has
// not yet fired. Stop is idempotent and safe to call more than once.
type Timer interface {
	Stop() bool
}

// Clock is the monotonic scheduler collaborator from spec.md §6: a
// minimal schedule/cancel surface the monitor uses for its reconnect
// timer. The real implementation is necessarily stdlib time (no
// scheduler library appears anywhere in the retrieved pack); the
// interface — and the FakeClock below — are what let spec.md §8's
// scenarios advance time deterministically instead of sleeping, a
// direct port of original_source's use of Twisted's task.Clock in
// TwitterMonitorTest.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// realClock is the production Clock, backed by time.AfterFunc.
type realClock struct{}

// NewRealClock returns the production Clock.
func NewRealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FakeClock is a deterministic Clock for tests: time only moves when
// Advance is called, and firing a callback that itself schedules a new
// zero-delay timer will fire that timer too within the same Advance
// call, matching Twisted's task.Clock.advance semantics that
// original_source's tests rely on.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*fakeTimer
}

// NewFakeClock returns a FakeClock starting at the zero time.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Time{}}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{at: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by d, firing every non-cancelled timer
// whose deadline falls at or before the new time, in deadline order
// (ties broken by schedule order), including timers newly scheduled by
// callbacks that themselves fall within the window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.popNextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
}

// Pending reports how many scheduled timers have neither fired nor been
// stopped; tests use it to assert no reconnect timer leaks across
// restarts (spec.md §8's "pending reconnect timers ≤ 1" invariant).
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// popNextDue must be called with c.mu held; it removes and returns the
// earliest due, live timer, or nil if none are due by target.
func (c *FakeClock) popNextDue(target time.Time) *fakeTimer {
	live := c.pending[:0:0]
	var best *fakeTimer
	bestIdx := -1
	for i, t := range c.pending {
		if t.fired || t.stopped {
			continue
		}
		live = append(live, t)
		if t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
			bestIdx = len(live) - 1
		}
	}
	c.pending = live
	if best == nil {
		return nil
	}
	best.fired = true
	sort.SliceStable(c.pending, func(i, j int) bool { return c.pending[i].seq < c.pending[j].seq })
	_ = bestIdx
	return best
}

type fakeTimer struct {
	at      time.Time
	seq     int
	f       func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
