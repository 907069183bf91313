// Package timeunit provides frame-polled timers for timed and periodic
// skill effects, and the loop that advances them.
package timeunit

import (
	"cmp"
	"time"
)

// Timer priorities. Among timers due at the same moment, higher priority
// timers fire first.
const (
	PriorityLow     = -10
	PriorityDefault = 0
	PriorityHigh    = 10
)

// TimerHandle refers to a scheduled timer. The zero value refers to nothing.
type TimerHandle struct {
	id uint64
}

// IsZero reports whether h refers to no timer.
func (h TimerHandle) IsZero() bool { return h.id == 0 }

type timer struct {
	id       uint64
	due      time.Duration
	priority int
	fn       func()

	// deferred marks a zero-delay timer created from a callback; it waits
	// for the next Advance.
	deferred bool
}

// Clock is a frame-stepped timer service. Time only moves in Advance.
//
// Inside a frame, timers fire in due order and every callback observes Now()
// equal to its own due time, so a timer created from a callback is scheduled
// from that moment and fires in the same frame if it falls due before the
// frame ends. Zero-delay timers created from a callback wait for the next
// frame; timers removed from a callback are skipped.
//
// Not safe for concurrent use; drive it from one goroutine (see Loop).
type Clock struct {
	now    time.Duration
	end    time.Duration
	nextID uint64
	timers map[uint64]*timer

	inFrame bool
}

// NewClock creates a Clock at time zero.
func NewClock() *Clock {
	return &Clock{timers: make(map[uint64]*timer)}
}

// Now returns the elapsed clock time. Inside a timer callback it is the
// timer's due time.
func (c *Clock) Now() time.Duration { return c.now }

// Pending returns the number of scheduled timers.
func (c *Clock) Pending() int { return len(c.timers) }

// CreateTimer schedules onComplete to run once d has elapsed. If ref
// already holds a live timer it is cancelled first; ref then refers to the
// new timer. A nil ref schedules an anonymous timer.
func (c *Clock) CreateTimer(ref *TimerHandle, d time.Duration, onComplete func(), priority int) {
	if ref != nil && !ref.IsZero() {
		c.RemoveTimer(ref)
	}
	d = max(d, 0)
	c.nextID++
	t := &timer{
		id:       c.nextID,
		due:      c.now + d,
		priority: priority,
		fn:       onComplete,
		deferred: c.inFrame && d == 0,
	}
	c.timers[t.id] = t
	if ref != nil {
		*ref = TimerHandle{id: t.id}
	}
}

// RemoveTimer cancels the timer behind ref and zeroes ref.
// Stale or zero refs are ignored.
func (c *Clock) RemoveTimer(ref *TimerHandle) {
	if ref == nil {
		return
	}
	delete(c.timers, ref.id)
	*ref = TimerHandle{}
}

// WillCompleteThisFrame reports whether h fires in the frame being
// advanced. Outside Advance it reports whether h is already due.
func (c *Clock) WillCompleteThisFrame(h TimerHandle) bool {
	t, ok := c.timers[h.id]
	if !ok {
		return false
	}
	if c.inFrame {
		return !t.deferred && t.due <= c.end
	}
	return t.due <= c.now
}

// Remaining returns the time left on h.
func (c *Clock) Remaining(h TimerHandle) (time.Duration, bool) {
	t, ok := c.timers[h.id]
	if !ok {
		return 0, false
	}
	return max(t.due-c.now, 0), true
}

// Advance moves the clock forward by delta (one frame) and fires every
// timer due by the end of it. Timers due at the same moment fire by
// priority (higher first), then creation order. Returns the number of
// callbacks run. Calling Advance from inside a timer callback does nothing.
func (c *Clock) Advance(delta time.Duration) int {
	if c.inFrame {
		return 0
	}
	c.end = c.now + max(delta, 0)
	c.inFrame = true
	defer func() {
		c.inFrame = false
		c.now = c.end
		for _, t := range c.timers {
			t.deferred = false
		}
	}()

	fired := 0
	for {
		t := c.nextDue()
		if t == nil {
			return fired
		}
		delete(c.timers, t.id)
		c.now = max(c.now, t.due)
		fired++
		if t.fn != nil {
			t.fn()
		}
	}
}

// nextDue returns the earliest timer that fires in the current frame.
func (c *Clock) nextDue() *timer {
	var next *timer
	for _, t := range c.timers {
		if t.deferred || t.due > c.end {
			continue
		}
		if next == nil || fireOrder(t, next) < 0 {
			next = t
		}
	}
	return next
}

func fireOrder(a, b *timer) int {
	if a.due != b.due {
		return cmp.Compare(a.due, b.due)
	}
	if a.priority != b.priority {
		return cmp.Compare(b.priority, a.priority)
	}
	return cmp.Compare(a.id, b.id)
}
