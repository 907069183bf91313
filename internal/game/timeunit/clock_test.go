package timeunit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_FiresAfterDuration(t *testing.T) {
	c := NewClock()
	var h TimerHandle
	fired := 0
	c.CreateTimer(&h, 5*time.Second, func() { fired++ }, PriorityDefault)

	require.False(t, h.IsZero())
	assert.Equal(t, 1, c.Pending())

	c.Advance(4 * time.Second)
	assert.Equal(t, 0, fired)
	rem, ok := c.Remaining(h)
	require.True(t, ok)
	assert.Equal(t, time.Second, rem)

	c.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())

	c.Advance(10 * time.Second)
	assert.Equal(t, 1, fired, "timers fire once")
}

func TestClock_RemoveTimer(t *testing.T) {
	c := NewClock()
	var h TimerHandle
	c.CreateTimer(&h, time.Second, func() { t.Fatal("removed timer fired") }, PriorityDefault)

	c.RemoveTimer(&h)
	assert.True(t, h.IsZero())
	c.RemoveTimer(&h)
	c.RemoveTimer(nil)

	c.Advance(2 * time.Second)
	assert.Equal(t, 0, c.Pending())
}

func TestClock_CreateTimerReplacesRef(t *testing.T) {
	c := NewClock()
	var h TimerHandle
	var got []string
	c.CreateTimer(&h, time.Second, func() { got = append(got, "old") }, PriorityDefault)
	c.CreateTimer(&h, 2*time.Second, func() { got = append(got, "new") }, PriorityDefault)

	assert.Equal(t, 1, c.Pending())
	c.Advance(3 * time.Second)
	assert.Equal(t, []string{"new"}, got)
}

func TestClock_DueOrderThenPriority(t *testing.T) {
	c := NewClock()
	var order []string
	c.CreateTimer(nil, time.Second, func() { order = append(order, "low") }, PriorityLow)
	c.CreateTimer(nil, time.Second, func() { order = append(order, "high") }, PriorityHigh)
	c.CreateTimer(nil, 500*time.Millisecond, func() { order = append(order, "default-early") }, PriorityDefault)
	c.CreateTimer(nil, time.Second, func() { order = append(order, "default-late") }, PriorityDefault)

	assert.Equal(t, 4, c.Advance(time.Second))
	assert.Equal(t, []string{"default-early", "high", "default-late", "low"}, order)
}

func TestClock_CallbackSeesDueTime(t *testing.T) {
	c := NewClock()
	var seen time.Duration
	c.CreateTimer(nil, time.Second, func() { seen = c.Now() }, PriorityDefault)

	c.Advance(1700 * time.Millisecond)
	assert.Equal(t, time.Second, seen)
	assert.Equal(t, 1700*time.Millisecond, c.Now())
}

func TestClock_RearmedTimerKeepsCadence(t *testing.T) {
	frames := []time.Duration{
		250 * time.Millisecond,
		300 * time.Millisecond,
		700 * time.Millisecond,
		1500 * time.Millisecond,
		5 * time.Second,
	}
	for _, frame := range frames {
		t.Run(frame.String(), func(t *testing.T) {
			c := NewClock()
			var fired []time.Duration
			var h TimerHandle
			var rearm func()
			rearm = func() {
				fired = append(fired, c.Now())
				if len(fired) < 5 {
					c.CreateTimer(&h, time.Second, rearm, PriorityDefault)
				}
			}
			c.CreateTimer(&h, time.Second, rearm, PriorityDefault)

			for c.Now() < 5*time.Second {
				c.Advance(min(frame, 5*time.Second-c.Now()))
			}
			assert.Equal(t, []time.Duration{
				time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
			}, fired)
			assert.Equal(t, 0, c.Pending())
		})
	}
}

func TestClock_CallbackCreatedTimerWaitsForNextFrame(t *testing.T) {
	c := NewClock()
	ticks := 0
	var h TimerHandle
	var rearm func()
	rearm = func() {
		ticks++
		c.CreateTimer(&h, 0, rearm, PriorityDefault)
	}
	c.CreateTimer(&h, time.Second, rearm, PriorityDefault)

	c.Advance(time.Second)
	assert.Equal(t, 1, ticks)
	c.Advance(0)
	assert.Equal(t, 2, ticks)
}

func TestClock_CallbackRemovedTimerIsSkipped(t *testing.T) {
	c := NewClock()
	var victim TimerHandle
	c.CreateTimer(nil, time.Second, func() { c.RemoveTimer(&victim) }, PriorityHigh)
	c.CreateTimer(&victim, time.Second, func() { t.Fatal("victim fired") }, PriorityLow)

	assert.Equal(t, 1, c.Advance(time.Second))
}

func TestClock_WillCompleteThisFrame(t *testing.T) {
	c := NewClock()
	var period, duration TimerHandle
	var seen bool
	c.CreateTimer(&duration, 3*time.Second, func() {}, PriorityLow)
	c.CreateTimer(&period, 3*time.Second, func() {
		seen = c.WillCompleteThisFrame(duration)
	}, PriorityHigh)

	assert.False(t, c.WillCompleteThisFrame(duration))
	c.Advance(3 * time.Second)
	assert.True(t, seen, "duration timer fires later in the same frame")
	assert.False(t, c.WillCompleteThisFrame(duration), "fired timers are gone")
	assert.False(t, c.WillCompleteThisFrame(TimerHandle{}))
}

func TestClock_AdvanceIsNotReentrant(t *testing.T) {
	c := NewClock()
	nested := -1
	c.CreateTimer(nil, 0, func() { nested = c.Advance(time.Hour) }, PriorityDefault)
	c.Advance(0)
	assert.Equal(t, 0, nested)
	assert.Equal(t, time.Duration(0), c.Now())
}
