package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerQueueOrdering(t *testing.T) {
	var q TimerQueue
	var order []string

	q.Schedule(2, func() { order = append(order, "late") })
	q.Schedule(1, func() { order = append(order, "early_a") })
	q.Schedule(1, func() { order = append(order, "early_b") })
	assert.Equal(t, TimerID(0), q.Schedule(1, nil))
	require.Equal(t, 3, q.Len())

	assert.Equal(t, 0, q.RunDue(0.5))
	assert.Equal(t, 2, q.RunDue(1))
	assert.Equal(t, []string{"early_a", "early_b"}, order)

	assert.Equal(t, 1, q.RunDue(10))
	assert.Equal(t, []string{"early_a", "early_b", "late"}, order)
	assert.Equal(t, 0, q.Len())
}

func TestTimerQueueCancel(t *testing.T) {
	var q TimerQueue
	fired := map[string]bool{}

	a := q.Schedule(1, func() { fired["a"] = true })
	b := q.Schedule(2, func() { fired["b"] = true })
	c := q.Schedule(3, func() { fired["c"] = true })

	at, ok := q.FireTime(b)
	require.True(t, ok)
	assert.Equal(t, 2.0, at)

	assert.True(t, q.Cancel(b))
	assert.False(t, q.Cancel(b))
	assert.False(t, q.Pending(b))
	_, ok = q.FireTime(b)
	assert.False(t, ok)

	q.RunDue(5)
	assert.True(t, fired["a"])
	assert.False(t, fired["b"])
	assert.True(t, fired["c"])
	assert.False(t, q.Cancel(a), "fired timers cannot be cancelled")
	assert.False(t, q.Pending(c))
}

func TestTimerCallbacksMayReschedule(t *testing.T) {
	var q TimerQueue
	count := 0
	var again func()
	again = func() {
		count++
		if count < 3 {
			q.Schedule(float64(count), again)
		}
	}
	q.Schedule(0, again)

	q.RunDue(10)
	assert.Equal(t, 3, count, "timers scheduled at or before now run in the same pass")
}

func TestClock(t *testing.T) {
	var c Clock
	c.Advance(0.25)
	c.Advance(-1)
	assert.Equal(t, 0.25, c.Now())

	c.Set(0.1)
	assert.Equal(t, 0.25, c.Now(), "clock never runs backwards")
	c.Set(2)
	assert.Equal(t, 2.0, c.Now())
}

func TestTimerDueDespiteAccumulatedSteps(t *testing.T) {
	w := NewWorld()
	fired := false
	w.After(2, func() { fired = true })

	for i := 0; i < 119; i++ {
		w.Update(1.0 / 60)
	}
	assert.False(t, fired)

	w.Update(1.0 / 60)
	assert.Less(t, w.Now(), 2.0, "sixty-hertz steps fall short of 2.0 in float")
	assert.True(t, fired, "timer fires on the 120th step")
}
