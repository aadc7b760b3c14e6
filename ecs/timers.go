package ecs

import (
	"container/heap"

	"github.com/milk9111/arrowtrap/common"
)

// TimerID is the cancellation token of a scheduled callback. Zero is never issued.
type TimerID uint64

type timer struct {
	id    TimerID
	at    float64
	fn    func()
	index int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].id < h[j].id
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// TimerQueue holds deferred callbacks ordered by (fire time, schedule order).
type TimerQueue struct {
	heap timerHeap
	byID map[TimerID]*timer
	next TimerID
}

// Schedule registers fn to fire once the clock reaches at.
func (q *TimerQueue) Schedule(at float64, fn func()) TimerID {
	if fn == nil {
		return 0
	}
	if q.byID == nil {
		q.byID = make(map[TimerID]*timer)
	}
	q.next++
	t := &timer{id: q.next, at: at, fn: fn}
	heap.Push(&q.heap, t)
	q.byID[t.id] = t
	return t.id
}

// Cancel removes a pending timer. It returns false if the timer already fired or
// was never scheduled.
func (q *TimerQueue) Cancel(id TimerID) bool {
	t, ok := q.byID[id]
	if !ok {
		return false
	}
	delete(q.byID, id)
	if t.index >= 0 {
		heap.Remove(&q.heap, t.index)
	}
	return true
}

// Pending reports whether id is still scheduled.
func (q *TimerQueue) Pending(id TimerID) bool {
	_, ok := q.byID[id]
	return ok
}

// FireTime returns when id will fire.
func (q *TimerQueue) FireTime(id TimerID) (float64, bool) {
	t, ok := q.byID[id]
	if !ok {
		return 0, false
	}
	return t.at, true
}

func (q *TimerQueue) Len() int {
	return len(q.heap)
}

// RunDue fires every timer with a fire time at or before now and returns how many
// ran. Fire times within common.Epsilon of now count as due, so a sum of float
// steps that lands just short of the fire time does not delay it a tick.
// Callbacks may schedule or cancel other timers.
func (q *TimerQueue) RunDue(now float64) int {
	ran := 0
	for len(q.heap) > 0 && q.heap[0].at <= now+common.Epsilon {
		t := heap.Pop(&q.heap).(*timer)
		delete(q.byID, t.id)
		t.fn()
		ran++
	}
	return ran
}
