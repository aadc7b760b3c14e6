package ecs

import "gopkg.in/eapache/queue.v1"

// EventType names an event kind.
type EventType string

const (
	EventOverlap  EventType = "overlap"
	EventDeath    EventType = "death"
	EventLaunch   EventType = "launch"
	EventResolved EventType = "projectile_resolved"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// OverlapEvent reports that Other began overlapping Self during the physics step.
// Delivery is at-least-once; consumers must be idempotent.
type OverlapEvent struct {
	Self  Entity
	Other Entity
}

// DeathEvent is emitted once when an entity's health crosses to zero.
type DeathEvent struct {
	Entity Entity
}

// LaunchEvent is emitted after a launcher volley.
type LaunchEvent struct {
	Launcher Entity
	Count    int
}

// ResolvedEvent is emitted when a projectile's first overlap decides its
// fate. Actor is false for environment stops.
type ResolvedEvent struct {
	Projectile Entity
	Other      Entity
	Actor      bool
}

// EventQueue is a FIFO of the current tick's events. Systems read it with Each;
// the world flushes it after all systems have run.
type EventQueue struct {
	items *queue.Queue
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	if q.items == nil {
		q.items = queue.New()
	}
	q.items.Add(evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil || q.items == nil {
		return 0
	}
	return q.items.Length()
}

// Each visits queued events in order. Events pushed by fn are visited too.
func (q *EventQueue) Each(fn func(Event)) {
	if q == nil || q.items == nil || fn == nil {
		return
	}
	for i := 0; i < q.items.Length(); i++ {
		evt, ok := q.items.Get(i).(Event)
		if !ok {
			continue
		}
		fn(evt)
	}
}

// Overlaps visits only overlap events.
func (q *EventQueue) Overlaps(fn func(OverlapEvent)) {
	q.Each(func(evt Event) {
		if evt.Type != EventOverlap {
			return
		}
		if ov, ok := evt.Data.(OverlapEvent); ok {
			fn(ov)
		}
	})
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || q.Len() == 0 {
		return nil
	}
	out := make([]Event, 0, q.items.Length())
	for q.items.Length() > 0 {
		if evt, ok := q.items.Remove().(Event); ok {
			out = append(out, evt)
		}
	}
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
