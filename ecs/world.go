package ecs

import "github.com/milk9111/arrowtrap/ecs/component"

// World owns entities, component stores, the simulation clock, deferred timers and
// the per-tick event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  *Scheduler
	events   EventQueue
	clock    Clock
	timers   TimerQueue
	dt       float64
}

// NewWorld creates an empty ECS world at simulation time zero.
func NewWorld() *World {
	return &World{
		stores:  make(map[component.ComponentID]*SparseSet),
		systems: NewScheduler(),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w == nil || w.stores == nil {
		return nil
	}
	return w.stores[id]
}

// AddComponent inserts or replaces the value stored under id for e.
func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	s.Set(e, value)
	return nil
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	s := w.store(id)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(id).Has(e)
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	v := w.store(id).Get(e)
	return v, v != nil
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems.Add(s)
}

// Systems returns the registered systems in update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.systems.Systems()
}

// Update advances the clock by dt, fires due timers, runs all systems once and
// then flushes the tick's events.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt
	w.clock.Advance(dt)
	w.timers.RunDue(w.clock.Now())
	w.systems.Update(w)
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Clock returns the shared simulation clock.
func (w *World) Clock() *Clock {
	if w == nil {
		return nil
	}
	return &w.clock
}

// Delta returns the step length of the tick being processed.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Now is shorthand for Clock().Now().
func (w *World) Now() float64 {
	if w == nil {
		return 0
	}
	return w.clock.Now()
}

// Timers returns the deferred-callback queue.
func (w *World) Timers() *TimerQueue {
	if w == nil {
		return nil
	}
	return &w.timers
}

// After schedules fn to run delay seconds from now.
func (w *World) After(delay float64, fn func()) TimerID {
	if w == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	return w.timers.Schedule(w.clock.Now()+delay, fn)
}

// CancelTimer cancels a pending timer; it reports whether one was pending.
func (w *World) CancelTimer(id TimerID) bool {
	if w == nil {
		return false
	}
	return w.timers.Cancel(id)
}
