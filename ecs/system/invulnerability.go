package system

import (
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
)

// WorldInvulnerability reads the Invulnerable marker of one entity.
type WorldInvulnerability struct {
	World  *ecs.World
	Entity ecs.Entity
}

func (i WorldInvulnerability) IsInvulnerable() bool {
	return ecs.Has(i.World, i.Entity, component.InvulnerableComponent.Kind())
}

// Grant makes e invulnerable for seconds; zero means until revoked.
func Grant(w *ecs.World, e ecs.Entity, seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	return ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Remaining: seconds})
}

// Revoke removes any invulnerability from e.
func Revoke(w *ecs.World, e ecs.Entity) bool {
	return ecs.Remove(w, e, component.InvulnerableComponent.Kind())
}

// InvulnerabilitySystem counts down timed invulnerability windows.
type InvulnerabilitySystem struct{}

func NewInvulnerabilitySystem() *InvulnerabilitySystem {
	return &InvulnerabilitySystem{}
}

func (s *InvulnerabilitySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach(w, component.InvulnerableComponent.Kind(), func(e ecs.Entity, inv *component.Invulnerable) {
		if inv.Remaining <= 0 {
			return
		}
		inv.Remaining -= dt
		if inv.Remaining <= 0 {
			ecs.Remove(w, e, component.InvulnerableComponent.Kind())
		}
	})
}
