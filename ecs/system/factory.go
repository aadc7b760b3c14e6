package system

import (
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
)

// Factory spawns and destroys template entities.
type Factory interface {
	Create(template string, pos common.Vec3, basis common.Basis) (ecs.Entity, error)
	Destroy(e ecs.Entity)
	DestroyAfter(e ecs.Entity, delay float64) ecs.TimerID
}

// BodyDeactivator removes an entity's collider from the broad phase.
type BodyDeactivator interface {
	Deactivate(w *ecs.World, e ecs.Entity)
}
