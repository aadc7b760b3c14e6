package system

import (
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
)

// WalkerSystem steers walkers toward their next waypoint. Entities with a
// physics body are moved through its velocity; others are moved directly.
type WalkerSystem struct{}

func NewWalkerSystem() *WalkerSystem {
	return &WalkerSystem{}
}

func (s *WalkerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach2(w, component.WalkerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, walker *component.Walker, t *component.Transform) {
		vel := common.Zero
		if !walker.Done && len(walker.Waypoints) > 0 && walker.Speed > 0 && dt > 0 {
			if walker.Next >= len(walker.Waypoints) {
				walker.Next = 0
			}
			delta := walker.Waypoints[walker.Next].Sub(t.Position)
			dist := delta.Len()
			if dist <= walker.Speed*dt+common.Epsilon {
				vel = delta.Scale(1 / dt)
				walker.Next++
				if walker.Next >= len(walker.Waypoints) {
					if walker.Loop {
						walker.Next = 0
					} else {
						walker.Done = true
					}
				}
			} else {
				vel = delta.Scale(walker.Speed / dist)
			}
		}

		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && !body.Static {
			body.Velocity = vel
			return
		}
		t.Position = t.Position.Add(vel.Scale(dt))
	})
}
