package system

import (
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/rs/zerolog"
)

const DefaultAimHeight = 1.0

// TrapDetectorSystem turns zone overlaps with the target actor into gate
// activations.
type TrapDetectorSystem struct {
	log zerolog.Logger
}

func NewTrapDetectorSystem(log zerolog.Logger) *TrapDetectorSystem {
	return &TrapDetectorSystem{log: log}
}

func (s *TrapDetectorSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	w.Events().Overlaps(func(ev ecs.OverlapEvent) {
		trig, ok := ecs.Get(w, ev.Self, component.TrapTriggerComponent.Kind())
		if !ok || trig.Gate == nil {
			return
		}
		tag := trig.TargetTag
		if tag == "" {
			tag = component.TagPlayer
		}
		if !HasTag(w, ev.Other, tag) {
			return
		}
		target, ok := ecs.Get(w, ev.Other, component.TransformComponent.Kind())
		if !ok {
			return
		}
		trig.Gate.TryActivate(s.aimPoint(w, ev.Self, trig, target.Position))
	})
}

func (s *TrapDetectorSystem) aimPoint(w *ecs.World, zone ecs.Entity, trig *component.TrapTrigger, target common.Vec3) common.Vec3 {
	aim := target.Add(common.Up.Scale(trig.AimHeight))
	if trig.Aim == nil {
		return aim
	}
	var origin common.Vec3
	if t, ok := ecs.Get(w, zone, component.TransformComponent.Kind()); ok {
		origin = t.Position
	}
	p, err := trig.Aim.AimPoint(origin, target)
	if err != nil {
		s.log.Warn().Err(err).Str("trap", trig.Name).Msg("aim script failed, using default aim")
		return aim
	}
	return p
}
