package system

import (
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/rs/zerolog"
)

// ProjectileSystem resolves projectile overlaps, spins projectiles and expires
// them when their lifetime runs out.
type ProjectileSystem struct {
	factory  Factory
	bodies   BodyDeactivator
	actorTag string
	log      zerolog.Logger
	metrics  *telemetry.Metrics
}

type ProjectileDeps struct {
	Factory Factory
	Bodies  BodyDeactivator
	// ActorTag is the tag of the protected actor; defaults to component.TagPlayer.
	ActorTag string
	Log      zerolog.Logger
	Metrics  *telemetry.Metrics
}

func NewProjectileSystem(deps ProjectileDeps) *ProjectileSystem {
	tag := deps.ActorTag
	if tag == "" {
		tag = component.TagPlayer
	}
	return &ProjectileSystem{
		factory:  deps.Factory,
		bodies:   deps.Bodies,
		actorTag: tag,
		log:      deps.Log,
		metrics:  deps.Metrics,
	}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	w.Events().Overlaps(func(ev ecs.OverlapEvent) {
		s.handleOverlap(w, ev.Self, ev.Other)
	})

	dt := w.Delta()
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform) {
		body, hasBody := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !hasBody && !p.Stranded {
			p.Stranded = true
			s.log.Error().Err(ErrMissingBody).Stringer("entity", e).Msg("projectile will not move")
		}
		if hasBody && !body.Inactive {
			body.Velocity = p.Velocity()
		}

		if p.SpinSpeed != 0 && dt > 0 {
			t.Basis = t.Basis.Rotate(p.SpinSpeed * dt)
		}

		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			s.destroy(w, e)
		}
	})
}

// handleOverlap applies the consequences of self touching other. Only the
// first overlap of a projectile has any effect.
func (s *ProjectileSystem) handleOverlap(w *ecs.World, self, other ecs.Entity) {
	if self == other || !w.IsAlive(self) || !w.IsAlive(other) {
		return
	}
	p, ok := ecs.Get(w, self, component.ProjectileComponent.Kind())
	if !ok || p.Resolved() {
		return
	}

	if HasTag(w, other, s.actorTag) {
		if !p.Resolve(component.HitActor) {
			return
		}
		w.Events().Push(ecs.Event{Type: ecs.EventResolved, Data: ecs.ResolvedEvent{Projectile: self, Other: other, Actor: true}})
		s.hitActor(w, self, other, p)
		s.destroy(w, self)
		return
	}

	if !p.Resolve(component.HitEnvironment) {
		return
	}
	w.Events().Push(ecs.Event{Type: ecs.EventResolved, Data: ecs.ResolvedEvent{Projectile: self, Other: other}})
	if body, ok := ecs.Get(w, self, component.PhysicsBodyComponent.Kind()); ok {
		body.Velocity = common.Zero
	}
	if s.bodies != nil {
		s.bodies.Deactivate(w, self)
	}
	s.metrics.Stopped()
	s.log.Debug().Stringer("entity", self).Stringer("other", other).Msg("projectile stopped by environment")
	s.destroyAfter(w, self, p.ImpactDelay)
}

func (s *ProjectileSystem) hitActor(w *ecs.World, self, actor ecs.Entity, p *component.Projectile) {
	health, ok := ecs.Get(w, actor, component.HealthComponent.Kind())
	if !ok {
		s.log.Error().Stringer("entity", actor).Msg("actor hit without health")
		return
	}

	res := health.TakeDamage(p.Damage)
	switch res.Outcome {
	case component.DamageBlocked:
		s.metrics.Blocked()
		s.log.Debug().Stringer("entity", actor).Msg("hit blocked by invulnerability")
	case component.DamageApplied:
		s.metrics.Hit()
		s.log.Info().Stringer("entity", actor).Float64("damage", res.Amount).Float64("health", res.Health).Msg("actor hit")
	}
	if res.Died {
		s.metrics.Death()
		s.log.Info().Stringer("entity", actor).Str("source", p.Source).Msg("actor died")
		w.Events().Push(ecs.Event{Type: ecs.EventDeath, Data: ecs.DeathEvent{Entity: actor}})
	}
}

func (s *ProjectileSystem) destroy(w *ecs.World, e ecs.Entity) {
	if s.factory != nil {
		s.factory.Destroy(e)
		return
	}
	ecs.DestroyEntity(w, e)
}

func (s *ProjectileSystem) destroyAfter(w *ecs.World, e ecs.Entity, delay float64) {
	if s.factory != nil {
		s.factory.DestroyAfter(e, delay)
		return
	}
	w.After(delay, func() { ecs.DestroyEntity(w, e) })
}

// AimProjectileDirection points projectile e along dir at speed, orienting its
// transform and setting its body velocity. A zero dir leaves it motionless.
func AimProjectileDirection(w *ecs.World, e ecs.Entity, dir common.Vec3, speed float64) bool {
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return false
	}
	moving := p.SetDirection(dir, speed)
	if moving {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			if basis, ok := common.LookRotation(p.Direction, common.Up); ok {
				t.Basis = basis
			}
		}
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && !body.Inactive {
		body.Velocity = p.Velocity()
	}
	return moving
}

// AimProjectile launches e toward target at speed; speed <= 0 keeps the
// projectile's configured speed.
func AimProjectile(w *ecs.World, e ecs.Entity, target common.Vec3, speed float64) bool {
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	if speed <= 0 {
		speed = p.Speed
	}
	return AimProjectileDirection(w, e, target.Sub(t.Position), speed)
}
