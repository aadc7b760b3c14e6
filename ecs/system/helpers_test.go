package system

import (
	"errors"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/rs/zerolog"
)

var errSpawn = errors.New("spawn failed")

// fakeFactory builds bare arrows directly in a world and records what it did.
type fakeFactory struct {
	w        *ecs.World
	withBody bool
	fail     bool

	created   []ecs.Entity
	destroyed []ecs.Entity
	delays    map[ecs.Entity]float64
}

func newFakeFactory(w *ecs.World) *fakeFactory {
	return &fakeFactory{w: w, delays: make(map[ecs.Entity]float64)}
}

func (f *fakeFactory) Create(template string, pos common.Vec3, basis common.Basis) (ecs.Entity, error) {
	if f.fail {
		return 0, errSpawn
	}
	e := ecs.CreateEntity(f.w)
	_ = ecs.Add(f.w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Basis: basis})
	_ = ecs.Add(f.w, e, component.ProjectileComponent.Kind(), newArrow())
	if f.withBody {
		_ = ecs.Add(f.w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 0.1, Sensor: true})
	}
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeFactory) Destroy(e ecs.Entity) {
	f.destroyed = append(f.destroyed, e)
	ecs.DestroyEntity(f.w, e)
}

func (f *fakeFactory) DestroyAfter(e ecs.Entity, delay float64) ecs.TimerID {
	f.delays[e] = delay
	return f.w.After(delay, func() { ecs.DestroyEntity(f.w, e) })
}

func newArrow() *component.Projectile {
	return &component.Projectile{
		Speed:       15,
		Lifetime:    30,
		Damage:      0.2,
		SpinSpeed:   360,
		ImpactDelay: 1,
	}
}

type fakeDeactivator struct {
	calls []ecs.Entity
}

func (d *fakeDeactivator) Deactivate(_ *ecs.World, e ecs.Entity) {
	d.calls = append(d.calls, e)
}

type fakeLauncher struct {
	targets []common.Vec3
	err     error
}

func (l *fakeLauncher) Launch(target common.Vec3) (int, error) {
	l.targets = append(l.targets, target)
	if l.err != nil {
		return 0, l.err
	}
	return 3, nil
}

type fakeActivator struct {
	targets []common.Vec3
}

func (a *fakeActivator) TryActivate(target common.Vec3) bool {
	a.targets = append(a.targets, target)
	return true
}

// spawnActor adds a tagged actor with full health at pos.
func spawnActor(w *ecs.World, pos common.Vec3, tags ...string) (ecs.Entity, *component.Health) {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Basis: common.Identity})
	_ = ecs.Add(w, e, component.TagsComponent.Kind(), &component.Tags{Names: tags})
	h, _ := component.NewHealth(1)
	h.Invuln = WorldInvulnerability{World: w, Entity: e}
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), h)
	return e, h
}

func overlap(w *ecs.World, self, other ecs.Entity) {
	w.Events().Push(ecs.Event{Type: ecs.EventOverlap, Data: ecs.OverlapEvent{Self: self, Other: other}})
}

var nopLog = zerolog.Nop()
