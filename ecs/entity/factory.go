package entity

import (
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/milk9111/arrowtrap/prefabs"
	"github.com/rs/zerolog"
)

// PrefabFactory builds entities from prefab templates, caching decoded
// specs until they are invalidated.
type PrefabFactory struct {
	world   *ecs.World
	log     zerolog.Logger
	metrics *telemetry.Metrics
	specs   map[string]entityPrefabSpec
}

func NewPrefabFactory(w *ecs.World, log zerolog.Logger, metrics *telemetry.Metrics) *PrefabFactory {
	return &PrefabFactory{
		world:   w,
		log:     log,
		metrics: metrics,
		specs:   make(map[string]entityPrefabSpec),
	}
}

func (f *PrefabFactory) spec(name string) (entityPrefabSpec, error) {
	if s, ok := f.specs[name]; ok {
		return s, nil
	}
	s, err := prefabs.LoadEntityBuildSpec(name)
	if err != nil {
		return entityPrefabSpec{}, err
	}
	f.specs[name] = s
	return s, nil
}

// Build creates an entity from prefab with the factory's collaborators.
func (f *PrefabFactory) Build(prefab string, opts BuildOptions) (ecs.Entity, error) {
	spec, err := f.spec(prefab)
	if err != nil {
		return 0, err
	}
	if opts.Factory == nil {
		opts.Factory = f
	}
	if opts.Metrics == nil {
		opts.Metrics = f.metrics
	}
	opts.Log = f.log
	return BuildEntityFromSpec(f.world, prefab, spec, opts)
}

// Create spawns template at pos with basis.
func (f *PrefabFactory) Create(template string, pos common.Vec3, basis common.Basis) (ecs.Entity, error) {
	return f.Build(template, BuildOptions{Position: &pos, Basis: &basis})
}

func (f *PrefabFactory) Destroy(e ecs.Entity) {
	ecs.DestroyEntity(f.world, e)
}

// DestroyAfter destroys e after delay seconds of simulation time. The timer
// is harmless if e is destroyed earlier.
func (f *PrefabFactory) DestroyAfter(e ecs.Entity, delay float64) ecs.TimerID {
	return f.world.After(delay, func() {
		ecs.DestroyEntity(f.world, e)
	})
}

// Invalidate drops a cached spec so the next build reloads it. It reports
// whether the spec was cached.
func (f *PrefabFactory) Invalidate(name string) bool {
	if _, ok := f.specs[name]; !ok {
		return false
	}
	delete(f.specs, name)
	f.log.Info().Str("prefab", name).Msg("prefab reloaded")
	return true
}
