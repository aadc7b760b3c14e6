package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/ecs/system"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/milk9111/arrowtrap/prefabs"
	"github.com/rs/zerolog"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// BuildOptions carries placement and collaborators for one build.
type BuildOptions struct {
	// Name overrides the prefab name in logs and trap triggers.
	Name     string
	Position *common.Vec3
	Basis    *common.Basis
	// Yaw is applied when Basis is nil.
	Yaw       float64
	Waypoints []common.Vec3

	Factory system.Factory
	Log     zerolog.Logger
	Metrics *telemetry.Metrics
}

type buildContext struct {
	PrefabPath string
	Name       string
	Options    BuildOptions

	launcher *system.SpreadLauncher
	cooldown *component.Cooldown
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"tags":            addTags,
	"transform":       addTransform,
	"collision_layer": addCollisionLayer,
	"physics_body":    addPhysicsBody,
	"health":          addHealth,
	"invulnerable":    addInvulnerable,
	"projectile":      addProjectile,
	"walker":          addWalker,
	"launcher":        addLauncher,
	"cooldown":        addCooldown,
	"trap_trigger":    addTrapTrigger,
}

var componentBuildOrder = []string{
	"player_tag",
	"tags",
	"transform",
	"collision_layer",
	"physics_body",
	"health",
	"invulnerable",
	"projectile",
	"walker",
	"launcher",
	"cooldown",
	"trap_trigger",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return BuildEntityWith(w, prefabPath, BuildOptions{})
}

func BuildEntityWith(w *ecs.World, prefabPath string, opts BuildOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, prefabPath, spec, opts)
}

func BuildEntityFromSpec(w *ecs.World, prefabPath string, spec entityPrefabSpec, opts BuildOptions) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Name: spec.Name, Options: opts}
	if opts.Name != "" {
		ctx.Name = opts.Name
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := buildComponent(w, e, name, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := buildComponent(w, e, name, remaining[name], ctx); err != nil {
				ecs.DestroyEntity(w, e)
				return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
			}
		}
	}

	if !ecs.Has(w, e, component.TransformComponent.Kind()) {
		if err := applyPlacement(w, e, ctx, common.Zero, 0); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
		}
	}

	return e, nil
}

func buildComponent(w *ecs.World, e ecs.Entity, name string, raw any, ctx *buildContext) error {
	builder, ok := componentRegistry[name]
	if !ok {
		return fmt.Errorf("no builder for component %q", name)
	}
	if err := builder(w, e, raw, ctx); err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}
	return nil
}

// SetEntityTransform places e at pos facing yaw degrees about world up.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos common.Vec3, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = pos
	t.Basis = yawBasis(yaw)
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func yawBasis(yaw float64) common.Basis {
	b, _ := common.LookRotation(common.Forward.RotateY(yaw), common.Up)
	return b
}

func applyPlacement(w *ecs.World, e ecs.Entity, ctx *buildContext, pos common.Vec3, yaw float64) error {
	opts := ctx.Options
	if opts.Position != nil {
		pos = *opts.Position
	}
	if opts.Yaw != 0 {
		yaw = opts.Yaw
	}
	if err := SetEntityTransform(w, e, pos, yaw); err != nil {
		return err
	}
	if opts.Basis != nil {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		t.Basis = *opts.Basis
	}
	return nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addTags(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	names, err := prefabs.DecodeComponentSpec[[]string](raw)
	if err != nil {
		return fmt.Errorf("decode tags spec: %w", err)
	}
	return ecs.Add(w, e, component.TagsComponent.Kind(), &component.Tags{Names: names})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return applyPlacement(w, e, ctx, vec(spec.Position), spec.Yaw)
}

type collisionLayerSpec = prefabs.CollisionLayerComponentSpec

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision layer spec: %w", err)
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: spec.Category, Mask: spec.Mask})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  spec.Width,
		Depth:  spec.Depth,
		Height: spec.Height,
		Radius: spec.Radius,
		Static: spec.Static,
		Sensor: spec.Sensor,
	})
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Initial == 0 {
		spec.Initial = 1
	}
	health, err := component.NewHealth(spec.Initial)
	if err != nil {
		return err
	}
	health.Invuln = system.WorldInvulnerability{World: w, Entity: e}
	return ecs.Add(w, e, component.HealthComponent.Kind(), health)
}

type invulnerableSpec = prefabs.InvulnerableComponentSpec

func addInvulnerable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[invulnerableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode invulnerable spec: %w", err)
	}
	return system.Grant(w, e, spec.Seconds)
}

type projectileSpec = prefabs.ProjectileComponentSpec

// addProjectile runs after physics_body, so a missing body is known here. The
// projectile is still built; it ages out without moving.
func addProjectile(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[projectileSpec](raw)
	if err != nil {
		return fmt.Errorf("decode projectile spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	p := &component.Projectile{
		Speed:       spec.Speed,
		Lifetime:    spec.Lifetime,
		Damage:      spec.Damage,
		SpinSpeed:   spec.SpinSpeed,
		ImpactDelay: spec.ImpactDelay,
	}
	if !ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
		p.Stranded = true
		ctx.Options.Log.Error().Err(system.ErrMissingBody).Str("prefab", ctx.PrefabPath).Stringer("entity", e).Msg("projectile will not move")
	}
	return ecs.Add(w, e, component.ProjectileComponent.Kind(), p)
}

type walkerSpec = prefabs.WalkerComponentSpec

func addWalker(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[walkerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode walker spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	waypoints := ctx.Options.Waypoints
	if len(waypoints) == 0 {
		for _, p := range spec.Waypoints {
			waypoints = append(waypoints, vec(p))
		}
	}
	return ecs.Add(w, e, component.WalkerComponent.Kind(), &component.Walker{
		Waypoints: waypoints,
		Speed:     spec.Speed,
		Loop:      spec.Loop,
	})
}

func vec(v prefabs.Vec3Spec) common.Vec3 {
	return common.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

var errNoTransform = errors.New("transform must be built first")
