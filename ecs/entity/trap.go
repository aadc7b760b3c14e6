package entity

import (
	"fmt"

	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/ecs/system"
	"github.com/milk9111/arrowtrap/prefabs"
)

type launcherSpec = prefabs.LauncherComponentSpec

func addLauncher(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[launcherSpec](raw)
	if err != nil {
		return fmt.Errorf("decode launcher spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return errNoTransform
	}

	originBasis := t.Basis.Rotate(spec.OriginYaw)
	origin := t.Position.Add(t.Basis.ToWorld(vec(spec.Origin)))

	var points []*component.EmissionPoint
	if len(spec.Points) == 0 && spec.AutoPoints {
		points = system.DefaultEmissionPoints(origin, originBasis)
	} else {
		points = make([]*component.EmissionPoint, len(spec.Points))
		for i, p := range spec.Points {
			if p.Unset {
				continue
			}
			points[i] = &component.EmissionPoint{
				Index:    i,
				Position: origin.Add(originBasis.ToWorld(vec(p.Offset))),
				Basis:    originBasis.Rotate(p.Yaw),
			}
		}
	}

	spawnOffset := system.DefaultSpawnOffset
	if spec.SpawnOffset != nil {
		spawnOffset = *spec.SpawnOffset
	}

	// Construction errors are logged by the launcher, which then stays inert.
	launcher, _ := system.NewSpreadLauncher(system.LauncherConfig{
		Name:        ctx.Name,
		Owner:       e,
		Template:    spec.Template,
		Points:      points,
		LaunchForce: spec.LaunchForce,
		SpreadAngle: spec.SpreadAngle,
		SpawnOffset: spawnOffset,
	}, system.LauncherDeps{
		World:   w,
		Factory: ctx.Options.Factory,
		Log:     ctx.Options.Log,
		Metrics: ctx.Options.Metrics,
	})
	ctx.launcher = launcher

	return ecs.Add(w, e, component.LauncherComponent.Kind(), &component.Launcher{
		Template: spec.Template,
		Points:   points,
		Volley:   launcher,
	})
}

type cooldownSpec = prefabs.CooldownComponentSpec

func addCooldown(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cooldownSpec](raw)
	if err != nil {
		return fmt.Errorf("decode cooldown spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	cd := &component.Cooldown{Duration: spec.Duration}
	ctx.cooldown = cd
	return ecs.Add(w, e, component.CooldownComponent.Kind(), cd)
}

type trapTriggerSpec = prefabs.TrapTriggerComponentSpec

func addTrapTrigger(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[trapTriggerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode trap trigger spec: %w", err)
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || !body.Sensor {
		return fmt.Errorf("%s: %w", ctx.Name, system.ErrZoneNotSensor)
	}

	cd := ctx.cooldown
	if cd == nil {
		cd = &component.Cooldown{}
		if err := ecs.Add(w, e, component.CooldownComponent.Kind(), cd); err != nil {
			return err
		}
	}

	deps := system.GateDeps{
		Clock:   w,
		State:   cd,
		Log:     ctx.Options.Log,
		Metrics: ctx.Options.Metrics,
	}
	if ctx.launcher != nil && ctx.launcher.Err() == nil {
		deps.Launcher = ctx.launcher
	}
	gate, _ := system.NewCooldownGate(system.GateConfig{Name: ctx.Name, Duration: cd.Duration}, deps)

	trig := &component.TrapTrigger{
		Name:      ctx.Name,
		Gate:      gate,
		TargetTag: spec.TargetTag,
		AimHeight: system.DefaultAimHeight,
	}
	if trig.TargetTag == "" {
		trig.TargetTag = component.TagPlayer
	}
	if spec.AimHeight != nil {
		trig.AimHeight = *spec.AimHeight
	}
	if spec.AimScript != "" {
		aim, err := system.LoadScriptAim(spec.AimScript)
		if err != nil {
			return fmt.Errorf("aim script: %w", err)
		}
		trig.Aim = aim
	}
	return ecs.Add(w, e, component.TrapTriggerComponent.Kind(), trig)
}
