package main

import (
	"context"
	"strings"

	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/ecs/entity"
	"github.com/milk9111/arrowtrap/ecs/system"
	"github.com/milk9111/arrowtrap/internal/config"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/milk9111/arrowtrap/prefabs"
	"github.com/rs/zerolog"
)

// Game runs one encounter at a fixed step until the player dies, the walk
// finishes or the tick budget is spent.
type Game struct {
	settings config.Settings
	log      zerolog.Logger
	metrics  *telemetry.Metrics

	world     *ecs.World
	factory   *entity.PrefabFactory
	encounter *entity.Encounter
	watcher   *prefabs.Watcher
	observer  *encounterObserver

	ticks int
}

// Summary is what a finished run reports.
type Summary struct {
	Level        string
	Ticks        int
	Elapsed      float64
	Volleys      int
	Projectiles  int
	Hits         int
	Stops        int
	PlayerAlive  bool
	PlayerHealth float64
	// Counters holds the telemetry totals; nil when metrics are disabled.
	Counters map[string]int64
}

func NewGame(settings config.Settings, log zerolog.Logger, metrics *telemetry.Metrics, watcher *prefabs.Watcher) (*Game, error) {
	world := ecs.NewWorld()
	factory := entity.NewPrefabFactory(world, log, metrics)
	physics := system.NewPhysicsSystem(log.With().Str("system", "physics").Logger())
	observer := &encounterObserver{}

	world.AddSystem(system.NewWalkerSystem())
	world.AddSystem(physics)
	world.AddSystem(system.NewTrapDetectorSystem(log.With().Str("system", "detector").Logger()))
	world.AddSystem(system.NewProjectileSystem(system.ProjectileDeps{
		Factory: factory,
		Bodies:  physics,
		Log:     log.With().Str("system", "projectile").Logger(),
		Metrics: metrics,
	}))
	world.AddSystem(system.NewInvulnerabilitySystem())
	world.AddSystem(observer)

	enc, err := LoadLevel(factory, settings.Level)
	if err != nil {
		return nil, err
	}
	log.Info().Str("level", enc.Name).Int("traps", len(enc.Traps)).Int("walls", len(enc.Walls)).Msg("encounter loaded")

	return &Game{
		settings:  settings,
		log:       log,
		metrics:   metrics,
		world:     world,
		factory:   factory,
		encounter: enc,
		watcher:   watcher,
		observer:  observer,
	}, nil
}

// Update advances the encounter one step. It reports false once the run is
// over.
func (g *Game) Update() bool {
	g.reloadPrefabs()

	g.ticks++
	g.world.Update(g.settings.Step())

	if g.observer.playerDied(g.encounter.Player) {
		g.log.Info().Int("tick", g.ticks).Msg("player died")
		return false
	}
	if g.walkDone() {
		g.log.Info().Int("tick", g.ticks).Msg("player reached the end of the path")
		return false
	}
	if g.settings.MaxTicks > 0 && g.ticks >= g.settings.MaxTicks {
		g.log.Info().Int("tick", g.ticks).Msg("tick budget spent")
		return false
	}
	return true
}

// Run steps the encounter until it ends or ctx is canceled.
func (g *Game) Run(ctx context.Context) Summary {
	for {
		select {
		case <-ctx.Done():
			g.log.Warn().Err(ctx.Err()).Msg("encounter interrupted")
			return g.Summary()
		default:
		}
		if !g.Update() {
			return g.Summary()
		}
	}
}

func (g *Game) Summary() Summary {
	s := Summary{
		Level:       g.encounter.Name,
		Ticks:       g.ticks,
		Elapsed:     g.world.Now(),
		Volleys:     g.observer.volleys,
		Projectiles: g.observer.projectiles,
		Hits:        g.observer.hits,
		Stops:       g.observer.stops,
	}
	if h, ok := ecs.Get(g.world, g.encounter.Player, component.HealthComponent.Kind()); ok {
		s.PlayerAlive = h.IsAlive()
		s.PlayerHealth = h.Current()
	}
	counters, err := g.metrics.Totals(context.Background())
	if err != nil {
		g.log.Warn().Err(err).Msg("failed to collect metrics")
	}
	s.Counters = counters
	return s
}

func (g *Game) walkDone() bool {
	walker, ok := ecs.Get(g.world, g.encounter.Player, component.WalkerComponent.Kind())
	return ok && walker.Done
}

// reloadPrefabs drops cached specs for files changed on disk and recompiles
// changed aim scripts in place. Other components of existing entities are
// kept; the next spawn picks up a spec change.
func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Drain() {
		g.reload(name)
	}
}

func (g *Game) reload(name string) {
	if !strings.HasSuffix(name, ".tengo") {
		g.factory.Invalidate(name)
		return
	}
	n, err := system.ReloadScriptAims(g.world, name)
	if err != nil {
		g.log.Error().Err(err).Str("script", name).Msg("aim script reload failed")
	}
	if n > 0 {
		g.log.Info().Str("script", name).Int("traps", n).Msg("aim script reloaded")
	}
}

// encounterObserver records the tick's launches, resolutions and deaths
// before the world flushes its events.
type encounterObserver struct {
	volleys     int
	projectiles int
	hits        int
	stops       int
	dead        map[ecs.Entity]bool
}

func (o *encounterObserver) Update(w *ecs.World) {
	w.Events().Each(func(evt ecs.Event) {
		switch data := evt.Data.(type) {
		case ecs.LaunchEvent:
			o.volleys++
			o.projectiles += data.Count
		case ecs.ResolvedEvent:
			if data.Actor {
				o.hits++
			} else {
				o.stops++
			}
		case ecs.DeathEvent:
			if o.dead == nil {
				o.dead = make(map[ecs.Entity]bool)
			}
			o.dead[data.Entity] = true
		}
	})
}

func (o *encounterObserver) playerDied(player ecs.Entity) bool {
	return o.dead[player]
}
