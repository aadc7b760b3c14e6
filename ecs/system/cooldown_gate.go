package system

import (
	"fmt"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/rs/zerolog"
)

// Launcher fires a volley toward a target.
type Launcher interface {
	Launch(target common.Vec3) (int, error)
}

// configChecker is implemented by launchers that validate their setup once.
// A gate refuses a launcher that reports an error.
type configChecker interface {
	Err() error
}

// Scheduler is the clock and deferred-callback surface a gate needs.
// *ecs.World implements it.
type Scheduler interface {
	Now() float64
	After(delay float64, fn func()) ecs.TimerID
	CancelTimer(id ecs.TimerID) bool
}

type GateState int

const (
	GateReady GateState = iota
	GateCooling
)

func (s GateState) String() string {
	if s == GateCooling {
		return "cooling"
	}
	return "ready"
}

type GateConfig struct {
	Name     string
	Duration float64
}

type GateDeps struct {
	Launcher Launcher
	Clock    Scheduler
	// State is optional; pass the entity's Cooldown component to share it.
	State   *component.Cooldown
	Log     zerolog.Logger
	Metrics *telemetry.Metrics
}

// CooldownGate lets one activation through, then rejects activations until
// Duration seconds of simulation time have passed.
type CooldownGate struct {
	name     string
	state    *component.Cooldown
	launcher Launcher
	clock    Scheduler
	log      zerolog.Logger
	metrics  *telemetry.Metrics
	err      error
}

// NewCooldownGate validates its inputs once. A gate without a launcher or
// clock is returned with its error and never activates.
func NewCooldownGate(cfg GateConfig, deps GateDeps) (*CooldownGate, error) {
	g := &CooldownGate{
		name:     cfg.Name,
		state:    deps.State,
		launcher: deps.Launcher,
		clock:    deps.Clock,
		log:      deps.Log.With().Str("trap", cfg.Name).Logger(),
		metrics:  deps.Metrics,
	}
	if g.state == nil {
		g.state = &component.Cooldown{}
	}
	g.state.Duration = cfg.Duration

	switch {
	case cfg.Duration < 0:
		g.err = fmt.Errorf("%w: cooldown duration must be >= 0, got %v", ErrInvalidConfig, cfg.Duration)
	case deps.Launcher == nil:
		g.err = ErrMissingLauncher
	case deps.Clock == nil:
		g.err = fmt.Errorf("%w: no clock", ErrInvalidConfig)
	default:
		if c, ok := deps.Launcher.(configChecker); ok && c.Err() != nil {
			g.err = fmt.Errorf("%w: %w", ErrMissingLauncher, c.Err())
		}
	}
	if g.err != nil {
		g.log.Error().Err(g.err).Msg("cooldown gate disabled")
		return g, g.err
	}
	return g, nil
}

func (g *CooldownGate) Err() error { return g.err }

// Cooldown exposes the gate's state record.
func (g *CooldownGate) Cooldown() *component.Cooldown { return g.state }

// cooling tolerates common.Epsilon of drift in the accumulated clock.
func (g *CooldownGate) cooling(now float64) bool {
	return g.state.OnCooldown && now-g.state.LastActivation < g.state.Duration-common.Epsilon
}

func (g *CooldownGate) State() GateState {
	if g.err == nil && g.cooling(g.clock.Now()) {
		return GateCooling
	}
	return GateReady
}

// TryActivate fires the launcher at target if the gate is ready and reports
// whether it did. Rejections have no side effects beyond counting.
func (g *CooldownGate) TryActivate(target common.Vec3) bool {
	if g == nil || g.err != nil {
		return false
	}
	now := g.clock.Now()
	if g.cooling(now) {
		g.state.Rejections++
		g.metrics.Rejection(g.name)
		g.log.Debug().Float64("remaining", g.remaining(now)).Msg("activation rejected")
		return false
	}

	if g.state.Timer != 0 {
		g.clock.CancelTimer(ecs.TimerID(g.state.Timer))
		g.state.Timer = 0
	}
	g.state.OnCooldown = true
	g.state.Activated = true
	g.state.LastActivation = now
	g.state.Activations++
	g.metrics.Activation(g.name)

	n, err := g.launcher.Launch(target)
	if err != nil {
		g.log.Error().Err(err).Int("count", n).Msg("launch failed")
	} else {
		g.log.Info().Int("count", n).Msg("trap activated")
	}

	var id ecs.TimerID
	id = g.clock.After(g.state.Duration, func() {
		if ecs.TimerID(g.state.Timer) != id {
			return
		}
		g.state.OnCooldown = false
		g.state.Timer = 0
		g.log.Debug().Msg("trap ready")
	})
	g.state.Timer = uint64(id)
	return true
}

// RemainingCooldown returns the seconds left before the gate is ready; never
// negative.
func (g *CooldownGate) RemainingCooldown() float64 {
	if g == nil || g.err != nil {
		return 0
	}
	return g.remaining(g.clock.Now())
}

func (g *CooldownGate) remaining(now float64) float64 {
	if !g.cooling(now) {
		return 0
	}
	r := g.state.Duration - (now - g.state.LastActivation)
	if r < 0 {
		return 0
	}
	return r
}

// ResetCooldown cancels the pending timer and returns the gate to ready.
func (g *CooldownGate) ResetCooldown() {
	if g == nil || g.err != nil {
		return
	}
	if g.state.Timer != 0 {
		g.clock.CancelTimer(ecs.TimerID(g.state.Timer))
	}
	g.state.Timer = 0
	g.state.OnCooldown = false
}
