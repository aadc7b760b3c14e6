package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/rs/zerolog"
)

const DefaultSpawnOffset = 0.5

// LauncherConfig describes one multi-point launcher. Points is a fixed set of
// slots; a nil slot is an unconfigured emission point.
type LauncherConfig struct {
	Name        string
	Owner       ecs.Entity
	Template    string
	Points      []*component.EmissionPoint
	LaunchForce float64
	SpreadAngle float64
	SpawnOffset float64
}

type LauncherDeps struct {
	World   *ecs.World
	Factory Factory
	Log     zerolog.Logger
	Metrics *telemetry.Metrics
}

// SpreadLauncher spawns one projectile per configured emission point, fanned
// horizontally around the direction to the target.
type SpreadLauncher struct {
	cfg      LauncherConfig
	world    *ecs.World
	factory  Factory
	log      zerolog.Logger
	metrics  *telemetry.Metrics
	err      error
	warnings []error
}

// NewSpreadLauncher validates cfg once. On a configuration error the returned
// launcher is inert and every Launch returns the same error.
func NewSpreadLauncher(cfg LauncherConfig, deps LauncherDeps) (*SpreadLauncher, error) {
	l := &SpreadLauncher{
		cfg:     cfg,
		world:   deps.World,
		factory: deps.Factory,
		log:     deps.Log.With().Str("trap", cfg.Name).Logger(),
		metrics: deps.Metrics,
	}
	if l.cfg.SpawnOffset < 0 {
		l.cfg.SpawnOffset = 0
	}

	l.err = l.validate()
	if l.err != nil {
		l.log.Error().Err(l.err).Msg("launcher disabled")
		return l, l.err
	}

	present := l.Present()
	if present < len(cfg.Points) {
		warn := fmt.Errorf("%w: %d of %d emission points set", ErrPartialConfiguration, present, len(cfg.Points))
		l.warnings = append(l.warnings, warn)
		l.log.Warn().Err(warn).Msg("launcher partially configured")
	}
	return l, nil
}

func (l *SpreadLauncher) validate() error {
	switch {
	case l.factory == nil:
		return fmt.Errorf("%w: no projectile factory", ErrMisconfiguredLauncher)
	case l.world == nil:
		return fmt.Errorf("%w: no world", ErrMisconfiguredLauncher)
	case l.cfg.Template == "":
		return fmt.Errorf("%w: no projectile template", ErrMisconfiguredLauncher)
	case l.Present() == 0:
		return fmt.Errorf("%w: no emission points", ErrMisconfiguredLauncher)
	case l.cfg.LaunchForce <= 0:
		return fmt.Errorf("%w: launch force must be > 0, got %v", ErrInvalidConfig, l.cfg.LaunchForce)
	case l.cfg.SpreadAngle < 0:
		return fmt.Errorf("%w: spread angle must be >= 0, got %v", ErrInvalidConfig, l.cfg.SpreadAngle)
	}
	return nil
}

// Err returns the construction error, if any.
func (l *SpreadLauncher) Err() error {
	if l == nil {
		return ErrMisconfiguredLauncher
	}
	return l.err
}

// Warnings returns non-fatal configuration problems found at construction.
func (l *SpreadLauncher) Warnings() []error { return l.warnings }

// Present counts the configured emission points.
func (l *SpreadLauncher) Present() int {
	n := 0
	for _, p := range l.cfg.Points {
		if p != nil {
			n++
		}
	}
	return n
}

// SpreadOffset is the yaw offset in degrees for slot i of n. The middle slot
// of an odd n gets zero; the outer slots get ±angle and the rest are evenly
// spaced between them.
func SpreadOffset(i, n int, angle float64) float64 {
	if angle <= 0 || n <= 1 || i < 0 || i >= n {
		return 0
	}
	if n%2 == 1 && i == n/2 {
		return 0
	}
	return -angle + 2*angle*float64(i)/float64(n-1)
}

// ApplySpread rotates base about world up by the offset of slot i.
func ApplySpread(base common.Vec3, i, n int, angle float64) common.Vec3 {
	offset := SpreadOffset(i, n, angle)
	if offset == 0 {
		return base
	}
	return base.RotateAround(common.Up, offset)
}

// Launch fires one projectile from every configured point toward target and
// returns how many were spawned.
func (l *SpreadLauncher) Launch(target common.Vec3) (int, error) {
	if l == nil {
		return 0, ErrMisconfiguredLauncher
	}
	if l.err != nil {
		return 0, l.err
	}

	n := len(l.cfg.Points)
	launched := 0
	var errs []error
	for i, p := range l.cfg.Points {
		if p == nil {
			continue
		}
		base, ok := target.Sub(p.Position).Normalize()
		if !ok {
			base = pointForward(p)
		}
		dir := ApplySpread(base, i, n, l.cfg.SpreadAngle)
		if err := l.fire(p, dir); err != nil {
			errs = append(errs, err)
			continue
		}
		launched++
	}

	l.metrics.Launched(l.cfg.Name, launched)
	l.log.Debug().Int("count", launched).Interface("target", target).Msg("volley launched")
	if launched > 0 {
		l.world.Events().Push(ecs.Event{Type: ecs.EventLaunch, Data: ecs.LaunchEvent{Launcher: l.cfg.Owner, Count: launched}})
	}
	return launched, errors.Join(errs...)
}

// LaunchForward fires the first three points along the launcher's own fan:
// forward, forward+right and forward-right, with the slot spread applied on
// top. It needs no target.
func (l *SpreadLauncher) LaunchForward() (int, error) {
	if l == nil {
		return 0, ErrMisconfiguredLauncher
	}
	if l.err != nil {
		return 0, l.err
	}
	n := len(l.cfg.Points)
	launched := 0
	var errs []error
	for i, p := range l.cfg.Points {
		if i >= 3 {
			break
		}
		if p == nil {
			continue
		}
		f := pointForward(p)
		r := p.Basis.Right
		if r.IsZero() {
			r = common.Up.Cross(f)
		}
		fan := [3]common.Vec3{f, f.Add(r), f.Sub(r)}
		base, ok := fan[i].Normalize()
		if !ok {
			base = f
		}
		if err := l.fire(p, ApplySpread(base, i, n, l.cfg.SpreadAngle)); err != nil {
			errs = append(errs, err)
			continue
		}
		launched++
	}
	l.metrics.Launched(l.cfg.Name, launched)
	return launched, errors.Join(errs...)
}

func (l *SpreadLauncher) fire(p *component.EmissionPoint, dir common.Vec3) error {
	basis, ok := common.LookRotation(dir, common.Up)
	if !ok {
		basis = p.Basis
	}
	pos := p.Position.Add(dir.Scale(l.cfg.SpawnOffset))
	e, err := l.factory.Create(l.cfg.Template, pos, basis)
	if err != nil {
		l.log.Error().Err(err).Int("point", p.Index).Msg("spawn projectile")
		return fmt.Errorf("spawn from point %d: %w", p.Index, err)
	}
	if proj, ok := ecs.Get(l.world, e, component.ProjectileComponent.Kind()); ok {
		proj.Source = l.cfg.Name
	}
	AimProjectileDirection(l.world, e, dir, l.cfg.LaunchForce)
	return nil
}

func pointForward(p *component.EmissionPoint) common.Vec3 {
	if p.Basis.Forward.IsZero() {
		return common.Forward
	}
	return p.Basis.Forward
}

// DefaultEmissionPoints builds the conventional three points of a trap at
// origin: left, centre and right, half a unit in front of it.
func DefaultEmissionPoints(origin common.Vec3, basis common.Basis) []*component.EmissionPoint {
	if basis.Forward.IsZero() {
		basis = common.Identity
	}
	offsets := []common.Vec3{
		{X: -0.5, Z: 0.5},
		{X: 0, Z: 0.5},
		{X: 0.5, Z: 0.5},
	}
	points := make([]*component.EmissionPoint, len(offsets))
	for i, off := range offsets {
		points[i] = &component.EmissionPoint{
			Index:    i,
			Position: origin.Add(basis.ToWorld(off)),
			Basis:    basis,
		}
	}
	return points
}
