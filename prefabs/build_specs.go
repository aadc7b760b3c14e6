package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped by every Validate failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}

// Vec3Spec is written as a three element list: [x, y, z].
type Vec3Spec [3]float64

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	// Yaw in degrees; positive turns +Z toward +X.
	Yaw float64 `yaml:"yaw"`
}

type PhysicsBodyComponentSpec struct {
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
	Static bool    `yaml:"static"`
	Sensor bool    `yaml:"sensor"`
}

func (s PhysicsBodyComponentSpec) Validate() error {
	if s.Width < 0 || s.Depth < 0 || s.Height < 0 || s.Radius < 0 {
		return invalid("physics body dimensions must be >= 0")
	}
	return nil
}

type CollisionLayerComponentSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

type HealthComponentSpec struct {
	Initial float64 `yaml:"initial"`
}

func (s HealthComponentSpec) Validate() error {
	if s.Initial <= 0 {
		return invalid("health initial must be > 0, got %v", s.Initial)
	}
	return nil
}

type InvulnerableComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}

type ProjectileComponentSpec struct {
	Speed       float64 `yaml:"speed"`
	Lifetime    float64 `yaml:"lifetime"`
	Damage      float64 `yaml:"damage"`
	SpinSpeed   float64 `yaml:"spin_speed"`
	ImpactDelay float64 `yaml:"impact_delay"`
}

// Validate checks the projectile configuration surface.
func (s ProjectileComponentSpec) Validate() error {
	switch {
	case s.Speed <= 0:
		return invalid("projectile speed must be > 0, got %v", s.Speed)
	case s.Lifetime <= 0:
		return invalid("projectile lifetime must be > 0, got %v", s.Lifetime)
	case s.Damage < 0:
		return invalid("projectile damage must be >= 0, got %v", s.Damage)
	case s.ImpactDelay < 0:
		return invalid("projectile impact delay must be >= 0, got %v", s.ImpactDelay)
	}
	return nil
}

type EmissionPointSpec struct {
	// Offset is local to the launcher origin.
	Offset Vec3Spec `yaml:"offset"`
	Yaw    float64  `yaml:"yaw"`
	// Unset marks a slot that exists but has no point configured.
	Unset bool `yaml:"unset"`
}

type LauncherComponentSpec struct {
	Template    string              `yaml:"template"`
	LaunchForce float64             `yaml:"launch_force"`
	SpreadAngle float64             `yaml:"spread_angle"`
	SpawnOffset *float64            `yaml:"spawn_offset"`
	Origin      Vec3Spec            `yaml:"origin"`
	OriginYaw   float64             `yaml:"origin_yaw"`
	AutoPoints  bool                `yaml:"auto_points"`
	Points      []EmissionPointSpec `yaml:"points"`
}

func (s LauncherComponentSpec) Validate() error {
	switch {
	case s.LaunchForce <= 0:
		return invalid("launch force must be > 0, got %v", s.LaunchForce)
	case s.SpreadAngle < 0:
		return invalid("spread angle must be >= 0, got %v", s.SpreadAngle)
	case s.SpawnOffset != nil && *s.SpawnOffset < 0:
		return invalid("spawn offset must be >= 0, got %v", *s.SpawnOffset)
	}
	return nil
}

type CooldownComponentSpec struct {
	Duration float64 `yaml:"duration"`
}

func (s CooldownComponentSpec) Validate() error {
	if s.Duration < 0 {
		return invalid("cooldown duration must be >= 0, got %v", s.Duration)
	}
	return nil
}

type TrapTriggerComponentSpec struct {
	TargetTag string   `yaml:"target_tag"`
	AimHeight *float64 `yaml:"aim_height"`
	AimScript string   `yaml:"aim_script"`
}

type WalkerComponentSpec struct {
	Speed     float64    `yaml:"speed"`
	Loop      bool       `yaml:"loop"`
	Waypoints []Vec3Spec `yaml:"waypoints"`
}

func (s WalkerComponentSpec) Validate() error {
	if s.Speed < 0 {
		return invalid("walker speed must be >= 0, got %v", s.Speed)
	}
	return nil
}
