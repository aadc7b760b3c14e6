package component

import "github.com/milk9111/arrowtrap/common"

// HitState is a projectile's resolution. It leaves InFlight at most once.
type HitState int

const (
	InFlight HitState = iota
	HitActor
	HitEnvironment
)

func (s HitState) String() string {
	switch s {
	case HitActor:
		return "hit_actor"
	case HitEnvironment:
		return "hit_environment"
	default:
		return "in_flight"
	}
}

// Projectile is a single straight-flying arrow.
type Projectile struct {
	Direction common.Vec3
	Speed     float64
	// Lifetime is the remaining time to live in seconds.
	Lifetime    float64
	Damage      float64
	SpinSpeed   float64
	ImpactDelay float64
	State       HitState
	// Source is the trap that launched the projectile, if known.
	Source string
	// Stranded is set once a projectile without a physics body is detected.
	Stranded bool
}

// SetDirection normalizes dir and records it with speed. A zero vector leaves
// the projectile motionless and returns false.
func (p *Projectile) SetDirection(dir common.Vec3, speed float64) bool {
	n, ok := dir.Normalize()
	if !ok {
		p.Speed = 0
		return false
	}
	p.Direction = n
	p.Speed = speed
	return true
}

// Velocity is Direction scaled by Speed; zero once the projectile has stopped.
func (p *Projectile) Velocity() common.Vec3 {
	if p.State != InFlight {
		return common.Zero
	}
	return p.Direction.Scale(p.Speed)
}

// Resolve moves the projectile out of InFlight. It returns false if it was
// already resolved, so callers apply consequences at most once.
func (p *Projectile) Resolve(state HitState) bool {
	if p.State != InFlight || state == InFlight {
		return false
	}
	p.State = state
	if state == HitEnvironment {
		p.Speed = 0
	}
	return true
}

func (p *Projectile) Resolved() bool {
	return p.State != InFlight
}

var ProjectileComponent = NewComponent[Projectile]()
