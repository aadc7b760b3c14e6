package component

import "github.com/milk9111/arrowtrap/common"

// Activator is the gate a trap zone drives.
type Activator interface {
	TryActivate(target common.Vec3) bool
}

// AimAdjuster computes the aim point for an actor standing at target.
type AimAdjuster interface {
	AimPoint(trap, target common.Vec3) (common.Vec3, error)
}

// TrapTrigger binds a sensor zone to its gate.
type TrapTrigger struct {
	Name      string
	Gate      Activator
	TargetTag string
	AimHeight float64
	Aim       AimAdjuster
}

var TrapTriggerComponent = NewComponent[TrapTrigger]()
