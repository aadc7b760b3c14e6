package system

import "errors"

var (
	// ErrMisconfiguredLauncher: no factory, template or emission points.
	ErrMisconfiguredLauncher = errors.New("launcher: misconfigured")
	// ErrPartialConfiguration: some emission slots are unset.
	ErrPartialConfiguration = errors.New("launcher: partial emission point configuration")
	ErrMissingLauncher      = errors.New("cooldown gate: missing launcher")
	ErrMissingBody          = errors.New("projectile: missing physics body")
	ErrZoneNotSensor        = errors.New("trap: detection zone must be a sensor")
	ErrInvalidConfig        = errors.New("invalid configuration")
)
