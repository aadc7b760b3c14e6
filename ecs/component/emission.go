package component

import "github.com/milk9111/arrowtrap/common"

// EmissionPoint is a launcher-relative spawn anchor in world space.
type EmissionPoint struct {
	Index    int
	Position common.Vec3
	Basis    common.Basis
}

// Volley is a launcher that can fire at a target or along its own fan.
type Volley interface {
	Launch(target common.Vec3) (int, error)
	LaunchForward() (int, error)
}

// Launcher records a trap's emission setup and the volley that fires it.
type Launcher struct {
	Template string
	Points   []*EmissionPoint
	Volley   Volley
}

var LauncherComponent = NewComponent[Launcher]()
