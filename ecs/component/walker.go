package component

import "github.com/milk9111/arrowtrap/common"

// Walker drives an entity through a fixed list of waypoints.
type Walker struct {
	Waypoints []common.Vec3
	Speed     float64
	Loop      bool
	Next      int
	Done      bool
}

var WalkerComponent = NewComponent[Walker]()
