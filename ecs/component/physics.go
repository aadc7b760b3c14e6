package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arrowtrap/common"
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// The collider footprint lives in the X/Z ground plane; Height is the
// vertical extent above Transform.Position.Y. Radius > 0 selects a circle,
// centred vertically on the position.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width  float64
	Depth  float64
	Height float64
	Radius float64

	Static bool
	Sensor bool
	// Inactive bodies are removed from the space and stop reporting overlaps.
	Inactive bool

	Velocity common.Vec3
}

// VerticalSpan returns the [bottom, top] range of the collider at y.
// ok is false when the body has no vertical extent configured.
func (b *PhysicsBody) VerticalSpan(y float64) (lo, hi float64, ok bool) {
	switch {
	case b.Radius > 0:
		return y - b.Radius, y + b.Radius, true
	case b.Height > 0:
		return y, y + b.Height, true
	default:
		return 0, 0, false
	}
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
