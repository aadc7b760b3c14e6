package component

import "github.com/milk9111/arrowtrap/common"

// Transform is an entity's world position and orientation. Y is up.
type Transform struct {
	Position common.Vec3
	Basis    common.Basis
}

// Forward returns the facing direction, defaulting to +Z for an unset basis.
func (t *Transform) Forward() common.Vec3 {
	if t == nil || t.Basis.Forward.IsZero() {
		return common.Forward
	}
	return t.Basis.Forward
}

var TransformComponent = NewComponent[Transform]()
