package component

// CollisionLayer allows entities to declare a collision category and mask
// so the physics system can selectively enable/disable collisions between
// groups of objects.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as LayerEnvironment.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set.
	Mask uint32 `yaml:"mask,omitempty"`
}

const (
	LayerEnvironment uint32 = 1 << iota
	LayerActor
	LayerProjectile
	LayerZone
)

var CollisionLayerComponent = NewComponent[CollisionLayer]()
