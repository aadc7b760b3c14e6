package component

// Invulnerable marks an entity as temporarily immune to damage.
// If Remaining > 0 the invulnerability system counts it down in seconds and
// removes the component when it reaches zero. Remaining == 0 means indefinite
// invulnerability until explicitly removed.
type Invulnerable struct {
	Remaining float64
}

var InvulnerableComponent = NewComponent[Invulnerable]()
