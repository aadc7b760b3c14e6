package component

// Tags is the free-form label set consulted when classifying overlaps.
type Tags struct {
	Names []string
}

// Has reports whether tag is present.
func (t *Tags) Has(tag string) bool {
	if t == nil || tag == "" {
		return false
	}
	for _, n := range t.Names {
		if n == tag {
			return true
		}
	}
	return false
}

var TagsComponent = NewComponent[Tags]()

// PlayerTag marks the protected actor driven by the runner.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Conventional tag values.
const (
	TagPlayer = "Player"
	TagWall   = "Wall"
	TagTrap   = "Trap"
)
