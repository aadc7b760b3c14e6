package system

import (
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
)

// HasTag reports whether e carries tag in its Tags component.
func HasTag(w *ecs.World, e ecs.Entity, tag string) bool {
	tags, ok := ecs.Get(w, e, component.TagsComponent.Kind())
	if !ok {
		return false
	}
	return tags.Has(tag)
}
