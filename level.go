package main

import (
	"fmt"

	"github.com/milk9111/arrowtrap/ecs/entity"
	"github.com/milk9111/arrowtrap/levels"
)

// LoadLevel reads an embedded level and builds it into the factory's world.
func LoadLevel(f *entity.PrefabFactory, name string) (*entity.Encounter, error) {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", name, err)
	}
	enc, err := entity.LoadLevelToWorld(f, lvl)
	if err != nil {
		return nil, err
	}
	if enc.Name == "" {
		enc.Name = name
	}
	return enc, nil
}
