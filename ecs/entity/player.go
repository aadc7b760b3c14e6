package entity

import (
	"fmt"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

func NewPlayerAt(w *ecs.World, pos common.Vec3) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, pos, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// NewWall places a static wall block of the default prefab at pos.
func NewWall(f *PrefabFactory, pos common.Vec3) (ecs.Entity, error) {
	return f.Build("wall.yaml", BuildOptions{Position: &pos})
}

// NewArrowTrap places a trap zone centred on pos, its launcher rotated by yaw.
func NewArrowTrap(f *PrefabFactory, name string, pos common.Vec3, yaw float64) (ecs.Entity, error) {
	return f.Build("arrow_trap.yaml", BuildOptions{Name: name, Position: &pos, Yaw: yaw})
}
