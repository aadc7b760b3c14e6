package entity

import (
	"fmt"

	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/levels"
)

// Encounter lists the notable entities of a loaded level.
type Encounter struct {
	Name   string
	Player ecs.Entity
	Traps  map[string]ecs.Entity
	Walls  []ecs.Entity
}

var defaultPrefabs = map[string]string{
	levels.TypePlayer: "player.yaml",
	levels.TypeWall:   "wall.yaml",
	levels.TypeTrap:   "arrow_trap.yaml",
}

// LoadLevelToWorld builds every entity of lvl through f.
func LoadLevelToWorld(f *PrefabFactory, lvl *levels.Level) (*Encounter, error) {
	if f == nil || lvl == nil {
		return nil, fmt.Errorf("load level: nil factory or level")
	}
	enc := &Encounter{Name: lvl.Name, Traps: make(map[string]ecs.Entity)}

	for i, le := range lvl.Entities {
		prefab := le.Prefab
		if prefab == "" {
			prefab = defaultPrefabs[le.Type]
		}
		if prefab == "" {
			return nil, fmt.Errorf("load level %q: entity %d: unknown type %q", lvl.Name, i, le.Type)
		}

		pos := vec3(le.Position)
		opts := BuildOptions{Name: le.Name, Position: &pos, Yaw: le.Yaw}
		for _, wp := range le.Waypoints {
			opts.Waypoints = append(opts.Waypoints, vec3(wp))
		}

		e, err := f.Build(prefab, opts)
		if err != nil {
			return nil, fmt.Errorf("load level %q: entity %d: %w", lvl.Name, i, err)
		}

		switch le.Type {
		case levels.TypePlayer:
			enc.Player = e
		case levels.TypeTrap:
			name := le.Name
			if name == "" {
				name = fmt.Sprintf("trap_%d", i)
			}
			enc.Traps[name] = e
		case levels.TypeWall:
			enc.Walls = append(enc.Walls, e)
		}
	}
	return enc, nil
}

func vec3(v [3]float64) common.Vec3 {
	return common.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
