package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is an encounter layout.
type Level struct {
	Name     string   `json:"name"`
	Entities []Entity `json:"entities,omitempty"`
}

// Entity places one prefab.
type Entity struct {
	Type      string       `json:"type"`
	Name      string       `json:"name,omitempty"`
	Prefab    string       `json:"prefab,omitempty"`
	Position  [3]float64   `json:"position"`
	Yaw       float64      `json:"yaw,omitempty"`
	Waypoints [][3]float64 `json:"waypoints,omitempty"`
}

const (
	TypePlayer = "player"
	TypeWall   = "wall"
	TypeTrap   = "arrow_trap"
)

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	return &lvl, nil
}
