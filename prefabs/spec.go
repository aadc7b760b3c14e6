package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ParseEntityBuildSpec decodes a prefab document that is already in memory.
func ParseEntityBuildSpec(name string, data []byte) (EntityBuildSpec, error) {
	var spec EntityBuildSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return EntityBuildSpec{}, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	return spec, nil
}
