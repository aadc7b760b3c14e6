package system

import (
	"errors"
	"fmt"
	"path"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/arrowtrap/common"
	"github.com/milk9111/arrowtrap/ecs"
	"github.com/milk9111/arrowtrap/ecs/component"
	"github.com/milk9111/arrowtrap/prefabs"
)

var aimInputs = []string{"trap_x", "trap_y", "trap_z", "target_x", "target_y", "target_z"}
var aimOutputs = []string{"aim_x", "aim_y", "aim_z"}

// ScriptAim computes aim points with a tengo script. The script sees trap_*
// and target_* and assigns aim_*, which start out equal to target_*.
type ScriptAim struct {
	path     string
	compiled *tengo.Compiled
}

// LoadScriptAim compiles a script from the prefab scripts directory.
func LoadScriptAim(path string) (*ScriptAim, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}
	return NewScriptAim(path, src)
}

func NewScriptAim(path string, src []byte) (*ScriptAim, error) {
	script := tengo.NewScript(src)
	for _, name := range append(aimInputs, aimOutputs...) {
		if err := script.Add(name, 0.0); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile aim script %q: %w", path, err)
	}
	return &ScriptAim{path: path, compiled: compiled}, nil
}

func (a *ScriptAim) Path() string { return a.path }

func (a *ScriptAim) AimPoint(trap, target common.Vec3) (common.Vec3, error) {
	values := map[string]float64{
		"trap_x": trap.X, "trap_y": trap.Y, "trap_z": trap.Z,
		"target_x": target.X, "target_y": target.Y, "target_z": target.Z,
		"aim_x": target.X, "aim_y": target.Y, "aim_z": target.Z,
	}
	for name, v := range values {
		if err := a.compiled.Set(name, v); err != nil {
			return target, err
		}
	}
	if err := a.compiled.Run(); err != nil {
		return target, fmt.Errorf("run aim script %q: %w", a.path, err)
	}
	return common.Vec3{
		X: a.compiled.Get("aim_x").Float(),
		Y: a.compiled.Get("aim_y").Float(),
		Z: a.compiled.Get("aim_z").Float(),
	}, nil
}

// ReloadScriptAims recompiles the aim script of every trap that loaded name
// and returns how many traps picked up the change. A trap whose script no
// longer compiles keeps the previous version.
func ReloadScriptAims(w *ecs.World, name string) (int, error) {
	want := path.Base(name)
	reloaded := 0
	var errs []error
	ecs.ForEach(w, component.TrapTriggerComponent.Kind(), func(_ ecs.Entity, trig *component.TrapTrigger) {
		aim, ok := trig.Aim.(*ScriptAim)
		if !ok || path.Base(aim.Path()) != want {
			return
		}
		fresh, err := LoadScriptAim(aim.Path())
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", trig.Name, err))
			return
		}
		trig.Aim = fresh
		reloaded++
	})
	return reloaded, errors.Join(errs...)
}
