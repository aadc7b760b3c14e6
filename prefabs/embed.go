package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu sync.RWMutex
	dir   = "prefabs"
)

// SetDir sets the on-disk directory consulted before the embedded copies.
// An empty dir disables disk lookups.
func SetDir(d string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	dir = d
}

// Dir returns the on-disk prefab directory.
func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return dir
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if p, ok := diskPrefabPath(clean); ok {
		if data, err := os.ReadFile(p); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if p, ok := diskPrefabPath(clean); ok {
		if data, err := os.ReadFile(p); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	p, ok := diskPrefabPath(clean)
	if !ok {
		return time.Time{}, false
	}
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Name maps a watched file path back to the name used to load it.
func Name(path string) string {
	s := filepath.ToSlash(path)
	if d := Dir(); d != "" {
		prefix := filepath.ToSlash(filepath.Clean(d)) + "/"
		if after, ok := strings.CutPrefix(s, prefix); ok {
			return after
		}
	}
	if isScriptFile(s) {
		return "scripts/" + filepath.Base(s)
	}
	return filepath.Base(s)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) (string, bool) {
	d := Dir()
	if d == "" || clean == "" {
		return "", false
	}
	return filepath.Join(d, filepath.FromSlash(clean)), true
}
