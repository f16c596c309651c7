package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

// DiskDir is checked before the embedded copy so edited prefabs win.
var DiskDir = "prefabs"

// Load returns the named prefab file, preferring the disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	data, err := os.ReadFile(filepath.Join(DiskDir, clean))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return PrefabsFS.ReadFile(clean)
}

// Names lists the embedded prefab files.
func Names() []string {
	names, _ := fs.Glob(PrefabsFS, "*.yaml")
	return names
}

func cleanPrefabPath(p string) string {
	s := path.Clean(filepath.ToSlash(p))
	s = strings.TrimPrefix(s, "prefabs/")
	return path.Base(s)
}
