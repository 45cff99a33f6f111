package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.yaml zones/*.yaml
var LevelsFS embed.FS

// Load returns a level or zone file, preferring levels/ on disk so edits
// can be picked up without a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return data, nil
}

// List returns the level ids known on disk or embedded, sorted.
func List() ([]string, error) {
	embedded, err := fs.Glob(LevelsFS, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("levels: list embedded: %w", err)
	}
	onDisk, _ := filepath.Glob(filepath.Join("levels", "*.yaml"))

	seen := make(map[string]struct{}, len(embedded)+len(onDisk))
	var ids []string
	for _, p := range append(embedded, onDisk...) {
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func levelFile(id string) string { return id + ".yaml" }

func zoneFile(name string) string { return "zones/" + name + ".yaml" }
