package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest optionally maps export folders to course modules. Without a
// manifest the top-level folder name doubles as the module name and module
// order follows folder name order.
type Manifest struct {
	Modules []ModuleEntry `yaml:"modules"`
}

// ModuleEntry binds one export folder to a module name and position.
type ModuleEntry struct {
	Folder   string `yaml:"folder"`
	Name     string `yaml:"name"`
	Position int    `yaml:"position"`
}

// LoadManifest reads a YAML hierarchy manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// moduleFor resolves the module name and ordering position for a file's
// directory, relative to the ingestion root.
func (m *Manifest) moduleFor(relDir string) (name string, position int) {
	top := topFolder(relDir)
	if top == "" {
		return "", 0
	}

	if m != nil {
		for _, e := range m.Modules {
			if e.Folder == top {
				return e.Name, e.Position
			}
		}
	}
	return top, 0
}

// modulePositions returns a deterministic ordering of module names: manifest
// position first, then name.
func modulePositions(entries []ModuleEntry) []string {
	sorted := make([]ModuleEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].Name < sorted[j].Name
	})

	names := make([]string, len(sorted))
	for i, e := range sorted {
		names[i] = e.Name
	}
	return names
}

// moduleOrder lists the modules seen in a run in manifest position order.
// Modules absent from the manifest (or every module, when there is none)
// follow in name order.
func moduleOrder(m *Manifest, byModule map[string]int) []string {
	var order []string
	listed := map[string]struct{}{}

	if m != nil {
		for _, name := range modulePositions(m.Modules) {
			if _, seen := byModule[name]; !seen {
				continue
			}
			if _, dup := listed[name]; dup {
				continue
			}
			listed[name] = struct{}{}
			order = append(order, name)
		}
	}

	var rest []string
	for name := range byModule {
		if _, dup := listed[name]; !dup {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func topFolder(relDir string) string {
	relDir = filepath.ToSlash(relDir)
	if relDir == "." || relDir == "" {
		return ""
	}
	if i := strings.IndexByte(relDir, '/'); i >= 0 {
		return relDir[:i]
	}
	return relDir
}
