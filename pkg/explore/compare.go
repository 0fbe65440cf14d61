package explore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UndefinedValue is the matrix placeholder for a key a path does not define.
const UndefinedValue = "(undefined)"

// Comparison tabulates a key set across independently resolved leaf paths.
type Comparison struct {
	Paths  []string                  `yaml:"paths" json:"paths"`
	Keys   []string                  `yaml:"keys" json:"keys"`
	Matrix map[string]map[string]any `yaml:"matrix" json:"matrix"`
}

// Compare independently resolves every leaf configuration path under
// configPath and tabulates the requested keys, defaulting to the union of all
// keys when none are requested. Paths that fail to resolve are skipped with a
// warning.
func (a *Analyzer) Compare(configPath string, keys []string) (Comparison, error) {
	leafPaths := DiscoverLeafPaths(configPath)
	comparison := Comparison{
		Paths:  leafPaths,
		Keys:   keys,
		Matrix: map[string]map[string]any{},
	}

	configs := map[string]map[string]any{}
	for _, path := range leafPaths {
		flat, err := a.resolveFlat(path)
		if err != nil {
			a.logger.Warn("failed to resolve path, skipping in comparison", "path", path, "error", err)
			continue
		}
		configs[path] = flat
	}

	compareKeys := keys
	if len(compareKeys) == 0 {
		union := map[string]bool{}
		for _, flat := range configs {
			for key := range flat {
				union[key] = true
			}
		}
		for key := range union {
			compareKeys = append(compareKeys, key)
		}
		sort.Strings(compareKeys)
		comparison.Keys = compareKeys
	}

	for _, key := range compareKeys {
		row := map[string]any{}
		for path, flat := range configs {
			if value, ok := flat[key]; ok {
				row[path] = value
			} else {
				row[path] = UndefinedValue
			}
		}
		comparison.Matrix[key] = row
	}
	return comparison, nil
}

// DiscoverLeafPaths walks the tree below root and returns every deepest
// directory that holds configuration source files, sorted.
func DiscoverLeafPaths(root string) []string {
	var leaves []string
	walkLeafPaths(root, &leaves)
	sort.Strings(leaves)
	return leaves
}

func walkLeafPaths(path string, leaves *[]string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return
	}

	hasYAML := false
	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !strings.HasPrefix(name, ".") {
				subdirs = append(subdirs, filepath.Join(path, name))
			}
			continue
		}
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			hasYAML = true
		}
	}

	if len(subdirs) == 0 {
		if hasYAML {
			*leaves = append(*leaves, path)
		}
		return
	}
	for _, subdir := range subdirs {
		walkLeafPaths(subdir, leaves)
	}
}
