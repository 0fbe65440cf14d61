package hierarchy

import (
	"os"
	"path/filepath"
	"strings"
)

// Layer is one directory on the root-to-leaf configuration path.
// Layers are strictly ordered by Depth ascending and never reordered.
type Layer struct {
	Path  string
	Depth int
}

// EnumerateLayers splits path into cumulative prefixes (`a`, `a/b`, `a/b/c`,
// ...) and keeps only prefixes that exist as real directories, in root-to-leaf
// order. Each call re-stats the filesystem; callers needing stability must not
// mutate the tree mid-analysis.
func EnumerateLayers(path string) []Layer {
	var layers []Layer

	current := ""
	if strings.HasPrefix(path, "/") {
		current = "/"
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if current == "" {
			current = segment
		} else {
			current = filepath.Join(current, segment)
		}
		if info, err := os.Stat(current); err == nil && info.IsDir() {
			layers = append(layers, Layer{Path: current, Depth: strings.Count(current, "/")})
		}
	}
	return layers
}

// LayerPaths returns the paths of the given layers, in order.
func LayerPaths(layers []Layer) []string {
	paths := make([]string, len(layers))
	for i, l := range layers {
		paths[i] = l.Path
	}
	return paths
}
