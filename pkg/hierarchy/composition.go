package hierarchy

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	errUtils "github.com/kompos-io/kompos/errors"
	log "github.com/kompos-io/kompos/pkg/logger"
)

// CompositionKey is the path segment key that selects a composition.
const CompositionKey = "composition"

// Composition is a named, path-addressed unit of configuration with its
// discovered instances and the config path serving each instance.
type Composition struct {
	Type      string
	Instances []string
	Paths     map[string]string
}

// DiscoverCompositions determines the composition type and instances selected
// by path.
//
// When the path encodes `composition=<type>/<type>=<instance>` a single
// instance is selected and the directory listing is skipped. Otherwise every
// `<type>=<instance>` subdirectory of path contributes an instance, sorted by
// name for deterministic path order.
func DiscoverCompositions(path string) (Composition, error) {
	compositionType, instance, err := compositionSegment(path)
	if err != nil {
		return Composition{}, err
	}

	// Single instance selected in the path itself.
	if instance != "" {
		return Composition{
			Type:      compositionType,
			Instances: []string{instance},
			Paths:     map[string]string{instance: path},
		}, nil
	}

	composition := Composition{
		Type:  compositionType,
		Paths: map[string]string{},
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return Composition{}, errUtils.Wrapf(errUtils.ErrNoCompositionsFound, "cannot list %s", path)
	}
	prefix := compositionType + "="
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		instance := strings.TrimPrefix(entry.Name(), prefix)
		composition.Instances = append(composition.Instances, instance)
		composition.Paths[instance] = filepath.Join(path, entry.Name())
	}
	sort.Strings(composition.Instances)

	if len(composition.Instances) == 0 {
		return Composition{}, errUtils.Wrapf(errUtils.ErrNoCompositionsFound, "path %s", path)
	}
	return composition, nil
}

// SortCompositions filters instances to those present in order, preserving
// order's sequence, reversed when requested (teardown runs leaf-first).
// An empty order list leaves instances untouched.
func SortCompositions(instances, order []string, reverse bool) []string {
	if len(order) == 0 {
		if reverse {
			return reverseStrings(instances)
		}
		return instances
	}

	present := make(map[string]bool, len(instances))
	for _, instance := range instances {
		present[instance] = true
	}

	var sorted []string
	for _, instance := range order {
		if present[instance] {
			sorted = append(sorted, instance)
		}
	}
	if reverse {
		return reverseStrings(sorted)
	}
	return sorted
}

// SynthesizeFromOrder builds instance paths from a configured order list when
// no instance directories exist on disk. Missing paths are warned about, not
// fatal.
func SynthesizeFromOrder(path, compositionType string, order []string) Composition {
	composition := Composition{
		Type:  compositionType,
		Paths: map[string]string{},
	}
	for _, instance := range order {
		instancePath := filepath.Join(path, compositionType+"="+instance)
		if _, err := os.Stat(instancePath); err != nil {
			log.Default().Warn("composition path does not exist", "path", instancePath, "instance", instance)
		}
		composition.Instances = append(composition.Instances, instance)
		composition.Paths[instance] = instancePath
	}
	return composition
}

// Discover runs the full discovery contract: path-encoded instance first,
// then disk listing, then order-list synthesis, then order filtering and the
// optional reversal. A single instance encoded in the path wins outright and
// is not subject to order filtering.
func Discover(path string, order []string, reverse bool) (Composition, error) {
	compositionType, instance, err := compositionSegment(path)
	if err != nil {
		return Composition{}, err
	}
	if instance != "" {
		return Composition{
			Type:      compositionType,
			Instances: []string{instance},
			Paths:     map[string]string{instance: path},
		}, nil
	}

	composition, err := DiscoverCompositions(path)
	if err != nil {
		if !errUtils.Is(err, errUtils.ErrNoCompositionsFound) || len(order) == 0 {
			return Composition{}, err
		}
		composition = SynthesizeFromOrder(path, compositionType, order)
	}

	composition.Instances = SortCompositions(composition.Instances, order, reverse)
	if len(composition.Instances) == 0 {
		return Composition{}, errUtils.Wrapf(errUtils.ErrNoCompositionsFound, "path %s", path)
	}
	return composition, nil
}

// compositionSegment extracts the composition type from path, plus the
// instance when one is encoded in the path. Both the
// `composition=<type>/<type>=<instance>` and the compact
// `composition=<type>=<instance>` forms select a single instance.
func compositionSegment(path string) (compositionType, instance string, err error) {
	segments := ParsePath(path)
	value, ok := SegmentValue(segments, CompositionKey)
	if !ok || value == "" {
		return "", "", errUtils.Wrapf(errUtils.ErrNoCompositionDetected, "path %s", path)
	}

	compositionType, instance, _ = strings.Cut(value, "=")
	if instance != "" {
		return compositionType, instance, nil
	}
	if encoded, ok := SegmentValue(segments, compositionType); ok && encoded != "" {
		return compositionType, encoded, nil
	}
	return compositionType, "", nil
}

func reverseStrings(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
