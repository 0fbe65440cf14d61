package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/hierarchy"
)

// PlaceholderPattern matches one `{{key.path}}` interpolation occurrence.
var PlaceholderPattern = regexp.MustCompile(`\{\{[^{}]+\}\}`)

// maxInterpolationPasses bounds the substitution fixpoint; values that still
// contain placeholders after this many passes are left literal.
const maxInterpolationPasses = 10

// Hierarchical is the default Resolver: it walks the cumulative directory
// prefixes of a path, deep-merges every YAML file at each existing layer
// (lexical file order, later layers win), then substitutes `{{key.path}}`
// placeholders from the merged values. Unresolved placeholders stay literal.
type Hierarchical struct{}

// NewHierarchical creates the default resolver.
func NewHierarchical() *Hierarchical {
	return &Hierarchical{}
}

// Resolve implements Resolver.
func (h *Hierarchical) Resolve(path string, opts Options) (map[string]any, error) {
	layers := hierarchy.EnumerateLayers(path)
	if len(layers) == 0 {
		return nil, errUtils.Errorf("no configuration directories found for path %s", path)
	}

	merged := map[string]any{}
	for _, layer := range layers {
		files, err := yamlFiles(layer.Path)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			data, err := h.ResolveFile(file)
			if err != nil {
				return nil, err
			}
			if err := mergo.Merge(&merged, data, mergo.WithOverride); err != nil {
				return nil, errUtils.Wrapf(err, "merging %s", file)
			}
		}
	}

	for _, key := range opts.ExcludeKeys {
		delete(merged, key)
	}

	if !opts.SkipInterpolationResolving {
		interpolate(merged)
	}

	if len(opts.Filters) > 0 {
		filtered := map[string]any{}
		for _, key := range opts.Filters {
			if value, ok := merged[key]; ok {
				filtered[key] = value
			}
		}
		merged = filtered
	}

	if !opts.SkipInterpolationValidation {
		if unresolved := unresolvedPlaceholders(merged); len(unresolved) > 0 {
			return merged, errUtils.Errorf("unresolved interpolations: %s", strings.Join(unresolved, ", "))
		}
	}

	return merged, nil
}

// ResolveFile decodes one YAML file in isolation: no merge, no interpolation.
// Used for per-file delta attribution.
func (h *Hierarchical) ResolveFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errUtils.Wrapf(err, "parsing %s", path)
	}
	return data, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// interpolate substitutes placeholders from the merged values in place,
// repeating until a fixpoint so chained references resolve. Placeholders with
// no backing value are left as literal text.
func interpolate(merged map[string]any) {
	for pass := 0; pass < maxInterpolationPasses; pass++ {
		flat := Flatten(merged)
		if !substituteStrings(merged, flat) {
			return
		}
	}
}

func substituteStrings(node map[string]any, flat map[string]any) bool {
	changed := false
	for key, value := range node {
		switch typed := value.(type) {
		case map[string]any:
			if substituteStrings(typed, flat) {
				changed = true
			}
		case []any:
			if substituteSequence(typed, flat) {
				changed = true
			}
		case string:
			replaced, ok := substituteValue(typed, flat)
			if ok {
				node[key] = replaced
				changed = true
			}
		}
	}
	return changed
}

func substituteSequence(seq []any, flat map[string]any) bool {
	changed := false
	for i, item := range seq {
		switch typed := item.(type) {
		case map[string]any:
			if substituteStrings(typed, flat) {
				changed = true
			}
		case []any:
			if substituteSequence(typed, flat) {
				changed = true
			}
		case string:
			replaced, ok := substituteValue(typed, flat)
			if ok {
				seq[i] = replaced
				changed = true
			}
		}
	}
	return changed
}

// substituteValue resolves the placeholders in one string value. When the
// whole string is a single placeholder referencing a non-string value, the
// typed value is substituted instead of its string form.
func substituteValue(value string, flat map[string]any) (any, bool) {
	matches := PlaceholderPattern.FindAllString(value, -1)
	if len(matches) == 0 {
		return nil, false
	}

	if len(matches) == 1 && matches[0] == value {
		key := PlaceholderKey(value)
		resolved, ok := flat[key]
		if !ok || containsPlaceholder(resolved) {
			return nil, false
		}
		return resolved, true
	}

	result := PlaceholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		resolved, ok := flat[PlaceholderKey(match)]
		if !ok || containsPlaceholder(resolved) {
			return match
		}
		return fmt.Sprintf("%v", resolved)
	})
	if result == value {
		return nil, false
	}
	return result, true
}

func containsPlaceholder(value any) bool {
	s, ok := value.(string)
	return ok && strings.Contains(s, "{{")
}

// PlaceholderKey extracts the referenced dotted key path from inside a
// `{{...}}` placeholder.
func PlaceholderKey(placeholder string) string {
	key := strings.TrimPrefix(placeholder, "{{")
	key = strings.TrimSuffix(key, "}}")
	return strings.TrimSpace(key)
}

func unresolvedPlaceholders(merged map[string]any) []string {
	var unresolved []string
	for key, value := range Flatten(merged) {
		if s, ok := value.(string); ok && PlaceholderPattern.MatchString(s) {
			unresolved = append(unresolved, key)
		}
	}
	sort.Strings(unresolved)
	return unresolved
}
