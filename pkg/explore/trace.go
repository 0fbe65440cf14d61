package explore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kompos-io/kompos/pkg/hierarchy"
	"github.com/kompos-io/kompos/pkg/resolver"
)

// maxSuggestions caps the sibling-key suggestions collected when the traced
// key is never found.
const maxSuggestions = 10

// ValueKind tags a TracedValue variant.
type ValueKind int

const (
	// KindAbsent means the key does not resolve at this layer.
	KindAbsent ValueKind = iota
	// KindScalar means the key resolves to a scalar/string/sequence leaf.
	KindScalar
	// KindDict means the key path resolves to a nested object.
	KindDict
)

// TracedValue is the tagged variant produced once at lookup time so that
// classification and formatting switch on the tag instead of re-inspecting
// the value's dynamic type.
type TracedValue struct {
	Kind     ValueKind
	Scalar   any
	DictKeys []string
}

// lookupTraced resolves key against the unflattened structure first, so a key
// path naming a nested object (e.g. `cluster.tags`) is traced as a dictionary
// rather than reported absent.
func lookupTraced(config map[string]any, key string) TracedValue {
	if raw, ok := resolver.GetNested(config, key); ok {
		if dict, isDict := raw.(map[string]any); isDict {
			keys := make([]string, 0, len(dict))
			for k := range dict {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return TracedValue{Kind: KindDict, DictKeys: keys}
		}
		return TracedValue{Kind: KindScalar, Scalar: raw}
	}
	return TracedValue{Kind: KindAbsent}
}

// TraceStep records one layer's contribution to a key's history.
type TraceStep struct {
	Layer     hierarchy.Layer `yaml:"layer" json:"layer"`
	Value     any             `yaml:"value" json:"value"`
	PrevValue any             `yaml:"prev_value,omitempty" json:"prev_value,omitempty"`
	DictKeys  []string        `yaml:"dict_keys,omitempty" json:"dict_keys,omitempty"`
	Status    Status          `yaml:"status" json:"status"`
}

// Trace is the layer-by-layer history of one key. It contains exactly one
// step per enumerated layer, even where the key is absent.
type Trace struct {
	Key         string      `yaml:"key" json:"key"`
	ConfigPath  string      `yaml:"config_path" json:"config_path"`
	Steps       []TraceStep `yaml:"trace" json:"trace"`
	IsDict      bool        `yaml:"is_dict" json:"is_dict"`
	Suggestions []string    `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
	Note        string      `yaml:"note,omitempty" json:"note,omitempty"`
}

// Trace follows one dotted key across all layers of configPath.
// Classification compares against the immediately preceding step's recorded
// value, not the raw previous layer, so the trace stays self-consistent when
// intermediate layers fail to resolve or do not define the key.
func (a *Analyzer) Trace(configPath, key string) (Trace, error) {
	layers := hierarchy.EnumerateLayers(configPath)
	trace := Trace{Key: key, ConfigPath: configPath}

	foundAny := false
	suggestions := map[string]bool{}

	var prevValue any
	var prevDictKeys []string

	for _, layer := range layers {
		config, err := a.resolver.Resolve(layer.Path, a.opts)
		if err != nil {
			a.logger.Warn("failed to trace layer, skipping", "layer", layer.Path, "key", key, "error", err)
			trace.Steps = append(trace.Steps, TraceStep{Layer: layer, Status: StatusUndefined})
			continue
		}

		traced := lookupTraced(config, key)
		switch traced.Kind {
		case KindDict:
			foundAny = true
			trace.IsDict = true
			status := StatusNew
			if prevDictKeys != nil {
				if equalStringSets(prevDictKeys, traced.DictKeys) {
					status = StatusUnchanged
				} else {
					status = StatusChanged
				}
			}
			trace.Steps = append(trace.Steps, TraceStep{
				Layer:    layer,
				Value:    fmt.Sprintf("<dict with %d keys>", len(traced.DictKeys)),
				DictKeys: traced.DictKeys,
				Status:   status,
			})
			prevDictKeys = traced.DictKeys

		case KindScalar:
			foundAny = true
			status := StatusNew
			if prevValue != nil {
				status = Classify(prevValue, traced.Scalar)
			}
			trace.Steps = append(trace.Steps, TraceStep{
				Layer:     layer,
				Value:     traced.Scalar,
				PrevValue: prevValue,
				Status:    status,
			})
			prevValue = traced.Scalar

		case KindAbsent:
			if !foundAny {
				collectSuggestions(suggestions, resolver.Flatten(config), key)
			}
			trace.Steps = append(trace.Steps, TraceStep{
				Layer:     layer,
				PrevValue: prevValue,
				Status:    StatusUndefined,
			})
		}
	}

	if !foundAny && len(suggestions) > 0 {
		trace.Suggestions = sortedSuggestions(suggestions)
		trace.Note = fmt.Sprintf(
			"Key '%s' not found. It may be a dictionary. Try one of the suggested keys.", key)
	}
	return trace, nil
}

func collectSuggestions(suggestions map[string]bool, flat map[string]any, key string) {
	prefix := key + "."
	for k := range flat {
		if strings.HasPrefix(k, prefix) {
			suggestions[k] = true
		}
	}
}

func sortedSuggestions(suggestions map[string]bool) []string {
	sorted := make([]string, 0, len(suggestions))
	for k := range suggestions {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	if len(sorted) > maxSuggestions {
		sorted = sorted[:maxSuggestions]
	}
	return sorted
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}
