package explore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kompos-io/kompos/pkg/hierarchy"
	log "github.com/kompos-io/kompos/pkg/logger"
	"github.com/kompos-io/kompos/pkg/resolver"
)

// FileStats counts what a single source file changes relative to the parent
// layer's cumulative configuration.
type FileStats struct {
	New          int `yaml:"new" json:"new"`
	Overridden   int `yaml:"overridden" json:"overridden"`
	Interpolated int `yaml:"interpolated" json:"interpolated"`
}

// Total returns the file's combined contribution.
func (s FileStats) Total() int {
	return s.New + s.Overridden + s.Interpolated
}

// LayerDelta describes what one layer changes relative to the previous one.
// Derived data, recomputed per analysis run.
type LayerDelta struct {
	Layer             hierarchy.Layer      `yaml:"layer" json:"layer"`
	NewKeys           []string             `yaml:"new_keys" json:"new_keys"`
	OverriddenKeys    []string             `yaml:"overridden_keys" json:"overridden_keys"`
	UnchangedCount    int                  `yaml:"unchanged_count" json:"unchanged_count"`
	TotalKeys         int                  `yaml:"total_keys" json:"total_keys"`
	Files             []string             `yaml:"files" json:"files"`
	FileContributions map[string]FileStats `yaml:"file_contributions" json:"file_contributions"`

	// Unaccounted counts new keys not attributable to any single file in the
	// layer directory: they were inherited through merge or interpolation.
	Unaccounted int `yaml:"unaccounted" json:"unaccounted"`

	// Skipped marks a layer whose resolution failed; analysis continued with
	// the remaining layers.
	Skipped bool `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Summary describes an analysis run.
type Summary struct {
	TotalLayers int    `yaml:"total_layers" json:"total_layers"`
	ConfigPath  string `yaml:"config_path" json:"config_path"`
}

// Distribution is the full output of a distribution analysis.
type Distribution struct {
	Summary Summary      `yaml:"summary" json:"summary"`
	Layers  []LayerDelta `yaml:"layers" json:"layers"`
}

// Analyzer runs distribution analysis, value traces and comparisons against a
// resolver. Analysis is sequential: each layer's resolution depends on the
// cumulative state of all previous layers.
type Analyzer struct {
	resolver     resolver.Resolver
	fileResolver resolver.FileResolver
	opts         resolver.Options
	logger       *log.KomposLogger
}

// NewAnalyzer creates an Analyzer. opts are applied to every resolution with
// interpolation validation and secrets always skipped (best-effort provenance
// over all-or-nothing failure).
func NewAnalyzer(r resolver.Resolver, fr resolver.FileResolver, opts resolver.Options) *Analyzer {
	opts.SkipInterpolationValidation = true
	opts.SkipSecrets = true
	return &Analyzer{
		resolver:     r,
		fileResolver: fr,
		opts:         opts,
		logger:       log.Default(),
	}
}

// SetLogger overrides the logger used for per-layer warnings.
func (a *Analyzer) SetLogger(l *log.KomposLogger) {
	if l != nil {
		a.logger = l
	}
}

func (a *Analyzer) resolveFlat(path string) (map[string]any, error) {
	config, err := a.resolver.Resolve(path, a.opts)
	if err != nil {
		return nil, err
	}
	return resolver.Flatten(config), nil
}

// Analyze diffs the cumulative configuration of successive layers of
// configPath. Layers that fail to resolve are marked skipped and analysis
// continues; running twice on an unchanged tree yields identical output.
func (a *Analyzer) Analyze(configPath string) (Distribution, error) {
	layers := hierarchy.EnumerateLayers(configPath)
	distribution := Distribution{
		Summary: Summary{TotalLayers: len(layers), ConfigPath: configPath},
	}

	previous := map[string]any{}
	for _, layer := range layers {
		flat, err := a.resolveFlat(layer.Path)
		if err != nil {
			a.logger.Warn("failed to resolve layer, skipping", "layer", layer.Path, "error", err)
			distribution.Layers = append(distribution.Layers, LayerDelta{Layer: layer, Skipped: true})
			continue
		}

		delta := a.diffLayer(layer, previous, flat)
		distribution.Layers = append(distribution.Layers, delta)
		previous = flat
	}
	return distribution, nil
}

func (a *Analyzer) diffLayer(layer hierarchy.Layer, previous, flat map[string]any) LayerDelta {
	delta := LayerDelta{Layer: layer, TotalKeys: len(flat)}

	for key, value := range flat {
		prev, existed := previous[key]
		switch {
		case !existed:
			delta.NewKeys = append(delta.NewKeys, key)
		case Classify(prev, value) == StatusUnchanged:
			delta.UnchangedCount++
		default:
			delta.OverriddenKeys = append(delta.OverriddenKeys, key)
		}
	}
	sort.Strings(delta.NewKeys)
	sort.Strings(delta.OverriddenKeys)

	a.attributeFiles(&delta, previous)
	return delta
}

// attributeFiles resolves each source file of the layer directory in
// isolation and compares its keys against the parent layer's cumulative
// configuration, isolating what a single file changes versus what is
// inherited. New keys not claimed by any file are counted as inherited
// through merge.
func (a *Analyzer) attributeFiles(delta *LayerDelta, previous map[string]any) {
	parent := a.parentConfig(delta.Layer.Path, previous)

	entries, err := os.ReadDir(delta.Layer.Path)
	if err != nil {
		a.logger.Warn("cannot list layer directory", "layer", delta.Layer.Path, "error", err)
		return
	}

	delta.FileContributions = map[string]FileStats{}
	fileKeys := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		delta.Files = append(delta.Files, name)

		data, err := a.fileResolver.ResolveFile(filepath.Join(delta.Layer.Path, name))
		if err != nil {
			a.logger.Debug("failed to analyze file", "file", name, "error", err)
			delta.FileContributions[name] = FileStats{}
			continue
		}

		stats := FileStats{}
		for key, value := range resolver.Flatten(data) {
			fileKeys[key] = true
			prev, existed := parent[key]
			if !existed {
				stats.New++
				continue
			}
			switch Classify(prev, value) {
			case StatusInterpolated:
				stats.Interpolated++
			case StatusOverridden:
				stats.Overridden++
			}
		}
		delta.FileContributions[name] = stats
	}
	sort.Strings(delta.Files)

	for _, key := range delta.NewKeys {
		if !fileKeys[key] {
			delta.Unaccounted++
		}
	}
}

// parentConfig resolves the cumulative configuration one level above the
// layer, falling back to the previous layer's snapshot when there is no
// parent or it fails to resolve.
func (a *Analyzer) parentConfig(layerPath string, previous map[string]any) map[string]any {
	parentPath := filepath.Dir(layerPath)
	if parentPath == layerPath || parentPath == "." || parentPath == "/" {
		return previous
	}
	flat, err := a.resolveFlat(parentPath)
	if err != nil {
		return previous
	}
	return flat
}
