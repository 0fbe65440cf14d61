package diagnose

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/explore"
	"github.com/kompos-io/kompos/pkg/hierarchy"
	log "github.com/kompos-io/kompos/pkg/logger"
	"github.com/kompos-io/kompos/pkg/resolver"
)

// Cause identifies the primary root cause of an unresolved placeholder.
// Exactly one cause is reported per diagnosis; the rules are ordered so the
// most actionable explanation wins.
type Cause string

const (
	// CauseExcludedButReferenced means the key resolves to a real value in
	// the hierarchy but its top-level segment is stripped out before
	// interpolation for this composition type.
	CauseExcludedButReferenced Cause = "excluded-but-referenced"
	// CauseExcluded means the key's top-level segment is excluded but no
	// real value was observed at any layer.
	CauseExcluded Cause = "excluded"
	// CauseMissingLayer means the key names a hierarchy level that is not a
	// segment of the analyzed path.
	CauseMissingLayer Cause = "missing-layer"
	// CauseNestedInterpolation means the placeholder text itself still
	// contains an inner placeholder.
	CauseNestedInterpolation Cause = "nested-interpolation"
	// CauseUndefined is the fallback: the key is not defined anywhere.
	CauseUndefined Cause = "undefined"
)

// Source is one literal occurrence of the placeholder text in a
// configuration file.
type Source struct {
	File    string `yaml:"file" json:"file"`
	Line    int    `yaml:"line" json:"line"`
	Content string `yaml:"content" json:"content"`
}

// Diagnostic explains why a placeholder failed to resolve for a path.
type Diagnostic struct {
	Placeholder string        `yaml:"placeholder" json:"placeholder"`
	Key         string        `yaml:"key" json:"key"`
	ConfigPath  string        `yaml:"config_path" json:"config_path"`
	Cause       Cause         `yaml:"cause" json:"cause"`
	Message     string        `yaml:"message" json:"message"`
	FixOptions  []string      `yaml:"fix_options,omitempty" json:"fix_options,omitempty"`
	Sources     []Source      `yaml:"sources,omitempty" json:"sources,omitempty"`
	Trace       explore.Trace `yaml:"trace" json:"trace"`
	RecentLogs  []string      `yaml:"recent_logs,omitempty" json:"recent_logs,omitempty"`
}

// Diagnoser runs root-cause analysis for unresolved placeholders. The log
// ring is passed in by the caller so recent warnings emitted while resolving
// layers end up in the diagnostic record.
type Diagnoser struct {
	analyzer *explore.Analyzer
	levels   []string
	ring     *log.Ring
	logger   *log.KomposLogger
}

func NewDiagnoser(analyzer *explore.Analyzer, levels []string, ring *log.Ring) *Diagnoser {
	return &Diagnoser{
		analyzer: analyzer,
		levels:   levels,
		ring:     ring,
		logger:   log.Default(),
	}
}

// SetLogger overrides the logger used while diagnosing.
func (d *Diagnoser) SetLogger(l *log.KomposLogger) {
	if l != nil {
		d.logger = l
	}
}

// Diagnose explains why placeholder does not resolve under configPath, given
// the top-level keys excluded for the current composition type.
func (d *Diagnoser) Diagnose(configPath, placeholder string, excludedKeys []string) (Diagnostic, error) {
	match := resolver.PlaceholderPattern.FindString(placeholder)
	if match == "" {
		return Diagnostic{}, errUtils.Errorf("no {{key.path}} placeholder found in %q", placeholder)
	}
	key := resolver.PlaceholderKey(match)

	diagnostic := Diagnostic{
		Placeholder: placeholder,
		Key:         key,
		ConfigPath:  configPath,
		Sources:     FindSources(configPath, placeholder),
	}

	trace, err := d.analyzer.Trace(configPath, key)
	if err != nil {
		return Diagnostic{}, errUtils.Wrapf(err, "tracing %s", key)
	}
	diagnostic.Trace = trace

	hasValue := false
	var lastValue any
	for _, step := range trace.Steps {
		if step.Status != explore.StatusUndefined && step.Value != nil {
			hasValue = true
			lastValue = step.Value
		}
	}

	firstSegment := resolver.FirstSegment(key)
	excluded := containsString(excludedKeys, firstSegment)

	switch {
	case excluded && hasValue:
		diagnostic.Cause = CauseExcludedButReferenced
		diagnostic.Message = fmt.Sprintf(
			"key '%s' resolves to %v in the hierarchy, but top-level key '%s' is excluded before interpolation for this composition type",
			key, lastValue, firstSegment)
		diagnostic.FixOptions = []string{
			fmt.Sprintf("remove '%s' from the exclusion list in .komposconfig.yaml", firstSegment),
			fmt.Sprintf("move the files referencing '%s' into composition-specific defaults", key),
		}

	case excluded:
		diagnostic.Cause = CauseExcluded
		diagnostic.Message = fmt.Sprintf(
			"top-level key '%s' is excluded for this composition type and no value for '%s' was found at any layer",
			firstSegment, key)

	case d.isMissingLevel(configPath, firstSegment):
		diagnostic.Cause = CauseMissingLayer
		diagnostic.Message = fmt.Sprintf(
			"'%s' names a hierarchy level, but no '%s=' segment appears in the path; the composition may be at the wrong hierarchy depth",
			firstSegment, firstSegment)

	case strings.Count(placeholder, "{{") > 1:
		diagnostic.Cause = CauseNestedInterpolation
		diagnostic.Message = "the placeholder contains a nested {{...}}; double interpolation may not be fully resolved"

	default:
		diagnostic.Cause = CauseUndefined
		diagnostic.Message = fmt.Sprintf("key '%s' is not defined in any layer of the hierarchy", key)
	}

	if d.ring != nil {
		for _, rec := range d.ring.Records() {
			diagnostic.RecentLogs = append(diagnostic.RecentLogs, rec.String())
		}
	}
	return diagnostic, nil
}

// isMissingLevel reports whether segment names a configured hierarchy level
// that is absent from configPath's key=value segments.
func (d *Diagnoser) isMissingLevel(configPath, segment string) bool {
	if !containsString(d.levels, segment) {
		return false
	}
	for _, pathSegment := range hierarchy.ParsePath(configPath) {
		if pathSegment.Key == segment {
			return false
		}
	}
	return true
}

// FindSources scans every layer directory of configPath, plus the directories
// above it up to the working directory, for lines containing the literal
// placeholder text.
func FindSources(configPath, placeholder string) []Source {
	var sources []Source
	for _, dir := range sourceDirs(configPath) {
		sources = append(sources, scanDir(dir, placeholder)...)
	}
	return sources
}

// sourceDirs returns the working directory followed by every cumulative
// layer directory, deduplicated.
func sourceDirs(configPath string) []string {
	dirs := []string{"."}
	seen := map[string]bool{".": true}
	for _, layer := range hierarchy.EnumerateLayers(configPath) {
		if !seen[layer.Path] {
			seen[layer.Path] = true
			dirs = append(dirs, layer.Path)
		}
	}
	return dirs
}

func scanDir(dir, placeholder string) []Source {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var sources []Source
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if strings.Contains(line, placeholder) {
				sources = append(sources, Source{
					File:    path,
					Line:    lineNum,
					Content: strings.TrimSpace(line),
				})
			}
		}
		file.Close()
	}
	return sources
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
