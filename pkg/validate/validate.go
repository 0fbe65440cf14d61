package validate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/explore"
	"github.com/kompos-io/kompos/pkg/hierarchy"
	log "github.com/kompos-io/kompos/pkg/logger"
	"github.com/kompos-io/kompos/pkg/resolver"
)

// Severity levels for validation issues. Only error-severity issues flip the
// process exit code, and only under --strict.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names accepted by Run.
const (
	RuleExcludedButReferenced = "excluded-but-referenced"
	RuleMissingLayers         = "missing-layers"
	RuleInterpolationSyntax   = "interpolation-syntax"
)

// maxSourceFiles caps how many referencing files an issue lists; the full
// count is carried separately in TotalSources.
const maxSourceFiles = 5

// Issue is one validation finding. Issues are data, not errors: a validator
// returning an empty slice succeeded.
type Issue struct {
	Rule            string   `yaml:"rule" json:"rule"`
	Severity        string   `yaml:"severity" json:"severity"`
	Key             string   `yaml:"key,omitempty" json:"key,omitempty"`
	KeyPath         string   `yaml:"key_path,omitempty" json:"key_path,omitempty"`
	Value           any      `yaml:"value,omitempty" json:"value,omitempty"`
	CompositionType string   `yaml:"composition_type,omitempty" json:"composition_type,omitempty"`
	Message         string   `yaml:"message" json:"message"`
	FixOptions      []string `yaml:"fix_options,omitempty" json:"fix_options,omitempty"`
	SourceFiles     []string `yaml:"source_files,omitempty" json:"source_files,omitempty"`
	TotalSources    int      `yaml:"total_sources,omitempty" json:"total_sources,omitempty"`
	File            string   `yaml:"file,omitempty" json:"file,omitempty"`
	Line            int      `yaml:"line,omitempty" json:"line,omitempty"`
}

// Request carries the inputs shared by all rules.
type Request struct {
	ConfigPath      string
	CompositionType string
	ExcludedKeys    []string
}

// Occurrence is one placeholder found while scanning configuration sources.
type Occurrence struct {
	File        string
	Line        int
	Content     string
	Placeholder string
}

type ruleFunc func(*Validator, Request) ([]Issue, error)

// Validator runs the configuration validation rules.
type Validator struct {
	analyzer *explore.Analyzer
	levels   []string
	rules    map[string]ruleFunc
	logger   *log.KomposLogger
}

// NewValidator builds a validator over the given analyzer. The analyzer must
// resolve without exclusions applied, otherwise excluded keys can never be
// observed holding a value.
func NewValidator(analyzer *explore.Analyzer, levels []string) *Validator {
	return &Validator{
		analyzer: analyzer,
		levels:   levels,
		rules: map[string]ruleFunc{
			RuleExcludedButReferenced: (*Validator).excludedButReferenced,
			RuleMissingLayers:         (*Validator).missingLayers,
			RuleInterpolationSyntax:   (*Validator).interpolationSyntax,
		},
		logger: log.Default(),
	}
}

// SetLogger overrides the logger used while validating.
func (v *Validator) SetLogger(l *log.KomposLogger) {
	if l != nil {
		v.logger = l
	}
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run executes one named rule, or every rule in a stable order when ruleName
// is empty.
func (v *Validator) Run(ruleName string, req Request) ([]Issue, error) {
	names := []string{RuleExcludedButReferenced, RuleMissingLayers, RuleInterpolationSyntax}
	if ruleName != "" {
		if _, ok := v.rules[ruleName]; !ok {
			return nil, errUtils.Wrapf(errUtils.ErrUnknownRule, "%q", ruleName)
		}
		names = []string{ruleName}
	}

	var issues []Issue
	for _, name := range names {
		v.logger.Debug("running validation rule", "rule", name)
		found, err := v.rules[name](v, req)
		if err != nil {
			return nil, errUtils.Wrapf(err, "rule %s", name)
		}
		v.logger.Debug("validation rule finished", "rule", name, "issues", len(found))
		issues = append(issues, found...)
	}
	return issues, nil
}

// DeriveCompositionType extracts the composition type from a path's
// `composition=` segment. The segment value may carry an instance suffix
// (`composition=terraform=vpc`), which is stripped.
func DeriveCompositionType(configPath string) string {
	value, ok := hierarchy.SegmentValue(hierarchy.ParsePath(configPath), hierarchy.CompositionKey)
	if !ok {
		return ""
	}
	compositionType, _, _ := strings.Cut(value, "=")
	return compositionType
}

func (v *Validator) excludedButReferenced(req Request) ([]Issue, error) {
	compositionType := req.CompositionType
	if compositionType == "" {
		compositionType = DeriveCompositionType(req.ConfigPath)
	}
	if compositionType == "" {
		v.logger.Warn("could not determine composition type, skipping rule",
			"path", req.ConfigPath, "rule", RuleExcludedButReferenced)
		return nil, nil
	}
	if len(req.ExcludedKeys) == 0 {
		v.logger.Debug("no excluded keys for composition type, nothing to check",
			"composition_type", compositionType)
		return nil, nil
	}

	occurrences := FindInterpolations(req.ConfigPath)
	v.logger.Debug("scanned hierarchy for interpolations", "count", len(occurrences))

	var issues []Issue
	checked := map[string]bool{}
	for _, occurrence := range occurrences {
		keyPath := resolver.PlaceholderKey(occurrence.Placeholder)
		firstSegment := resolver.FirstSegment(keyPath)
		if checked[firstSegment] || !containsString(req.ExcludedKeys, firstSegment) {
			continue
		}
		checked[firstSegment] = true

		trace, err := v.analyzer.Trace(req.ConfigPath, keyPath)
		if err != nil {
			v.logger.Debug("could not trace key", "key", keyPath, "error", err)
			continue
		}

		hasValue := false
		var lastValue any
		for _, step := range trace.Steps {
			if step.Status != explore.StatusUndefined && step.Value != nil {
				hasValue = true
				lastValue = step.Value
			}
		}
		if !hasValue {
			continue
		}

		sourceFiles := referencingFiles(occurrences, firstSegment)
		total := len(sourceFiles)
		if total > maxSourceFiles {
			sourceFiles = sourceFiles[:maxSourceFiles]
		}

		issues = append(issues, Issue{
			Rule:            RuleExcludedButReferenced,
			Severity:        SeverityError,
			Key:             firstSegment,
			KeyPath:         keyPath,
			Value:           lastValue,
			CompositionType: compositionType,
			SourceFiles:     sourceFiles,
			TotalSources:    total,
			Message: fmt.Sprintf(
				"key '%s' is referenced in config files but excluded for '%s' compositions",
				firstSegment, compositionType),
			FixOptions: []string{
				fmt.Sprintf("remove '%s' from .komposconfig.yaml exclusions for '%s'", firstSegment, compositionType),
				fmt.Sprintf("move files using '%s' to composition-specific defaults (e.g. defaults_%s.yaml)", keyPath, compositionType),
				fmt.Sprintf("remove unused interpolations containing '%s' from global defaults", firstSegment),
			},
		})
	}
	return issues, nil
}

func (v *Validator) missingLayers(req Request) ([]Issue, error) {
	present := map[string]bool{}
	for _, segment := range hierarchy.ParsePath(req.ConfigPath) {
		present[segment.Key] = true
	}

	var issues []Issue
	reported := map[string]bool{}
	for _, occurrence := range FindInterpolations(req.ConfigPath) {
		firstSegment := resolver.FirstSegment(resolver.PlaceholderKey(occurrence.Placeholder))
		if reported[firstSegment] || present[firstSegment] || !containsString(v.levels, firstSegment) {
			continue
		}
		reported[firstSegment] = true
		issues = append(issues, Issue{
			Rule:     RuleMissingLayers,
			Severity: SeverityWarning,
			Key:      firstSegment,
			KeyPath:  resolver.PlaceholderKey(occurrence.Placeholder),
			File:     occurrence.File,
			Line:     occurrence.Line,
			Message: fmt.Sprintf(
				"'%s' values are referenced but the path has no '%s=' layer; the composition may be at the wrong hierarchy depth",
				firstSegment, firstSegment),
		})
	}
	return issues, nil
}

var (
	emptyPlaceholderPattern  = regexp.MustCompile(`\{\{\s*\}\}`)
	nestedPlaceholderPattern = regexp.MustCompile(`\{\{[^}]*\{\{`)
)

func (v *Validator) interpolationSyntax(req Request) ([]Issue, error) {
	var issues []Issue
	for _, dir := range sourceDirs(req.ConfigPath) {
		scanYAMLLines(dir, func(file string, line int, content string) {
			opens := strings.Count(content, "{{")
			closes := strings.Count(content, "}}")
			switch {
			case emptyPlaceholderPattern.MatchString(content):
				issues = append(issues, syntaxIssue(file, line, "empty {{}} placeholder"))
			case nestedPlaceholderPattern.MatchString(content):
				issues = append(issues, syntaxIssue(file, line, "nested {{...}} placeholder"))
			case opens != closes:
				issues = append(issues, syntaxIssue(file, line,
					fmt.Sprintf("unbalanced placeholder delimiters (%d '{{' vs %d '}}')", opens, closes)))
			}
		})
	}
	return issues, nil
}

func syntaxIssue(file string, line int, what string) Issue {
	return Issue{
		Rule:     RuleInterpolationSyntax,
		Severity: SeverityWarning,
		File:     file,
		Line:     line,
		Message:  fmt.Sprintf("%s at %s:%d", what, file, line),
	}
}

// FindInterpolations scans the working directory and every layer directory
// of configPath for `{{...}}` placeholders, one occurrence per match.
func FindInterpolations(configPath string) []Occurrence {
	var occurrences []Occurrence
	for _, dir := range sourceDirs(configPath) {
		scanYAMLLines(dir, func(file string, line int, content string) {
			for _, match := range resolver.PlaceholderPattern.FindAllString(content, -1) {
				occurrences = append(occurrences, Occurrence{
					File:        file,
					Line:        line,
					Content:     content,
					Placeholder: match,
				})
			}
		})
	}
	return occurrences
}

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

func scanYAMLLines(dir string, visit func(file string, line int, content string)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
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
			visit(path, lineNum, strings.TrimSpace(scanner.Text()))
		}
		file.Close()
	}
}

func referencingFiles(occurrences []Occurrence, firstSegment string) []string {
	prefix := "{{" + firstSegment
	seen := map[string]bool{}
	var files []string
	for _, occurrence := range occurrences {
		if !strings.HasPrefix(occurrence.Placeholder, prefix) || seen[occurrence.File] {
			continue
		}
		seen[occurrence.File] = true
		files = append(files, occurrence.File)
	}
	sort.Strings(files)
	return files
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
