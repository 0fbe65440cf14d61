package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/kompos-io/kompos/pkg/diagnose"
	"github.com/kompos-io/kompos/pkg/explore"
	"github.com/kompos-io/kompos/pkg/validate"
)

// maxListedKeys caps how many keys a layer section lists before eliding.
const maxListedKeys = 10

var (
	headerColor  = color.New(color.FgCyan)
	boldCyan     = color.New(color.FgCyan, color.Bold)
	boldWhite    = color.New(color.FgWhite, color.Bold)
	dimWhite     = color.New(color.FgWhite, color.Faint)
	greenText    = color.New(color.FgGreen)
	boldGreen    = color.New(color.FgGreen, color.Bold)
	yellowText   = color.New(color.FgYellow)
	boldYellow   = color.New(color.FgYellow, color.Bold)
	boldRed      = color.New(color.FgRed, color.Bold)
	blueText     = color.New(color.FgBlue)
	magentaText  = color.New(color.FgMagenta)
	cyanText     = color.New(color.FgCyan)
	dimCyan      = color.New(color.FgCyan, color.Faint)
	boldMagenta  = color.New(color.FgMagenta, color.Bold)
	rule         = strings.Repeat("=", 80)
	thinRule     = strings.Repeat("-", 80)
	statusColors = map[explore.Status]struct {
		c      *color.Color
		symbol string
	}{
		explore.StatusNew:          {boldGreen, "[NEW]"},
		explore.StatusInterpolated: {blueText, "[INTERP]"},
		explore.StatusOverridden:   {boldYellow, "[OVERRIDE]"},
		explore.StatusChanged:      {boldMagenta, "[CHANGED]"},
		explore.StatusUnchanged:    {dimWhite, ""},
		explore.StatusUndefined:    {boldRed, "[UNDEFINED]"},
	}
)

func renderDistributionText(distribution explore.Distribution) string {
	var out []string
	out = append(out,
		headerColor.Sprint(rule),
		boldCyan.Sprint("HIERARCHICAL CONFIGURATION ANALYSIS"),
		headerColor.Sprint(rule),
		fmt.Sprintf("Config Path: %s", boldWhite.Sprint(distribution.Summary.ConfigPath)),
		fmt.Sprintf("Total Layers: %s", cyanText.Sprint(distribution.Summary.TotalLayers)),
		"")

	for _, layer := range distribution.Layers {
		out = append(out, fmt.Sprintf("Layer: %s", boldWhite.Sprint(layer.Layer.Path)))
		if layer.Skipped {
			out = append(out, fmt.Sprintf("  %s", boldRed.Sprint("[SKIPPED] layer failed to resolve")), "")
			continue
		}

		out = append(out, fmt.Sprintf("  New Keys: %s", boldGreen.Sprint(len(layer.NewKeys))))
		out = append(out, listKeys(layer.NewKeys, "+", greenText)...)

		out = append(out, fmt.Sprintf("  Overridden Keys: %s", boldYellow.Sprint(len(layer.OverriddenKeys))))
		out = append(out, listKeys(layer.OverriddenKeys, "~", yellowText)...)

		out = append(out, fmt.Sprintf("  Unchanged: %s", dimWhite.Sprint(layer.UnchangedCount)), "")
	}
	return strings.Join(out, "\n")
}

func listKeys(keys []string, symbol string, keyColor *color.Color) []string {
	var out []string
	for i, key := range keys {
		if i == maxListedKeys {
			out = append(out, dimWhite.Sprintf("    ... and %d more", len(keys)-maxListedKeys))
			break
		}
		out = append(out, fmt.Sprintf("    %s %s", keyColor.Sprint(symbol), keyColor.Sprint(key)))
	}
	return out
}

// renderHierarchyText draws the layer tree with per-file contributions and a
// legend, largest contributors first in the summary block.
func renderHierarchyText(distribution explore.Distribution) string {
	var out []string
	out = append(out,
		headerColor.Sprint(rule),
		boldCyan.Sprint("CONFIGURATION HIERARCHY VISUALIZATION"),
		headerColor.Sprint(rule),
		fmt.Sprintf("Root Path: %s", boldWhite.Sprint(distribution.Summary.ConfigPath)),
		fmt.Sprintf("Total Layers: %s", cyanText.Sprint(distribution.Summary.TotalLayers)),
		"")

	out = append(out, renderContributionRanking(distribution)...)

	for i, layer := range distribution.Layers {
		indent := strings.Repeat("  ", layer.Layer.Depth)
		branch := "├─"
		if i == len(distribution.Layers)-1 {
			branch = "└─"
		}
		out = append(out, fmt.Sprintf("%s%s %s", indent, branch, boldWhite.Sprint(layer.Layer.Path)))

		if layer.Skipped {
			out = append(out, fmt.Sprintf("%s   %s", indent, boldRed.Sprint("[SKIPPED]")), "")
			continue
		}

		delta := ""
		if i > 0 {
			added := len(layer.NewKeys)
			if added > 0 {
				delta = " " + boldGreen.Sprintf("(+%d)", added)
			} else {
				delta = " " + dimWhite.Sprint("(no change)")
			}
		}
		out = append(out, fmt.Sprintf("%s   Keys: %s%s", indent, keyCountColor(layer.TotalKeys).Sprint(layer.TotalKeys), delta))

		for _, file := range layer.Files {
			out = append(out, fmt.Sprintf("%s     %s %s%s",
				indent, cyanText.Sprint("•"), dimCyan.Sprint(file), fileStatsSuffix(layer.FileContributions[file])))
		}
		if layer.Unaccounted > 0 {
			out = append(out, fmt.Sprintf("%s     %s %s %s",
				indent, magentaText.Sprint("•"),
				magentaText.Sprint("(inherited through merge)"),
				magentaText.Sprintf("(+%d)", layer.Unaccounted)))
		}
		out = append(out, "")
	}

	out = append(out,
		dimWhite.Sprint(thinRule),
		"",
		boldCyan.Sprint("Legend:"),
		fmt.Sprintf("  %s    new keys (first appearance)", boldGreen.Sprint("+N")),
		fmt.Sprintf("  %s    interpolation resolved (fewer {{}} tokens)", blueText.Sprint("~N")),
		fmt.Sprintf("  %s    override (value changed)", boldYellow.Sprint("!N")),
		fmt.Sprintf("  %s keys inherited through merge from parent layers", magentaText.Sprint("(inherited through merge)")),
		"")
	return strings.Join(out, "\n")
}

// renderContributionRanking lists layers by contribution size, largest first.
func renderContributionRanking(distribution explore.Distribution) []string {
	type contribution struct {
		path  string
		delta int
	}
	var ranked []contribution
	for _, layer := range distribution.Layers {
		if !layer.Skipped {
			ranked = append(ranked, contribution{layer.Layer.Path, len(layer.NewKeys)})
		}
	}
	if len(ranked) == 0 {
		return nil
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].delta > ranked[j].delta })

	out := []string{boldCyan.Sprint("Key Contributions by Layer:")}
	for _, c := range ranked {
		out = append(out, fmt.Sprintf("  %-20s %s", boldGreen.Sprintf("+%d", c.delta), c.path))
	}
	out = append(out, "")
	return out
}

func keyCountColor(count int) *color.Color {
	switch {
	case count < 100:
		return color.New(color.FgWhite)
	case count < 200:
		return cyanText
	default:
		return yellowText
	}
}

func fileStatsSuffix(stats explore.FileStats) string {
	var parts []string
	if stats.New > 0 {
		parts = append(parts, greenText.Sprintf("+%d", stats.New))
	}
	if stats.Interpolated > 0 {
		parts = append(parts, blueText.Sprintf("~%d", stats.Interpolated))
	}
	if stats.Overridden > 0 {
		parts = append(parts, yellowText.Sprintf("!%d", stats.Overridden))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func renderTraceText(trace explore.Trace) string {
	var out []string
	out = append(out,
		headerColor.Sprint(rule),
		boldCyan.Sprintf("VALUE TRACE: %s", trace.Key))
	if trace.IsDict {
		out = append(out, cyanText.Sprint("(dictionary)"))
	}
	out = append(out,
		headerColor.Sprint(rule),
		fmt.Sprintf("Config Path: %s", boldWhite.Sprint(trace.ConfigPath)),
		"")

	if trace.Note != "" {
		out = append(out, yellowText.Sprint(trace.Note), "")
		if len(trace.Suggestions) > 0 {
			out = append(out, yellowText.Sprint("Suggested keys (use the full dotted path):"))
			for _, suggestion := range trace.Suggestions {
				out = append(out, fmt.Sprintf("  • %s", cyanText.Sprint(suggestion)))
			}
			out = append(out, "",
				"Example:",
				fmt.Sprintf("  kompos ... trace --key %s", cyanText.Sprint(trace.Suggestions[0])),
				"")
		}
	}

	for _, step := range trace.Steps {
		out = append(out, fmt.Sprintf("  %s", dimWhite.Sprint(step.Layer.Path)))

		value := fmt.Sprint(step.Value)
		if step.PrevValue != nil &&
			(step.Status == explore.StatusInterpolated || step.Status == explore.StatusOverridden) {
			value = HighlightDiff(fmt.Sprint(step.PrevValue), value)
		}
		line := fmt.Sprintf("    Value: %s", value)
		if sc, ok := statusColors[step.Status]; ok && sc.symbol != "" {
			line += " " + sc.c.Sprint(sc.symbol)
		}
		out = append(out, line)

		if len(step.DictKeys) > 0 {
			out = append(out, fmt.Sprintf("    Keys: %s", cyanText.Sprint(strings.Join(step.DictKeys, ", "))))
		}
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func renderComparisonText(comparison explore.Comparison) string {
	var out []string
	out = append(out, rule, "CONFIGURATION COMPARISON MATRIX", rule, "")

	for _, key := range comparison.Keys {
		out = append(out, fmt.Sprintf("Key: %s", boldWhite.Sprint(key)))
		row := comparison.Matrix[key]
		for _, path := range comparison.Paths {
			value, ok := row[path]
			if !ok {
				continue
			}
			rendered := fmt.Sprint(value)
			if rendered == explore.UndefinedValue {
				rendered = dimWhite.Sprint(rendered)
			}
			out = append(out, fmt.Sprintf("  %s: %s", path, rendered))
		}
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func renderDiagnosticText(diagnostic diagnose.Diagnostic) string {
	var out []string
	out = append(out,
		headerColor.Sprint(rule),
		boldCyan.Sprintf("INTERPOLATION DIAGNOSTICS: %s", diagnostic.Placeholder),
		headerColor.Sprint(rule),
		fmt.Sprintf("Config Path: %s", boldWhite.Sprint(diagnostic.ConfigPath)),
		fmt.Sprintf("Key: %s", cyanText.Sprint(diagnostic.Key)),
		"",
		fmt.Sprintf("Root Cause: %s", boldYellow.Sprint(string(diagnostic.Cause))),
		fmt.Sprintf("  %s", diagnostic.Message),
		"")

	if len(diagnostic.FixOptions) > 0 {
		out = append(out, boldGreen.Sprint("Fix Options:"))
		for i, fix := range diagnostic.FixOptions {
			out = append(out, fmt.Sprintf("  %d. %s", i+1, greenText.Sprint(fix)))
		}
		out = append(out, "")
	}

	if len(diagnostic.Sources) > 0 {
		out = append(out, "Referenced in:")
		for _, source := range diagnostic.Sources {
			out = append(out, fmt.Sprintf("  • %s:%d  %s",
				dimWhite.Sprint(source.File), source.Line, dimWhite.Sprint(source.Content)))
		}
		out = append(out, "")
	}

	if len(diagnostic.RecentLogs) > 0 {
		out = append(out, dimWhite.Sprint("Recent log records:"))
		for _, record := range diagnostic.RecentLogs {
			out = append(out, dimWhite.Sprintf("  %s", record))
		}
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func renderIssuesText(issues []validate.Issue) string {
	if len(issues) == 0 {
		return boldGreen.Sprint("✓ All validation checks passed!") + "\n"
	}

	errorCount := 0
	warningCount := 0
	for _, issue := range issues {
		if issue.Severity == validate.SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}

	var out []string
	out = append(out,
		yellowText.Sprint(rule),
		boldYellow.Sprint("VALIDATION RESULTS"),
		yellowText.Sprint(rule),
		"")
	if errorCount > 0 {
		out = append(out, boldRed.Sprintf("%d error(s) found", errorCount))
	}
	if warningCount > 0 {
		out = append(out, boldYellow.Sprintf("%d warning(s) found", warningCount))
	}
	out = append(out, "")

	for i, issue := range issues {
		severityColor := boldYellow
		if issue.Severity == validate.SeverityError {
			severityColor = boldRed
		}
		out = append(out, severityColor.Sprintf("Issue #%d: %s", i+1, issue.Rule))
		out = append(out, fmt.Sprintf("  %s", issue.Message))

		if issue.Key != "" {
			out = append(out, fmt.Sprintf("  Key: %s", cyanText.Sprint(issue.Key)))
		}
		if issue.Value != nil {
			out = append(out, fmt.Sprintf("  Current Value: %v", issue.Value))
		}
		if issue.CompositionType != "" {
			out = append(out, fmt.Sprintf("  Composition Type: %s", cyanText.Sprint(issue.CompositionType)))
		}
		if len(issue.SourceFiles) > 0 {
			out = append(out, "  Referenced in:")
			for _, file := range issue.SourceFiles {
				out = append(out, fmt.Sprintf("    • %s", dimWhite.Sprint(file)))
			}
			if issue.TotalSources > len(issue.SourceFiles) {
				out = append(out, fmt.Sprintf("    ... and %d more file(s)", issue.TotalSources-len(issue.SourceFiles)))
			}
		}
		if len(issue.FixOptions) > 0 {
			out = append(out, boldGreen.Sprint("  Fix Options:"))
			for j, fix := range issue.FixOptions {
				out = append(out, fmt.Sprintf("    %d. %s", j+1, greenText.Sprint(fix)))
			}
		}
		out = append(out, "")
	}
	out = append(out, yellowText.Sprint(rule), "")
	return strings.Join(out, "\n")
}
