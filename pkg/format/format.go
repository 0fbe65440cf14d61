package format

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/diagnose"
	"github.com/kompos-io/kompos/pkg/explore"
	"github.com/kompos-io/kompos/pkg/validate"
)

// Output format names. Every format renders the same underlying records;
// formatting never recomputes analysis results.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatDot      = "dot"
	FormatMarkdown = "markdown"
)

// Render serializes an analysis record in the requested format. The text,
// dot and markdown renderers understand the concrete record types; json and
// yaml work on anything.
func Render(result any, outputFormat string) (string, error) {
	switch outputFormat {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", errUtils.Wrap(err, "marshaling result to JSON")
		}
		return string(data) + "\n", nil

	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return "", errUtils.Wrap(err, "marshaling result to YAML")
		}
		return string(data), nil

	case FormatDot:
		distribution, ok := result.(explore.Distribution)
		if !ok {
			return "", errUtils.Wrapf(errUtils.ErrUnknownFormat,
				"dot output is only available for hierarchy analysis")
		}
		return renderDot(distribution), nil

	case FormatMarkdown:
		return renderMarkdown(result)

	case FormatText:
		return renderText(result)

	default:
		return "", errUtils.Wrapf(errUtils.ErrUnknownFormat, "%q", outputFormat)
	}
}

// RenderHierarchy serializes a distribution for the visualize command: text
// becomes the indented layer tree instead of the per-layer delta listing, the
// remaining formats render the record as Render does.
func RenderHierarchy(distribution explore.Distribution, outputFormat string) (string, error) {
	if outputFormat == FormatText {
		return renderHierarchyText(distribution), nil
	}
	return Render(distribution, outputFormat)
}

func renderText(result any) (string, error) {
	switch record := result.(type) {
	case explore.Distribution:
		return renderDistributionText(record), nil
	case explore.Trace:
		return renderTraceText(record), nil
	case explore.Comparison:
		return renderComparisonText(record), nil
	case diagnose.Diagnostic:
		return renderDiagnosticText(record), nil
	case []validate.Issue:
		return renderIssuesText(record), nil
	default:
		return "", errUtils.Wrapf(errUtils.ErrUnknownFormat,
			"no text renderer for %T", result)
	}
}

func renderMarkdown(result any) (string, error) {
	switch record := result.(type) {
	case explore.Distribution:
		return renderDistributionMarkdown(record), nil
	case explore.Trace:
		return renderTraceMarkdown(record), nil
	default:
		return "", errUtils.Wrapf(errUtils.ErrUnknownFormat,
			"no markdown renderer for %T", result)
	}
}
