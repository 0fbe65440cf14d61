package format

import (
	"fmt"
	"strings"

	"github.com/kompos-io/kompos/pkg/explore"
)

func renderDistributionMarkdown(distribution explore.Distribution) string {
	var out []string
	out = append(out,
		"# Configuration Analysis",
		"",
		fmt.Sprintf("Config path: `%s`", distribution.Summary.ConfigPath),
		"",
		"## Hierarchy Layers",
		"")

	for _, layer := range distribution.Layers {
		out = append(out, fmt.Sprintf("### %s", layer.Layer.Path), "")
		if layer.Skipped {
			out = append(out, "- **Skipped**: layer failed to resolve", "")
			continue
		}
		out = append(out,
			fmt.Sprintf("- **New Keys**: %d", len(layer.NewKeys)),
			fmt.Sprintf("- **Overridden Keys**: %d", len(layer.OverriddenKeys)),
			fmt.Sprintf("- **Total Keys**: %d", layer.TotalKeys),
			"")
	}
	return strings.Join(out, "\n")
}

func renderTraceMarkdown(trace explore.Trace) string {
	var out []string
	out = append(out,
		fmt.Sprintf("# Value Trace: `%s`", trace.Key),
		"",
		fmt.Sprintf("Config path: `%s`", trace.ConfigPath),
		"",
		"| Layer | Value | Status |",
		"|---|---|---|")

	for _, step := range trace.Steps {
		value := "-"
		if step.Value != nil {
			value = fmt.Sprintf("`%v`", step.Value)
		}
		out = append(out, fmt.Sprintf("| %s | %s | %s |", step.Layer.Path, value, step.Status))
	}
	out = append(out, "")
	return strings.Join(out, "\n")
}
