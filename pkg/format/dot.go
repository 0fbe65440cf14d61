package format

import (
	"fmt"
	"strings"

	"github.com/kompos-io/kompos/pkg/explore"
)

// maxDotFiles caps how many source files a node label lists.
const maxDotFiles = 3

// renderDot emits a GraphViz digraph of the layer chain. Node fill color
// buckets the cumulative key count; edges carry the number of keys the next
// layer adds.
func renderDot(distribution explore.Distribution) string {
	var lines []string
	lines = append(lines,
		"digraph hierarchy {",
		"  rankdir=TB;",
		`  bgcolor="white";`,
		`  node [shape=box, style="rounded,filled", fontname="Arial", fontsize=12];`,
		`  edge [fontname="Arial", fontsize=10];`,
		"",
		"  subgraph cluster_legend {",
		`    label="Legend";`,
		"    style=filled;",
		"    color=lightgrey;",
		"    node [shape=plaintext];",
		`    legend [label="green: <100 keys\ncyan: 100-199 keys\nyellow: 200+ keys\nedge +N: keys added"];`,
		"  }",
		"")

	for i, layer := range distribution.Layers {
		nodeID := fmt.Sprintf("layer%d", i)
		label := dotLabel(layer)
		lines = append(lines, fmt.Sprintf("  %s [label=%s, fillcolor=%q];", nodeID, label, dotFillColor(layer.TotalKeys)))

		if i > 0 {
			edgeLabel := "inherited"
			if added := len(layer.NewKeys); added > 0 {
				edgeLabel = fmt.Sprintf("+%d", added)
			}
			lines = append(lines, fmt.Sprintf(
				`  layer%d -> %s [label="%s", color="darkgreen", fontcolor="darkgreen"];`,
				i-1, nodeID, edgeLabel))
		}
	}

	lines = append(lines, "}")
	return strings.Join(lines, "\n") + "\n"
}

func dotFillColor(keyCount int) string {
	switch {
	case keyCount < 100:
		return "lightgreen"
	case keyCount < 200:
		return "lightblue"
	default:
		return "lightyellow"
	}
}

func dotLabel(layer explore.LayerDelta) string {
	// Break long paths across lines inside the node.
	path := strings.ReplaceAll(layer.Layer.Path, "/", "/<br/>")
	parts := []string{
		fmt.Sprintf("<b>%s</b>", path),
		fmt.Sprintf(`<font point-size="10">Total: %d keys</font>`, layer.TotalKeys),
	}
	if layer.Skipped {
		parts = append(parts, `<font point-size="10" color="red">skipped</font>`)
	}

	for i, file := range layer.Files {
		if i == maxDotFiles {
			parts = append(parts, fmt.Sprintf(`<font point-size="9">... +%d more</font>`, len(layer.Files)-maxDotFiles))
			break
		}
		suffix := ""
		if total := layer.FileContributions[file].Total(); total > 0 {
			suffix = fmt.Sprintf(" (+%d)", total)
		}
		parts = append(parts, fmt.Sprintf(`<font point-size="9">%s%s</font>`, file, suffix))
	}
	return "<" + strings.Join(parts, "<br/>") + ">"
}
