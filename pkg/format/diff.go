package format

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var highlightColor = color.New(color.FgYellow, color.Bold, color.Underline)

// HighlightDiff renders curr with the portions that differ from prev
// highlighted, keeping the common text plain. Used by the trace renderer to
// make interpolation progress and overrides visually obvious.
func HighlightDiff(prev, curr string) string {
	if prev == curr {
		return curr
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(prev, curr, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(diff.Text)
		case diffmatchpatch.DiffInsert:
			b.WriteString(highlightColor.Sprint(diff.Text))
		}
		// Deletions belong to the previous value and are not rendered.
	}
	return b.String()
}
