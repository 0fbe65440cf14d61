package exec

import (
	"github.com/kompos-io/kompos/pkg/format"
)

// ExecuteCompare resolves every leaf path under the config path and
// tabulates the requested keys, or the union of all keys when none are
// given.
func ExecuteCompare(ctx ExecutionContext, keys []string) error {
	comparison, err := ctx.compositionAnalyzer().Compare(ctx.ConfigPath, keys)
	if err != nil {
		return err
	}

	out, err := format.Render(comparison, ctx.Format)
	if err != nil {
		return err
	}
	return WriteOutput(ctx, out)
}
