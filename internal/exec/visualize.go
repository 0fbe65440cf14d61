package exec

import (
	"github.com/kompos-io/kompos/pkg/format"
)

// ExecuteVisualize renders the hierarchy tree for the config path. The
// underlying records are the same the analyze command produces; only the
// presentation differs.
func ExecuteVisualize(ctx ExecutionContext) error {
	if err := ctx.discoverComposition(); err != nil {
		return err
	}

	distribution, err := ctx.compositionAnalyzer().Analyze(ctx.ConfigPath)
	if err != nil {
		return err
	}

	out, err := format.RenderHierarchy(distribution, ctx.Format)
	if err != nil {
		return err
	}
	return WriteOutput(ctx, out)
}
