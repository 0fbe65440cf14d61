package exec

import (
	"github.com/kompos-io/kompos/pkg/format"
)

// ExecuteAnalyze runs the layer-by-layer distribution analysis for the
// context's config path and writes it in the requested format.
func ExecuteAnalyze(ctx ExecutionContext) error {
	if err := ctx.discoverComposition(); err != nil {
		return err
	}

	distribution, err := ctx.compositionAnalyzer().Analyze(ctx.ConfigPath)
	if err != nil {
		return err
	}

	out, err := format.Render(distribution, ctx.Format)
	if err != nil {
		return err
	}
	return WriteOutput(ctx, out)
}
