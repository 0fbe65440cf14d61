package exec

import (
	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/format"
)

// ExecuteTrace follows one dotted key across the layers of the config path.
// Tracing resolves without composition exclusions so provenance covers keys
// that generation would strip.
func ExecuteTrace(ctx ExecutionContext, key string) error {
	if key == "" {
		return errUtils.Wrap(errUtils.ErrKeyRequired, "trace requires --key")
	}
	if err := ctx.discoverComposition(); err != nil {
		return err
	}

	trace, err := ctx.provenanceAnalyzer().Trace(ctx.ConfigPath, key)
	if err != nil {
		return err
	}

	out, err := format.Render(trace, ctx.Format)
	if err != nil {
		return err
	}
	return WriteOutput(ctx, out)
}
