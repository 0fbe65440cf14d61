package exec

import (
	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/format"
)

// ExecuteDebug diagnoses why an unresolved placeholder does not interpolate
// for the config path.
func ExecuteDebug(ctx ExecutionContext, placeholder string) error {
	if placeholder == "" {
		return errUtils.Wrap(errUtils.ErrKeyRequired, "debug requires --interpolation")
	}
	if err := ctx.discoverComposition(); err != nil {
		return err
	}

	excludedKeys := ctx.Config.ExcludedConfigKeys(ctx.compositionType())
	diagnostic, err := ctx.diagnoser().Diagnose(ctx.ConfigPath, placeholder, excludedKeys)
	if err != nil {
		return err
	}

	out, err := format.Render(diagnostic, ctx.Format)
	if err != nil {
		return err
	}
	return WriteOutput(ctx, out)
}
