package exec

import (
	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/format"
	"github.com/kompos-io/kompos/pkg/validate"
)

// ExecuteValidate runs the requested validation rule (or all rules) against
// the config path. Issues are printed as data; only --strict with at least
// one error-severity issue turns them into a process failure.
func ExecuteValidate(ctx ExecutionContext, rule, compositionType string, strict bool) error {
	if derived := ctx.compositionType(); compositionType == "" {
		compositionType = derived
	} else if derived != "" && derived != compositionType {
		return errUtils.Wrapf(errUtils.ErrCompositionTypeMismatch,
			"path selects '%s' but '%s' was requested", derived, compositionType)
	}

	issues, err := ctx.validator().Run(rule, validate.Request{
		ConfigPath:      ctx.ConfigPath,
		CompositionType: compositionType,
		ExcludedKeys:    ctx.Config.ExcludedConfigKeys(compositionType),
	})
	if err != nil {
		return err
	}

	out, err := format.Render(issues, ctx.Format)
	if err != nil {
		return err
	}
	if err := WriteOutput(ctx, out); err != nil {
		return err
	}

	if strict && validate.HasErrors(issues) {
		return errUtils.Wrapf(errUtils.ErrValidationFailed,
			"%d issue(s) found", len(issues))
	}
	return nil
}
