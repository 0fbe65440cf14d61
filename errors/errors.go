package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors returned by the discovery and analysis engine.
// Callers match them with errors.Is through any amount of wrapping.
var (
	// ErrNoCompositionDetected indicates the path contains no composition segment.
	ErrNoCompositionDetected = errors.New("no composition detected in path")

	// ErrNoCompositionsFound indicates discovery produced an empty instance list.
	// A composition type with zero instances under a valid directory is
	// indistinguishable from a wrong path; the message carries the path so the
	// operator can tell which case applies.
	ErrNoCompositionsFound = errors.New("no compositions found")

	// ErrCompositionTypeMismatch indicates the path selects a composition type
	// that conflicts with the requested one.
	ErrCompositionTypeMismatch = errors.New("composition type mismatch")

	// ErrKeyRequired indicates a command that needs --key was invoked without it.
	ErrKeyRequired = errors.New("--key is required")

	// ErrUnknownFormat indicates an unsupported output format was requested.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrUnknownRule indicates an unsupported validation rule was requested.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrValidationFailed is returned in strict mode when at least one
	// error-severity issue exists.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidKomposConfig indicates .komposconfig.yaml failed schema validation.
	ErrInvalidKomposConfig = errors.New("invalid kompos configuration")

	// ErrUnsupportedVersion indicates the binary is older than min_version.
	ErrUnsupportedVersion = errors.New("unsupported kompos version")
)

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf creates a new formatted error.
func Errorf(format string, args ...any) error {
	return errors.Newf(format, args...)
}

// Wrap annotates err with a message, preserving sentinel identity.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message, preserving sentinel identity.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
