package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder provides a fluent API for constructing enriched errors.
// Hints become user-facing remediation text retrievable with GetAllHints;
// context pairs are attached as safe details for logs.
type ErrorBuilder struct {
	err   error
	hints []string
}

// Build creates a new ErrorBuilder from a base error.
func Build(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithHint adds a user-facing hint to the error.
// Multiple hints can be added and will be displayed to users.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hints = append(b.hints, hint)
	return b
}

// WithHintf adds a formatted user-facing hint to the error.
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.hints = append(b.hints, fmt.Sprintf(format, args...))
	return b
}

// WithContext adds a structured key-value pair to the error detail.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err = errors.WithDetailf(b.err, "%s: %v", key, value)
	return b
}

// Error finalizes and returns the enriched error.
func (b *ErrorBuilder) Error() error {
	err := b.err
	for _, hint := range b.hints {
		err = errors.WithHint(err, hint)
	}
	return err
}

// GetAllHints returns all hints attached to err, outermost first.
func GetAllHints(err error) []string {
	return errors.GetAllHints(err)
}
