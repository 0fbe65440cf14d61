// Package explore implements the configuration provenance engine: layer-by-
// layer distribution analysis, single-key value tracing and cross-path
// comparison over the flattened snapshots produced by a resolver.
package explore

import (
	"fmt"
	"reflect"
	"strings"
)

// Status classifies how a key's value changed between two snapshots.
type Status string

const (
	StatusNew          Status = "new"
	StatusInterpolated Status = "interpolated"
	StatusOverridden   Status = "overridden"
	StatusChanged      Status = "changed"
	StatusUnchanged    Status = "unchanged"
	StatusUndefined    Status = "undefined"
)

// Classify compares a key's previous and current value.
//
// A value change where both string forms contain `{{` tokens and the current
// form contains strictly fewer is partial interpolation progress, not an
// override. A change that eliminates all tokens (or never had any) is an
// override: a literal value supplied at this layer wins outright.
//
// This is a token-count heuristic over the string forms, not a parse of the
// interpolation grammar: when one placeholder on a line resolves while a
// sibling does not, the aggregate count can misclassify. Replacing it with
// per-token tracking would change observable classifications and must be
// validated against the existing property tests first.
func Classify(prev, curr any) Status {
	if prev == nil {
		return StatusNew
	}
	if reflect.DeepEqual(prev, curr) {
		return StatusUnchanged
	}

	prevTokens := strings.Count(fmt.Sprintf("%v", prev), "{{")
	currTokens := strings.Count(fmt.Sprintf("%v", curr), "{{")
	if prevTokens > 0 && currTokens > 0 && currTokens < prevTokens {
		return StatusInterpolated
	}
	return StatusOverridden
}
