package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		prev     any
		curr     any
		expected Status
	}{
		{
			name:     "absent before is new",
			prev:     nil,
			curr:     "10.0.0.0/16",
			expected: StatusNew,
		},
		{
			name:     "equal values unchanged",
			prev:     "10.0.0.0/16",
			curr:     "10.0.0.0/16",
			expected: StatusUnchanged,
		},
		{
			name:     "structurally equal maps unchanged",
			prev:     map[string]any{"a": 1},
			curr:     map[string]any{"a": 1},
			expected: StatusUnchanged,
		},
		{
			name:     "plain value change is overridden",
			prev:     "10.0.0.0/16",
			curr:     "10.1.0.0/16",
			expected: StatusOverridden,
		},
		{
			name:     "partial interpolation keeps a token",
			prev:     "{{a.b}}/{{c.d}}",
			curr:     "{{a.b}}/resolved",
			expected: StatusInterpolated,
		},
		{
			name:     "full token elimination is overridden",
			prev:     "{{cidr_base}}.0/16",
			curr:     "10.0.0/16",
			expected: StatusOverridden,
		},
		{
			name:     "literal override adding placeholders is overridden",
			prev:     "resolved",
			curr:     "{{new.ref}}",
			expected: StatusOverridden,
		},
		{
			name:     "more tokens than before is overridden",
			prev:     "{{a.b}}",
			curr:     "{{a.b}}/{{c.d}}",
			expected: StatusOverridden,
		},
		{
			name:     "non-string values compared structurally",
			prev:     3,
			curr:     4,
			expected: StatusOverridden,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Classify(test.prev, test.curr))
		})
	}
}
