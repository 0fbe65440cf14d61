package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []Segment
	}{
		{
			name: "key value pairs",
			path: "cloud=aws/env=dev/cluster=c1",
			expected: []Segment{
				{Key: "cloud", Value: "aws"},
				{Key: "env", Value: "dev"},
				{Key: "cluster", Value: "c1"},
			},
		},
		{
			name: "segment without equals yields empty value",
			path: "data/env=dev",
			expected: []Segment{
				{Key: "data", Value: ""},
				{Key: "env", Value: "dev"},
			},
		},
		{
			name: "value containing equals splits on first only",
			path: "tag=a=b",
			expected: []Segment{
				{Key: "tag", Value: "a=b"},
			},
		},
		{
			name:     "empty path yields empty sequence",
			path:     "",
			expected: nil,
		},
		{
			name: "trailing and duplicate slashes ignored",
			path: "env=dev//cluster=c1/",
			expected: []Segment{
				{Key: "env", Value: "dev"},
				{Key: "cluster", Value: "c1"},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ParsePath(test.path))
		})
	}
}

func TestSegmentValue(t *testing.T) {
	segments := ParsePath("cloud=aws/composition=terraform/terraform=vpc")

	value, ok := SegmentValue(segments, "composition")
	assert.True(t, ok)
	assert.Equal(t, "terraform", value)

	value, ok = SegmentValue(segments, "terraform")
	assert.True(t, ok)
	assert.Equal(t, "vpc", value)

	_, ok = SegmentValue(segments, "region")
	assert.False(t, ok)
}
