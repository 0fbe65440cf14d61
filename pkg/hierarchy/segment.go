// Package hierarchy implements discovery over path-addressed configuration
// trees whose directory names encode `key=value` pairs, e.g.
// `region=us-west-2/cluster=demo/composition=terraform/terraform=vpc`.
package hierarchy

import "strings"

// Segment is one `/`-delimited path component split on the first `=`.
// An empty Value means the segment names a composition type without selecting
// an instance (or is a plain directory name).
type Segment struct {
	Key   string
	Value string
}

// ParsePath splits a slash-delimited path into ordered segments.
// Pure function; an empty path yields an empty sequence.
func ParsePath(path string) []Segment {
	if path == "" {
		return nil
	}

	var segments []Segment
	for _, component := range strings.Split(path, "/") {
		if component == "" {
			continue
		}
		key, value, _ := strings.Cut(component, "=")
		segments = append(segments, Segment{Key: key, Value: value})
	}
	return segments
}

// SegmentValue returns the value of the first segment with the given key.
// The second return reports whether the key was present at all.
func SegmentValue(segments []Segment, key string) (string, bool) {
	for _, s := range segments {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}
