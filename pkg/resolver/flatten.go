package resolver

import "strings"

// Flatten collapses nested maps into dot-notation keys:
// {"vpc": {"cidr": "10.0.0.0/16"}} -> {"vpc.cidr": "10.0.0.0/16"}.
// Sequences and scalars are kept as leaf values.
func Flatten(data map[string]any) map[string]any {
	flat := map[string]any{}
	flattenInto(flat, "", data)
	return flat
}

func flattenInto(flat map[string]any, prefix string, data map[string]any) {
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(flat, path, nested)
			continue
		}
		flat[path] = value
	}
}

// GetNested walks a dotted key through nested maps and returns the value at
// that path. The second return reports whether the full path exists.
func GetNested(data map[string]any, dottedKey string) (any, bool) {
	if dottedKey == "" {
		return nil, false
	}
	var current any = data
	for _, part := range strings.Split(dottedKey, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SplitKey splits a dotted key path into its segments.
func SplitKey(dottedKey string) []string {
	return strings.Split(dottedKey, ".")
}

// FirstSegment returns the first dotted segment of a key path.
func FirstSegment(dottedKey string) string {
	segment, _, _ := strings.Cut(dottedKey, ".")
	return segment
}
