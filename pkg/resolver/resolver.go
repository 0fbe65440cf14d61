// Package resolver turns a configuration path into a flattened key -> value
// mapping. The provenance engine only depends on the Resolver contract: a
// nested structure per layer in which unresolved `{{key.path}}` placeholders
// remain visible as literal text.
package resolver

// Options control a single resolution.
type Options struct {
	// Filters, when non-empty, keeps only the listed top-level keys in the result.
	Filters []string

	// ExcludeKeys strips the listed top-level keys before interpolation.
	// This is what produces the excluded-but-referenced contradiction: a key
	// with a real value elsewhere in the hierarchy is removed here, so
	// placeholders referencing it stay literal.
	ExcludeKeys []string

	// SkipInterpolationResolving leaves all placeholders literal.
	SkipInterpolationResolving bool

	// SkipInterpolationValidation tolerates unresolved placeholders in the
	// result instead of failing. The provenance engine always sets this.
	SkipInterpolationValidation bool

	// SkipSecrets disables secret backend lookups.
	SkipSecrets bool
}

// Resolver resolves the cumulative configuration of a root-to-leaf path.
type Resolver interface {
	Resolve(path string, opts Options) (map[string]any, error)
}

// FileResolver resolves a single source file in isolation, without merging in
// the rest of its layer or any parent layer. Used for per-file attribution.
type FileResolver interface {
	ResolveFile(path string) (map[string]any, error)
}
