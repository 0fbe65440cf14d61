package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}


func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cloud=aws", "cloud.yaml"), `
cloud:
  name: aws
cidr_base: "10.0"
`)
	writeFile(t, filepath.Join(root, "cloud=aws", "env=dev", "env.yaml"), `
env:
  name: dev
vpc:
  cidr: "{{cidr_base}}.0.0/16"
`)
	writeFile(t, filepath.Join(root, "cloud=aws", "env=dev", "cluster=c1", "cluster.yaml"), `
cluster:
  name: c1
  endpoint: "https://{{cluster.name}}.{{env.name}}.example.com"
`)
	return root
}

func TestResolveMergesLayersRootToLeaf(t *testing.T) {
	root := buildTree(t)
	chdir(t, root)
	r := NewHierarchical()

	config, err := r.Resolve("cloud=aws/env=dev/cluster=c1", Options{
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)

	flat := Flatten(config)
	assert.Equal(t, "aws", flat["cloud.name"])
	assert.Equal(t, "dev", flat["env.name"])
	assert.Equal(t, "c1", flat["cluster.name"])
}

func TestResolveInterpolatesFromMergedValues(t *testing.T) {
	root := buildTree(t)
	chdir(t, root)
	r := NewHierarchical()

	config, err := r.Resolve("cloud=aws/env=dev/cluster=c1", Options{
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)

	flat := Flatten(config)
	assert.Equal(t, "10.0.0.0/16", flat["vpc.cidr"])
	assert.Equal(t, "https://c1.dev.example.com", flat["cluster.endpoint"])
}

func TestResolveLeavesUnresolvedPlaceholdersLiteral(t *testing.T) {
	root := buildTree(t)
	// {{cidr_base}} is defined at cloud level; resolving only up to env with
	// cidr_base excluded must keep the placeholder literal.
	chdir(t, root)
	r := NewHierarchical()

	config, err := r.Resolve("cloud=aws/env=dev", Options{
		ExcludeKeys:                 []string{"cidr_base"},
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)

	flat := Flatten(config)
	assert.Equal(t, "{{cidr_base}}.0.0/16", flat["vpc.cidr"])
	_, excluded := flat["cidr_base"]
	assert.False(t, excluded)
}

func TestResolveValidationFailsOnUnresolved(t *testing.T) {
	root := buildTree(t)
	chdir(t, root)
	r := NewHierarchical()

	_, err := r.Resolve("cloud=aws/env=dev", Options{
		ExcludeKeys: []string{"cidr_base"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vpc.cidr")
}

func TestResolveSkipInterpolationResolving(t *testing.T) {
	root := buildTree(t)
	chdir(t, root)
	r := NewHierarchical()

	config, err := r.Resolve("cloud=aws/env=dev", Options{
		SkipInterpolationResolving:  true,
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "{{cidr_base}}.0.0/16", Flatten(config)["vpc.cidr"])
}

func TestResolveFilters(t *testing.T) {
	root := buildTree(t)
	chdir(t, root)
	r := NewHierarchical()

	config, err := r.Resolve("cloud=aws/env=dev", Options{
		Filters:                     []string{"env"},
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)
	assert.Len(t, config, 1)
	assert.Contains(t, config, "env")
}

func TestResolveLaterLayerOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "defaults.yaml"), "vpc:\n  cidr: \"10.0.0.0/16\"\n")
	writeFile(t, filepath.Join(root, "env=dev", "cluster=c1", "cluster.yaml"), "vpc:\n  cidr: \"10.1.0.0/16\"\n")

	chdir(t, root)
	r := NewHierarchical()
	config, err := r.Resolve("env=dev/cluster=c1", Options{
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.0/16", Flatten(config)["vpc.cidr"])
}

func TestResolveTypedWholePlaceholder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "a.yaml"), "replicas: 3\n")
	writeFile(t, filepath.Join(root, "env=dev", "b.yaml"), "cluster:\n  size: \"{{replicas}}\"\n")

	chdir(t, root)
	r := NewHierarchical()
	config, err := r.Resolve("env=dev", Options{
		SkipInterpolationValidation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, Flatten(config)["cluster.size"])
}

func TestResolveFileIsolation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "a.yaml"), "shared: from_a\n")
	writeFile(t, filepath.Join(root, "env=dev", "b.yaml"), "other: from_b\n")

	r := NewHierarchical()
	data, err := r.ResolveFile(filepath.Join(root, "env=dev", "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"other": "from_b"}, data)
}

func TestFlatten(t *testing.T) {
	flat := Flatten(map[string]any{
		"vpc": map[string]any{
			"cidr": "10.0.0.0/16",
			"tags": map[string]any{"team": "core"},
		},
		"list": []any{1, 2},
	})
	assert.Equal(t, map[string]any{
		"vpc.cidr":      "10.0.0.0/16",
		"vpc.tags.team": "core",
		"list":          []any{1, 2},
	}, flat)
}

func TestGetNested(t *testing.T) {
	data := map[string]any{
		"cluster": map[string]any{
			"tags": map[string]any{"team": "core", "tier": "prod"},
		},
	}

	value, ok := GetNested(data, "cluster.tags")
	require.True(t, ok)
	assert.Len(t, value, 2)

	value, ok = GetNested(data, "cluster.tags.team")
	require.True(t, ok)
	assert.Equal(t, "core", value)

	_, ok = GetNested(data, "cluster.missing")
	assert.False(t, ok)
	_, ok = GetNested(data, "")
	assert.False(t, ok)
}

func TestPlaceholderKey(t *testing.T) {
	assert.Equal(t, "vpc.cidr", PlaceholderKey("{{vpc.cidr}}"))
	assert.Equal(t, "vpc.cidr", PlaceholderKey("{{ vpc.cidr }}"))
}
