package explore

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceOneStepPerLayer(t *testing.T) {
	buildThreeLayerTree(t)

	trace, err := newAnalyzer().Trace("cloud=aws/env=dev/cluster=c1", "cluster.name")
	require.NoError(t, err)

	require.Len(t, trace.Steps, 3)
	assert.Equal(t, "cloud=aws", trace.Steps[0].Layer.Path)
	assert.Equal(t, "cloud=aws/env=dev", trace.Steps[1].Layer.Path)
	assert.Equal(t, "cloud=aws/env=dev/cluster=c1", trace.Steps[2].Layer.Path)

	assert.Equal(t, StatusUndefined, trace.Steps[0].Status)
	assert.Equal(t, StatusUndefined, trace.Steps[1].Status)
	assert.Equal(t, StatusNew, trace.Steps[2].Status)
	assert.Equal(t, "c1", trace.Steps[2].Value)
}

func TestTraceNewThenOverridden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "network.yaml"),
		"vpc:\n  cidr: \"{{cidr_base}}.0/16\"\n")
	writeFile(t, filepath.Join(root, "env=dev", "cluster=c1", "network.yaml"),
		"vpc:\n  cidr: 10.0.0/16\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev/cluster=c1", "vpc.cidr")
	require.NoError(t, err)

	require.Len(t, trace.Steps, 2)
	assert.Equal(t, StatusNew, trace.Steps[0].Status)
	assert.Equal(t, "{{cidr_base}}.0/16", trace.Steps[0].Value)
	// All placeholders disappeared, so this is a plain override, not an
	// interpolation step.
	assert.Equal(t, StatusOverridden, trace.Steps[1].Status)
	assert.Equal(t, "10.0.0/16", trace.Steps[1].Value)
	assert.Equal(t, "{{cidr_base}}.0/16", trace.Steps[1].PrevValue)
}

func TestTraceInterpolatedStep(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "svc.yaml"),
		"svc:\n  endpoint: \"{{region.name}}.{{vpc.id}}.internal\"\n")
	writeFile(t, filepath.Join(root, "env=dev", "region=us-east-1", "region.yaml"),
		"region:\n  name: us-east-1\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev/region=us-east-1", "svc.endpoint")
	require.NoError(t, err)

	require.Len(t, trace.Steps, 2)
	assert.Equal(t, StatusNew, trace.Steps[0].Status)
	// region.name resolves at the second layer but vpc.id never does, so the
	// value keeps one placeholder and counts as a partial interpolation.
	assert.Equal(t, StatusInterpolated, trace.Steps[1].Status)
	assert.Equal(t, "us-east-1.{{vpc.id}}.internal", trace.Steps[1].Value)
}

func TestTraceUnchangedStep(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "env.yaml"), "env:\n  name: dev\n")
	writeFile(t, filepath.Join(root, "env=dev", "cluster=c1", "cluster.yaml"), "cluster:\n  name: c1\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev/cluster=c1", "env.name")
	require.NoError(t, err)

	require.Len(t, trace.Steps, 2)
	assert.Equal(t, StatusNew, trace.Steps[0].Status)
	assert.Equal(t, StatusUnchanged, trace.Steps[1].Status)
}

func TestTraceDict(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "tags.yaml"),
		"cluster:\n  tags:\n    team: platform\n")
	writeFile(t, filepath.Join(root, "env=dev", "cluster=c1", "tags.yaml"),
		"cluster:\n  tags:\n    cost-center: eng-42\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev/cluster=c1", "cluster.tags")
	require.NoError(t, err)

	assert.True(t, trace.IsDict)
	require.Len(t, trace.Steps, 2)

	assert.Equal(t, StatusNew, trace.Steps[0].Status)
	assert.Equal(t, "<dict with 1 keys>", trace.Steps[0].Value)
	assert.Equal(t, []string{"team"}, trace.Steps[0].DictKeys)

	assert.Equal(t, StatusChanged, trace.Steps[1].Status)
	assert.Equal(t, "<dict with 2 keys>", trace.Steps[1].Value)
	assert.Equal(t, []string{"cost-center", "team"}, trace.Steps[1].DictKeys)
}

func TestTraceDictUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "tags.yaml"),
		"cluster:\n  tags:\n    team: platform\n")
	writeFile(t, filepath.Join(root, "env=dev", "cluster=c1", "other.yaml"),
		"cluster:\n  name: c1\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev/cluster=c1", "cluster.tags")
	require.NoError(t, err)

	require.Len(t, trace.Steps, 2)
	assert.Equal(t, StatusUnchanged, trace.Steps[1].Status)
}

func TestTraceSuggestionsForDottedKeys(t *testing.T) {
	root := t.TempDir()
	// Literal dotted keys flatten to db.* children but never resolve through
	// the nested lookup, so tracing `db` finds nothing and suggests them.
	writeFile(t, filepath.Join(root, "env=dev", "db.yaml"),
		"db.host: localhost\ndb.port: 5432\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev", "db")
	require.NoError(t, err)

	require.Len(t, trace.Steps, 1)
	assert.Equal(t, StatusUndefined, trace.Steps[0].Status)
	assert.Equal(t, []string{"db.host", "db.port"}, trace.Suggestions)
	assert.Contains(t, trace.Note, "not found")
}

func TestTraceSuggestionsCapped(t *testing.T) {
	root := t.TempDir()
	content := ""
	for _, k := range []string{"m", "a", "z", "b", "y", "c", "x", "d", "w", "e", "v", "f"} {
		content += "db." + k + ": 1\n"
	}
	writeFile(t, filepath.Join(root, "env=dev", "db.yaml"), content)
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev", "db")
	require.NoError(t, err)

	require.Len(t, trace.Suggestions, maxSuggestions)
	assert.True(t, sort.StringsAreSorted(trace.Suggestions))
}

func TestTraceFoundKeyHasNoSuggestions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "vpc.yaml"),
		"vpc:\n  cidr: 10.0.0.0/16\n  subnets: 4\n")
	chdir(t, root)

	trace, err := newAnalyzer().Trace("env=dev", "vpc")
	require.NoError(t, err)

	assert.True(t, trace.IsDict)
	assert.Empty(t, trace.Suggestions)
	assert.Empty(t, trace.Note)
}
