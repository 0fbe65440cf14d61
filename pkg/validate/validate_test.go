package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/kompos-io/kompos/errors"
	"github.com/kompos-io/kompos/pkg/explore"
	"github.com/kompos-io/kompos/pkg/resolver"
	"github.com/kompos-io/kompos/pkg/schema"
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

func newValidator() *Validator {
	r := resolver.NewHierarchical()
	analyzer := explore.NewAnalyzer(r, r, resolver.Options{})
	return NewValidator(analyzer, schema.DefaultHierarchyLevels)
}

func buildExcludedButReferencedTree(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "region=us-west-2", "region.yaml"),
		"region:\n  name: us-west-2\n")
	writeFile(t, filepath.Join(root, "region=us-west-2", "cluster=demo", "dns.yaml"),
		"foo: \"{{region.name}}\"\n")
	writeFile(t,
		filepath.Join(root, "region=us-west-2", "cluster=demo", "composition=terraform", "terraform=vpc", "vpc.yaml"),
		"vpc:\n  name: demo-vpc\n")
	chdir(t, root)
}

func TestExcludedButReferencedEmitsOneError(t *testing.T) {
	buildExcludedButReferencedTree(t)

	issues, err := newValidator().Run(RuleExcludedButReferenced, Request{
		ConfigPath:   "region=us-west-2/cluster=demo/composition=terraform/terraform=vpc",
		ExcludedKeys: []string{"region"},
	})
	require.NoError(t, err)

	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, RuleExcludedButReferenced, issue.Rule)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Equal(t, "region", issue.Key)
	assert.Equal(t, "region.name", issue.KeyPath)
	assert.Equal(t, "us-west-2", issue.Value)
	assert.Equal(t, "terraform", issue.CompositionType)
	assert.Equal(t, 1, issue.TotalSources)
	assert.Equal(t, []string{filepath.Join("region=us-west-2", "cluster=demo", "dns.yaml")}, issue.SourceFiles)
	require.Len(t, issue.FixOptions, 3)
	assert.True(t, HasErrors(issues))
}

func TestExcludedButReferencedNoValueNoIssue(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cluster=demo", "composition=terraform", "app.yaml"),
		"foo: \"{{region.name}}\"\n")
	chdir(t, root)

	issues, err := newValidator().Run(RuleExcludedButReferenced, Request{
		ConfigPath:   "cluster=demo/composition=terraform",
		ExcludedKeys: []string{"region"},
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestExcludedButReferencedNotExcludedNoIssue(t *testing.T) {
	buildExcludedButReferencedTree(t)

	issues, err := newValidator().Run(RuleExcludedButReferenced, Request{
		ConfigPath:   "region=us-west-2/cluster=demo/composition=terraform/terraform=vpc",
		ExcludedKeys: []string{"secrets"},
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestExcludedButReferencedNeedsCompositionType(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "app.yaml"), "foo: \"{{region.name}}\"\n")
	chdir(t, root)

	// No composition= segment and no override: the rule skips silently.
	issues, err := newValidator().Run(RuleExcludedButReferenced, Request{
		ConfigPath:   "env=dev",
		ExcludedKeys: []string{"region"},
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestExcludedButReferencedCompositionTypeOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "region=us-west-2", "region.yaml"),
		"region:\n  name: us-west-2\n")
	writeFile(t, filepath.Join(root, "region=us-west-2", "dns.yaml"),
		"foo: \"{{region.name}}\"\n")
	chdir(t, root)

	issues, err := newValidator().Run(RuleExcludedButReferenced, Request{
		ConfigPath:      "region=us-west-2",
		CompositionType: "helmfile",
		ExcludedKeys:    []string{"region"},
	})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "helmfile", issues[0].CompositionType)
}

func TestMissingLayersRule(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "app.yaml"),
		"endpoint: \"{{region.name}}.internal\"\napp: \"{{env.name}}-app\"\n")
	chdir(t, root)

	issues, err := newValidator().Run(RuleMissingLayers, Request{ConfigPath: "env=dev"})
	require.NoError(t, err)

	// env is present as a path segment; region is a known level with no
	// region= segment anywhere in the path.
	require.Len(t, issues, 1)
	assert.Equal(t, RuleMissingLayers, issues[0].Rule)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "region", issues[0].Key)
	assert.False(t, HasErrors(issues))
}

func TestInterpolationSyntaxRule(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "env=dev", "bad.yaml"),
		"a: \"{{env.name}\"\nb: \"{{}}\"\nc: \"{{outer.{{inner}}}}\"\nd: fine\n")
	chdir(t, root)

	issues, err := newValidator().Run(RuleInterpolationSyntax, Request{ConfigPath: "env=dev"})
	require.NoError(t, err)

	require.Len(t, issues, 3)
	assert.Contains(t, issues[0].Message, "unbalanced")
	assert.Equal(t, 1, issues[0].Line)
	assert.Contains(t, issues[1].Message, "empty")
	assert.Contains(t, issues[2].Message, "nested")
	for _, issue := range issues {
		assert.Equal(t, SeverityWarning, issue.Severity)
	}
}

func TestRunAllRules(t *testing.T) {
	buildExcludedButReferencedTree(t)

	issues, err := newValidator().Run("", Request{
		ConfigPath:   "region=us-west-2/cluster=demo/composition=terraform/terraform=vpc",
		ExcludedKeys: []string{"region"},
	})
	require.NoError(t, err)
	assert.True(t, HasErrors(issues))
}

func TestRunUnknownRule(t *testing.T) {
	_, err := newValidator().Run("no-such-rule", Request{ConfigPath: "env=dev"})
	assert.True(t, errUtils.Is(err, errUtils.ErrUnknownRule))
}

func TestDeriveCompositionType(t *testing.T) {
	assert.Equal(t, "terraform",
		DeriveCompositionType("cluster=demo/composition=terraform/terraform=vpc"))
	assert.Equal(t, "terraform",
		DeriveCompositionType("cluster=demo/composition=terraform=vpc"))
	assert.Equal(t, "", DeriveCompositionType("cluster=demo"))
}
