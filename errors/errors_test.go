package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelIdentityThroughWrapping(t *testing.T) {
	err := Wrapf(ErrNoCompositionsFound, "path %s", "data/env=dev")
	assert.True(t, Is(err, ErrNoCompositionsFound))
	assert.False(t, Is(err, ErrNoCompositionDetected))
	assert.Contains(t, err.Error(), "data/env=dev")
}

func TestBuilderHints(t *testing.T) {
	err := Build(ErrValidationFailed).
		WithHint("Remove 'region' from .komposconfig.yaml exclusions for 'terraform'").
		WithHintf("Move files using '%s' to composition-specific defaults", "region.name").
		Error()

	require.Error(t, err)
	assert.True(t, Is(err, ErrValidationFailed))

	hints := GetAllHints(err)
	require.Len(t, hints, 2)
	joined := hints[0] + "\n" + hints[1]
	assert.Contains(t, joined, "region.name")
	assert.Contains(t, joined, ".komposconfig.yaml")
}

func TestBuilderContext(t *testing.T) {
	err := Build(New("resolution failed")).
		WithContext("layer", "data/env=dev").
		Error()
	require.Error(t, err)
	assert.Equal(t, "resolution failed", err.Error())
}
