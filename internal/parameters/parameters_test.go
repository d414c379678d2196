package parameters_test

import (
	"testing"

	. "github.com/janpfeifer/hexdomains/internal/parameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigString(t *testing.T) {
	params := NewFromConfigString("max_steps_factor=8, islands=false,trace,label=a=b,,")
	assert.Equal(t, Params{"max_steps_factor": "8", "islands": "false", "trace": "", "label": "a=b"}, params)
	assert.Empty(t, NewFromConfigString(""))

	steps, err := PopParamOr(params, "max_steps_factor", 4)
	require.NoError(t, err)
	assert.Equal(t, 8, steps)
	islands, err := PopParamOr(params, "islands", true)
	require.NoError(t, err)
	assert.False(t, islands)
	trace, err := GetParamOr(params, "trace", false)
	require.NoError(t, err)
	assert.True(t, trace)
	threshold, err := PopParamOr(params, "threshold", float32(0.5))
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), threshold)

	err = CheckAllUsed(params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label, trace")

	_, err = PopParamOr(params, "trace", false)
	require.NoError(t, err)
	label, err := PopParamOr(params, "label", "")
	require.NoError(t, err)
	assert.Equal(t, "a=b", label)
	assert.NoError(t, CheckAllUsed(params))
}

func TestInvalid(t *testing.T) {
	params := NewFromConfigString("n=x,f=1.5.2,b=maybe")
	_, err := GetParamOr(params, "n", 1)
	assert.Error(t, err)
	_, err = GetParamOr(params, "f", 1.0)
	assert.Error(t, err)
	_, err = GetParamOr(params, "f", float32(1))
	assert.Error(t, err)
	_, err = PopParamOr(params, "b", false)
	assert.Error(t, err)
	// Failed parsing doesn't pop.
	assert.Contains(t, params, "b")
}
