package shape_test

import (
	"testing"

	"github.com/janpfeifer/hexdomains/internal/parameters"
	. "github.com/janpfeifer/hexdomains/internal/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromParams(t *testing.T) {
	params := parameters.NewFromConfigString("max_steps_factor=8,islands=false,trace=2,threshold=0.3")
	opts, err := OptionsFromParams(params)
	require.NoError(t, err)
	assert.Equal(t, 8, opts.MaxStepsFactor)
	assert.False(t, opts.Islands)
	assert.NotNil(t, opts.Logf)
	assert.Equal(t, parameters.Params{"threshold": "0.3"}, params)

	opts, err = OptionsFromParams(parameters.Params{})
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().MaxStepsFactor, opts.MaxStepsFactor)
	assert.True(t, opts.Islands)
	assert.Nil(t, opts.Logf)

	_, err = OptionsFromParams(parameters.NewFromConfigString("max_steps_factor=0"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = OptionsFromParams(parameters.NewFromConfigString("islands=perhaps"))
	assert.Error(t, err)
}
