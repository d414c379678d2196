package main

import (
	"context"
	"testing"

	"github.com/janpfeifer/hexdomains/internal/scene"
	"github.com/janpfeifer/hexdomains/internal/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sevenSeeds = `
name: seven
grid: {shape: hexagon, rings: 12}
threshold: 0.9
fields:
  - cone: {x: 0, y: 0}
  - cone: {x: 6, y: 0.5}
  - cone: {x: 3, y: 5.5}
  - cone: {x: -3, y: 5}
  - cone: {x: -6.5, y: -0.5}
  - cone: {x: -3, y: -5}
  - cone: {x: 3.5, y: -5.5}
`

func TestAnalyseAll(t *testing.T) {
	good, err := scene.ParseBytes([]byte(sevenSeeds))
	require.NoError(t, err)
	bad, err := scene.ParseBytes([]byte("name: bad\ngrid: {shape: hexagon, rings: 1}\nfields: [{values: [1, 2]}]\n"))
	require.NoError(t, err)

	results := analyseAll(context.Background(), []*scene.Scene{good, bad}, shape.DefaultOptions())
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Contours, 7)
	// The central seed is surrounded by the other 6, and its domain closes.
	var found bool
	for _, domain := range results[0].Domains {
		found = found || domain.ID == 0
	}
	assert.True(t, found, "domain of the central seed not found")

	// The bad scene fails on its own.
	assert.Error(t, results[1].Err)
}
