package shape_test

import (
	"testing"

	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	. "github.com/janpfeifer/hexdomains/internal/shape"
	"github.com/janpfeifer/hexdomains/internal/shape/shapetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysis(t *testing.T, g *hexgrid.Grid, ids []float32) *Analysis {
	a, err := New(g, ids, DefaultOptions())
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	g, ids := shapetest.Bands(t)
	_, err := New(g, ids[1:], DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidInput)
	opts := DefaultOptions()
	opts.MaxStepsFactor = 0
	_, err = New(g, ids, opts)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVertexDetection(t *testing.T) {
	g, ids := shapetest.Bands(t)
	a := newAnalysis(t, g, ids)

	// Cell 34 (row 3) is in the left part, with the band to its NE and the right part to its E.
	vertices := a.TestVertex(34)
	require.Len(t, vertices, 1)
	v := vertices[0]
	assert.Equal(t, float32(0), v.F)
	assert.Equal(t, Pair{0.5, 0.25}, v.Neighb)
	assert.Equal(t, 34, v.Cell)
	assert.False(t, v.OnBoundary)
	assert.True(t, g.SameCoord(hexgrid.Coord{5, 2.8868}, v.V), "got vertex at %s", v.V)

	// Cells with a single identity around don't have vertices.
	assert.Empty(t, a.TestVertex(11))
	// Nor do cells with two identities, away from the boundary.
	assert.Empty(t, a.TestVertex(33))

	candidates := a.DetectVertices()
	assert.Len(t, candidates, 18)

	// Interior vertices are detected once by each of the 3 cells meeting there.
	byLocation := make(map[hexgrid.CornerKey][]Vertex)
	var numInterior int
	for _, v := range candidates {
		if v.OnBoundary {
			assert.True(t, g.Cell(v.Cell).Boundary)
			continue
		}
		numInterior++
		byLocation[g.KeyOf(v.V)] = append(byLocation[g.KeyOf(v.V)], v)
	}
	assert.Equal(t, 6, numInterior)
	require.Len(t, byLocation, 2)
	for _, group := range byLocation {
		require.Len(t, group, 3)
		fs := map[float32]bool{}
		for _, v := range group {
			fs[v.F] = true
			assert.NotEqual(t, v.F, v.Neighb.First)
			assert.NotEqual(t, v.F, v.Neighb.Second)
			assert.NotEqual(t, v.Neighb.First, v.Neighb.Second)
		}
		assert.Len(t, fs, 3)
	}

	// None of the domains close: they all reach the boundary.
	domains, err := a.DirichletVertices()
	require.NoError(t, err)
	assert.Empty(t, domains)
}

func TestBoundaryVertices(t *testing.T) {
	g, err := hexgrid.NewRectangle(4, 4, 1)
	require.NoError(t, err)
	ids := make([]float32, g.NumCells())
	// Cell 1 in the bottom row differs from its neighbours.
	ids[1] = 0.5
	a := newAnalysis(t, g, ids)

	vertices := a.TestVertex(1)
	require.Len(t, vertices, 2)
	for _, v := range vertices {
		assert.True(t, v.OnBoundary)
		assert.Equal(t, float32(0.5), v.F)
	}
	// Clockwise of the E neighbour (cell 2) there is no SE neighbour: the vertex is at the SE
	// corner, with the E neighbour anticlockwise of it.
	assert.Equal(t, Pair{0, NoDomain}, vertices[0].Neighb)
	assert.True(t, g.SameCoord(g.Corner(1, hexgrid.CornerSE), vertices[0].V))
	// Anticlockwise of the W neighbour (cell 0) there is no SW neighbour.
	assert.Equal(t, Pair{NoDomain, 0}, vertices[1].Neighb)
	assert.True(t, g.SameCoord(g.Corner(1, hexgrid.CornerSW), vertices[1].V))

	// Boundary vertices are never walked.
	a.DetectVertices()
	for ii := range a.Vertices {
		res, err := a.WalkToNeighbour(ii)
		require.NoError(t, err)
		assert.Equal(t, NoDomain, res.NextID)
		assert.Empty(t, a.Vertices[ii].PathToNeighbour)
		_, err = a.ProcessDomain(ii)
		assert.ErrorIs(t, err, ErrDomainNotClosed)
	}
	domains, err := a.DirichletDomains()
	require.NoError(t, err)
	assert.Empty(t, domains)
}
