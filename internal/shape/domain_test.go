package shape_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	. "github.com/janpfeifer/hexdomains/internal/shape"
	"github.com/janpfeifer/hexdomains/internal/shape/shapetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findVertex returns the index of the candidate vertex of domain f at p.
func findVertex(t *testing.T, a *Analysis, f float32, p hexgrid.Coord) int {
	for ii, v := range a.Vertices {
		if v.F == f && a.Grid().SameCoord(v.V, p) {
			return ii
		}
	}
	t.Fatalf("no vertex of %g at %s", f, p)
	return -1
}

func TestProcessDomain(t *testing.T) {
	g, ids := shapetest.Sectors(t)
	var logs []string
	opts := DefaultOptions()
	opts.Logf = func(level int, format string, args ...any) {
		if level == 1 {
			logs = append(logs, fmt.Sprintf(format, args...))
		}
	}
	a, err := New(g, ids, opts)
	require.NoError(t, err)

	candidates := a.DetectVertices()
	require.Len(t, candidates, 15)

	domains, err := a.DirichletVertices()
	require.NoError(t, err)
	require.Len(t, domains, 1)
	domain := &domains[0]
	assert.Equal(t, float32(0), domain.ID)
	assert.False(t, domain.Island)
	require.Len(t, domain.Vertices, 3)
	for _, want := range shapetest.SectorsVertices {
		var found bool
		for _, v := range domain.Vertices {
			found = found || g.SameCoord(want, v.V)
		}
		assert.Truef(t, found, "vertex %s not found", want)
	}

	// Each vertex path leads to the next vertex.
	var numPathCorners int
	for ii, v := range domain.Vertices {
		assert.True(t, v.Closed)
		assert.Equal(t, float32(0), v.F)
		require.NotEmpty(t, v.PathToNext)
		next := domain.Vertices[(ii+1)%len(domain.Vertices)]
		assert.True(t, g.SameCoord(v.V, v.PathToNext[0]))
		assert.True(t, g.SameCoord(next.V, v.PathToNext[len(v.PathToNext)-1]))
		numPathCorners += len(v.PathToNext)
	}
	assert.Equal(t, 33, numPathCorners)

	// The domain is the outline of the 19 central cells, anticlockwise.
	polygon := domain.Polygon()
	require.Len(t, polygon, 30)
	shapetest.RequireHexOutline(t, g, polygon)
	assert.Greater(t, shapetest.SignedArea(polygon), float32(0))
	assert.InDelta(t, 19*shapetest.CellArea(g), domain.Area(), 1e-3)
	assert.InDelta(t, 30*g.LR(), domain.Perimeter(), 1e-3)
	centroid := domain.Centroid()
	assert.InDelta(t, 0, centroid.X(), 1e-3)
	assert.InDelta(t, 0, centroid.Y(), 1e-3)

	// Other domains reach the boundary, and were logged.
	require.NotEmpty(t, logs)
	var numSkipped int
	for _, line := range logs {
		if strings.HasPrefix(line, "skipping domain") {
			numSkipped++
		}
	}
	assert.Positive(t, numSkipped)

	// Closed vertices can't start a domain again.
	first := findVertex(t, a, 0, shapetest.SectorsVertices[0])
	_, err = a.ProcessDomain(first)
	assert.ErrorIs(t, err, ErrDomainNotClosed)
}

func TestWalk(t *testing.T) {
	g, ids := shapetest.Sectors(t)
	a := newAnalysis(t, g, ids)
	a.DetectVertices()
	ii := findVertex(t, a, 0, shapetest.SectorsVertices[1])
	v := &a.Vertices[ii]
	require.Equal(t, Pair{0.25, 0.75}, v.Neighb)

	// The edge between the sectors runs East to the boundary.
	res, err := a.WalkToNeighbour(ii)
	require.NoError(t, err)
	assert.Equal(t, NoDomain, res.NextID)
	assert.Equal(t, hexgrid.NoNeighbour, res.NextCell)
	require.Greater(t, len(v.PathToNeighbour), 2)
	assert.Equal(t, v.V, v.PathToNeighbour[0])
	assert.Equal(t, res.End, v.PathToNeighbour[len(v.PathToNeighbour)-1])
	assert.Greater(t, res.End.X(), v.V.X())

	// Walking to the next vertex finds the third sector.
	res, err = a.WalkToNext(ii, hexgrid.NoNeighbour)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), res.NextID)
	assert.Equal(t, float32(0.5), ids[res.NextCell])
	assert.True(t, g.SameCoord(shapetest.SectorsVertices[2], res.End), "walk ended at %s", res.End)

	// Walking again overwrites the previous path.
	pathLen := len(v.PathToNext)
	_, err = a.WalkToNext(ii, hexgrid.NoNeighbour)
	require.NoError(t, err)
	assert.Len(t, v.PathToNext, pathLen)

	// An edge not present at the vertex.
	_, err = a.WalkEdge(v, Pair{0.5, 0.25}, hexgrid.NoNeighbour, nil)
	assert.ErrorIs(t, err, ErrInvariant)
	// An expected B cell that is not there.
	_, err = a.WalkEdge(v, Pair{0, 0.25}, v.Cell, nil)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestIslands(t *testing.T) {
	g, fields := shapetest.Island(t)
	ids, err := Regions(g, fields)
	require.NoError(t, err)
	assert.Equal(t, float32(0), ids[shapetest.IslandCenter])
	assert.Equal(t, float32(0.5), ids[0])

	opts := DefaultOptions()
	opts.Islands = false
	a, err := New(g, ids, opts)
	require.NoError(t, err)
	assert.Empty(t, a.DetectVertices())
	domains, err := a.DirichletDomains()
	require.NoError(t, err)
	assert.Empty(t, domains)

	a = newAnalysis(t, g, ids)
	domains, err = a.DirichletDomains()
	require.NoError(t, err)
	require.Len(t, domains, 1)
	island := &domains[0]
	assert.True(t, island.Island)
	assert.Equal(t, float32(0), island.ID)
	require.Len(t, island.Vertices, 6)
	for _, v := range island.Vertices {
		assert.Equal(t, Pair{0, 0.5}, v.Neighb)
		assert.True(t, v.Closed)
		// Concave corners are at twice the long radius from the center of the island.
		assert.InDelta(t, 2*g.LR(), v.V.Distance(g.Cell(shapetest.IslandCenter).Center), 1e-3)
	}
	polygon := island.Polygon()
	require.Len(t, polygon, 18)
	shapetest.RequireHexOutline(t, g, polygon)
	assert.Greater(t, shapetest.SignedArea(polygon), float32(0))
	assert.InDelta(t, 7*shapetest.CellArea(g), island.Area(), 1e-3)
	centroid := island.Centroid()
	center := g.Cell(shapetest.IslandCenter).Center
	assert.InDelta(t, center.X(), centroid.X(), 1e-3)
	assert.InDelta(t, center.Y(), centroid.Y(), 1e-3)
}

func TestManyDomains(t *testing.T) {
	g, fields := shapetest.Voronoi(t)
	ids, err := Regions(g, fields)
	require.NoError(t, err)
	a := newAnalysis(t, g, ids)
	domains, err := a.DirichletDomains()
	require.NoError(t, err)
	require.Len(t, domains, 9)

	seen := make(map[float32]bool)
	var total float32
	for ii := range domains {
		domain := &domains[ii]
		assert.False(t, domain.Island)
		assert.Falsef(t, seen[domain.ID], "domain %g found twice", domain.ID)
		seen[domain.ID] = true
		assert.GreaterOrEqual(t, len(domain.Vertices), 3)
		polygon := domain.Polygon()
		shapetest.RequireHexOutline(t, g, polygon)
		assert.Greater(t, shapetest.SignedArea(polygon), float32(0))

		// The area is a whole number of cells: those with the identity of the domain.
		var numCells int
		for _, id := range ids {
			if id == domain.ID {
				numCells++
			}
		}
		assert.InDeltaf(t, float32(numCells)*shapetest.CellArea(g), domain.Area(), 1e-2, "domain %g", domain.ID)
		total += domain.Area()
	}
	assert.Less(t, total, float32(g.NumCells())*shapetest.CellArea(g))
}

func TestDeterminism(t *testing.T) {
	g, fields := shapetest.Voronoi(t)
	ids, err := Regions(g, fields)
	require.NoError(t, err)
	results := make([][]Domain, 2)
	for ii := range results {
		results[ii], err = newAnalysis(t, g, ids).DirichletDomains()
		require.NoError(t, err)
	}
	assert.Equal(t, results[0], results[1])
}

func TestSmallIslands(t *testing.T) {
	g, err := hexgrid.NewHexagon(3, 1)
	require.NoError(t, err)
	center, ok := g.At(hexgrid.Pos{0, 0})
	require.True(t, ok)
	east, ok := g.At(hexgrid.Pos{1, 0})
	require.True(t, ok)

	// One and two cell islands have fewer than 3 concave corners.
	for _, cells := range [][]int{{center}, {center, east}} {
		ids := make([]float32, g.NumCells())
		for ii := range ids {
			ids[ii] = 0.5
		}
		for _, idx := range cells {
			ids[idx] = 0
		}
		a := newAnalysis(t, g, ids)
		domains, err := a.DirichletDomains()
		require.NoError(t, err)
		assert.Empty(t, domains, "island of %d cells", len(cells))
	}
}
