// Package shapetest provides labelled grids and polygon checks to test the shape analysis.
package shapetest

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/stretchr/testify/require"
)

// Sectors returns a hexagonal grid with 6 rings and spacing 1, where the cells up to 2 steps from
// the center have identity 0, surrounded by three 120 degree sectors with identities 0.25, 0.5
// and 0.75. The central patch is a domain with 3 triple-point vertices.
func Sectors(t *testing.T) (*hexgrid.Grid, []float32) {
	g, err := hexgrid.NewHexagon(6, 1)
	require.NoError(t, err)
	ids := make([]float32, g.NumCells())
	sectorIDs := []float32{0.25, 0.5, 0.75}
	for idx, cell := range g.Cells() {
		if cell.Pos.Distance(hexgrid.Pos{}) <= 2 {
			ids[idx] = 0
			continue
		}
		// The small offset keeps cell centers away from the rays between sectors.
		angle := math32.Atan2(cell.Center.Y(), cell.Center.X()+0.1)
		if angle < 0 {
			angle += 2 * math32.Pi
		}
		sector := min(int(angle/(2*math32.Pi/3)), 2)
		ids[idx] = sectorIDs[sector]
	}
	return g, ids
}

// SectorsVertices are the locations of the vertices of the central domain of Sectors.
var SectorsVertices = []hexgrid.Coord{{-1.5, -2.0207}, {2.5, -0.2887}, {-1.5, 2.0207}}

// IslandCenter is the center cell of the cluster in Island.
const IslandCenter = 54

// Island returns a 10x10 rectangular grid with spacing 1 and two fields: the first is 1 on
// the cell IslandCenter and its 6 neighbours and 0 elsewhere; the second is 0.5 everywhere.
func Island(t *testing.T) (*hexgrid.Grid, [][]float32) {
	g, err := hexgrid.NewRectangle(10, 10, 1)
	require.NoError(t, err)
	fieldA := make([]float32, g.NumCells())
	fieldB := make([]float32, g.NumCells())
	fieldA[IslandCenter] = 1
	for _, nIdx := range g.NeighboursIter(IslandCenter) {
		fieldA[nIdx] = 1
	}
	for idx := range fieldB {
		fieldB[idx] = 0.5
	}
	return g, [][]float32{fieldA, fieldB}
}

// Bands returns a 10x10 rectangular grid with spacing 1, with a horizontal band on rows 4 and 5
// of identity 0.5, and the rest split into a left part (identity 0) and a right part (identity
// 0.25). The three meet at two triple points, but no domain closes.
func Bands(t *testing.T) (*hexgrid.Grid, []float32) {
	g, err := hexgrid.NewRectangle(10, 10, 1)
	require.NoError(t, err)
	ids := make([]float32, g.NumCells())
	for idx, cell := range g.Cells() {
		switch {
		case cell.Pos.G() == 4 || cell.Pos.G() == 5:
			ids[idx] = 0.5
		case cell.Center.X() < 4.6:
			ids[idx] = 0
		default:
			ids[idx] = 0.25
		}
	}
	return g, ids
}

// VoronoiSide is the number of seeds on each side of the Voronoi grid.
const VoronoiSide = 5

// Voronoi returns a 20x20 rectangular grid with spacing 1, and one field per seed of a
// VoronoiSide x VoronoiSide jittered lattice of seeds, holding minus the distance to the seed.
// The winner-take-all regions are the Voronoi cells of the seeds, and the inner ones close.
func Voronoi(t *testing.T) (*hexgrid.Grid, [][]float32) {
	g, err := hexgrid.NewRectangle(20, 20, 1)
	require.NoError(t, err)
	var fields [][]float32
	for a := range VoronoiSide {
		for b := range VoronoiSide {
			seed := hexgrid.Coord{
				1.3 + 3.7*float32(a) + 0.31*float32((7*a+3*b)%5),
				1.1 + 3.3*float32(b) + 0.27*float32((5*a+11*b)%7),
			}
			field := make([]float32, g.NumCells())
			for idx, cell := range g.Cells() {
				field[idx] = -cell.Center.Distance(seed)
			}
			fields = append(fields, field)
		}
	}
	return g, fields
}

// SignedArea of a polygon: positive if anticlockwise.
func SignedArea(polygon []hexgrid.Coord) float32 {
	var sum float32
	for ii, p := range polygon {
		q := polygon[(ii+1)%len(polygon)]
		sum += p.X()*q.Y() - q.X()*p.Y()
	}
	return sum / 2
}

// RequireHexOutline checks that the polygon runs along hex edges of g, with no repeated corners,
// which makes it a simple polygon.
func RequireHexOutline(t *testing.T, g *hexgrid.Grid, polygon []hexgrid.Coord) {
	require.GreaterOrEqual(t, len(polygon), 6, "polygon too small: %v", polygon)
	seen := make(map[hexgrid.CornerKey]int, len(polygon))
	for ii, p := range polygon {
		key := g.KeyOf(p)
		if prev, found := seen[key]; found {
			t.Fatalf("polygon repeats corner %s at positions %d and %d", p, prev, ii)
		}
		seen[key] = ii
		q := polygon[(ii+1)%len(polygon)]
		require.InDeltaf(t, g.LR(), p.Distance(q), 1e-4, "polygon segment %s -> %s is not a hex edge", p, q)
	}
}

// CellArea is the area of one hexagonal cell of g.
func CellArea(g *hexgrid.Grid) float32 {
	return g.D() * g.D() * hexgrid.Sqrt3 / 2
}
