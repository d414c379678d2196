package hexgrid

import (
	"iter"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Cell of the grid.
type Cell struct {
	// Index of the cell in the grid arena.
	Index int

	// Pos in lattice indices.
	Pos Pos

	// Center of the cell.
	Center Coord

	// Neighbours indices in each Direction, or NoNeighbour.
	Neighbours [NumNeighbors]int

	// Boundary is true if the cell lacks at least one neighbour.
	Boundary bool

	// InsideBoundary is true for cells that are not on the boundary.
	InsideBoundary bool
}

// Grid is an immutable collection of hexagonal cells with center-to-center spacing D.
//
// Cells are created by New, NewRectangle or NewHexagon, and are never modified afterwards, so a
// Grid can be shared by concurrent readers.
type Grid struct {
	d, sr, lr, v, vToNE float32

	cells []Cell
	byPos map[Pos]int

	// Flat arrays, parallel to cells.
	xs, ys     []float32
	neighbours [NumNeighbors][]int
}

// New creates a grid with spacing d and one cell per given lattice position, in the given order.
// It returns an error if the spacing is not positive or a position is repeated.
func New(d float32, positions []Pos) (*Grid, error) {
	if !(d > 0) || math32.IsInf(d, 0) {
		return nil, errors.Errorf("invalid hexagon spacing %g, it must be positive", d)
	}
	g := &Grid{
		d:     d,
		sr:    d / 2,
		lr:    d / Sqrt3,
		v:     d * Sqrt3 / 2,
		vToNE: d / (2 * Sqrt3),
		cells: make([]Cell, len(positions)),
		byPos: make(map[Pos]int, len(positions)),
		xs:    make([]float32, len(positions)),
		ys:    make([]float32, len(positions)),
	}
	for dir := range g.neighbours {
		g.neighbours[dir] = make([]int, len(positions))
	}
	for idx, pos := range positions {
		if prev, found := g.byPos[pos]; found {
			return nil, errors.Errorf("lattice position %s given twice, for cells %d and %d", pos, prev, idx)
		}
		g.byPos[pos] = idx
		center := Coord{d*float32(pos.R()) + g.sr*float32(pos.G()), g.v * float32(pos.G())}
		g.cells[idx] = Cell{Index: idx, Pos: pos, Center: center}
		g.xs[idx], g.ys[idx] = center[0], center[1]
	}
	for idx := range g.cells {
		cell := &g.cells[idx]
		for dir := range Direction(NumNeighbors) {
			nIdx, found := g.byPos[cell.Pos.Neighbour(dir)]
			if !found {
				nIdx = NoNeighbour
				cell.Boundary = true
			}
			cell.Neighbours[dir] = nIdx
			g.neighbours[dir][idx] = nIdx
		}
		cell.InsideBoundary = !cell.Boundary
	}
	klog.V(2).Infof("hexgrid: created %d cells with spacing %g", len(g.cells), d)
	return g, nil
}

// NewRectangle creates a roughly rectangular grid with width cells per row and height rows.
// Odd rows are shifted half a cell to the right, and cells are indexed row by row, starting
// from the bottom-left.
func NewRectangle(width, height int, d float32) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid rectangle grid dimensions %dx%d", width, height)
	}
	positions := make([]Pos, 0, width*height)
	for row := range height {
		for col := range width {
			positions = append(positions, Pos{col - row/2, row})
		}
	}
	return New(d, positions)
}

// NewHexagon creates a hexagon shaped grid with the given number of rings around the central
// cell at the origin. rings=0 creates a single cell.
func NewHexagon(rings int, d float32) (*Grid, error) {
	if rings < 0 {
		return nil, errors.Errorf("invalid number of rings %d for hexagonal grid", rings)
	}
	var positions []Pos
	origin := Pos{}
	for gi := -rings; gi <= rings; gi++ {
		for ri := -rings; ri <= rings; ri++ {
			pos := Pos{ri, gi}
			if pos.Distance(origin) <= rings {
				positions = append(positions, pos)
			}
		}
	}
	return New(d, positions)
}

// NumCells in the grid.
func (g *Grid) NumCells() int { return len(g.cells) }

// D is the center-to-center spacing of neighbouring cells.
func (g *Grid) D() float32 { return g.d }

// SR is the short radius: the distance from the center to the middle of a side.
func (g *Grid) SR() float32 { return g.sr }

// LR is the long radius: the distance from the center to any corner.
func (g *Grid) LR() float32 { return g.lr }

// V is the vertical distance between rows of cells.
func (g *Grid) V() float32 { return g.v }

// VToNE is the vertical distance from the center to the NE (or NW, SE, SW) corner.
func (g *Grid) VToNE() float32 { return g.vToNE }

// Cell returns the cell with the given index. It panics if the index is out of range.
func (g *Grid) Cell(idx int) *Cell { return &g.cells[idx] }

// At returns the index of the cell at the given lattice position, if there is one.
func (g *Grid) At(pos Pos) (int, bool) {
	idx, found := g.byPos[pos]
	return idx, found
}

// Cells iterates over all cells, in index order.
func (g *Grid) Cells() iter.Seq2[int, *Cell] {
	return func(yield func(int, *Cell) bool) {
		for idx := range g.cells {
			if !yield(idx, &g.cells[idx]) {
				return
			}
		}
	}
}

// Neighbour returns the index of the neighbour of cell idx in the given direction, or NoNeighbour.
func (g *Grid) Neighbour(idx int, dir Direction) int {
	return g.cells[idx].Neighbours[dir]
}

// NeighboursIter iterates over the existing neighbours of cell idx, anticlockwise from E.
func (g *Grid) NeighboursIter(idx int) iter.Seq2[Direction, int] {
	return func(yield func(Direction, int) bool) {
		for dir, nIdx := range g.cells[idx].Neighbours {
			if nIdx == NoNeighbour {
				continue
			}
			if !yield(Direction(dir), nIdx) {
				return
			}
		}
	}
}

// DirectionTo returns the direction from cell idx to its neighbour nIdx. It returns false if
// they are not neighbours.
func (g *Grid) DirectionTo(idx, nIdx int) (Direction, bool) {
	for dir, n := range g.cells[idx].Neighbours {
		if n == nIdx && n != NoNeighbour {
			return Direction(dir), true
		}
	}
	return 0, false
}

// Corner returns the coordinate of the given corner of cell idx.
func (g *Grid) Corner(idx int, corner Corner) Coord {
	c := g.cells[idx].Center
	switch corner {
	case CornerNE:
		return Coord{c[0] + g.sr, c[1] + g.vToNE}
	case CornerN:
		return Coord{c[0], c[1] + g.lr}
	case CornerNW:
		return Coord{c[0] - g.sr, c[1] + g.vToNE}
	case CornerSW:
		return Coord{c[0] - g.sr, c[1] - g.vToNE}
	case CornerS:
		return Coord{c[0], c[1] - g.lr}
	default:
		return Coord{c[0] + g.sr, c[1] - g.vToNE}
	}
}

// CornerOf returns which corner of cell idx is at the coordinate p, within tolerance.
func (g *Grid) CornerOf(idx int, p Coord) (Corner, bool) {
	for corner := range Corner(NumCorners) {
		if g.SameCoord(g.Corner(idx, corner), p) {
			return corner, true
		}
	}
	return 0, false
}

// CellsAtCorner returns the indices of the cells (at most 3) that have a corner at p: the cell
// idx itself, if p is one of its corners, plus any of its neighbours that share it.
// Cells are returned in the order: idx, then neighbours anticlockwise from E.
func (g *Grid) CellsAtCorner(idx int, p Coord) []int {
	cells := make([]int, 0, 3)
	if _, found := g.CornerOf(idx, p); found {
		cells = append(cells, idx)
	}
	for _, nIdx := range g.NeighboursIter(idx) {
		if _, found := g.CornerOf(nIdx, p); found {
			cells = append(cells, nIdx)
		}
	}
	return cells
}

// SameCoord returns whether a and b are closer than Tolerance*LR.
func (g *Grid) SameCoord(a, b Coord) bool {
	return a.Distance(b) < Tolerance*g.lr
}

// CornerKey is an exact integer key for a corner location, suitable for map lookups.
type CornerKey [2]int32

// KeyOf quantizes a coordinate to the lattice of corner positions. Any two corners with
// SameCoord get the same key.
func (g *Grid) KeyOf(p Coord) CornerKey {
	return CornerKey{
		int32(math32.Round(2 * p[0] / g.d)),
		int32(math32.Round(p[1] / g.vToNE)),
	}
}

// FlatArrays exposes the grid as parallel arrays, one entry per cell. Neighbours[dir][idx] holds
// the neighbour of cell idx in direction dir, or NoNeighbour.
//
// The arrays are shared with the Grid and must not be modified.
type FlatArrays struct {
	X, Y       []float32
	Neighbours [NumNeighbors][]int
}

// Flat returns the read-only flat arrays of the grid.
func (g *Grid) Flat() FlatArrays {
	return FlatArrays{X: g.xs, Y: g.ys, Neighbours: g.neighbours}
}
