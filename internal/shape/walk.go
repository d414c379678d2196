package shape

import (
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/pkg/errors"
)

// WalkResult describes where an edge walk ended.
type WalkResult struct {
	// Path of corners walked, starting at the vertex and ending at End.
	Path []hexgrid.Coord

	// End is the corner where the edge ended: either where a third identity appears or where
	// the edge reaches the outer boundary of the grid.
	End hexgrid.Coord

	// NextID is the third identity found at End, or NoDomain if the walk reached the outer
	// boundary.
	NextID float32

	// NextCell is the index of the cell holding NextID at End, or hexgrid.NoNeighbour.
	NextCell int
}

// WalkEdge follows the edge between the identities edge.First ("A") and edge.Second ("B"),
// starting at the vertex v, until a cell of a third identity or the outer boundary is found.
// The corners are appended to path, which may be nil.
//
// The walk starts on the cell with identity A at v, and moves along its corners away from v,
// keeping B on the other side of the edge. When the edge turns around a corner into another cell
// of A, the walk pivots to that cell.
//
// If expectedB is not hexgrid.NoNeighbour, only that cell is accepted as the cell of identity B
// flanking the first segment of the edge: this disambiguates vertices with more than one
// candidate edge between the same pair of identities.
//
// It returns an error wrapping ErrInvariant if the geometry around v doesn't match the edge.
func (a *Analysis) WalkEdge(v *Vertex, edge Pair, expectedB int, path []hexgrid.Coord) (WalkResult, error) {
	g := a.grid
	res := WalkResult{Path: path, NextID: NoDomain, NextCell: hexgrid.NoNeighbour}

	cellA, anchor := hexgrid.NoNeighbour, hexgrid.NoNeighbour
	for _, cIdx := range g.CellsAtCorner(v.Cell, v.V) {
		switch a.ids[cIdx] {
		case edge.First:
			if cellA == hexgrid.NoNeighbour {
				cellA = cIdx
			}
		case edge.Second:
		default:
			anchor = cIdx
		}
	}
	if cellA == hexgrid.NoNeighbour {
		return res, errors.Wrapf(ErrInvariant, "walking edge %g/%g: no cell of %g at %s", edge.First, edge.Second, edge.First, v)
	}
	corner0, _ := g.CornerOf(cellA, v.V)

	// The B side is either anticlockwise (the walk rotates anticlockwise around A) or clockwise.
	startDir, sense := hexgrid.E, 0
	for _, side := range [2]struct {
		dir   hexgrid.Direction
		sense int
	}{{hexgrid.Direction(corner0).Next(), 1}, {hexgrid.Direction(corner0), -1}} {
		nIdx := g.Neighbour(cellA, side.dir)
		if nIdx == hexgrid.NoNeighbour || a.ids[nIdx] != edge.Second {
			continue
		}
		if expectedB != hexgrid.NoNeighbour && nIdx != expectedB {
			continue
		}
		startDir, sense = side.dir, side.sense
		break
	}
	if sense == 0 {
		return res, errors.Wrapf(ErrInvariant, "walking edge %g/%g: no cell of %g (expected cell %d) next to cell %d at %s",
			edge.First, edge.Second, edge.Second, expectedB, cellA, v)
	}
	a.logf(2, "walking edge %g/%g from %s: A cell %d, anchor cell %d, B towards %s, sense %+d",
		edge.First, edge.Second, v.V, cellA, anchor, startDir, sense)

	res.Path = append(res.Path, v.V)
	maxCorners := hexgrid.NumCorners * g.NumCells()
	numCorners := 0
	cur := cellA
	for {
		prev := startDir
		pivoted := false
		for step := 1; step < hexgrid.NumNeighbors && !pivoted; step++ {
			numCorners++
			if numCorners > maxCorners {
				return res, errors.Wrapf(ErrInvariant, "walking edge %g/%g from %s: more than %d corners", edge.First, edge.Second, v.V, maxCorners)
			}
			dir := startDir.Rotate(sense * step)
			cornerIdx, _ := hexgrid.CornerBetween(prev, dir)
			corner := g.Corner(cur, cornerIdx)
			res.Path = append(res.Path, corner)
			nIdx := g.Neighbour(cur, dir)
			nID := a.id(nIdx)
			a.logf(3, "  cell %d corner %s at %s: %s neighbour %d (%g)", cur, cornerIdx, corner, dir, nIdx, nID)
			switch {
			case nIdx == hexgrid.NoNeighbour:
				res.End = corner
				a.logf(2, "  edge %g/%g reached the boundary at %s after %d corners", edge.First, edge.Second, corner, len(res.Path))
				return res, nil
			case nID == edge.Second:
				prev = dir
			case nID == edge.First:
				// Edge turns: continue around the new cell of A, starting from the last B.
				lastB := g.Neighbour(cur, prev)
				var ok bool
				startDir, ok = g.DirectionTo(nIdx, lastB)
				if !ok {
					return res, errors.Wrapf(ErrInvariant, "walking edge %g/%g: cells %d and %d are not neighbours", edge.First, edge.Second, nIdx, lastB)
				}
				cur = nIdx
				pivoted = true
			default:
				res.End, res.NextID, res.NextCell = corner, nID, nIdx
				a.logf(2, "  edge %g/%g ended at %s with %g after %d corners", edge.First, edge.Second, corner, nID, len(res.Path))
				return res, nil
			}
		}
		if !pivoted {
			return res, errors.Wrapf(ErrInvariant, "walking edge %g/%g: went around cell %d without leaving the edge", edge.First, edge.Second, cur)
		}
	}
}

// WalkToNext walks from the vertex ii to the next vertex of its domain, along the edge between
// F and Neighb.First. The corners walked are stored in PathToNext.
//
// Vertices whose Neighb.First is NoDomain have no such edge and are left untouched.
func (a *Analysis) WalkToNext(ii int, expectedB int) (WalkResult, error) {
	a.ensureDetected()
	v := &a.Vertices[ii]
	if v.Neighb.First == NoDomain {
		return WalkResult{NextID: NoDomain, NextCell: hexgrid.NoNeighbour}, nil
	}
	res, err := a.WalkEdge(v, Pair{v.F, v.Neighb.First}, expectedB, v.PathToNext[:0])
	v.PathToNext = res.Path
	return res, err
}

// WalkToNeighbour walks from the vertex ii along the edge between its two neighbouring domains,
// away from F. The corners walked are stored in PathToNeighbour.
//
// Vertices on the outer boundary of the grid are left untouched: one of their neighbours is
// NoDomain and there is no edge to walk.
func (a *Analysis) WalkToNeighbour(ii int) (WalkResult, error) {
	a.ensureDetected()
	v := &a.Vertices[ii]
	if v.Neighb.First == NoDomain || v.Neighb.Second == NoDomain {
		return WalkResult{NextID: NoDomain, NextCell: hexgrid.NoNeighbour}, nil
	}
	res, err := a.WalkEdge(v, v.Neighb, hexgrid.NoNeighbour, v.PathToNeighbour[:0])
	v.PathToNeighbour = res.Path
	return res, err
}
