package shape

import (
	"fmt"

	"github.com/janpfeifer/hexdomains/internal/generics"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
)

// Vertex of a Dirichlet domain: a hex corner where three identities meet, or where two
// identities meet the outer boundary of the grid.
type Vertex struct {
	// F is the identity of the cell that detected the vertex, the domain it belongs to.
	F float32

	// V is the location of the vertex.
	V hexgrid.Coord

	// Neighb holds the identities of the two other domains meeting at V. For a vertex found
	// on the outer boundary one of them is NoDomain.
	//
	// Walking the edge between F and Neighb.First leads, anticlockwise around F, to the next
	// vertex of F. Walking the edge between Neighb.First and Neighb.Second leads away from F.
	Neighb Pair

	// Cell is the index of the cell that detected the vertex.
	Cell int

	// OnBoundary is set if the detecting cell is on the outer boundary of the grid.
	OnBoundary bool

	// Closed is set once the vertex was visited while tracing a domain.
	Closed bool

	// PathToNext holds the corners from V to the next vertex of the domain F (both included),
	// once walked.
	PathToNext []hexgrid.Coord

	// PathToNeighbour holds the corners walked along the edge between Neighb.First and
	// Neighb.Second, once walked.
	PathToNeighbour []hexgrid.Coord
}

// String implements fmt.Stringer.
func (v *Vertex) String() string {
	return fmt.Sprintf("vertex %s of %g (cell %d), neighbours %g/%g", v.V, v.F, v.Cell, v.Neighb.First, v.Neighb.Second)
}

// TestVertex returns the candidate vertices detected by cell idx.
//
// A cell on the outer boundary whose neighbourhood holds at least two identities reports a
// vertex where the boundary cuts the edge between itself and a differing neighbour. Any cell
// whose neighbourhood holds at least three identities reports a vertex at each corner where it
// meets two neighbours of distinct identities, both different from its own. For each such corner
// Neighb.First is the identity anticlockwise of the corner.
func (a *Analysis) TestVertex(idx int) []Vertex {
	g := a.grid
	cell := g.Cell(idx)
	self := a.ids[idx]
	distinct := generics.SetWith(self)
	for _, nIdx := range g.NeighboursIter(idx) {
		distinct.Insert(a.ids[nIdx])
	}
	if len(distinct) < 2 {
		return nil
	}

	var vertices []Vertex
	newVertex := func(corner hexgrid.Corner, neighb Pair) {
		v := Vertex{
			F:          self,
			V:          g.Corner(idx, corner),
			Neighb:     neighb,
			Cell:       idx,
			OnBoundary: cell.Boundary,
		}
		a.logf(3, "cell %d: candidate at corner %s: %s", idx, corner, &v)
		vertices = append(vertices, v)
	}

	if cell.Boundary {
		for dir, nIdx := range g.NeighboursIter(idx) {
			nID := a.ids[nIdx]
			if nID == self {
				continue
			}
			switch {
			case g.Neighbour(idx, dir.Next()) == hexgrid.NoNeighbour:
				newVertex(hexgrid.Corner(dir), Pair{NoDomain, nID})
			case g.Neighbour(idx, dir.Prev()) == hexgrid.NoNeighbour:
				newVertex(hexgrid.Corner(dir.Prev()), Pair{nID, NoDomain})
			}
		}
	}

	if len(distinct) >= 3 {
		for dir, nIdx := range g.NeighboursIter(idx) {
			nID := a.ids[nIdx]
			if nID == self {
				continue
			}
			mIdx := g.Neighbour(idx, dir.Next())
			if mIdx == hexgrid.NoNeighbour {
				continue
			}
			if mID := a.ids[mIdx]; mID != self && mID != nID {
				newVertex(hexgrid.Corner(dir), Pair{mID, nID})
			}
		}
	}
	return vertices
}

// DetectVertices runs TestVertex on every cell, in index order, and stores the candidates in
// a.Vertices. It resets any previous detection, including closure marks.
func (a *Analysis) DetectVertices() []Vertex {
	a.Vertices = a.Vertices[:0]
	for idx := range a.grid.NumCells() {
		a.Vertices = append(a.Vertices, a.TestVertex(idx)...)
	}
	a.index = make(map[vertexKey][]int, len(a.Vertices))
	for ii := range a.Vertices {
		key := a.keyOf(&a.Vertices[ii])
		a.index[key] = append(a.index[key], ii)
	}
	a.detected = true
	a.logf(1, "detected %d candidate vertices in %d cells", len(a.Vertices), a.grid.NumCells())
	return a.Vertices
}

func (a *Analysis) keyOf(v *Vertex) vertexKey {
	return vertexKey{f: v.F, first: v.Neighb.First, second: v.Neighb.Second, corner: a.grid.KeyOf(v.V)}
}

func (a *Analysis) ensureDetected() {
	if !a.detected {
		a.DetectVertices()
	}
}

// findOpen returns the lowest index of an unclosed candidate vertex of domain f with the given
// neighbour pair at p.
func (a *Analysis) findOpen(f float32, neighb Pair, p hexgrid.Coord) (int, bool) {
	key := vertexKey{f: f, first: neighb.First, second: neighb.Second, corner: a.grid.KeyOf(p)}
	for _, ii := range a.index[key] {
		if v := &a.Vertices[ii]; !v.Closed && a.grid.SameCoord(v.V, p) {
			return ii, true
		}
	}
	return 0, false
}
