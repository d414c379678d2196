package shape

import (
	"github.com/janpfeifer/hexdomains/internal/generics"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/pkg/errors"
)

// Islands returns the domains that are fully enclosed by a single other domain and don't touch
// the outer boundary of the grid. They have no triple point, so DirichletVertices can't find them.
//
// An island's vertices are the concave corners of its outline (where the outline turns towards
// the outside), each with Neighb set to (island identity, surrounding identity), and
// PathToNext following the outline anticlockwise. Islands with fewer than 3 such corners are
// not reported.
//
// Connected components of cells are searched in cell index order.
func (a *Analysis) Islands() ([]Domain, error) {
	g := a.grid
	visited := make([]bool, g.NumCells())
	var islands []Domain
	for seed := range g.NumCells() {
		if visited[seed] {
			continue
		}
		component, outside, touchesBoundary := a.component(seed, visited)
		if touchesBoundary || len(outside) != 1 {
			continue
		}
		var surrounding float32
		for id := range outside {
			surrounding = id
		}
		island, err := a.traceIsland(component, surrounding)
		if err != nil {
			return islands, err
		}
		if len(island.Vertices) < 3 {
			a.logf(1, "island %g with %d cells has only %d concave corners, skipping", a.ids[seed], len(component), len(island.Vertices))
			continue
		}
		a.logf(1, "island %g in %g: %d cells, %d vertices", island.ID, surrounding, len(component), len(island.Vertices))
		islands = append(islands, island)
	}
	return islands, nil
}

// component returns the connected cells with the same identity as seed, the identities of the
// cells around it and whether any of its cells is on the outer boundary.
func (a *Analysis) component(seed int, visited []bool) (cells []int, outside generics.Set[float32], touchesBoundary bool) {
	g := a.grid
	id := a.ids[seed]
	outside = generics.MakeSet[float32]()
	visited[seed] = true
	toVisit := []int{seed}
	for len(toVisit) > 0 {
		idx := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]
		cells = append(cells, idx)
		touchesBoundary = touchesBoundary || g.Cell(idx).Boundary
		for _, nIdx := range g.NeighboursIter(idx) {
			switch {
			case a.ids[nIdx] != id:
				outside.Insert(a.ids[nIdx])
			case !visited[nIdx]:
				visited[nIdx] = true
				toVisit = append(toVisit, nIdx)
			}
		}
	}
	return
}

// traceIsland walks the outline of the component anticlockwise, starting at the S corner of its
// lowest (then leftmost) cell.
func (a *Analysis) traceIsland(cells []int, surrounding float32) (Domain, error) {
	g := a.grid
	startCell := cells[0]
	for _, idx := range cells[1:] {
		c, best := g.Cell(idx).Center, g.Cell(startCell).Center
		if c.Y() < best.Y() || (c.Y() == best.Y() && c.X() < best.X()) {
			startCell = idx
		}
	}
	id := a.ids[startCell]
	startCorner := g.Corner(startCell, hexgrid.CornerS)
	corners := []hexgrid.Coord{startCorner}
	type pivot struct {
		corner, cell int
	}
	var pivots []pivot

	cur, startDir := startCell, hexgrid.SE
	maxCorners := hexgrid.NumCorners * g.NumCells()
outline:
	for {
		prev := startDir
		pivoted := false
		// A single cell closes on its 6th corner.
		for step := 1; step <= hexgrid.NumNeighbors && !pivoted; step++ {
			if len(corners) > maxCorners {
				return Domain{}, errors.Wrapf(ErrInvariant, "tracing island %g: more than %d corners", id, maxCorners)
			}
			dir := startDir.Rotate(step)
			cornerIdx, _ := hexgrid.CornerBetween(prev, dir)
			corner := g.Corner(cur, cornerIdx)
			if g.SameCoord(corner, startCorner) {
				break outline
			}
			corners = append(corners, corner)
			nIdx := g.Neighbour(cur, dir)
			switch a.id(nIdx) {
			case surrounding:
				prev = dir
			case id:
				pivots = append(pivots, pivot{corner: len(corners) - 1, cell: cur})
				lastOutside := g.Neighbour(cur, prev)
				startDir, _ = g.DirectionTo(nIdx, lastOutside)
				cur = nIdx
				pivoted = true
			default:
				return Domain{}, errors.Wrapf(ErrInvariant, "tracing island %g in %g: cell %d has identity %g",
					id, surrounding, nIdx, a.id(nIdx))
			}
		}
		if !pivoted {
			return Domain{}, errors.Wrapf(ErrInvariant, "tracing island %g: went around cell %d without leaving the outline", id, cur)
		}
	}

	island := Domain{ID: id, Island: true}
	for ii, p := range pivots {
		var path []hexgrid.Coord
		next := pivots[(ii+1)%len(pivots)].corner
		if next > p.corner {
			path = append(path, corners[p.corner:next+1]...)
		} else {
			path = append(path, corners[p.corner:]...)
			path = append(path, corners[:next+1]...)
		}
		island.Vertices = append(island.Vertices, Vertex{
			F:          id,
			V:          corners[p.corner],
			Neighb:     Pair{id, surrounding},
			Cell:       p.cell,
			Closed:     true,
			PathToNext: path,
		})
	}
	return island, nil
}
