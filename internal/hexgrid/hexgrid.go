// Package hexgrid holds a planar lattice of hexagonal cells: their positions, the neighbour
// relations in the 6 fixed directions and the geometry of their corners.
//
// Hexagons are "pointy-top": two vertices point vertically and two flat sides are perpendicular
// to the horizontal axis.
//
//	       N
//	  NW *   * NE
//	     *   *
//	  SW *   * SE
//	       S
//
// Cells live in a contiguous arena addressed by an integer index, and neighbour relations are
// stored as indices, with NoNeighbour marking a missing neighbour (e.g. across the outer boundary).
package hexgrid

import (
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// NumNeighbors of each cell: the lattice is hexagonal.
	NumNeighbors = 6

	// NumCorners of each cell.
	NumCorners = 6

	// NoNeighbour is the sentinel index for a missing neighbour.
	NoNeighbour = -1

	// Tolerance used when comparing coordinates, relative to the long radius of the cells.
	// Two coordinates closer than Tolerance*LR are considered the same point.
	Tolerance = 0.001
)

// Sqrt3 is used all over the geometry of the hexagons.
var Sqrt3 = math32.Sqrt(3)

// Direction to one of the 6 neighbours of a cell. Directions are enumerated anticlockwise,
// starting from East.
type Direction uint8

const (
	E Direction = iota
	NE
	NW
	W
	SW
	SE
)

var directionNames = [NumNeighbors]string{"E", "NE", "NW", "W", "SW", "SE"}

// String returns the short compass name of the direction.
func (d Direction) String() string {
	if d >= NumNeighbors {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Rotate returns the direction rotated by steps: positive is anticlockwise, negative clockwise.
func (d Direction) Rotate(steps int) Direction {
	return Direction(((int(d)+steps)%NumNeighbors + NumNeighbors) % NumNeighbors)
}

// Next direction, anticlockwise.
func (d Direction) Next() Direction { return d.Rotate(1) }

// Prev direction, clockwise.
func (d Direction) Prev() Direction { return d.Rotate(-1) }

// Opposite direction.
func (d Direction) Opposite() Direction { return d.Rotate(3) }

// Corner of a cell. Corner k lies between the neighbours in Direction k and Direction k+1,
// so CornerNE is shared by the cell and its E and NE neighbours.
type Corner uint8

const (
	CornerNE Corner = iota
	CornerN
	CornerNW
	CornerSW
	CornerS
	CornerSE
)

var cornerNames = [NumCorners]string{"NE", "N", "NW", "SW", "S", "SE"}

func (c Corner) String() string {
	if c >= NumCorners {
		return fmt.Sprintf("Corner(%d)", uint8(c))
	}
	return cornerNames[c]
}

// CornerBetween returns the corner shared by two adjacent directions, in any order.
// It returns false if the directions are not adjacent.
func CornerBetween(a, b Direction) (Corner, bool) {
	switch {
	case b == a.Next():
		return Corner(a), true
	case a == b.Next():
		return Corner(b), true
	}
	return 0, false
}

// Pos is the position of a cell in lattice indices: R grows East and G grows North-East.
type Pos [2]int

// R index: positive "East", that is in the +x direction.
func (p Pos) R() int { return p[0] }

// G index: positive "North-East", 60 degrees North of East.
func (p Pos) G() int { return p[1] }

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p[0], p[1])
}

var neighborRelPositions = [NumNeighbors]Pos{{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1}}

// Neighbour returns the lattice position of the neighbour in the given direction.
func (p Pos) Neighbour(dir Direction) Pos {
	rel := neighborRelPositions[dir]
	return Pos{p[0] + rel[0], p[1] + rel[1]}
}

// Distance in number of steps between two lattice positions.
func (p Pos) Distance(p2 Pos) int {
	dr, dg := p[0]-p2[0], p[1]-p2[1]
	return max(abs(dr), abs(dg), abs(dr+dg))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Coord is a planar Cartesian coordinate.
type Coord [2]float32

// X coordinate.
func (c Coord) X() float32 { return c[0] }

// Y coordinate.
func (c Coord) Y() float32 { return c[1] }

// Sub returns c - c2.
func (c Coord) Sub(c2 Coord) Coord {
	return Coord{c[0] - c2[0], c[1] - c2[1]}
}

// Distance from c to c2.
func (c Coord) Distance(c2 Coord) float32 {
	return math32.Hypot(c[0]-c2[0], c[1]-c2[1])
}

// String returns a text representation of Coord.
func (c Coord) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c[0], c[1])
}
