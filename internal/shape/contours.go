package shape

import (
	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/pkg/errors"
)

func checkFields(grid *hexgrid.Grid, fields [][]float32) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrInvalidInput, "no fields given")
	}
	for ii, field := range fields {
		if len(field) != grid.NumCells() {
			return errors.Wrapf(ErrInvalidInput, "field #%d has %d values, grid has %d cells", ii, len(field), grid.NumCells())
		}
	}
	return nil
}

// Contours returns, for each field, the cells on its threshold contour, in cell index order.
//
// All fields are normalized jointly to [0, 1], using the minimum and maximum over all fields and
// all cells. A cell is on the contour of a field if its normalized value is above threshold and it
// is either on the grid boundary or has at least one neighbour at or below threshold.
// If all values are the same, all normalize to 0 and the contours are empty.
func Contours(grid *hexgrid.Grid, fields [][]float32, threshold float32) ([][]int, error) {
	if err := checkFields(grid, fields); err != nil {
		return nil, err
	}
	if !(threshold >= 0 && threshold <= 1) {
		return nil, errors.Wrapf(ErrInvalidInput, "threshold %g out of range [0, 1]", threshold)
	}
	minV, maxV := math32.Inf(1), math32.Inf(-1)
	for _, field := range fields {
		for _, v := range field {
			minV = min(minV, v)
			maxV = max(maxV, v)
		}
	}
	scale := float32(0)
	if maxV > minV {
		scale = 1 / (maxV - minV)
	}
	normalized := make([]float32, grid.NumCells())
	contours := make([][]int, len(fields))
	for fieldIdx, field := range fields {
		for idx, v := range field {
			normalized[idx] = (v - minV) * scale
		}
		contour := []int{}
		for idx, cell := range grid.Cells() {
			if normalized[idx] <= threshold {
				continue
			}
			onEdge := cell.Boundary
			for _, nIdx := range grid.NeighboursIter(idx) {
				if onEdge {
					break
				}
				onEdge = normalized[nIdx] <= threshold
			}
			if onEdge {
				contour = append(contour, idx)
			}
		}
		contours[fieldIdx] = contour
	}
	return contours, nil
}

// Regions labels each cell with the identity of the field with the largest value there: for the
// winning field i out of N, the identity is i/N. Ties go to the lowest field index.
func Regions(grid *hexgrid.Grid, fields [][]float32) ([]float32, error) {
	if err := checkFields(grid, fields); err != nil {
		return nil, err
	}
	n := float32(len(fields))
	ids := make([]float32, grid.NumCells())
	for idx := range ids {
		best, bestV := 0, fields[0][idx]
		for fieldIdx := 1; fieldIdx < len(fields); fieldIdx++ {
			if v := fields[fieldIdx][idx]; v > bestV {
				best, bestV = fieldIdx, v
			}
		}
		ids[idx] = float32(best) / n
	}
	return ids, nil
}
