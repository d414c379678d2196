// Package scene loads the description of an analysis from YAML: the grid, the scalar fields
// sampled on it and the contour threshold.
//
// Example:
//
//	name: two-blobs
//	grid:
//	  shape: rectangle
//	  width: 20
//	  height: 20
//	  spacing: 1
//	threshold: 0.5
//	fields:
//	  - blobs:
//	      - {x: 5, y: 8, sigma: 3}
//	  - cone: {x: 14, y: 8, slope: 0.1}
//	  - values: [...] # One value per cell, in cell index order.
package scene

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Grid shapes.
const (
	Rectangle = "rectangle"
	Hexagon   = "hexagon"
)

// Scene to analyse.
type Scene struct {
	// Name of the scene, used as the container name when saving results. Defaults to the file
	// name without extension.
	Name string `yaml:"name"`

	Grid GridSpec `yaml:"grid"`

	// Threshold for the contours, in [0, 1].
	Threshold float32 `yaml:"threshold"`

	Fields []FieldSpec `yaml:"fields"`
}

// GridSpec describes the hexagonal grid.
type GridSpec struct {
	// Shape is either "rectangle" (uses Width and Height) or "hexagon" (uses Rings).
	Shape  string `yaml:"shape"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Rings  int    `yaml:"rings,omitempty"`

	// Spacing between the centers of neighbouring cells. Defaults to 1.
	Spacing float32 `yaml:"spacing,omitempty"`
}

// FieldSpec describes one scalar field: exactly one of Values, Blobs or Cone must be set.
type FieldSpec struct {
	Values []float32 `yaml:"values,omitempty"`
	Blobs  []Blob    `yaml:"blobs,omitempty"`
	Cone   *Cone     `yaml:"cone,omitempty"`
}

// Blob is a Gaussian bump: Amplitude * exp(-d^2 / (2*Sigma^2)), d the distance to (X, Y).
type Blob struct {
	X         float32 `yaml:"x"`
	Y         float32 `yaml:"y"`
	Sigma     float32 `yaml:"sigma"`
	Amplitude float32 `yaml:"amplitude,omitempty"` // Defaults to 1.
}

// Cone decreases linearly with the distance to (X, Y): -Slope * d.
type Cone struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Slope float32 `yaml:"slope,omitempty"` // Defaults to 1.
}

// Load the scene from a YAML file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open scene file")
	}
	defer func() { _ = f.Close() }()
	s, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "scene file %q", path)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse a scene in YAML. Unknown keys are an error.
func Parse(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to parse scene")
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseBytes is like Parse, for a scene in memory.
func ParseBytes(data []byte) (*Scene, error) {
	return Parse(bytes.NewReader(data))
}

func (s *Scene) applyDefaults() {
	s.Grid.Shape = strings.ToLower(s.Grid.Shape)
	if s.Grid.Spacing == 0 {
		s.Grid.Spacing = 1
	}
	for ii := range s.Fields {
		for jj := range s.Fields[ii].Blobs {
			if s.Fields[ii].Blobs[jj].Amplitude == 0 {
				s.Fields[ii].Blobs[jj].Amplitude = 1
			}
		}
		if cone := s.Fields[ii].Cone; cone != nil && cone.Slope == 0 {
			cone.Slope = 1
		}
	}
}

// Validate the scene, without building the grid.
func (s *Scene) Validate() error {
	switch s.Grid.Shape {
	case Rectangle:
		if s.Grid.Width <= 0 || s.Grid.Height <= 0 {
			return errors.Errorf("rectangle grid needs positive width and height, got %dx%d", s.Grid.Width, s.Grid.Height)
		}
	case Hexagon:
		if s.Grid.Rings < 0 {
			return errors.Errorf("hexagon grid needs rings >= 0, got %d", s.Grid.Rings)
		}
	default:
		return errors.Errorf("unknown grid shape %q, valid shapes are %q and %q", s.Grid.Shape, Rectangle, Hexagon)
	}
	if !(s.Grid.Spacing > 0) {
		return errors.Errorf("grid spacing must be positive, got %g", s.Grid.Spacing)
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		return errors.Errorf("threshold %g out of range [0, 1]", s.Threshold)
	}
	if len(s.Fields) == 0 {
		return errors.New("scene has no fields")
	}
	for ii, field := range s.Fields {
		var numSet int
		if field.Values != nil {
			numSet++
		}
		if field.Blobs != nil {
			numSet++
			for _, blob := range field.Blobs {
				if !(blob.Sigma > 0) {
					return errors.Errorf("field #%d: blob sigma must be positive, got %g", ii, blob.Sigma)
				}
			}
		}
		if field.Cone != nil {
			numSet++
		}
		if numSet != 1 {
			return errors.Errorf("field #%d must set exactly one of values, blobs or cone", ii)
		}
	}
	return nil
}

// NewGrid builds the grid of the scene.
func (s *Scene) NewGrid() (*hexgrid.Grid, error) {
	if s.Grid.Shape == Hexagon {
		return hexgrid.NewHexagon(s.Grid.Rings, s.Grid.Spacing)
	}
	return hexgrid.NewRectangle(s.Grid.Width, s.Grid.Height, s.Grid.Spacing)
}

// Sample the fields of the scene on the grid.
func (s *Scene) Sample(g *hexgrid.Grid) ([][]float32, error) {
	fields := make([][]float32, len(s.Fields))
	for ii, spec := range s.Fields {
		if spec.Values != nil {
			if len(spec.Values) != g.NumCells() {
				return nil, errors.Errorf("field #%d has %d values, but the grid has %d cells", ii, len(spec.Values), g.NumCells())
			}
			fields[ii] = spec.Values
			continue
		}
		field := make([]float32, g.NumCells())
		for idx, cell := range g.Cells() {
			field[idx] = spec.at(cell.Center)
		}
		fields[ii] = field
	}
	return fields, nil
}

func (spec *FieldSpec) at(p hexgrid.Coord) float32 {
	if spec.Cone != nil {
		return -spec.Cone.Slope * p.Distance(hexgrid.Coord{spec.Cone.X, spec.Cone.Y})
	}
	var sum float32
	for _, blob := range spec.Blobs {
		d := p.Distance(hexgrid.Coord{blob.X, blob.Y})
		sum += blob.Amplitude * math32.Exp(-d*d/(2*blob.Sigma*blob.Sigma))
	}
	return sum
}
