// Package shape analyses scalar fields sampled on a hexagonal grid.
//
// It extracts threshold contours, partitions the grid into winner-take-all regions (each cell
// labelled by an identity, the normalized index of the field that wins there) and, from such a
// labelling, reconstructs the boundaries of the Dirichlet domains: polygons traced along the hex
// edges between regions, whose vertices are the points where three regions meet.
//
// Identities are float32 values compared exactly; NoDomain marks "outside the grid".
package shape

import (
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/janpfeifer/hexdomains/internal/parameters"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// NoDomain is the identity used for "no domain": beyond the outer boundary of the grid.
// Valid identities are in [0, 1).
const NoDomain float32 = -1

var (
	// ErrInvalidInput is returned when fields, identities or thresholds are inconsistent with
	// the grid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariant is returned when the geometry contradicts what the algorithms expect, e.g.
	// a vertex that is not a corner of a cell with the walked identity. It is fatal.
	ErrInvariant = errors.New("geometric invariant violated")

	// ErrDomainNotClosed is returned when tracing a domain doesn't close back on its starting
	// vertex, usually because it reached the grid boundary. It is recoverable: the orchestrating
	// DirichletVertices skips such domains.
	ErrDomainNotClosed = errors.New("domain not closed")

	// ErrStepLimit is returned when tracing a domain takes more steps than allowed by
	// Options.MaxStepsFactor. It is fatal.
	ErrStepLimit = errors.New("domain tracing step limit exceeded")
)

// Options for an Analysis.
type Options struct {
	// MaxStepsFactor bounds the number of vertices visited when tracing a domain to
	// MaxStepsFactor times the number of candidate vertices.
	MaxStepsFactor int

	// Islands enables DirichletDomains to also report domains completely enclosed by a single
	// other domain, which have no triple-point vertices.
	Islands bool

	// Logf receives the trace of the analysis. Level 1 is per domain, level 2 per edge walk and
	// level 3 per corner. If nil, klog is used with the corresponding verbosity.
	Logf func(level int, format string, args ...any)
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		MaxStepsFactor: 4,
		Islands:        true,
	}
}

// OptionsFromParams pops the analysis parameters from params, starting from DefaultOptions:
//
//   - max_steps_factor: see Options.MaxStepsFactor.
//   - islands: see Options.Islands.
//   - trace: if > 0, log the trace up to this level regardless of the klog verbosity.
//
// Parameters not recognized are left in params.
func OptionsFromParams(params parameters.Params) (Options, error) {
	opts := DefaultOptions()
	var err error
	opts.MaxStepsFactor, err = parameters.PopParamOr(params, "max_steps_factor", opts.MaxStepsFactor)
	if err != nil {
		return opts, err
	}
	if opts.MaxStepsFactor <= 0 {
		return opts, errors.Wrapf(ErrInvalidInput, "max_steps_factor=%d must be positive", opts.MaxStepsFactor)
	}
	opts.Islands, err = parameters.PopParamOr(params, "islands", opts.Islands)
	if err != nil {
		return opts, err
	}
	trace, err := parameters.PopParamOr(params, "trace", 0)
	if err != nil {
		return opts, err
	}
	if trace > 0 {
		opts.Logf = func(level int, format string, args ...any) {
			if level <= trace {
				klog.InfofDepth(1, format, args...)
			}
		}
	}
	return opts, nil
}

func klogf(level int, format string, args ...any) {
	if klog.V(klog.Level(level)).Enabled() {
		klog.InfofDepth(2, format, args...)
	}
}

// Pair of identities associated to a vertex.
type Pair struct {
	First, Second float32
}

// Analysis of the Dirichlet domains of one labelling of a grid.
//
// It holds the candidate vertices, which are mutated in place as domains are traced, so an
// Analysis must not be used concurrently. Different Analysis objects may share the same grid.
type Analysis struct {
	grid *hexgrid.Grid
	ids  []float32
	opts Options
	logf func(level int, format string, args ...any)

	// Vertices are the candidate vertices, in cell index order, once detected.
	Vertices []Vertex
	detected bool

	// index of the candidate vertices by (F, Neighb, corner location).
	index map[vertexKey][]int
}

type vertexKey struct {
	f, first, second float32
	corner           hexgrid.CornerKey
}

// New creates an Analysis for the identities ids (one per cell of grid, typically the output of
// Regions). The slice is not copied and must not be modified while the Analysis is in use.
func New(grid *hexgrid.Grid, ids []float32, opts Options) (*Analysis, error) {
	if len(ids) != grid.NumCells() {
		return nil, errors.Wrapf(ErrInvalidInput, "got %d identities for a grid with %d cells", len(ids), grid.NumCells())
	}
	if opts.MaxStepsFactor <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "MaxStepsFactor must be positive, got %d", opts.MaxStepsFactor)
	}
	a := &Analysis{grid: grid, ids: ids, opts: opts, logf: opts.Logf}
	if a.logf == nil {
		a.logf = klogf
	}
	return a, nil
}

// Grid used by the analysis.
func (a *Analysis) Grid() *hexgrid.Grid { return a.grid }

// IDs returns the identity of each cell.
func (a *Analysis) IDs() []float32 { return a.ids }

// id returns the identity of cell idx, or NoDomain if idx is hexgrid.NoNeighbour.
func (a *Analysis) id(idx int) float32 {
	if idx == hexgrid.NoNeighbour {
		return NoDomain
	}
	return a.ids[idx]
}
