package shape

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/pkg/errors"
)

// Domain is a closed Dirichlet domain: a polygon along hex edges around all the cells of one
// identity, given by its vertices in anticlockwise order.
type Domain struct {
	// ID is the identity of the cells inside the domain.
	ID float32

	// Vertices of the domain, each with the PathToNext leading to the following one.
	Vertices []Vertex

	// Island is set for domains fully enclosed by a single other domain.
	Island bool
}

// Polygon returns the outline of the domain: the concatenation of the paths between the
// vertices, without repeating the shared end points.
func (d *Domain) Polygon() []hexgrid.Coord {
	var polygon []hexgrid.Coord
	for ii := range d.Vertices {
		path := d.Vertices[ii].PathToNext
		if len(path) == 0 {
			polygon = append(polygon, d.Vertices[ii].V)
			continue
		}
		polygon = append(polygon, path[:len(path)-1]...)
	}
	return polygon
}

// Area enclosed by the polygon of the domain.
func (d *Domain) Area() float32 {
	return math32.Abs(signedArea(d.Polygon()))
}

func signedArea(polygon []hexgrid.Coord) float32 {
	var sum float32
	for ii, p := range polygon {
		q := polygon[(ii+1)%len(polygon)]
		sum += p.X()*q.Y() - q.X()*p.Y()
	}
	return sum / 2
}

// Perimeter of the polygon of the domain.
func (d *Domain) Perimeter() float32 {
	polygon := d.Polygon()
	var sum float32
	for ii, p := range polygon {
		sum += p.Distance(polygon[(ii+1)%len(polygon)])
	}
	return sum
}

// Centroid of the area enclosed by the polygon of the domain.
func (d *Domain) Centroid() hexgrid.Coord {
	polygon := d.Polygon()
	var cx, cy, area float32
	for ii, p := range polygon {
		q := polygon[(ii+1)%len(polygon)]
		cross := p.X()*q.Y() - q.X()*p.Y()
		area += cross
		cx += (p.X() + q.X()) * cross
		cy += (p.Y() + q.Y()) * cross
	}
	if area == 0 {
		return hexgrid.Coord{}
	}
	area /= 2
	return hexgrid.Coord{cx / (6 * area), cy / (6 * area)}
}

// ProcessDomain traces the domain of the vertex start: it walks to the next vertex of the
// domain, looks up the open candidate vertex there and repeats, until it arrives back at start.
//
// Every vertex visited is marked closed, even if the domain fails to close. The failure to close
// (returned as ErrDomainNotClosed) happens when no open candidate matches the end of a walk, or
// when the domain reaches a vertex on the outer boundary. Exceeding the step limit returns
// ErrStepLimit, and geometric inconsistencies return ErrInvariant.
func (a *Analysis) ProcessDomain(start int) (Domain, error) {
	a.ensureDetected()
	first := &a.Vertices[start]
	if first.Closed {
		return Domain{}, errors.Wrapf(ErrDomainNotClosed, "%s already closed", first)
	}
	if first.OnBoundary {
		return Domain{}, errors.Wrapf(ErrDomainNotClosed, "%s is on the boundary", first)
	}
	a.logf(1, "tracing domain %g from %s", first.F, first)

	maxSteps := a.opts.MaxStepsFactor * len(a.Vertices)
	var members []int
	cur, expectedB := start, hexgrid.NoNeighbour
	for {
		if len(members) >= maxSteps {
			return Domain{}, errors.Wrapf(ErrStepLimit, "tracing domain %g from %s: %d steps", first.F, first, maxSteps)
		}
		v := &a.Vertices[cur]
		v.Closed = true
		members = append(members, cur)
		res, err := a.WalkToNext(cur, expectedB)
		if err != nil {
			return Domain{}, errors.WithMessagef(err, "tracing domain %g from %s", first.F, first)
		}
		if a.grid.SameCoord(res.End, first.V) {
			break
		}
		next, found := a.findOpen(v.F, Pair{res.NextID, v.Neighb.First}, res.End)
		if !found {
			return Domain{}, errors.Wrapf(ErrDomainNotClosed, "tracing domain %g from %s: no open vertex at %s with neighbours %g/%g",
				first.F, first, res.End, res.NextID, v.Neighb.First)
		}
		if a.Vertices[next].OnBoundary {
			return Domain{}, errors.Wrapf(ErrDomainNotClosed, "tracing domain %g from %s: reached boundary %s",
				first.F, first, &a.Vertices[next])
		}
		cur, expectedB = next, res.NextCell
	}

	domain := Domain{ID: first.F, Vertices: make([]Vertex, 0, len(members))}
	for _, ii := range members {
		v := a.Vertices[ii]
		v.PathToNext = slices.Clone(v.PathToNext)
		domain.Vertices = append(domain.Vertices, v)
	}
	a.logf(1, "closed domain %g with %d vertices", domain.ID, len(domain.Vertices))
	return domain, nil
}

// DirichletVertices detects the candidate vertices (if not yet detected) and traces a domain from
// every candidate not on the outer boundary and not yet closed, in index order.
// Domains that fail to close are skipped.
//
// It returns the closed domains in the order they were found. On a fatal error (ErrInvariant or
// ErrStepLimit) it returns the domains closed so far along with the error.
func (a *Analysis) DirichletVertices() ([]Domain, error) {
	a.ensureDetected()
	var domains []Domain
	for ii := range a.Vertices {
		v := &a.Vertices[ii]
		if v.Closed || v.OnBoundary {
			continue
		}
		domain, err := a.ProcessDomain(ii)
		if err != nil {
			if errors.Is(err, ErrDomainNotClosed) {
				a.logf(1, "skipping domain: %v", err)
				continue
			}
			return domains, err
		}
		domains = append(domains, domain)
	}
	return domains, nil
}

// DirichletDomains returns the domains found by DirichletVertices followed, if Options.Islands is
// set, by the islands.
func (a *Analysis) DirichletDomains() ([]Domain, error) {
	domains, err := a.DirichletVertices()
	if err != nil || !a.opts.Islands {
		return domains, err
	}
	islands, err := a.Islands()
	return append(domains, islands...), err
}
