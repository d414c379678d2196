// Package store persists the vertices of Dirichlet domains.
//
// Vertex sets are saved under a named container (e.g. the scene name), as flat records with the
// vertex location, its domain identity and the identities of its two neighbours.
package store

import (
	"context"

	"github.com/janpfeifer/hexdomains/internal/shape"
)

// Record of one vertex of a domain.
type Record struct {
	// Domain is the position of the domain in the saved set.
	Domain int

	X, Y          float32
	F             float32
	First, Second float32
}

// Sink where vertex sets are saved.
type Sink interface {
	// Save the records under the given container, replacing any previous content.
	Save(ctx context.Context, container string, records []Record) error

	// Close the sink, flushing any pending data.
	Close() error
}

// Records flattens the vertices of the domains, in order.
func Records(domains []shape.Domain) []Record {
	var records []Record
	for domainIdx, domain := range domains {
		for _, v := range domain.Vertices {
			records = append(records, Record{
				Domain: domainIdx,
				X:      v.V.X(),
				Y:      v.V.Y(),
				F:      v.F,
				First:  v.Neighb.First,
				Second: v.Neighb.Second,
			})
		}
	}
	return records
}
