package store

import (
	"context"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// Encoder is satisfied by gob.Encoder, or any other encoder that takes arbitrary values.
type Encoder interface {
	Encode(v any) error
}

// Decoder is satisfied by gob.Decoder.
type Decoder interface {
	Decode(v any) error
}

// Gob sink: writes a stream of (container, records) pairs to an Encoder.
type Gob struct {
	enc    Encoder
	closer io.Closer
}

var _ Sink = (*Gob)(nil)

// NewGob creates a Gob sink writing to w. If w is also an io.Closer, it is closed by Close.
func NewGob(w io.Writer) *Gob {
	g := &Gob{enc: gob.NewEncoder(w)}
	if closer, ok := w.(io.Closer); ok {
		g.closer = closer
	}
	return g
}

// NewGobWithEncoder creates a Gob sink with the given encoder.
func NewGobWithEncoder(enc Encoder) *Gob {
	return &Gob{enc: enc}
}

// Save implements Sink.
func (g *Gob) Save(ctx context.Context, container string, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.enc.Encode(container); err != nil {
		return errors.Wrapf(err, "failed to encode container name %q", container)
	}
	if err := g.enc.Encode(records); err != nil {
		return errors.Wrapf(err, "failed to encode %d records of container %q", len(records), container)
	}
	return nil
}

// Close implements Sink.
func (g *Gob) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

// LoadGob reads the next container saved by a Gob sink. It returns io.EOF (unwrapped) at the
// end of the stream.
func LoadGob(dec Decoder) (container string, records []Record, err error) {
	if err = dec.Decode(&container); err != nil {
		if err == io.EOF {
			return
		}
		err = errors.Wrap(err, "failed to decode container name")
		return
	}
	if err = dec.Decode(&records); err != nil {
		err = errors.Wrapf(err, "failed to decode records of container %q", container)
	}
	return
}
