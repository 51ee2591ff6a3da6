// parser.go - Column parser interface and base implementation
package column

import (
	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/schema"
)

// Parser turns the stored bytes of one field into a Go value. data is the
// whole field as located by the record decoder.
type Parser interface {
	Parse(data []byte, col *schema.Column) (value interface{}, err error)
}

// BaseParser provides common functionality for column parsers
type BaseParser struct{}

func (p *BaseParser) need(data []byte, n int, col *schema.Column) error {
	if len(data) < n {
		return errors.Wrapf(format.ErrShortRead, "column %s (%s): %d of %d bytes", col.Name, col.Type, len(data), n)
	}
	return nil
}

// readUint reads an unsigned big-endian integer of width bytes
func (p *BaseParser) readUint(data []byte, width int) uint64 {
	v, _ := format.BeN(data, 0, width)
	return v
}

// readInt reads a signed integer stored with its sign bit flipped so that
// the bytes sort like the values.
func (p *BaseParser) readInt(data []byte, width int) int64 {
	v := p.readUint(data, width)
	sign := uint64(1) << (8*width - 1)
	v ^= sign
	if v&sign != 0 {
		v |= ^(sign<<1 - 1) // sign extend
	}
	return int64(v)
}
