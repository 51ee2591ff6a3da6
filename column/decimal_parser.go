// decimal_parser.go - Parser for DECIMAL and floating point column types
package column

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/wilhasse/innopage/schema"
)

// DecimalParser handles DECIMAL/NUMERIC in MySQL's binary format and
// FLOAT/DOUBLE.
type DecimalParser struct {
	BaseParser
}

const digitsPerWord = schema.DigitsPerWord

// Parse parses a numeric value based on column type
func (p *DecimalParser) Parse(data []byte, col *schema.Column) (interface{}, error) {
	switch col.Type {
	case schema.TypeFloat:
		// stored in machine (little-endian) order
		if err := p.need(data, 4, col); err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(data)), nil

	case schema.TypeDouble:
		if err := p.need(data, 8, col); err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil

	case schema.TypeDecimal, schema.TypeNumeric:
		return p.parseDecimal(data, col)

	default:
		return nil, schema.ErrUnsupportedType
	}
}

// parseDecimal decodes groups of nine digits stored as 4-byte big-endian
// words, with shorter words for the leftover digits at either end. The
// first bit is flipped; negative values have every byte inverted.
func (p *DecimalParser) parseDecimal(data []byte, col *schema.Column) (decimal.Decimal, error) {
	if col.Precision <= 0 || col.Scale < 0 || col.Scale > col.Precision {
		return decimal.Decimal{}, errors.Errorf("column %s: bad DECIMAL(%d,%d)", col.Name, col.Precision, col.Scale)
	}
	size := schema.DecimalSize(col.Precision, col.Scale)
	if err := p.need(data, size, col); err != nil {
		return decimal.Decimal{}, err
	}
	buf := append([]byte(nil), data[:size]...)
	negative := buf[0]&0x80 == 0
	buf[0] ^= 0x80
	if negative {
		for i := range buf {
			buf[i] = ^buf[i]
		}
	}

	intg, frac := col.Precision-col.Scale, col.Scale
	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	off := 0
	word := func(n int) uint64 {
		v := p.readUint(buf[off:], n)
		off += n
		return v
	}

	wrote := false
	if lead := intg % digitsPerWord; lead > 0 {
		v := word(schema.DigitBytes[lead])
		if v > 0 {
			sb.WriteString(strconv.FormatUint(v, 10))
			wrote = true
		}
	}
	for i := 0; i < intg/digitsPerWord; i++ {
		v := word(4)
		if wrote {
			sb.WriteString(pad(v, digitsPerWord))
		} else if v > 0 {
			sb.WriteString(strconv.FormatUint(v, 10))
			wrote = true
		}
	}
	if !wrote {
		sb.WriteByte('0')
	}
	if frac > 0 {
		sb.WriteByte('.')
		for i := 0; i < frac/digitsPerWord; i++ {
			sb.WriteString(pad(word(4), digitsPerWord))
		}
		if tail := frac % digitsPerWord; tail > 0 {
			sb.WriteString(pad(word(schema.DigitBytes[tail]), tail))
		}
	}
	return decimal.NewFromString(sb.String())
}

func pad(v uint64, width int) string {
	s := strconv.FormatUint(v, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
