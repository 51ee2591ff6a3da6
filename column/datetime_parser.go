// datetime_parser.go - Parser for date and time column types
package column

import (
	"fmt"
	"time"

	"github.com/wilhasse/innopage/schema"
)

// DateTimeParser handles DATE, TIME, DATETIME, TIMESTAMP and YEAR in the
// storage formats of MySQL 5.6.4 and later.
type DateTimeParser struct {
	BaseParser
}

func fracBytes(precision int) int { return (precision + 1) / 2 }

// Parse parses date/time value based on column type
func (p *DateTimeParser) Parse(data []byte, col *schema.Column) (interface{}, error) {
	switch col.Type {
	case schema.TypeDate:
		// 3 bytes: year(15) month(4) day(5), sign bit flipped
		if err := p.need(data, 3, col); err != nil {
			return nil, err
		}
		val := p.readUint(data, 3) ^ 0x800000
		day := val & 0x1F
		month := val >> 5 & 0x0F
		year := val >> 9
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil

	case schema.TypeTimestamp:
		// 4 bytes of Unix seconds, then the fraction
		n := 4 + fracBytes(col.Precision)
		if err := p.need(data, n, col); err != nil {
			return nil, err
		}
		sec := p.readUint(data, 4)
		if sec == 0 {
			return "0000-00-00 00:00:00", nil
		}
		t := time.Unix(int64(sec), 0).UTC()
		return t.Format("2006-01-02 15:04:05") + p.fraction(data[4:n], col.Precision), nil

	case schema.TypeDateTime:
		// 5 bytes: sign(1) year*13+month(17) day(5) hour(5) minute(6) second(6)
		n := 5 + fracBytes(col.Precision)
		if err := p.need(data, n, col); err != nil {
			return nil, err
		}
		packed := p.readUint(data, 5) - 0x8000000000
		second := packed & 0x3F
		minute := packed >> 6 & 0x3F
		hour := packed >> 12 & 0x1F
		day := packed >> 17 & 0x1F
		yearMonth := packed >> 22 & 0x1FFFF
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d%s",
			yearMonth/13, yearMonth%13, day, hour, minute, second,
			p.fraction(data[5:n], col.Precision)), nil

	case schema.TypeTime:
		// 3 bytes: sign(1) unused(1) hour(10) minute(6) second(6), then
		// the fraction; the whole value is offset to keep it unsigned
		fb := fracBytes(col.Precision)
		n := 3 + fb
		if err := p.need(data, n, col); err != nil {
			return nil, err
		}
		v := int64(p.readUint(data, n)) - int64(0x800000)<<(8*fb)
		sign := ""
		if v < 0 {
			sign, v = "-", -v
		}
		intpart := uint64(v) >> (8 * fb)
		frac := uint64(v) & (1<<(8*fb) - 1)
		return fmt.Sprintf("%s%02d:%02d:%02d%s", sign,
			intpart>>12&0x3FF, intpart>>6&0x3F, intpart&0x3F,
			p.fractionValue(frac, col.Precision)), nil

	case schema.TypeYear:
		if err := p.need(data, 1, col); err != nil {
			return nil, err
		}
		if data[0] == 0 {
			return uint16(0), nil
		}
		return uint16(data[0]) + 1900, nil

	default:
		return nil, schema.ErrUnsupportedType
	}
}

// fraction renders stored fractional seconds as ".ddd" with precision
// digits, or "" when the precision is 0.
func (p *DateTimeParser) fraction(data []byte, precision int) string {
	if precision <= 0 || len(data) == 0 {
		return ""
	}
	return p.fractionValue(p.readUint(data, len(data)), precision)
}

func (p *DateTimeParser) fractionValue(frac uint64, precision int) string {
	if precision <= 0 {
		return ""
	}
	// 1, 2 or 3 bytes hold units of 10^4, 10^2 or 1 microseconds
	usec := frac
	for b := fracBytes(precision); b < 3; b++ {
		usec *= 100
	}
	return fmt.Sprintf(".%06d", usec)[:precision+1]
}
