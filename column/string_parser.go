// string_parser.go - Parser for string, binary and set-like column types
package column

import (
	"strings"

	"github.com/wilhasse/innopage/schema"
)

// StringParser handles VARCHAR, CHAR, TEXT, binary, ENUM, SET and BIT
type StringParser struct {
	BaseParser
}

// Parse parses string value based on column type
func (p *StringParser) Parse(data []byte, col *schema.Column) (interface{}, error) {
	switch col.Type {
	case schema.TypeChar:
		// CHAR is padded with spaces to its declared length
		return strings.TrimRight(string(data), " "), nil

	case schema.TypeVarchar, schema.TypeText, schema.TypeTinyText,
		schema.TypeMediumText, schema.TypeLongText, schema.TypeJSON:
		return string(data), nil

	case schema.TypeBinary, schema.TypeVarBinary, schema.TypeBlob, schema.TypeTinyBlob,
		schema.TypeMediumBlob, schema.TypeLongBlob:
		return append([]byte(nil), data...), nil

	case schema.TypeEnum:
		if err := p.need(data, 1, col); err != nil {
			return nil, err
		}
		idx := int(p.readUint(data, min(len(data), 2)))
		if idx == 0 || idx > len(col.EnumValues) {
			return "", nil
		}
		return col.EnumValues[idx-1], nil

	case schema.TypeSet:
		if err := p.need(data, 1, col); err != nil {
			return nil, err
		}
		bits := p.readUint(data, min(len(data), 8))
		var out []string
		for i, v := range col.SetValues {
			if bits&(1<<uint(i)) != 0 {
				out = append(out, v)
			}
		}
		return strings.Join(out, ","), nil

	case schema.TypeBit:
		if err := p.need(data, 1, col); err != nil {
			return nil, err
		}
		return p.readUint(data, min(len(data), 8)), nil

	default:
		return nil, schema.ErrUnsupportedType
	}
}
