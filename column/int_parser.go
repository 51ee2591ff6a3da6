// int_parser.go - Parser for integer column types
package column

import (
	"github.com/wilhasse/innopage/schema"
)

// IntParser handles all integer type columns and the hidden system columns
type IntParser struct {
	BaseParser
}

func intWidth(col *schema.Column) int {
	switch col.Type {
	case schema.TypeTinyInt, schema.TypeBoolean, schema.TypeBool:
		return 1
	case schema.TypeSmallInt:
		return 2
	case schema.TypeMediumInt:
		return 3
	case schema.TypeInt:
		return 4
	case schema.TypeBigInt:
		return 8
	case schema.TypeRowID, schema.TypeTrxID:
		return 6
	case schema.TypeRollPtr:
		return 7
	}
	return 0
}

// Parse parses integer value based on column type
func (p *IntParser) Parse(data []byte, col *schema.Column) (interface{}, error) {
	width := intWidth(col)
	if width == 0 {
		return nil, schema.ErrUnsupportedType
	}
	if err := p.need(data, width, col); err != nil {
		return nil, err
	}

	switch col.Type {
	case schema.TypeBoolean, schema.TypeBool:
		return p.readInt(data, 1) != 0, nil
	case schema.TypeRowID, schema.TypeTrxID, schema.TypeRollPtr:
		return p.readUint(data, width), nil
	}
	if col.Unsigned {
		return p.readUint(data, width), nil
	}
	return p.readInt(data, width), nil
}

// RollPtr is a decoded DB_ROLL_PTR: insert flag, rollback segment, undo
// page and offset.
type RollPtr struct {
	Insert bool
	RsegID uint8
	PageNo uint32
	Offset uint16
}

func DecodeRollPtr(v uint64) RollPtr {
	return RollPtr{
		Insert: v>>55&1 == 1,
		RsegID: uint8(v >> 48 & 0x7f),
		PageNo: uint32(v >> 16),
		Offset: uint16(v),
	}
}
