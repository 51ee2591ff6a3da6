// factory.go - Factory for getting appropriate column parser
package column

import (
	"fmt"

	"github.com/wilhasse/innopage/schema"
)

var (
	intParser      = &IntParser{}
	stringParser   = &StringParser{}
	dateTimeParser = &DateTimeParser{}
	decimalParser  = &DecimalParser{}
)

// GetParser returns the appropriate parser for the column type
func GetParser(col *schema.Column) Parser {
	switch col.Type {
	case schema.TypeTinyInt, schema.TypeSmallInt, schema.TypeMediumInt,
		schema.TypeInt, schema.TypeBigInt,
		schema.TypeBoolean, schema.TypeBool,
		schema.TypeRowID, schema.TypeTrxID, schema.TypeRollPtr:
		return intParser

	case schema.TypeChar, schema.TypeVarchar,
		schema.TypeText, schema.TypeTinyText, schema.TypeMediumText, schema.TypeLongText,
		schema.TypeBinary, schema.TypeVarBinary,
		schema.TypeBlob, schema.TypeTinyBlob, schema.TypeMediumBlob, schema.TypeLongBlob,
		schema.TypeEnum, schema.TypeSet, schema.TypeBit, schema.TypeJSON:
		return stringParser

	case schema.TypeDate, schema.TypeTime, schema.TypeDateTime,
		schema.TypeTimestamp, schema.TypeYear:
		return dateTimeParser

	case schema.TypeDecimal, schema.TypeNumeric, schema.TypeFloat, schema.TypeDouble:
		return decimalParser

	default:
		return nil
	}
}

// Decode interprets the bytes of one field. A nil data slice with null set
// yields a nil value.
func Decode(data []byte, null bool, col *schema.Column) (interface{}, error) {
	if null {
		return nil, nil
	}
	parser := GetParser(col)
	if parser == nil {
		return nil, schema.ErrUnsupportedType
	}
	return parser.Parse(data, col)
}

// Format renders a decoded value for display.
func Format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("0x%x", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
