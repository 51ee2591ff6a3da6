// column.go - Column definitions and how InnoDB stores them
package schema

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsupportedType = errors.New("unsupported column type")

// ColumnType is the upper-case MySQL type name.
type ColumnType string

const (
	TypeTinyInt   ColumnType = "TINYINT"
	TypeSmallInt  ColumnType = "SMALLINT"
	TypeMediumInt ColumnType = "MEDIUMINT"
	TypeInt       ColumnType = "INT"
	TypeBigInt    ColumnType = "BIGINT"

	TypeChar       ColumnType = "CHAR"
	TypeVarchar    ColumnType = "VARCHAR"
	TypeText       ColumnType = "TEXT"
	TypeTinyText   ColumnType = "TINYTEXT"
	TypeMediumText ColumnType = "MEDIUMTEXT"
	TypeLongText   ColumnType = "LONGTEXT"

	TypeBinary     ColumnType = "BINARY"
	TypeVarBinary  ColumnType = "VARBINARY"
	TypeBlob       ColumnType = "BLOB"
	TypeTinyBlob   ColumnType = "TINYBLOB"
	TypeMediumBlob ColumnType = "MEDIUMBLOB"
	TypeLongBlob   ColumnType = "LONGBLOB"

	TypeDate      ColumnType = "DATE"
	TypeTime      ColumnType = "TIME"
	TypeDateTime  ColumnType = "DATETIME"
	TypeTimestamp ColumnType = "TIMESTAMP"
	TypeYear      ColumnType = "YEAR"

	TypeDecimal ColumnType = "DECIMAL"
	TypeNumeric ColumnType = "NUMERIC"
	TypeFloat   ColumnType = "FLOAT"
	TypeDouble  ColumnType = "DOUBLE"

	TypeBit     ColumnType = "BIT"
	TypeEnum    ColumnType = "ENUM"
	TypeSet     ColumnType = "SET"
	TypeBoolean ColumnType = "BOOLEAN"
	TypeBool    ColumnType = "BOOL"
	TypeJSON    ColumnType = "JSON"

	// hidden fields of clustered index records
	TypeRowID   ColumnType = "ROW_ID"
	TypeTrxID   ColumnType = "TRX_ID"
	TypeRollPtr ColumnType = "ROLL_PTR"
)

// storage classes
const (
	stFixed = iota // size from the types table
	stSized        // size depends on the column's precision, length or members
	stVar          // length stored in the record header
	stBlob         // may be stored off page
)

type typeInfo struct {
	class int
	size  int
}

var types = map[ColumnType]typeInfo{
	TypeTinyInt:   {stFixed, 1},
	TypeBoolean:   {stFixed, 1},
	TypeBool:      {stFixed, 1},
	TypeYear:      {stFixed, 1},
	TypeSmallInt:  {stFixed, 2},
	TypeMediumInt: {stFixed, 3},
	TypeDate:      {stFixed, 3},
	TypeInt:       {stFixed, 4},
	TypeFloat:     {stFixed, 4},
	TypeBigInt:    {stFixed, 8},
	TypeDouble:    {stFixed, 8},
	TypeRowID:     {stFixed, 6},
	TypeTrxID:     {stFixed, 6},
	TypeRollPtr:   {stFixed, 7},

	TypeTime:      {stSized, 3},
	TypeTimestamp: {stSized, 4},
	TypeDateTime:  {stSized, 5},
	TypeDecimal:   {stSized, 0},
	TypeNumeric:   {stSized, 0},
	TypeBit:       {stSized, 0},
	TypeEnum:      {stSized, 0},
	TypeSet:       {stSized, 0},
	TypeChar:      {stSized, 0},
	TypeBinary:    {stSized, 0},

	TypeVarchar:   {stVar, 0},
	TypeVarBinary: {stVar, 0},

	TypeText:       {stBlob, 0},
	TypeTinyText:   {stBlob, 0},
	TypeMediumText: {stBlob, 0},
	TypeLongText:   {stBlob, 0},
	TypeBlob:       {stBlob, 0},
	TypeTinyBlob:   {stBlob, 0},
	TypeMediumBlob: {stBlob, 0},
	TypeLongBlob:   {stBlob, 0},
	TypeJSON:       {stBlob, 0},
}

type Column struct {
	Name    string
	Type    ColumnType
	Ordinal int // position in the table, -1 for hidden fields

	// Length is in characters for string types. Precision is the total
	// digits of a DECIMAL or the fractional seconds of a temporal type.
	Length    int
	Precision int
	Scale     int

	Nullable      bool
	AutoIncrement bool
	Unsigned      bool
	IsPrimaryKey  bool

	Charset      string
	Collation    string
	DefaultValue string
	EnumValues   []string
	SetValues    []string
}

// MaxBytesPerChar is the widest character of the column's charset.
func (c *Column) MaxBytesPerChar() int {
	switch strings.ToLower(c.Charset) {
	case "utf8mb4":
		return 4
	case "utf8", "utf8mb3":
		return 3
	case "ucs2", "utf16":
		return 2
	default:
		return 1
	}
}

// multiByte reports whether a CHAR column is stored with a length in
// compact records.
func (c *Column) multiByte() bool {
	return c.Type == TypeChar && c.MaxBytesPerChar() > 1
}

// IsVariableLength reports whether compact records carry a length for the
// column. CHAR in a multi-byte charset is variable there.
func (c *Column) IsVariableLength() bool {
	switch types[c.Type].class {
	case stVar, stBlob:
		return true
	}
	return c.multiByte()
}

func (c *Column) IsFixedLength() bool {
	return !c.IsVariableLength() && c.StorageSize() > 0
}

// IsBig reports whether a stored length may take two bytes: the column may
// hold more than 255 bytes or live off page.
func (c *Column) IsBig() bool {
	if types[c.Type].class == stBlob {
		return true
	}
	return c.Length*c.MaxBytesPerChar() > 255
}

// StorageSize is the on-page size of a fixed-length column, 0 when the
// size varies by row or the type is unknown.
func (c *Column) StorageSize() int {
	ti, ok := types[c.Type]
	if !ok {
		return 0
	}
	switch ti.class {
	case stFixed:
		return ti.size
	case stVar, stBlob:
		return 0
	}
	switch c.Type {
	case TypeTime, TypeTimestamp, TypeDateTime:
		return ti.size + (c.Precision+1)/2
	case TypeDecimal, TypeNumeric:
		return DecimalSize(c.Precision, c.Scale)
	case TypeBit:
		return (c.Length + 7) / 8
	case TypeEnum:
		if len(c.EnumValues) > 255 {
			return 2
		}
		return 1
	case TypeSet:
		if n := (len(c.SetValues) + 7) / 8; n <= 4 {
			return n
		}
		return 8
	case TypeChar:
		if c.multiByte() {
			return 0
		}
		return c.Length
	case TypeBinary:
		return c.Length
	}
	return 0
}

// DigitsPerWord decimal digits are packed into each 4-byte DECIMAL word.
const DigitsPerWord = 9

// DigitBytes is the size of a partial word holding 0..9 digits.
var DigitBytes = [DigitsPerWord + 1]int{0, 1, 1, 2, 2, 3, 3, 4, 4, 4}

// DecimalSize is the binary size of DECIMAL(precision, scale): four bytes
// per nine digits on each side of the point plus the leftover digits.
func DecimalSize(precision, scale int) int {
	intg, frac := precision-scale, scale
	return intg/DigitsPerWord*4 + DigitBytes[intg%DigitsPerWord] +
		frac/DigitsPerWord*4 + DigitBytes[frac%DigitsPerWord]
}
