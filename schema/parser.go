// parser.go - CREATE TABLE statements to table definitions
package schema

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xwb1989/sqlparser"
)

// Table defaults when the statement names none.
const (
	DefaultEngine  = "InnoDB"
	DefaultCharset = "utf8mb4"
)

// ParseTableDefFromSQL builds a table definition from a CREATE TABLE
// statement. Column charsets default to the table charset.
func ParseTableDefFromSQL(sql string) (*TableDef, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "parse SQL")
	}
	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != sqlparser.CreateStr {
		return nil, errors.New("statement is not CREATE TABLE")
	}
	if ddl.TableSpec == nil {
		return nil, errors.New("no column definitions in CREATE TABLE")
	}

	// CREATE TABLE stores its target in NewName
	name := ddl.NewName.Name.String()
	if name == "" {
		name = ddl.Table.Name.String()
	}
	td := NewTableDef(name)
	td.Engine, td.Charset, td.RowFormat = tableOptions(ddl.TableSpec.Options)

	for _, def := range ddl.TableSpec.Columns {
		col, err := parseColumn(def, td.Charset)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", def.Name.String())
		}
		if err := td.AddColumn(col); err != nil {
			return nil, err
		}
	}

	var keys []string
	for _, idx := range ddl.TableSpec.Indexes {
		if !idx.Info.Primary {
			continue
		}
		keys = keys[:0]
		for _, c := range idx.Columns {
			keys = append(keys, c.Column.String())
		}
	}
	if len(keys) > 0 {
		if err := td.SetPrimaryKeys(keys); err != nil {
			return nil, err
		}
	}
	return td, nil
}

func ParseTableDefFromSQLFile(filename string) (*TableDef, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read SQL file")
	}
	return ParseTableDefFromSQL(string(content))
}

// tableOptions picks the engine, default charset and row format out of the
// raw option text sqlparser keeps, e.g. "engine=InnoDB default charset=latin1".
func tableOptions(opts string) (engine, charset, rowFormat string) {
	engine, charset = DefaultEngine, DefaultCharset
	words := strings.Fields(strings.NewReplacer("=", " ", ",", " ").Replace(opts))
	value := func(i int) string {
		if i < len(words) {
			return strings.Trim(words[i], "'\"`")
		}
		return ""
	}
	for i := 0; i < len(words); i++ {
		switch strings.ToLower(words[i]) {
		case "engine":
			if v := value(i + 1); v != "" {
				engine = v
			}
		case "charset":
			if v := value(i + 1); v != "" {
				charset = strings.ToLower(v)
			}
		case "character":
			if strings.EqualFold(value(i+1), "set") {
				if v := value(i + 2); v != "" {
					charset = strings.ToLower(v)
				}
			}
		case "row_format":
			if v := strings.ToUpper(value(i + 1)); v != "DEFAULT" {
				rowFormat = v
			}
		}
	}
	return engine, charset, rowFormat
}

func atoi(v *sqlparser.SQLVal) (int, bool) {
	if v == nil {
		return 0, false
	}
	n, err := strconv.Atoi(string(v.Val))
	return n, err == nil
}

func parseColumn(def *sqlparser.ColumnDefinition, tableCharset string) (*Column, error) {
	ct := def.Type
	col := &Column{
		Name:          def.Name.String(),
		Type:          normalizeColumnType(ColumnType(strings.ToUpper(ct.Type))),
		Nullable:      !bool(ct.NotNull),
		Unsigned:      bool(ct.Unsigned),
		AutoIncrement: bool(ct.Autoincrement),
		Charset:       strings.ToLower(ct.Charset),
		Collation:     ct.Collate,
	}
	if _, ok := types[col.Type]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s", ct.Type)
	}
	if n, ok := atoi(ct.Length); ok {
		col.Length = n
		col.Precision = n
	}
	if n, ok := atoi(ct.Scale); ok {
		col.Scale = n
	}
	// TINYINT(1) is MySQL's boolean
	if col.Type == TypeTinyInt && col.Length == 1 {
		col.Type = TypeBoolean
	}
	if ct.Default != nil {
		col.DefaultValue = sqlparser.String(ct.Default)
	}
	for _, val := range ct.EnumValues {
		v := strings.Trim(val, "'\"")
		switch col.Type {
		case TypeEnum:
			col.EnumValues = append(col.EnumValues, v)
		case TypeSet:
			col.SetValues = append(col.SetValues, v)
		}
	}

	switch col.Type {
	case TypeChar, TypeVarchar, TypeText, TypeTinyText, TypeMediumText, TypeLongText:
		if col.Charset == "" {
			col.Charset = tableCharset
		}
	case TypeBinary, TypeVarBinary:
		col.Charset = "binary"
	}
	return col, nil
}

// normalizeColumnType maps type aliases to their canonical names.
func normalizeColumnType(t ColumnType) ColumnType {
	switch t {
	case "INTEGER":
		return TypeInt
	case "DOUBLE PRECISION", "REAL":
		return TypeDouble
	case "DEC", "FIXED":
		return TypeDecimal
	case TypeBool:
		return TypeBoolean
	}
	return t
}
