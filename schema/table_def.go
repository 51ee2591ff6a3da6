// table_def.go - Table definitions and their clustered index field order
package schema

import "github.com/pkg/errors"

type TableDef struct {
	Name        string
	Columns     []*Column // table order
	ColumnMap   map[string]*Column
	PrimaryKeys []string

	Engine  string
	Charset string // default for string columns
	// RowFormat is the upper-case ROW_FORMAT option, empty when the
	// statement leaves it to the server.
	RowFormat string

	keyColumns []*Column
}

func NewTableDef(name string) *TableDef {
	return &TableDef{
		Name:      name,
		ColumnMap: make(map[string]*Column),
	}
}

// AddColumn appends col and assigns its ordinal.
func (td *TableDef) AddColumn(col *Column) error {
	if _, exists := td.ColumnMap[col.Name]; exists {
		return errors.Errorf("column %s already exists", col.Name)
	}
	col.Ordinal = len(td.Columns)
	td.Columns = append(td.Columns, col)
	td.ColumnMap[col.Name] = col
	return nil
}

// SetPrimaryKeys marks the primary key columns. Key columns are NOT NULL
// whatever their definition says.
func (td *TableDef) SetPrimaryKeys(keys []string) error {
	cols := make([]*Column, 0, len(keys))
	for _, key := range keys {
		col, exists := td.ColumnMap[key]
		if !exists {
			return errors.Errorf("primary key column %s not found", key)
		}
		cols = append(cols, col)
	}
	for _, col := range cols {
		col.IsPrimaryKey = true
		col.Nullable = false
	}
	td.PrimaryKeys = append([]string(nil), keys...)
	td.keyColumns = cols
	return nil
}

func (td *TableDef) GetColumn(name string) (*Column, bool) {
	col, exists := td.ColumnMap[name]
	return col, exists
}

func (td *TableDef) ColumnCount() int { return len(td.Columns) }

func (td *TableDef) NullableColumns() []*Column {
	var out []*Column
	for _, col := range td.Columns {
		if col.Nullable {
			out = append(out, col)
		}
	}
	return out
}

func (td *TableDef) NullableColumnCount() int { return len(td.NullableColumns()) }

// NullBitmapSize is the size of the NULL bitmap in a compact leaf record.
func (td *TableDef) NullBitmapSize() int {
	return (td.NullableColumnCount() + 7) / 8
}

// Compact reports whether the table's records use the compact header. ok is
// false when the row format is unknown.
func (td *TableDef) Compact() (compact, ok bool) {
	switch td.RowFormat {
	case "REDUNDANT":
		return false, true
	case "COMPACT", "DYNAMIC", "COMPRESSED":
		return true, true
	}
	return false, false
}

// Hidden columns InnoDB adds to every clustered index record.
var (
	RowIDColumn   = &Column{Name: "DB_ROW_ID", Type: TypeRowID, Ordinal: -1}
	TrxIDColumn   = &Column{Name: "DB_TRX_ID", Type: TypeTrxID, Ordinal: -1}
	RollPtrColumn = &Column{Name: "DB_ROLL_PTR", Type: TypeRollPtr, Ordinal: -1}

	// ChildPageColumn ends every node pointer record.
	ChildPageColumn = &Column{Name: "CHILD_PAGE_NO", Type: TypeInt, Unsigned: true, Ordinal: -1}
)

func (td *TableDef) keyFields() []*Column {
	if len(td.keyColumns) > 0 {
		return td.keyColumns
	}
	return []*Column{RowIDColumn}
}

// ClusteredFields returns the physical field order of a clustered index
// record: the primary key (or DB_ROW_ID when there is none), DB_TRX_ID,
// DB_ROLL_PTR, then the remaining columns in table order.
func (td *TableDef) ClusteredFields() []*Column {
	out := make([]*Column, 0, len(td.Columns)+3)
	out = append(out, td.keyFields()...)
	out = append(out, TrxIDColumn, RollPtrColumn)
	for _, col := range td.Columns {
		if !col.IsPrimaryKey {
			out = append(out, col)
		}
	}
	return out
}

// NodePointerFields returns the field order of a clustered index node
// pointer record: the key fields, then the child page number.
func (td *TableDef) NodePointerFields() []*Column {
	key := td.keyFields()
	out := make([]*Column, 0, len(key)+1)
	return append(append(out, key...), ChildPageColumn)
}

// FieldNo returns the clustered index field number of the named column.
func (td *TableDef) FieldNo(name string) (int, bool) {
	for i, col := range td.ClusteredFields() {
		if col.Name == name {
			return i, true
		}
	}
	return 0, false
}
