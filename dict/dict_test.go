package dict

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innopage/format"
)

func headerPage() []byte {
	p := make([]byte, format.PageSize)
	binary.BigEndian.PutUint32(p[format.FilPageOffset:], HdrPageNo)
	binary.BigEndian.PutUint16(p[format.FilPageType:], uint16(format.PageTypeSys))
	binary.BigEndian.PutUint64(p[Hdr+HdrRowID:], 512)
	binary.BigEndian.PutUint64(p[Hdr+HdrTableID:], 1027)
	binary.BigEndian.PutUint64(p[Hdr+HdrIndexID:], 2049)
	binary.BigEndian.PutUint32(p[Hdr+HdrMaxSpaceID:], 33)
	binary.BigEndian.PutUint32(p[Hdr+HdrMixIDLow:], HdrFirstID)
	binary.BigEndian.PutUint32(p[Hdr+HdrTables:], 8)
	binary.BigEndian.PutUint32(p[Hdr+HdrTableIDs:], 9)
	binary.BigEndian.PutUint32(p[Hdr+HdrColumns:], 10)
	binary.BigEndian.PutUint32(p[Hdr+HdrIndexes:], 11)
	binary.BigEndian.PutUint32(p[Hdr+HdrFields:], 12)
	binary.BigEndian.PutUint32(p[Hdr+HdrFsegHeader+4:], 2)
	binary.BigEndian.PutUint16(p[Hdr+HdrFsegHeader+8:], 50)
	return p
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(headerPage())
	require.NoError(t, err)
	assert.Equal(t, uint64(512), h.RowID)
	assert.Equal(t, uint64(512+256), h.NextRowID())
	assert.Equal(t, uint64(1027), h.TableID)
	assert.Equal(t, uint64(2049), h.IndexID)
	assert.Equal(t, uint32(33), h.MaxSpaceID)
	assert.Equal(t, uint32(HdrFirstID), h.MixIDLow)
	assert.Equal(t, uint32(9), h.TableIDs)
	assert.Equal(t, uint32(2), h.Fseg.PageNo)
	assert.Equal(t, uint16(50), h.Fseg.Offset)

	for name, want := range map[string]uint32{SysTables: 8, SysColumns: 10, SysIndexes: 11, SysFields: 12} {
		root, ok := h.Root(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, root, name)
	}
	_, ok := h.Root(SysVirtual)
	assert.False(t, ok)
}

func TestParseHeaderRejects(t *testing.T) {
	_, err := ParseHeader(make([]byte, 100))
	assert.Error(t, err)

	p := headerPage()
	binary.BigEndian.PutUint16(p[format.FilPageType:], uint16(format.PageTypeIndex))
	_, err = ParseHeader(p)
	assert.Error(t, err)
}

func fieldNames(t *testing.T, name string) []string {
	t.Helper()
	td, err := Table(name)
	require.NoError(t, err)
	var out []string
	for _, c := range td.ClusteredFields() {
		out = append(out, c.Name)
	}
	return out
}

func TestClusteredFieldNumbers(t *testing.T) {
	tables := fieldNames(t, SysTables)
	require.Len(t, tables, NumFieldsSysTables)
	assert.Equal(t, "NAME", tables[FldSysTablesName])
	assert.Equal(t, "DB_TRX_ID", tables[FldSysTablesDBTrxID])
	assert.Equal(t, "DB_ROLL_PTR", tables[FldSysTablesDBRollPtr])
	assert.Equal(t, "ID", tables[FldSysTablesID])
	assert.Equal(t, "SPACE", tables[FldSysTablesSpace])

	cols := fieldNames(t, SysColumns)
	require.Len(t, cols, NumFieldsSysColumns)
	assert.Equal(t, "POS", cols[FldSysColumnsPos])
	assert.Equal(t, "NAME", cols[FldSysColumnsName])
	assert.Equal(t, "PREC", cols[FldSysColumnsPrec])

	idx := fieldNames(t, SysIndexes)
	require.Len(t, idx, NumFieldsSysIndexes)
	assert.Equal(t, "ID", idx[FldSysIndexesID])
	assert.Equal(t, "PAGE_NO", idx[FldSysIndexesPageNo])
	assert.Equal(t, "MERGE_THRESHOLD", idx[FldSysIndexesMergeThreshold])

	flds := fieldNames(t, SysFields)
	require.Len(t, flds, NumFieldsSysFields)
	assert.Equal(t, "COL_NAME", flds[FldSysFieldsColName])

	assert.Equal(t, []string{"TABLE_ID", "POS", "BASE_POS", "DB_TRX_ID", "DB_ROLL_PTR"}, fieldNames(t, SysVirtual))
	assert.Equal(t, []string{"SPACE", "DB_TRX_ID", "DB_ROLL_PTR", "PATH"}, fieldNames(t, SysDatafiles))
	assert.Len(t, fieldNames(t, SysForeign), 6)
	assert.Len(t, fieldNames(t, SysForeignCols), 6)
	assert.Len(t, fieldNames(t, SysTablespaces), 5)
}

func TestTableLookup(t *testing.T) {
	assert.Len(t, Names(), 9)
	assert.Equal(t, SysColumns, Names()[0])
	_, err := Table("SYS_NOPE")
	assert.Error(t, err)

	td, err := Table(SysTables)
	require.NoError(t, err)
	assert.Equal(t, "REDUNDANT", td.RowFormat)
	compact, ok := td.Compact()
	assert.True(t, ok)
	assert.False(t, compact)
}
