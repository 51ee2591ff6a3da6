// tables.go - Definitions of the InnoDB system tables
package dict

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/schema"
)

// Field numbers in the SYS_TABLES clustered index.
const (
	FldSysTablesName = iota
	FldSysTablesDBTrxID
	FldSysTablesDBRollPtr
	FldSysTablesID
	FldSysTablesNCols
	FldSysTablesType
	FldSysTablesMixID
	FldSysTablesMixLen
	FldSysTablesClusterID
	FldSysTablesSpace
	NumFieldsSysTables
)

// Field numbers in the SYS_TABLE_IDS secondary index of SYS_TABLES.
const (
	FldSysTableIDsID = iota
	FldSysTableIDsName
	NumFieldsSysTableIDs
)

// Field numbers in the SYS_COLUMNS clustered index.
const (
	FldSysColumnsTableID = iota
	FldSysColumnsPos
	FldSysColumnsDBTrxID
	FldSysColumnsDBRollPtr
	FldSysColumnsName
	FldSysColumnsMtype
	FldSysColumnsPrtype
	FldSysColumnsLen
	FldSysColumnsPrec
	NumFieldsSysColumns
)

// Field numbers in the SYS_INDEXES clustered index.
const (
	FldSysIndexesTableID = iota
	FldSysIndexesID
	FldSysIndexesDBTrxID
	FldSysIndexesDBRollPtr
	FldSysIndexesName
	FldSysIndexesNFields
	FldSysIndexesType
	FldSysIndexesSpace
	FldSysIndexesPageNo
	FldSysIndexesMergeThreshold
	NumFieldsSysIndexes
)

// Field numbers in the SYS_FIELDS clustered index.
const (
	FldSysFieldsIndexID = iota
	FldSysFieldsPos
	FldSysFieldsDBTrxID
	FldSysFieldsDBRollPtr
	FldSysFieldsColName
	NumFieldsSysFields
)

// System table names.
const (
	SysTables      = "SYS_TABLES"
	SysColumns     = "SYS_COLUMNS"
	SysIndexes     = "SYS_INDEXES"
	SysFields      = "SYS_FIELDS"
	SysForeign     = "SYS_FOREIGN"
	SysForeignCols = "SYS_FOREIGN_COLS"
	SysTablespaces = "SYS_TABLESPACES"
	SysDatafiles   = "SYS_DATAFILES"
	SysVirtual     = "SYS_VIRTUAL"
)

var ddl = map[string]string{
	SysTables: "CREATE TABLE `SYS_TABLES` (`NAME` varchar(255) NOT NULL, `ID` bigint unsigned NOT NULL," +
		" `N_COLS` int unsigned, `TYPE` int unsigned, `MIX_ID` bigint unsigned, `MIX_LEN` int unsigned," +
		" `CLUSTER_ID` varchar(255), `SPACE` int unsigned, PRIMARY KEY (`NAME`))",
	SysColumns: "CREATE TABLE `SYS_COLUMNS` (`TABLE_ID` bigint unsigned NOT NULL, `POS` int unsigned NOT NULL," +
		" `NAME` varchar(255), `MTYPE` int unsigned, `PRTYPE` int unsigned, `LEN` int unsigned," +
		" `PREC` int unsigned, PRIMARY KEY (`TABLE_ID`, `POS`))",
	SysIndexes: "CREATE TABLE `SYS_INDEXES` (`TABLE_ID` bigint unsigned NOT NULL, `ID` bigint unsigned NOT NULL," +
		" `NAME` varchar(255), `N_FIELDS` int unsigned, `TYPE` int unsigned, `SPACE` int unsigned," +
		" `PAGE_NO` int unsigned, `MERGE_THRESHOLD` int unsigned, PRIMARY KEY (`TABLE_ID`, `ID`))",
	SysFields: "CREATE TABLE `SYS_FIELDS` (`INDEX_ID` bigint unsigned NOT NULL, `POS` int unsigned NOT NULL," +
		" `COL_NAME` varchar(255), PRIMARY KEY (`INDEX_ID`, `POS`))",
	SysForeign: "CREATE TABLE `SYS_FOREIGN` (`ID` varchar(255) NOT NULL, `FOR_NAME` varchar(255)," +
		" `REF_NAME` varchar(255), `N_COLS` int unsigned, PRIMARY KEY (`ID`))",
	SysForeignCols: "CREATE TABLE `SYS_FOREIGN_COLS` (`ID` varchar(255) NOT NULL, `POS` int unsigned NOT NULL," +
		" `FOR_COL_NAME` varchar(255), `REF_COL_NAME` varchar(255), PRIMARY KEY (`ID`, `POS`))",
	SysTablespaces: "CREATE TABLE `SYS_TABLESPACES` (`SPACE` int unsigned NOT NULL, `NAME` varchar(255)," +
		" `FLAGS` int unsigned, PRIMARY KEY (`SPACE`))",
	SysDatafiles: "CREATE TABLE `SYS_DATAFILES` (`SPACE` int unsigned NOT NULL, `PATH` varchar(4000)," +
		" PRIMARY KEY (`SPACE`))",
	SysVirtual: "CREATE TABLE `SYS_VIRTUAL` (`TABLE_ID` bigint unsigned NOT NULL, `POS` int unsigned NOT NULL," +
		" `BASE_POS` int unsigned NOT NULL, PRIMARY KEY (`TABLE_ID`, `POS`, `BASE_POS`))",
}

// System tables always use the redundant record format.
const sysOptions = " ENGINE=InnoDB ROW_FORMAT=REDUNDANT"

var tables = sync.OnceValues(func() (map[string]*schema.TableDef, error) {
	out := make(map[string]*schema.TableDef, len(ddl))
	for name, sql := range ddl {
		td, err := schema.ParseTableDefFromSQL(sql + sysOptions)
		if err != nil {
			return nil, errors.Wrapf(err, "system table %s", name)
		}
		out[name] = td
	}
	return out, nil
})

// Names lists the system tables in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(ddl))
	for name := range ddl {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Table returns the definition of a system table. Callers must not modify
// it.
func Table(name string) (*schema.TableDef, error) {
	all, err := tables()
	if err != nil {
		return nil, err
	}
	td, ok := all[name]
	if !ok {
		return nil, errors.Errorf("unknown system table %q", name)
	}
	return td, nil
}

// Root returns the root page of a system table's clustered index as
// recorded in the dictionary header. Only the tables created at bootstrap
// have one.
func (h Header) Root(name string) (uint32, bool) {
	switch name {
	case SysTables:
		return h.Tables, true
	case SysColumns:
		return h.Columns, true
	case SysIndexes:
		return h.Indexes, true
	case SysFields:
		return h.Fields, true
	}
	return 0, false
}
