// exports.go - Re-exports for main package API
package innopage

import (
	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/page"
	"github.com/wilhasse/innopage/record"
)

// Re-export types from format package
type (
	PageType      = format.PageType
	PageFormat    = format.PageFormat
	PageDirection = format.PageDirection
	RecordType    = format.RecordType
)

// Re-export constants from format package
const (
	PageSize          = format.PageSize
	PageTypeIndex     = format.PageTypeIndex
	PageTypeUndoLog   = format.PageTypeUndoLog
	PageTypeAllocated = format.PageTypeAllocated
	PageTypeSys       = format.PageTypeSys
	PageTypeSDI       = format.PageTypeSDI
	FormatCompact     = format.FormatCompact
	FormatRedundant   = format.FormatRedundant
	RecConventional   = format.RecConventional
	RecNodePointer    = format.RecNodePointer
	RecInfimum        = format.RecInfimum
	RecSupremum       = format.RecSupremum
	DirLeft           = format.DirLeft
	DirRight          = format.DirRight
	DirSameRec        = format.DirSameRec
	DirSamePage       = format.DirSamePage
	DirNoDirection    = format.DirNoDirection
	MaxRecordsPerPage = format.MaxRecordsPerPage
)

// Re-export types from page package
type (
	InnerPage   = page.InnerPage
	IndexPage   = page.IndexPage
	IndexHeader = page.IndexHeader
	FilHeader   = page.FilHeader
	FilTrailer  = page.FilTrailer
	FsegHeader  = page.FsegHeader
	HeaderField = page.HeaderField
	Decoder     = page.Decoder
	Slot        = page.Slot
)

// Re-export functions from page package
var (
	NewDecoder       = page.NewDecoder
	NewInnerPage     = page.NewInnerPage
	ParseIndexPage   = page.ParseIndexPage
	ParseIndexHeader = page.ParseIndexHeader
	ParseFilHeader   = page.ParseFilHeader
	ParseFilTrailer  = page.ParseFilTrailer
	ParseFsegHeader  = page.ParseFsegHeader
)

// Re-export types from record package
type (
	Record       = record.Record
	RecordHeader = record.Header
	Field        = record.Field
)

var ParseRecordHeader = record.ParseHeader

// Re-export the fault hook
type (
	Reporter           = fault.Reporter
	CorruptionCallback = fault.Callback
)

var (
	ErrCorrupt    = fault.ErrCorrupt
	SetCallback   = fault.SetCallback
	ResetCallback = fault.ResetCallback
)

// WalkRecords is a convenience function to walk records on an IndexPage
func WalkRecords(p *IndexPage, max int, skipSystem bool) ([]Record, error) {
	return p.WalkRecords(max, skipSystem)
}
