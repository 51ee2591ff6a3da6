// constants.go - On-disk layout constants for 16KiB InnoDB pages
package format

// Page and FIL layout.
const (
	PageSize       = 16 * 1024 // 16384
	FilHeaderSize  = 38
	FilTrailerSize = 8

	// FIL header field offsets
	FilPageSpaceOrChksum = 0
	FilPageOffset        = 4
	FilPagePrev          = 8
	FilPageNext          = 12
	FilPageLSN           = 16
	FilPageType          = 24
	FilPageFileFlushLSN  = 26
	FilPageSpaceID       = 34

	// FilNull marks an absent page number in prev/next links.
	FilNull uint32 = 0xFFFFFFFF
)

// Index page header. It starts where the FIL header ends.
const (
	PageHeader = FilHeaderSize

	PageNDirSlots       = 0
	PageHeapTop         = 2
	PageNHeap           = 4 // bit 15 = compact format flag
	PageFree            = 6
	PageGarbage         = 8
	PageLastInsert      = 10
	PageInsertDirection = 12
	PageNDirection      = 14
	PageNRecs           = 16
	PageMaxTrxID        = 18
	PageLevel           = 26
	PageIndexID         = 28
	PageBtrSegLeaf      = 36
	PageBtrSegTop       = 46

	IndexHeaderSize = 36
	FsegHeaderSize  = 10

	// Segment inodes sit in an array on an inode page.
	FsegArrOffset = FilHeaderSize + 12
	FsegInodeSize = 192

	// Index header (36 bytes) followed by two FSEG headers.
	PageHeaderSize = IndexHeaderSize + 2*FsegHeaderSize
	PageData       = PageHeader + PageHeaderSize // 94

	PageNHeapFlag = 0x8000
	PageNHeapMask = 0x7fff
)

// Page directory.
const (
	PageDirSlotSize = 2
	// PageDir is the distance of the directory start from the page end.
	PageDir = FilTrailerSize

	PageDirSlotMinNOwned = 4
	PageDirSlotMaxNOwned = 8
)

// Record header sizes and bit layout.
const (
	RecNOldExtraBytes = 6
	RecNNewExtraBytes = 5
	RecordHeaderSize  = RecNNewExtraBytes // compact header (3B bits + 2B next)
	SystemRecordBytes = 8                 // "infimum\x00" or "supremum" literal

	RecNext = 2 // next pointer sits in the 2 bytes before the origin

	RecOldInfoBits = 6
	RecOldHeapNo   = 5
	RecOldNFields  = 4
	RecOldShort    = 3

	RecNewInfoBits = 5
	RecNewHeapNo   = 4
	RecNewStatus   = 3

	RecInfoBitsMask = 0xF0
	RecNOwnedMask   = 0x0F
	RecHeapNoMask   = 0xFFF8
	RecHeapNoShift  = 3
	RecNFieldsMask  = 0x07FE
	RecNFieldsShift = 1
	RecShortMask    = 0x01
	RecStatusMask   = 0x07

	// info bits, as stored in the high nibble of the info byte
	RecInfoMinRecFlag  = 0x10
	RecInfoDeletedFlag = 0x20
	RecInfoVersionFlag = 0x40
	RecInfoInstantFlag = 0x80

	RecMaxNFields = 1023

	Rec1ByteSQLNullMask = 0x80
	Rec1ByteOffsMask    = 0x7F
	Rec1ByteOffsLimit   = 0x7F
	Rec2ByteSQLNullMask = 0x8000
	Rec2ByteExternMask  = 0x4000
	Rec2ByteOffsMask    = 0x3FFF
)

// SQLNull is the length reported for a SQL NULL field.
const SQLNull uint32 = 0xFFFFFFFF

// System record positions. Redundant pages carry a one byte offset array in
// front of each system record header.
const (
	PageOldInfimum     = PageData + 1 + RecNOldExtraBytes                        // 101
	PageOldSupremum    = PageData + 2 + 2*RecNOldExtraBytes + SystemRecordBytes // 116
	PageOldSupremumEnd = PageOldSupremum + 9                                    // 125
	PageNewInfimum     = PageData + RecNNewExtraBytes                           // 99
	PageNewSupremum    = PageData + 2*RecNNewExtraBytes + SystemRecordBytes     // 112
	PageNewSupremumEnd = PageNewSupremum + SystemRecordBytes                    // 120
)

// MaxRecordsPerPage bounds any ordinal on a page: no record is smaller than
// a compact header plus one byte.
const MaxRecordsPerPage = PageSize / (RecNNewExtraBytes + 1)

// BtrMaxLevels bounds the height of a B-tree.
const BtrMaxLevels = 100
