package format

import "fmt"

// Page types (subset)
type PageType uint16

const (
	PageTypeAllocated PageType = 0
	PageTypeUndoLog   PageType = 2
	PageTypeInode     PageType = 3
	PageTypeSys       PageType = 6
	PageTypeTrxSys    PageType = 7
	PageTypeFspHdr    PageType = 8
	PageTypeXdes      PageType = 9
	PageTypeBlob      PageType = 10
	PageTypeSDI       PageType = 17853
	PageTypeRTree     PageType = 17854
	PageTypeIndex     PageType = 17855
)

func (t PageType) String() string {
	switch t {
	case PageTypeAllocated:
		return "ALLOCATED"
	case PageTypeUndoLog:
		return "UNDO_LOG"
	case PageTypeInode:
		return "INODE"
	case PageTypeSys:
		return "SYS"
	case PageTypeTrxSys:
		return "TRX_SYS"
	case PageTypeFspHdr:
		return "FSP_HDR"
	case PageTypeXdes:
		return "XDES"
	case PageTypeBlob:
		return "BLOB"
	case PageTypeSDI:
		return "SDI"
	case PageTypeRTree:
		return "RTREE"
	case PageTypeIndex:
		return "INDEX"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

type PageFormat uint8

const (
	FormatRedundant PageFormat = 0
	FormatCompact   PageFormat = 1
)

func (f PageFormat) String() string {
	switch f {
	case FormatCompact:
		return "COMPACT"
	case FormatRedundant:
		return "REDUNDANT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(f))
	}
}

type PageDirection uint16

const (
	DirLeft        PageDirection = 1
	DirRight       PageDirection = 2
	DirSameRec     PageDirection = 3
	DirSamePage    PageDirection = 4
	DirNoDirection PageDirection = 5
)

func (d PageDirection) String() string {
	switch d {
	case DirLeft:
		return "LEFT"
	case DirRight:
		return "RIGHT"
	case DirSameRec:
		return "SAME_REC"
	case DirSamePage:
		return "SAME_PAGE"
	case DirNoDirection:
		return "NO_DIRECTION"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(d))
	}
}

// RecordType is the 3-bit status of a compact record.
type RecordType uint8

const (
	RecConventional RecordType = 0
	RecNodePointer  RecordType = 1
	RecInfimum      RecordType = 2
	RecSupremum     RecordType = 3
)

func (t RecordType) String() string {
	switch t {
	case RecConventional:
		return "DATA"
	case RecNodePointer:
		return "NODE_PTR"
	case RecInfimum:
		return "INFIMUM"
	case RecSupremum:
		return "SUPREMUM"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

var (
	LitInfimum  = []byte("infimum\x00")
	LitSupremum = []byte("supremum")
)

// System record images. Compact pages store the infimum next pointer and the
// supremum owned count at runtime, so those bytes are left zero here.
var (
	// offset array, 6B header, "infimum\0"
	OldInfimum = []byte{
		0x08,
		0x01, 0x00, 0x00, 0x03, 0x00, byte(PageOldSupremum),
		'i', 'n', 'f', 'i', 'm', 'u', 'm', 0x00,
	}
	// offset array, 6B header, "supremum\0"
	OldSupremum = []byte{
		0x09,
		0x01, 0x00, 0x08, 0x03, 0x00, 0x00,
		's', 'u', 'p', 'r', 'e', 'm', 'u', 'm', 0x00,
	}
	NewInfimum = []byte{
		0x01, 0x00, 0x02, 0x00, 0x00,
		'i', 'n', 'f', 'i', 'm', 'u', 'm', 0x00,
	}
	NewSupremum = []byte{
		0x00, 0x00, 0x0b, 0x00, 0x00,
		's', 'u', 'p', 'r', 'e', 'm', 'u', 'm',
	}
)
