// boot.go - Data dictionary header page and system table ids
package dict

import (
	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/page"
)

// System table ids.
const (
	TablesID   = 1
	ColumnsID  = 2
	IndexesID  = 3
	FieldsID   = 4
	TableIDsID = 5

	// HdrFirstID is the first id handed out to user tables and indexes.
	HdrFirstID = 10
)

// The dictionary header lives on page 7 of the system tablespace, right
// after the FIL header.
const (
	HdrSpace  = 0
	HdrPageNo = 7
	Hdr       = format.FilHeaderSize

	HdrRowID      = 0
	HdrTableID    = 8
	HdrIndexID    = 16
	HdrMaxSpaceID = 24
	HdrMixIDLow   = 28
	HdrTables     = 32
	HdrTableIDs   = 36
	HdrColumns    = 40
	HdrIndexes    = 44
	HdrFields     = 48
	HdrFsegHeader = 56

	// HdrRowIDWriteMargin: the stored row id is refreshed whenever a row id
	// divisible by this is assigned, so the next free id is at most this far
	// ahead of the stored one.
	HdrRowIDWriteMargin = 256

	FldLenSpace = 4
	FldLenFlags = 4
)

// Header is the decoded dictionary header.
type Header struct {
	RowID      uint64
	TableID    uint64
	IndexID    uint64
	MaxSpaceID uint32
	MixIDLow   uint32

	// root pages of the clustered indexes of the system tables
	Tables   uint32
	TableIDs uint32
	Columns  uint32
	Indexes  uint32
	Fields   uint32

	Fseg page.FsegHeader
}

// NextRowID is the lowest row id that may still be unassigned.
func (h Header) NextRowID() uint64 {
	return h.RowID + HdrRowIDWriteMargin
}

// ParseHeader decodes the dictionary header of a system tablespace page.
func ParseHeader(p []byte) (Header, error) {
	if len(p) != format.PageSize {
		return Header{}, errors.Errorf("expected %dB page, got %d", format.PageSize, len(p))
	}
	if pt, _ := format.Be16(p, format.FilPageType); format.PageType(pt) != format.PageTypeSys {
		return Header{}, errors.Errorf("dictionary header on a %s page", format.PageType(pt))
	}
	var h Header
	h.RowID, _ = format.Be64(p, Hdr+HdrRowID)
	h.TableID, _ = format.Be64(p, Hdr+HdrTableID)
	h.IndexID, _ = format.Be64(p, Hdr+HdrIndexID)
	h.MaxSpaceID, _ = format.Be32(p, Hdr+HdrMaxSpaceID)
	h.MixIDLow, _ = format.Be32(p, Hdr+HdrMixIDLow)
	h.Tables, _ = format.Be32(p, Hdr+HdrTables)
	h.TableIDs, _ = format.Be32(p, Hdr+HdrTableIDs)
	h.Columns, _ = format.Be32(p, Hdr+HdrColumns)
	h.Indexes, _ = format.Be32(p, Hdr+HdrIndexes)
	h.Fields, _ = format.Be32(p, Hdr+HdrFields)
	fseg, err := page.ParseFsegHeader(p, Hdr+HdrFsegHeader)
	if err != nil {
		return Header{}, err
	}
	h.Fseg = fseg
	return h, nil
}
