// header.go - Index page header fields
package page

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
)

// HeaderField names a field of the index page header.
type HeaderField int

const (
	NDirSlots HeaderField = iota
	HeapTop
	NHeap // bit 15 is the compact format flag
	Free
	Garbage
	LastInsert
	Direction
	NDirection
	NRecs
	MaxTrxID
	Level
	IndexID

	numHeaderFields
)

var headerFields = [numHeaderFields]struct {
	name  string
	off   int
	width int
}{
	NDirSlots:  {"PAGE_N_DIR_SLOTS", format.PageNDirSlots, 2},
	HeapTop:    {"PAGE_HEAP_TOP", format.PageHeapTop, 2},
	NHeap:      {"PAGE_N_HEAP", format.PageNHeap, 2},
	Free:       {"PAGE_FREE", format.PageFree, 2},
	Garbage:    {"PAGE_GARBAGE", format.PageGarbage, 2},
	LastInsert: {"PAGE_LAST_INSERT", format.PageLastInsert, 2},
	Direction:  {"PAGE_DIRECTION", format.PageInsertDirection, 2},
	NDirection: {"PAGE_N_DIRECTION", format.PageNDirection, 2},
	NRecs:      {"PAGE_N_RECS", format.PageNRecs, 2},
	MaxTrxID:   {"PAGE_MAX_TRX_ID", format.PageMaxTrxID, 8},
	Level:      {"PAGE_LEVEL", format.PageLevel, 2},
	IndexID:    {"PAGE_INDEX_ID", format.PageIndexID, 8},
}

func (f HeaderField) Valid() bool { return f >= 0 && f < numHeaderFields }

// Offset is the field position relative to the start of the page header.
func (f HeaderField) Offset() int { return headerFields[f].off }

// Width is the stored size of the field in bytes.
func (f HeaderField) Width() int { return headerFields[f].width }

func (f HeaderField) String() string {
	if !f.Valid() {
		return fmt.Sprintf("HeaderField(%d)", int(f))
	}
	return headerFields[f].name
}

// HeaderFields lists every field in on-disk order.
func HeaderFields() []HeaderField {
	out := make([]HeaderField, 0, numHeaderFields)
	for f := NDirSlots; f < numHeaderFields; f++ {
		out = append(out, f)
	}
	return out
}

// 36-byte index header (compact/redundant flag in high bit of n_heap)
type IndexHeader struct {
	NumDirSlots           uint16
	HeapTop               uint16
	NumHeapRecs           uint16 // low 15 bits
	Format                format.PageFormat
	FirstGarbageOff       uint16
	GarbageSpace          uint16
	LastInsertPos         uint16
	Direction             format.PageDirection
	NumInsertsInDirection uint16
	NumUserRecs           uint16
	MaxTrxID              uint64
	PageLevel             uint16
	IndexID               uint64
}

func ParseIndexHeader(p []byte) (IndexHeader, error) {
	off := format.PageHeader
	if off+format.IndexHeaderSize > len(p) {
		return IndexHeader{}, errors.Wrapf(format.ErrShortRead, "index header: page of %d bytes", len(p))
	}
	nSlots, _ := format.Be16(p, off+format.PageNDirSlots)
	heapTop, _ := format.Be16(p, off+format.PageHeapTop)
	heap, _ := format.Be16(p, off+format.PageNHeap)
	firstGarbage, _ := format.Be16(p, off+format.PageFree)
	garbage, _ := format.Be16(p, off+format.PageGarbage)
	lastIns, _ := format.Be16(p, off+format.PageLastInsert)
	dir, _ := format.Be16(p, off+format.PageInsertDirection)
	nDir, _ := format.Be16(p, off+format.PageNDirection)
	nRecs, _ := format.Be16(p, off+format.PageNRecs)
	maxTrx, _ := format.Be64(p, off+format.PageMaxTrxID)
	level, _ := format.Be16(p, off+format.PageLevel)
	indexID, _ := format.Be64(p, off+format.PageIndexID)

	hc := format.DecodeHeapCount(heap)
	pf := format.FormatRedundant
	if hc.Compact {
		pf = format.FormatCompact
	}

	return IndexHeader{
		NumDirSlots:           nSlots,
		HeapTop:               heapTop,
		NumHeapRecs:           hc.Count,
		Format:                pf,
		FirstGarbageOff:       firstGarbage,
		GarbageSpace:          garbage,
		LastInsertPos:         lastIns,
		Direction:             format.PageDirection(dir),
		NumInsertsInDirection: nDir,
		NumUserRecs:           nRecs,
		MaxTrxID:              maxTrx,
		PageLevel:             level,
		IndexID:               indexID,
	}, nil
}
