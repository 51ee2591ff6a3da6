// Package pagebuilder assembles synthetic INDEX pages in either record
// format. Pages come out with a consistent record list and directory unless
// the caller asks for an inconsistent grouping.
package pagebuilder

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/record"
)

type userRec struct {
	fields []record.FieldSpec
	opts   record.RedundantOptions
}

// Builder collects user records and page attributes. Zero values give a
// leaf page with no siblings.
type Builder struct {
	Compact  bool
	PageNo   uint32
	SpaceID  uint32
	Prev     uint32
	Next     uint32
	LSN      uint64
	Level    uint16
	IndexID  uint64
	MaxTrxID uint64
	Garbage  uint16

	// SegPage and SegOffset locate the leaf segment inode; the non-leaf one
	// is written to the next inode slot. Zero SegPage leaves both headers
	// zero.
	SegPage   uint32
	SegOffset uint16

	// Owned overrides the directory grouping: one entry per slot, counting
	// the infimum and supremum. Empty means the default grouping.
	Owned []int

	// Columns gives compact records their lengths and NULL flags. Without
	// it compact records carry only header and data.
	Columns []record.Column

	recs []userRec
}

// Layout reports where Build placed things.
type Layout struct {
	Records []int // origins in list order; [0] is the infimum, last the supremum
	Slots   []int // owning record origin per directory slot
	Owned   []int
	HeapTop int
}

func New(compact bool) *Builder {
	return &Builder{Compact: compact, Prev: format.FilNull, Next: format.FilNull}
}

// Add appends a user record. Records keep insertion order in the list.
func (b *Builder) Add(fields ...record.FieldSpec) *Builder {
	return b.AddWith(record.RedundantOptions{}, fields...)
}

// AddWith appends a user record with extra header options. Heap number,
// owned count and next pointer are always assigned by Build.
func (b *Builder) AddWith(opts record.RedundantOptions, fields ...record.FieldSpec) *Builder {
	b.recs = append(b.recs, userRec{fields: fields, opts: opts})
	return b
}

// AddValues appends a user record of non-NULL inline fields.
func (b *Builder) AddValues(vals ...[]byte) *Builder {
	specs := make([]record.FieldSpec, len(vals))
	for i, v := range vals {
		specs[i] = record.FieldSpec{Data: v}
	}
	return b.Add(specs...)
}

func (b *Builder) Len() int { return len(b.recs) }

// DefaultOwned groups n user records the way page splits leave them: four
// per slot while the tail would overflow the supremum slot.
func DefaultOwned(n int) []int {
	owned := []int{1}
	for n > format.PageDirSlotMaxNOwned-1 {
		owned = append(owned, format.PageDirSlotMinNOwned)
		n -= format.PageDirSlotMinNOwned
	}
	return append(owned, n+1)
}

func (b *Builder) encode(i int, r userRec) ([]byte, int, error) {
	heap := uint16(i + 2)
	if !b.Compact {
		opts := r.opts
		opts.HeapNo, opts.NOwned, opts.Next = heap, 0, 0
		return record.EncodeRedundant(r.fields, opts)
	}
	status := format.RecConventional
	if b.Level > 0 {
		status = format.RecNodePointer
	}
	h := record.EncodeCompactHeader(
		format.InfoByte{Bits: r.opts.InfoBits &^ format.RecInfoVersionFlag},
		format.NewBits{HeapNo: heap, Status: status},
		0,
	)
	return record.EncodeCompact(r.fields, b.Columns, h)
}

// Build lays out the page and returns it with its layout.
func (b *Builder) Build() ([]byte, Layout, error) {
	p := make([]byte, format.PageSize)
	n := len(b.recs)

	owned := b.Owned
	if len(owned) == 0 {
		owned = DefaultOwned(n)
	}
	sum := 0
	for _, o := range owned {
		if o < 1 || o > format.RecNOwnedMask {
			return nil, Layout{}, errors.Errorf("slot owned count %d out of range", o)
		}
		sum += o
	}
	if sum != n+2 {
		return nil, Layout{}, errors.Errorf("directory owns %d records, page has %d", sum, n+2)
	}

	inf, sup := format.PageOldInfimum, format.PageOldSupremum
	cursor := format.PageOldSupremumEnd
	if b.Compact {
		inf, sup = format.PageNewInfimum, format.PageNewSupremum
		cursor = format.PageNewSupremumEnd
		copy(p[format.PageData:], format.NewInfimum)
		copy(p[format.PageData+len(format.NewInfimum):], format.NewSupremum)
	} else {
		copy(p[format.PageData:], format.OldInfimum)
		copy(p[format.PageData+len(format.OldInfimum):], format.OldSupremum)
	}

	recs := make([]int, 0, n+2)
	recs = append(recs, inf)
	for i, r := range b.recs {
		img, origin, err := b.encode(i, r)
		if err != nil {
			return nil, Layout{}, errors.Wrapf(err, "record %d", i)
		}
		dirStart := format.PageSize - format.PageDir - len(owned)*format.PageDirSlotSize
		if cursor+len(img) > dirStart {
			return nil, Layout{}, errors.Errorf("record %d does not fit the page", i)
		}
		copy(p[cursor:], img)
		recs = append(recs, cursor+origin)
		cursor += len(img)
	}
	recs = append(recs, sup)

	for i := 0; i+1 < len(recs); i++ {
		record.PutNext(p, recs[i], recs[i+1], b.Compact)
	}
	record.PutNext(p, sup, 0, b.Compact)

	slots := make([]int, len(owned))
	k := -1
	for i, o := range owned {
		for j := 0; j < o; j++ {
			k++
			record.PutNOwned(p, recs[k], b.Compact, 0)
		}
		record.PutNOwned(p, recs[k], b.Compact, uint8(o))
		slots[i] = recs[k]
		binary.BigEndian.PutUint16(p[format.PageSize-format.PageDir-(i+1)*format.PageDirSlotSize:], uint16(recs[k]))
	}

	b.putFil(p)
	lastInsert := 0
	if n > 0 {
		lastInsert = recs[n]
	}
	hdr := format.PageHeader
	put16 := func(off, v int) { binary.BigEndian.PutUint16(p[hdr+off:], uint16(v)) }
	put16(format.PageNDirSlots, len(owned))
	put16(format.PageHeapTop, cursor)
	put16(format.PageNHeap, int(format.HeapCount{Count: uint16(n + 2), Compact: b.Compact}.Encode()))
	put16(format.PageGarbage, int(b.Garbage))
	put16(format.PageLastInsert, lastInsert)
	put16(format.PageInsertDirection, int(format.DirNoDirection))
	put16(format.PageNRecs, n)
	binary.BigEndian.PutUint64(p[hdr+format.PageMaxTrxID:], b.MaxTrxID)
	put16(format.PageLevel, int(b.Level))
	binary.BigEndian.PutUint64(p[hdr+format.PageIndexID:], b.IndexID)
	if b.SegPage != 0 {
		for i, off := range []int{format.PageBtrSegLeaf, format.PageBtrSegTop} {
			binary.BigEndian.PutUint32(p[hdr+off:], b.SpaceID)
			binary.BigEndian.PutUint32(p[hdr+off+4:], b.SegPage)
			binary.BigEndian.PutUint16(p[hdr+off+8:], b.SegOffset+uint16(i*format.FsegInodeSize))
		}
	}

	return p, Layout{Records: recs, Slots: slots, Owned: append([]int(nil), owned...), HeapTop: cursor}, nil
}

func (b *Builder) putFil(p []byte) {
	binary.BigEndian.PutUint32(p[format.FilPageOffset:], b.PageNo)
	binary.BigEndian.PutUint32(p[format.FilPagePrev:], b.Prev)
	binary.BigEndian.PutUint32(p[format.FilPageNext:], b.Next)
	binary.BigEndian.PutUint64(p[format.FilPageLSN:], b.LSN)
	binary.BigEndian.PutUint16(p[format.FilPageType:], uint16(format.PageTypeIndex))
	binary.BigEndian.PutUint32(p[format.FilPageSpaceID:], b.SpaceID)
	binary.BigEndian.PutUint32(p[format.PageSize-4:], uint32(b.LSN))
}

// SetField overwrites a 2-byte index header field of a built page.
func SetField(p []byte, off int, v uint16) {
	binary.BigEndian.PutUint16(p[format.PageHeader+off:], v)
}

// SetSlot overwrites directory slot i of a built page.
func SetSlot(p []byte, i int, rec uint16) {
	binary.BigEndian.PutUint16(p[format.PageSize-format.PageDir-(i+1)*format.PageDirSlotSize:], rec)
}
