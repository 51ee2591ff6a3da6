// decoder.go - Header field access and system record positions
package page

import (
	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/record"
)

// Decoder reads index page headers and navigates the page directory. It
// holds no page state and is safe for concurrent use.
type Decoder struct {
	rep *fault.Reporter
	rec *record.Decoder
}

// NewDecoder returns a decoder reporting to rep, or to the process-wide
// reporter when rep is nil.
func NewDecoder(rep *fault.Reporter) *Decoder {
	rep = fault.Or(rep)
	return &Decoder{rep: rep, rec: record.NewDecoder(rep)}
}

func (d *Decoder) Reporter() *fault.Reporter { return d.rep }

// Records returns the record decoder sharing this decoder's reporter.
func (d *Decoder) Records() *record.Decoder { return d.rec }

func (d *Decoder) checkPage(p []byte) {
	d.rep.Assert(len(p) == format.PageSize, "len(page) == PageSize")
}

// Header reads field f of the index page header.
func (d *Decoder) Header(p []byte, f HeaderField) uint64 {
	d.rep.Assert(f.Valid(), "valid page header field")
	d.checkPage(p)
	v, _ := format.BeN(p, format.PageHeader+f.Offset(), f.Width())
	return v
}

// heapCount decodes PAGE_N_HEAP.
func (d *Decoder) heapCount(p []byte) format.HeapCount {
	return format.DecodeHeapCount(uint16(d.Header(p, NHeap)))
}

// IsLeaf reports whether the page is at B-tree level 0.
func (d *Decoder) IsLeaf(p []byte) bool { return d.Header(p, Level) == 0 }

// IsCompact reports whether the page uses the compact record format.
func (d *Decoder) IsCompact(p []byte) bool { return d.heapCount(p).Compact }

// NHeap returns the number of records in the heap, including the system
// records and deleted ones.
func (d *Decoder) NHeap(p []byte) int { return int(d.heapCount(p).Count) }

// Infimum returns the origin of the infimum record.
func (d *Decoder) Infimum(p []byte) int {
	if d.IsCompact(p) {
		return format.PageNewInfimum
	}
	return format.PageOldInfimum
}

// Supremum returns the origin of the supremum record.
func (d *Decoder) Supremum(p []byte) int {
	if d.IsCompact(p) {
		return format.PageNewSupremum
	}
	return format.PageOldSupremum
}

// recCheck verifies that rec can be the origin of a record on p: it must
// lie between the page data start and the heap top.
func (d *Decoder) recCheck(p []byte, rec int) error {
	top := int(d.Header(p, HeapTop))
	if rec < format.PageData || rec > top {
		return d.rep.Corruptf("record offset %d outside [%d, %d]%s", rec, format.PageData, top, format.PageIdent(p))
	}
	return nil
}
