// header.go - Record header parsing for the redundant and compact formats
package record

import (
	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
)

// Header is the decoded "extra bytes" in front of a record origin.
//
// Compact records (5 bytes): info/owned, heap_no(13)|status(3), next(2).
// Redundant records (6 bytes): info/owned, heap_no(13)|n_fields(10)|short(1),
// next(2).
type Header struct {
	Compact bool
	Info    format.InfoByte
	HeapNo  uint16
	Status  format.RecordType // compact only
	NFields uint16            // redundant only
	Short   bool              // redundant only: 1-byte field offsets
	NextRaw uint16            // stored next value, unsigned
}

func (h Header) NOwned() uint8    { return h.Info.NOwned }
func (h Header) Deleted() bool    { return h.Info.Deleted() }
func (h Header) MinRec() bool     { return h.Info.MinRec() }
func (h Header) Versioned() bool  { return h.Info.Versioned() }
func (h Header) ExtraBytes() int  { return extraBytes(h.Compact) }

// Type reports the record status. Redundant records carry no status field,
// so the system records are recognized by heap number.
func (h Header) Type() format.RecordType {
	if h.Compact {
		return h.Status
	}
	switch h.HeapNo {
	case 0:
		return format.RecInfimum
	case 1:
		return format.RecSupremum
	}
	return format.RecConventional
}

// NextDisplacement is the compact next pointer as a signed displacement.
func (h Header) NextDisplacement() Displacement { return Displacement(int16(h.NextRaw)) }

func extraBytes(compact bool) int {
	if compact {
		return format.RecNNewExtraBytes
	}
	return format.RecNOldExtraBytes
}

// ParseHeader decodes the header of the record whose origin is at rec.
func ParseHeader(p []byte, rec int, compact bool) (Header, error) {
	extra := extraBytes(compact)
	if rec-extra < 0 || rec > len(p) {
		return Header{}, errors.Wrapf(format.ErrShortRead, "record header at %d", rec)
	}
	h := Header{Compact: compact, Info: format.DecodeInfoByte(p[rec-extra])}
	next, _ := format.Be16(p, rec-format.RecNext)
	h.NextRaw = next
	if compact {
		bits, _ := format.Be16(p, rec-format.RecNewHeapNo)
		nb := format.DecodeNewBits(bits)
		h.HeapNo = nb.HeapNo
		h.Status = nb.Status
		return h, nil
	}
	ob := format.DecodeOldBits(p[rec-format.RecOldHeapNo], p[rec-format.RecOldNFields], p[rec-format.RecOldShort])
	h.HeapNo = ob.HeapNo
	h.NFields = ob.NFields
	h.Short = ob.Short
	return h, nil
}
