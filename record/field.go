// field.go - Field offsets of redundant (old-style) records
package record

import (
	"github.com/wilhasse/innopage/format"
)

// Field locates one field of a redundant record. Start and End are relative
// to the record origin.
type Field struct {
	Index    int
	Start    int
	End      int    // equals Start for NULL fields
	Length   uint32 // format.SQLNull for NULL fields
	Null     bool
	External bool
}

// Bytes returns the field's inline bytes for a record at origin rec.
func (f Field) Bytes(p []byte, rec int) []byte {
	if f.Null || rec+f.End > len(p) {
		return nil
	}
	return p[rec+f.Start : rec+f.End]
}

// FieldAt returns start, length and flags of field n of the redundant record
// at rec. versioned says whether a version byte precedes the offset array.
// n must be below the record's field count.
func (d *Decoder) FieldAt(p []byte, rec, n int, versioned bool) (Field, error) {
	d.checkPage(p)
	d.checkOrigin(rec, false)
	h, _ := ParseHeader(p, rec, false)
	d.rep.Assert(n >= 0 && n < int(h.NFields), "n < rec_get_n_fields_old(rec)")
	return d.fieldAt(p, rec, n, h.Short, versioned)
}

func (d *Decoder) fieldAt(p []byte, rec, n int, short, versioned bool) (Field, error) {
	base := rec - format.RecNOldExtraBytes
	if versioned {
		base--
	}

	var end, prev format.OffsetEntry
	if short {
		pos := base - n - 1
		if pos < 0 {
			return Field{}, d.rep.Corruptf("field %d offset of record at %d crosses page start%s", n, rec, format.PageIdent(p))
		}
		end = format.Decode1ByteOffset(p[pos])
		if n > 0 {
			prev = format.Decode1ByteOffset(p[base-n])
		}
	} else {
		pos := base - 2*n - 2
		if pos < 0 {
			return Field{}, d.rep.Corruptf("field %d offset of record at %d crosses page start%s", n, rec, format.PageIdent(p))
		}
		v, _ := format.Be16(p, pos)
		end = format.Decode2ByteOffset(v)
		if n > 0 {
			pv, _ := format.Be16(p, base-2*n)
			prev = format.Decode2ByteOffset(pv)
		}
	}

	f := Field{Index: n, Start: int(prev.End)}
	if end.Null {
		if end.External {
			return Field{}, d.rep.Corruptf("field %d of record at %d is both NULL and external%s", n, rec, format.PageIdent(p))
		}
		f.End = f.Start
		f.Null = true
		f.Length = format.SQLNull
		return f, nil
	}

	f.End = int(end.End)
	f.External = end.External
	if f.End < f.Start {
		return Field{}, d.rep.Corruptf("field %d of record at %d ends at %d before its start %d%s",
			n, rec, f.End, f.Start, format.PageIdent(p))
	}
	length := f.End - f.Start
	if length >= format.PageSize || rec+f.End > format.PageSize {
		return Field{}, d.rep.Corruptf("field %d of record at %d has length %d past the page%s", n, rec, length, format.PageIdent(p))
	}
	f.Length = uint32(length)
	return f, nil
}

// Fields decodes every field of the redundant record at rec. The version byte
// is taken from the record's info bits.
func (d *Decoder) Fields(p []byte, rec int) ([]Field, error) {
	d.checkPage(p)
	d.checkOrigin(rec, false)
	h, _ := ParseHeader(p, rec, false)
	out := make([]Field, 0, h.NFields)
	for n := 0; n < int(h.NFields); n++ {
		f, err := d.fieldAt(p, rec, n, h.Short, h.Versioned())
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Parse decodes the header of the record at rec and, for redundant records,
// its field offsets.
func (d *Decoder) Parse(p []byte, rec int, compact bool) (Record, error) {
	d.checkPage(p)
	d.checkOrigin(rec, compact)
	h, _ := ParseHeader(p, rec, compact)
	r := Record{Pos: rec, Header: h}
	if no, err := format.Be32(p, format.FilPageOffset); err == nil {
		r.PageNumber = no
	}
	if compact {
		return r, nil
	}
	fields, err := d.Fields(p, rec)
	if err != nil {
		return r, err
	}
	r.Fields = fields
	return r, nil
}
