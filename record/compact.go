// compact.go - Field offsets of compact (new-style) records
package record

import (
	"github.com/wilhasse/innopage/format"
)

// NOTE: Compact layout: [lengths, reversed][NULL bitmap, reversed][5B header][data]

// Column is what the compact record header needs to know about a field:
// compact records store lengths only for variable-length fields and NULL
// flags only for nullable ones.
type Column struct {
	Fixed    int  // stored length; 0 for variable-length fields
	Nullable bool
	Big      bool // length may take two bytes (max length > 255 or BLOB)
}

// CompactFields locates the fields of the compact record at rec. cols lists
// the fields in physical order; for node pointer records that is the key
// fields followed by the 4-byte child page number.
func (d *Decoder) CompactFields(p []byte, rec int, cols []Column) ([]Field, error) {
	d.checkPage(p)
	d.checkOrigin(rec, true)

	h, _ := ParseHeader(p, rec, true)
	if h.Info.Instant() {
		return nil, d.rep.Corruptf("record at %d has instant columns, which need the index definition%s", rec, format.PageIdent(p))
	}

	nullable := 0
	for _, c := range cols {
		if c.Nullable {
			nullable++
		}
	}
	nulls := rec - format.RecNNewExtraBytes - 1
	lens := nulls - (nullable+7)/8
	if lens < format.PageData-1 {
		return nil, d.rep.Corruptf("NULL bitmap of record at %d crosses the page header%s", rec, format.PageIdent(p))
	}

	out := make([]Field, 0, len(cols))
	var (
		off      int
		nullMask = 1
	)
	for i, c := range cols {
		f := Field{Index: i, Start: off}
		if c.Nullable {
			if nullMask == 1<<8 {
				nulls--
				nullMask = 1
			}
			null := int(p[nulls])&nullMask != 0
			nullMask <<= 1
			if null {
				f.End = off
				f.Null = true
				f.Length = format.SQLNull
				out = append(out, f)
				continue
			}
		}

		length := c.Fixed
		if c.Fixed == 0 {
			if lens < format.PageData {
				return out, d.rep.Corruptf("field %d length of record at %d crosses the page header%s", i, rec, format.PageIdent(p))
			}
			length = int(p[lens])
			lens--
			if c.Big && length&0x80 != 0 {
				length = length<<8 | int(p[lens])
				lens--
				f.External = length&format.Rec2ByteExternMask != 0
				length &= format.Rec2ByteOffsMask
			}
		}

		off += length
		if rec+off > format.PageSize-format.PageDir {
			return out, d.rep.Corruptf("field %d of record at %d has length %d past the heap%s", i, rec, length, format.PageIdent(p))
		}
		f.End = off
		f.Length = uint32(length)
		out = append(out, f)
	}
	return out, nil
}
