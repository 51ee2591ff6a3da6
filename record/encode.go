// encode.go - Building record images, used to construct pages
package record

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
)

// FieldSpec describes one field to encode. A NULL field keeps len(Data) zero
// bytes of storage, as fixed-size NULL columns do.
type FieldSpec struct {
	Data     []byte
	Null     bool
	External bool
}

type RedundantOptions struct {
	InfoBits       uint8 // high nibble flags; the version flag is added when Versioned
	NOwned         uint8
	HeapNo         uint16
	Next           uint16
	Versioned      bool
	Version        uint8
	TwoByteOffsets bool // force 2-byte offsets even for short records
}

// EncodeRedundant lays out a redundant record as
// [offsets n-1..0][version][6B header][data] and returns the image together
// with the index of the record origin in it.
func EncodeRedundant(fields []FieldSpec, opts RedundantOptions) ([]byte, int, error) {
	n := len(fields)
	if n == 0 || n > format.RecMaxNFields {
		return nil, 0, errors.Errorf("redundant record needs 1..%d fields, got %d", format.RecMaxNFields, n)
	}

	total := 0
	extern := false
	for i, f := range fields {
		if f.Null && f.External {
			return nil, 0, errors.Errorf("field %d is both NULL and external", i)
		}
		extern = extern || f.External
		total += len(f.Data)
	}
	short := !opts.TwoByteOffsets && !extern && total <= format.Rec1ByteOffsLimit
	if !short && total > format.Rec2ByteOffsMask {
		return nil, 0, errors.Errorf("record data of %d bytes exceeds 2-byte offsets", total)
	}

	entry := 2
	if short {
		entry = 1
	}
	v := 0
	if opts.Versioned {
		v = 1
	}
	origin := n*entry + v + format.RecNOldExtraBytes
	buf := make([]byte, origin+total)
	base := origin - format.RecNOldExtraBytes - v

	end := 0
	for i, f := range fields {
		if !f.Null {
			copy(buf[origin+end:], f.Data)
		}
		end += len(f.Data)
		e := format.OffsetEntry{End: uint16(end), Null: f.Null, External: f.External}
		if short {
			buf[base-i-1] = e.Encode1Byte()
		} else {
			binary.BigEndian.PutUint16(buf[base-2*i-2:], e.Encode2Byte())
		}
	}

	info := opts.InfoBits
	if opts.Versioned {
		info |= format.RecInfoVersionFlag
		buf[base] = opts.Version
	}
	buf[origin-format.RecOldInfoBits] = format.InfoByte{Bits: info, NOwned: opts.NOwned}.Encode()
	bits := format.OldBits{HeapNo: opts.HeapNo, NFields: uint16(n), Short: short}.Encode()
	copy(buf[origin-format.RecOldHeapNo:], bits[:])
	binary.BigEndian.PutUint16(buf[origin-format.RecNext:], opts.Next)
	return buf, origin, nil
}

// EncodeCompactHeader builds the 5 header bytes of a compact record.
func EncodeCompactHeader(info format.InfoByte, bits format.NewBits, next Displacement) [format.RecNNewExtraBytes]byte {
	var h [format.RecNNewExtraBytes]byte
	h[0] = info.Encode()
	binary.BigEndian.PutUint16(h[1:], bits.Encode())
	binary.BigEndian.PutUint16(h[3:], uint16(next))
	return h
}

// EncodeCompact lays out a compact record as
// [lengths][NULL bitmap][5B header][data] and returns the image with the
// index of the record origin in it. With nil cols no lengths or NULL flags
// are written and NULL fields take no space.
func EncodeCompact(fields []FieldSpec, cols []Column, header [format.RecNNewExtraBytes]byte) ([]byte, int, error) {
	if cols != nil && len(cols) != len(fields) {
		return nil, 0, errors.Errorf("%d fields for %d columns", len(fields), len(cols))
	}
	var nulls, lens, data []byte // nulls and lens in the order they are read
	nNull := 0
	for i, f := range fields {
		if f.Null && f.External {
			return nil, 0, errors.Errorf("field %d is both NULL and external", i)
		}
		if cols == nil {
			if !f.Null {
				data = append(data, f.Data...)
			}
			continue
		}
		c := cols[i]
		if c.Nullable {
			if nNull%8 == 0 {
				nulls = append(nulls, 0)
			}
			if f.Null {
				nulls[nNull/8] |= 1 << (nNull % 8)
			}
			nNull++
		} else if f.Null {
			return nil, 0, errors.Errorf("field %d is NULL but not nullable", i)
		}
		if f.Null {
			continue
		}

		n := len(f.Data)
		switch {
		case c.Fixed > 0:
			if n != c.Fixed || f.External {
				return nil, 0, errors.Errorf("field %d: %d bytes for a fixed length of %d", i, n, c.Fixed)
			}
		case c.Big && (n > 0x7f || f.External):
			if n > format.Rec2ByteOffsMask {
				return nil, 0, errors.Errorf("field %d: length %d too long", i, n)
			}
			hi := byte(0x80 | n>>8)
			if f.External {
				hi |= 0x40
			}
			lens = append(lens, hi, byte(n))
		default:
			if n > 0xff || f.External {
				return nil, 0, errors.Errorf("field %d: length %d needs a 2-byte length", i, n)
			}
			lens = append(lens, byte(n))
		}
		data = append(data, f.Data...)
	}

	origin := len(lens) + len(nulls) + format.RecNNewExtraBytes
	buf := make([]byte, 0, origin+len(data))
	for i := len(lens) - 1; i >= 0; i-- {
		buf = append(buf, lens[i])
	}
	for i := len(nulls) - 1; i >= 0; i-- {
		buf = append(buf, nulls[i])
	}
	buf = append(buf, header[:]...)
	return append(buf, data...), origin, nil
}

// PutNext stores the link from the record at rec to the record at target.
// A target of 0 ends the list.
func PutNext(p []byte, rec, target int, compact bool) {
	v := uint16(target)
	if compact && target != 0 {
		v = uint16(int16(target - rec))
	}
	binary.BigEndian.PutUint16(p[rec-format.RecNext:], v)
}

// PutNOwned stores the owned count of the record at rec.
func PutNOwned(p []byte, rec int, compact bool, n uint8) {
	pos := rec - extraBytes(compact)
	ib := format.DecodeInfoByte(p[pos])
	ib.NOwned = n
	p[pos] = ib.Encode()
}
