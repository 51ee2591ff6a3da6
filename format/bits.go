// bits.go - Decoders for flag bits packed into numeric fields
package format

// HeapCount is the PAGE_N_HEAP field split into its count and format flag.
type HeapCount struct {
	Count   uint16
	Compact bool
}

func DecodeHeapCount(v uint16) HeapCount {
	return HeapCount{Count: v & PageNHeapMask, Compact: v&PageNHeapFlag != 0}
}

func (h HeapCount) Encode() uint16 {
	v := h.Count & PageNHeapMask
	if h.Compact {
		v |= PageNHeapFlag
	}
	return v
}

// OffsetEntry is one entry of a redundant record's field end offset array.
type OffsetEntry struct {
	End      uint16
	Null     bool
	External bool // only representable in 2-byte entries
}

func Decode1ByteOffset(b uint8) OffsetEntry {
	return OffsetEntry{
		End:  uint16(b & Rec1ByteOffsMask),
		Null: b&Rec1ByteSQLNullMask != 0,
	}
}

func Decode2ByteOffset(v uint16) OffsetEntry {
	return OffsetEntry{
		End:      v & Rec2ByteOffsMask,
		Null:     v&Rec2ByteSQLNullMask != 0,
		External: v&Rec2ByteExternMask != 0,
	}
}

func (e OffsetEntry) Encode1Byte() uint8 {
	b := uint8(e.End) & Rec1ByteOffsMask
	if e.Null {
		b |= Rec1ByteSQLNullMask
	}
	return b
}

func (e OffsetEntry) Encode2Byte() uint16 {
	v := e.End & Rec2ByteOffsMask
	if e.Null {
		v |= Rec2ByteSQLNullMask
	}
	if e.External {
		v |= Rec2ByteExternMask
	}
	return v
}

// InfoByte is the first header byte of a record: info bits in the high
// nibble, owned count in the low one.
type InfoByte struct {
	Bits   uint8 // already masked with RecInfoBitsMask
	NOwned uint8
}

func DecodeInfoByte(b uint8) InfoByte {
	return InfoByte{Bits: b & RecInfoBitsMask, NOwned: b & RecNOwnedMask}
}

func (i InfoByte) Encode() uint8 {
	return i.Bits&RecInfoBitsMask | i.NOwned&RecNOwnedMask
}

func (i InfoByte) MinRec() bool    { return i.Bits&RecInfoMinRecFlag != 0 }
func (i InfoByte) Deleted() bool   { return i.Bits&RecInfoDeletedFlag != 0 }
func (i InfoByte) Versioned() bool { return i.Bits&RecInfoVersionFlag != 0 }
func (i InfoByte) Instant() bool   { return i.Bits&RecInfoInstantFlag != 0 }

// OldBits is the 3-byte redundant header span holding heap number, field
// count and the 1-byte offsets flag: heap_no(13) | n_fields(10) | short(1).
type OldBits struct {
	HeapNo  uint16
	NFields uint16
	Short   bool
}

func DecodeOldBits(b0, b1, b2 uint8) OldBits {
	heap := (uint16(b0)<<8 | uint16(b1)) & RecHeapNoMask >> RecHeapNoShift
	nf := (uint16(b1)<<8 | uint16(b2)) & RecNFieldsMask >> RecNFieldsShift
	return OldBits{HeapNo: heap, NFields: nf, Short: b2&RecShortMask != 0}
}

func (o OldBits) Encode() [3]byte {
	v := uint32(o.HeapNo)<<11 | uint32(o.NFields&RecMaxNFields)<<1
	if o.Short {
		v |= 1
	}
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

// NewBits is the 2-byte compact header span: heap_no(13) | status(3).
type NewBits struct {
	HeapNo uint16
	Status RecordType
}

func DecodeNewBits(v uint16) NewBits {
	return NewBits{HeapNo: v & RecHeapNoMask >> RecHeapNoShift, Status: RecordType(v & RecStatusMask)}
}

func (n NewBits) Encode() uint16 {
	return n.HeapNo<<RecHeapNoShift | uint16(n.Status)&RecStatusMask
}
