// generic.go - Located record with header and decoded fields
package record

// Record is a record located on a page: its origin offset and header. Fields
// is filled for redundant records only.
type Record struct {
	PageNumber uint32
	Pos        int // page offset of the record origin
	Header     Header
	Fields     []Field
}

// Data returns the record's data bytes when its fields are known.
func (r Record) Data(p []byte) []byte {
	if len(r.Fields) == 0 {
		return nil
	}
	end := r.Fields[len(r.Fields)-1].End
	if r.Pos+end > len(p) {
		return nil
	}
	return p[r.Pos : r.Pos+end]
}

// Field returns the bytes of field n, or nil for NULL or unknown fields.
func (r Record) Field(p []byte, n int) []byte {
	if n < 0 || n >= len(r.Fields) {
		return nil
	}
	return r.Fields[n].Bytes(p, r.Pos)
}
