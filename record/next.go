// next.go - Next record pointer decoding
package record

import (
	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
)

// Displacement is a compact next pointer: a signed distance between two
// record origins, wrapping through the page.
type Displacement int16

// Target returns the page offset reached from origin rec.
func (d Displacement) Target(rec int) int {
	t := (rec + int(d)) % format.PageSize
	if t < 0 {
		t += format.PageSize
	}
	return t
}

// Sane reports whether d can separate two compact records.
func (d Displacement) Sane() bool {
	return d > format.RecNNewExtraBytes || d < -format.RecNNewExtraBytes
}

// Decoder decodes records of a page. The zero value is not usable; use
// NewDecoder.
type Decoder struct {
	rep *fault.Reporter
}

// NewDecoder returns a decoder reporting failed checks to rep, or to the
// process-wide reporter when rep is nil.
func NewDecoder(rep *fault.Reporter) *Decoder {
	return &Decoder{rep: fault.Or(rep)}
}

func (d *Decoder) Reporter() *fault.Reporter { return d.rep }

func (d *Decoder) checkPage(p []byte) {
	d.rep.Assert(len(p) == format.PageSize, "len(page) == PageSize")
}

func (d *Decoder) checkOrigin(rec int, compact bool) {
	d.rep.Assert(rec >= extraBytes(compact) && rec < format.PageSize, "record origin inside page")
}

// NextOffset returns the page offset of the record following rec. ok is
// false when rec ends the list.
func (d *Decoder) NextOffset(p []byte, rec int, compact bool) (next int, ok bool, err error) {
	d.checkPage(p)
	d.checkOrigin(rec, compact)

	raw, _ := format.Be16(p, rec-format.RecNext)
	if raw == 0 {
		return 0, false, nil
	}
	if compact {
		disp := Displacement(int16(raw))
		if !disp.Sane() {
			return 0, false, d.rep.Corruptf("next record displacement %d too small in record at offset %d%s",
				disp, rec, format.PageIdent(p))
		}
		next = disp.Target(rec)
		if next == 0 {
			return 0, false, d.rep.Corruptf("next record displacement %d from offset %d wraps to page start%s",
				disp, rec, format.PageIdent(p))
		}
		return next, true, nil
	}
	if int(raw) >= format.PageSize {
		return 0, false, d.rep.Corruptf("next record offset is nonsensical %d in record at offset %d%s",
			raw, rec, format.PageIdent(p))
	}
	return int(raw), true, nil
}
