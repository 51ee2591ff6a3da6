// directory.go - Page directory navigation and the record list
package page

import (
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/record"
)

// Slot is one page directory entry.
type Slot struct {
	Index int
	Rec   int // origin of the owning record
	Owned int
}

// slotPos is the page offset of directory slot i. Slot 0 sits just in front
// of the FIL trailer and later slots grow towards the page start.
func slotPos(i int) int {
	return format.PageSize - format.PageDir - (i+1)*format.PageDirSlotSize
}

// NumSlots returns PAGE_N_DIR_SLOTS.
func (d *Decoder) NumSlots(p []byte) int { return int(d.Header(p, NDirSlots)) }

// SlotRecord returns the origin of the record owning slot i.
func (d *Decoder) SlotRecord(p []byte, i int) (int, error) {
	d.checkPage(p)
	d.rep.Assert(i >= 0, "slot index >= 0")
	pos := slotPos(i)
	if pos < format.PageData {
		return 0, d.rep.Corruptf("directory slot %d lies outside the page%s", i, format.PageIdent(p))
	}
	v, _ := format.Be16(p, pos)
	rec := int(v)
	if err := d.recCheck(p, rec); err != nil {
		return 0, err
	}
	return rec, nil
}

// SlotOwned returns the number of records owned by slot i.
func (d *Decoder) SlotOwned(p []byte, i int) (int, error) {
	rec, err := d.SlotRecord(p, i)
	if err != nil {
		return 0, err
	}
	return d.owned(p, rec), nil
}

func (d *Decoder) owned(p []byte, rec int) int {
	h, _ := record.ParseHeader(p, rec, d.IsCompact(p))
	return int(h.NOwned())
}

// Slots decodes the whole directory.
func (d *Decoder) Slots(p []byte) ([]Slot, error) {
	n := d.NumSlots(p)
	out := make([]Slot, 0, n)
	for i := 0; i < n; i++ {
		rec, err := d.SlotRecord(p, i)
		if err != nil {
			return out, err
		}
		out = append(out, Slot{Index: i, Rec: rec, Owned: d.owned(p, rec)})
	}
	return out, nil
}

// Next returns the origin of the record following rec. ok is false when
// rec is the last record of the list.
func (d *Decoder) Next(p []byte, rec int) (next int, ok bool, err error) {
	next, ok, err = d.rec.NextOffset(p, rec, d.IsCompact(p))
	if err != nil || !ok {
		return 0, false, err
	}
	if err := d.recCheck(p, next); err != nil {
		return 0, false, err
	}
	return next, true, nil
}

// Nth returns the origin of the n-th record in key order: 0 is the infimum,
// 1 the first user record. The directory is used to skip whole slots.
func (d *Decoder) Nth(p []byte, n int) (int, error) {
	d.checkPage(p)
	d.rep.Assert(n >= 0, "record ordinal >= 0")
	if n == 0 {
		return d.Infimum(p), nil
	}
	if n >= format.MaxRecordsPerPage {
		return 0, d.rep.Corruptf("record ordinal %d exceeds %d%s", n, format.MaxRecordsPerPage, format.PageIdent(p))
	}

	nSlots := d.NumSlots(p)
	i := 0
	for ; ; i++ {
		if i >= nSlots {
			return 0, d.rep.Corruptf("record ordinal runs past %d directory slots%s", nSlots, format.PageIdent(p))
		}
		owned, err := d.SlotOwned(p, i)
		if err != nil {
			return 0, err
		}
		if owned > n {
			break
		}
		n -= owned
	}
	if i == 0 {
		return 0, d.rep.Corruptf("first directory slot owns more than the infimum%s", format.PageIdent(p))
	}

	rec, err := d.SlotRecord(p, i-1)
	if err != nil {
		return 0, err
	}
	for ; n >= 0; n-- {
		next, ok, err := d.Next(p, rec)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, d.rep.Corruptf("record list ends inside slot %d%s", i, format.PageIdent(p))
		}
		rec = next
	}
	return rec, nil
}

// NthLinear resolves the n-th record by following next links from the
// infimum, without the directory.
func (d *Decoder) NthLinear(p []byte, n int) (int, error) {
	d.checkPage(p)
	d.rep.Assert(n >= 0, "record ordinal >= 0")
	if n >= format.MaxRecordsPerPage {
		return 0, d.rep.Corruptf("record ordinal %d exceeds %d%s", n, format.MaxRecordsPerPage, format.PageIdent(p))
	}
	rec := d.Infimum(p)
	for k := 0; k < n; k++ {
		next, ok, err := d.Next(p, rec)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, d.rep.Corruptf("record list ends after %d records%s", k+1, format.PageIdent(p))
		}
		rec = next
	}
	return rec, nil
}

// Walk calls fn for every record from the infimum to the end of the list,
// stopping early when fn returns false.
func (d *Decoder) Walk(p []byte, fn func(rec int) bool) error {
	d.checkPage(p)
	rec := d.Infimum(p)
	for steps := 0; ; steps++ {
		if steps > format.MaxRecordsPerPage {
			return d.rep.Corruptf("record list longer than %d records%s", format.MaxRecordsPerPage, format.PageIdent(p))
		}
		if !fn(rec) {
			return nil
		}
		next, ok, err := d.Next(p, rec)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		rec = next
	}
}

// CheckDirectory verifies that the directory and the record list agree:
// slot 0 owns only the infimum, the last slot owns the supremum, owned
// counts are in range and sum to the record count, and every slot points at
// the last record of its run.
func (d *Decoder) CheckDirectory(p []byte) error {
	d.checkPage(p)
	nSlots := d.NumSlots(p)
	ident := format.PageIdent(p)
	if nSlots < 2 {
		return d.rep.Corruptf("page has %d directory slots, need at least 2%s", nSlots, ident)
	}
	top := int(d.Header(p, HeapTop))
	if slotPos(nSlots-1) < top {
		return d.rep.Corruptf("directory of %d slots overlaps heap top %d%s", nSlots, top, ident)
	}

	slots, err := d.Slots(p)
	if err != nil {
		return err
	}
	if slots[0].Rec != d.Infimum(p) || slots[0].Owned != 1 {
		return d.rep.Corruptf("slot 0 must own only the infimum, has record %d owning %d%s",
			slots[0].Rec, slots[0].Owned, ident)
	}
	last := slots[nSlots-1]
	if last.Rec != d.Supremum(p) {
		return d.rep.Corruptf("last slot points at %d, not the supremum%s", last.Rec, ident)
	}
	if last.Owned < 1 || last.Owned > format.PageDirSlotMaxNOwned {
		return d.rep.Corruptf("last slot owns %d records%s", last.Owned, ident)
	}
	total := slots[0].Owned + last.Owned
	for _, s := range slots[1 : nSlots-1] {
		if s.Owned < format.PageDirSlotMinNOwned || s.Owned > format.PageDirSlotMaxNOwned {
			return d.rep.Corruptf("slot %d owns %d records%s", s.Index, s.Owned, ident)
		}
		total += s.Owned
	}
	nRecs := int(d.Header(p, NRecs))
	if total != nRecs+2 {
		return d.rep.Corruptf("directory owns %d records, page has %d user records%s", total, nRecs, ident)
	}

	var (
		j       int
		run     int
		walkErr error
	)
	err = d.Walk(p, func(rec int) bool {
		run++
		owned := d.owned(p, rec)
		if owned == 0 {
			return true
		}
		if j >= nSlots || slots[j].Rec != rec {
			walkErr = d.rep.Corruptf("record %d owns %d records but is not directory slot %d%s", rec, owned, j, ident)
			return false
		}
		if owned != run {
			walkErr = d.rep.Corruptf("slot %d owns %d records, its run has %d%s", j, owned, run, ident)
			return false
		}
		j++
		run = 0
		return true
	})
	if err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}
	if j != nSlots || run != 0 {
		return d.rep.Corruptf("record list reaches %d of %d directory slots%s", j, nSlots, ident)
	}
	return nil
}
