// index.go - INDEX page parsing with records and directory
package page

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/record"
)

type IndexPage struct {
	Inner    *InnerPage
	Hdr      IndexHeader
	Segs     BtrSegments
	Infimum  record.Record
	Supremum record.Record
	DirSlots []uint16 // DirSlots[0] is the slot nearest the page end

	dec *Decoder
}

// ParseIndexPage decodes an INDEX page of either record format with the
// process-wide fault reporter.
func ParseIndexPage(ip *InnerPage) (*IndexPage, error) {
	return NewDecoder(nil).ParseIndexPage(ip)
}

func (d *Decoder) ParseIndexPage(ip *InnerPage) (*IndexPage, error) {
	if ip.FIL.PageType != format.PageTypeIndex {
		return nil, errors.Errorf("not an INDEX page: type=%s", ip.FIL.PageType)
	}
	p := ip.Data
	hdr, err := ParseIndexHeader(p)
	if err != nil {
		return nil, err
	}
	segs, err := ParseBtrSegments(p)
	if err != nil {
		return nil, err
	}
	compact := hdr.Format == format.FormatCompact

	inf, err := d.systemRecord(p, d.Infimum(p), compact, format.LitInfimum)
	if err != nil {
		return nil, err
	}
	sup, err := d.systemRecord(p, d.Supremum(p), compact, format.LitSupremum)
	if err != nil {
		return nil, err
	}

	n := int(hdr.NumDirSlots)
	if slotPos(n-1) < format.PageData {
		return nil, d.rep.Corruptf("%d directory slots do not fit the page%s", n, format.PageIdent(p))
	}
	dir := make([]uint16, n)
	for i := range dir {
		dir[i], _ = format.Be16(p, slotPos(i))
	}

	return &IndexPage{
		Inner: ip, Hdr: hdr, Segs: segs,
		Infimum: inf, Supremum: sup, DirSlots: dir,
		dec: d,
	}, nil
}

func (d *Decoder) systemRecord(p []byte, pos int, compact bool, lit []byte) (record.Record, error) {
	if !bytes.Equal(p[pos:pos+format.SystemRecordBytes], lit) {
		return record.Record{}, d.rep.Corruptf("%q literal mismatch at %d%s", bytes.TrimRight(lit, "\x00"), pos, format.PageIdent(p))
	}
	h, err := record.ParseHeader(p, pos, compact)
	if err != nil {
		return record.Record{}, err
	}
	return record.Record{PageNumber: PageNo(p), Pos: pos, Header: h}, nil
}

func (ip *IndexPage) IsLeaf() bool { return ip.Hdr.PageLevel == 0 }

// IsRoot reports whether the page has no siblings at its level.
func (ip *IndexPage) IsRoot() bool { return ip.Inner.FIL.Prev == nil && ip.Inner.FIL.Next == nil }

// UsedBytes counts the heap up to its top plus the directory and trailer,
// less the garbage of deleted records.
func (ip *IndexPage) UsedBytes() int {
	return int(ip.Hdr.HeapTop) + format.FilTrailerSize + int(ip.Hdr.NumDirSlots)*format.PageDirSlotSize - int(ip.Hdr.GarbageSpace)
}

// Decoder returns the decoder the page was parsed with.
func (ip *IndexPage) Decoder() *Decoder { return ip.dec }

// WalkRecords follows the record list from the infimum. Redundant records
// come back with their fields decoded.
// If skipSystem is true, INFIMUM and SUPREMUM are not returned.
// max limits the number of records returned; 0 means no limit.
func (ip *IndexPage) WalkRecords(max int, skipSystem bool) ([]record.Record, error) {
	p := ip.Inner.Data
	compact := ip.Hdr.Format == format.FormatCompact
	rd := ip.dec.Records()

	var (
		out     []record.Record
		pageErr error
	)
	err := ip.dec.Walk(p, func(rec int) bool {
		if rec == ip.Infimum.Pos || rec == ip.Supremum.Pos {
			if !skipSystem {
				out = append(out, ip.systemAt(rec))
			}
			return rec != ip.Supremum.Pos
		}
		r, err := rd.Parse(p, rec, compact)
		if err != nil {
			pageErr = err
			return false
		}
		out = append(out, r)
		return max <= 0 || len(out) < max
	})
	if err != nil {
		return out, err
	}
	return out, pageErr
}

func (ip *IndexPage) systemAt(rec int) record.Record {
	if rec == ip.Infimum.Pos {
		return ip.Infimum
	}
	return ip.Supremum
}
