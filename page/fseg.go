// fseg.go - File segment headers of B-tree root pages
package page

import (
	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
)

// FsegHeader points at the inode of a file segment. Only root pages carry
// meaningful values; other pages are zero-filled.
type FsegHeader struct {
	Space  uint32
	PageNo uint32
	Offset uint16
}

func (h FsegHeader) IsZero() bool { return h == FsegHeader{} }

func ParseFsegHeader(p []byte, off int) (FsegHeader, error) {
	if off < 0 || off+format.FsegHeaderSize > len(p) {
		return FsegHeader{}, errors.Wrapf(format.ErrShortRead, "fseg header at %d", off)
	}
	sp, _ := format.Be32(p, off)
	pg, _ := format.Be32(p, off+4)
	of, _ := format.Be16(p, off+8)
	return FsegHeader{Space: sp, PageNo: pg, Offset: of}, nil
}

// BtrSegments holds the leaf and non-leaf segment headers that follow the
// index header.
type BtrSegments struct {
	Leaf FsegHeader
	Top  FsegHeader
}

func ParseBtrSegments(p []byte) (BtrSegments, error) {
	leaf, err := ParseFsegHeader(p, format.PageHeader+format.PageBtrSegLeaf)
	if err != nil {
		return BtrSegments{}, errors.Wrap(err, "leaf segment")
	}
	top, err := ParseFsegHeader(p, format.PageHeader+format.PageBtrSegTop)
	if err != nil {
		return BtrSegments{}, errors.Wrap(err, "top segment")
	}
	return BtrSegments{Leaf: leaf, Top: top}, nil
}

// CheckSegments validates the segment headers of a root page. Both must
// name the page's own tablespace and the start of an inode slot. Pages
// without siblings but with zero headers are accepted.
func (d *Decoder) CheckSegments(ip *IndexPage) error {
	if !ip.IsRoot() {
		return nil
	}
	p := ip.Inner.Data
	for _, s := range []struct {
		name string
		h    FsegHeader
	}{{"leaf", ip.Segs.Leaf}, {"top", ip.Segs.Top}} {
		if s.h.IsZero() {
			continue
		}
		if s.h.Space != ip.Inner.FIL.SpaceID {
			return d.rep.Corruptf("%s segment header names space %d%s", s.name, s.h.Space, format.PageIdent(p))
		}
		off := int(s.h.Offset)
		if off < format.FsegArrOffset || (off-format.FsegArrOffset)%format.FsegInodeSize != 0 ||
			off+format.FsegInodeSize > format.PageSize-format.FilTrailerSize {
			return d.rep.Corruptf("%s segment inode offset %d is not an inode slot%s", s.name, off, format.PageIdent(p))
		}
	}
	return nil
}
