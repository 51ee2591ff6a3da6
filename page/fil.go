// fil.go - FIL header and trailer parsing for InnoDB pages
package page

import (
	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
)

type FilHeader struct {
	Checksum   uint32
	PageNumber uint32
	Prev       *uint32 // nil when FIL_NULL
	Next       *uint32
	LastModLSN uint64
	PageType   format.PageType
	FlushLSN   uint64
	SpaceID    uint32
}

func ParseFilHeader(p []byte) (FilHeader, error) {
	if len(p) < format.FilHeaderSize {
		return FilHeader{}, errors.Wrapf(format.ErrShortRead, "fil header: page of %d bytes", len(p))
	}
	chk, _ := format.Be32(p, format.FilPageSpaceOrChksum)
	pg, _ := format.Be32(p, format.FilPageOffset)
	prev, _ := format.Be32(p, format.FilPagePrev)
	next, _ := format.Be32(p, format.FilPageNext)
	lsn, _ := format.Be64(p, format.FilPageLSN)
	pt, _ := format.Be16(p, format.FilPageType)
	flush, _ := format.Be64(p, format.FilPageFileFlushLSN)
	space, _ := format.Be32(p, format.FilPageSpaceID)
	var prevPtr, nextPtr *uint32
	if prev != format.FilNull {
		prevPtr = &prev
	}
	if next != format.FilNull {
		nextPtr = &next
	}
	return FilHeader{
		Checksum: chk, PageNumber: pg, Prev: prevPtr, Next: nextPtr,
		LastModLSN: lsn, PageType: format.PageType(pt), FlushLSN: flush, SpaceID: space,
	}, nil
}

type FilTrailer struct {
	Checksum uint32
	Low32LSN uint32
}

func ParseFilTrailer(p []byte) (FilTrailer, error) {
	if len(p) != format.PageSize {
		return FilTrailer{}, errors.Wrapf(format.ErrShortRead, "fil trailer: page of %d bytes", len(p))
	}
	off := format.PageSize - format.FilTrailerSize
	chk, _ := format.Be32(p, off)
	lsn, _ := format.Be32(p, off+4)
	return FilTrailer{Checksum: chk, Low32LSN: lsn}, nil
}

// PageNo returns the page number stored in the FIL header.
func PageNo(p []byte) uint32 {
	v, _ := format.Be32(p, format.FilPageOffset)
	return v
}

// SpaceID returns the tablespace id stored in the FIL header.
func SpaceID(p []byte) uint32 {
	v, _ := format.Be32(p, format.FilPageSpaceID)
	return v
}
