// inner.go - A page buffer with its parsed FIL header and trailer
package page

import (
	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
)

// InnerPage = FIL header + body + FIL trailer (exactly 16 KiB)
type InnerPage struct {
	PageNo  uint32
	FIL     FilHeader
	Trailer FilTrailer
	Data    []byte // full 16KiB page bytes, not copied
}

func NewInnerPage(pageNo uint32, p []byte) (*InnerPage, error) {
	if len(p) != format.PageSize {
		return nil, errors.Errorf("expected %dB page, got %d", format.PageSize, len(p))
	}
	h, err := ParseFilHeader(p)
	if err != nil {
		return nil, err
	}
	t, err := ParseFilTrailer(p)
	if err != nil {
		return nil, err
	}
	if uint32(h.LastModLSN&0xffffffff) != t.Low32LSN {
		return nil, errors.Errorf("page %d: low32 LSN mismatch: hdr=%#x trl=%#x", pageNo, uint32(h.LastModLSN), t.Low32LSN)
	}
	return &InnerPage{PageNo: pageNo, FIL: h, Trailer: t, Data: p}, nil
}

func (ip *InnerPage) PageType() format.PageType { return ip.FIL.PageType }
