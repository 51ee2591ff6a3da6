package innopage

import (
	"io"

	"github.com/pkg/errors"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/page"
)

type PageReader struct {
	r   io.ReaderAt
	dec *page.Decoder
}

// NewPageReader reads pages from r. A nil decoder means the process-wide
// fault reporter.
func NewPageReader(r io.ReaderAt, dec *page.Decoder) *PageReader {
	if dec == nil {
		dec = page.NewDecoder(nil)
	}
	return &PageReader{r: r, dec: dec}
}

func (pr *PageReader) Decoder() *page.Decoder { return pr.dec }

func (pr *PageReader) ReadPage(pageNo uint32) (*InnerPage, error) {
	buf := make([]byte, format.PageSize)
	off := int64(pageNo) * int64(format.PageSize)
	if _, err := pr.r.ReadAt(buf, off); err != nil {
		return nil, errors.Wrapf(err, "read page %d", pageNo)
	}
	return page.NewInnerPage(pageNo, buf)
}

// ReadIndexPage reads a page and decodes it as an INDEX page.
func (pr *PageReader) ReadIndexPage(pageNo uint32) (*IndexPage, error) {
	ip, err := pr.ReadPage(pageNo)
	if err != nil {
		return nil, err
	}
	return pr.dec.ParseIndexPage(ip)
}

// NumPages returns the number of whole pages in a file of the given size.
func NumPages(size int64) uint32 {
	return uint32(size / format.PageSize)
}
