package innopage

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/internal/pagebuilder"
	"github.com/wilhasse/innopage/page"
)

func tablespace(t *testing.T, compact bool) []byte {
	t.Helper()
	var file []byte
	for no := uint32(0); no < 3; no++ {
		b := pagebuilder.New(compact)
		b.PageNo = no
		b.SpaceID = 9
		b.LSN = 0x1000 + uint64(no)
		for i := 0; i < int(no)*5; i++ {
			b.AddValues([]byte{byte('a' + i)}, []byte("v"))
		}
		p, _, err := b.Build()
		require.NoError(t, err)
		file = append(file, p...)
	}
	return file
}

func TestReadPage(t *testing.T) {
	for _, compact := range []bool{false, true} {
		file := tablespace(t, compact)
		r := NewPageReader(bytes.NewReader(file), nil)
		assert.Equal(t, uint32(3), NumPages(int64(len(file))))

		pg, err := r.ReadPage(2)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), pg.PageNo)
		assert.Equal(t, uint32(2), pg.FIL.PageNumber)
		assert.Equal(t, uint32(9), pg.FIL.SpaceID)
		assert.Equal(t, PageTypeIndex, pg.PageType())

		ip, err := r.ReadIndexPage(2)
		require.NoError(t, err)
		assert.Equal(t, uint16(10), ip.Hdr.NumUserRecs)
		recs, err := WalkRecords(ip, 0, true)
		require.NoError(t, err)
		assert.Len(t, recs, 10)

		rec, err := r.Decoder().Nth(pg.Data, 3)
		require.NoError(t, err)
		assert.Equal(t, recs[2].Pos, rec)
	}
}

func TestReadPagePastEnd(t *testing.T) {
	file := tablespace(t, true)
	r := NewPageReader(bytes.NewReader(file), nil)
	_, err := r.ReadPage(7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))
	assert.Contains(t, err.Error(), "read page 7")
}

func TestReadIndexPageReportsCorruption(t *testing.T) {
	file := tablespace(t, true)
	p := file[format.PageSize : 2*format.PageSize]
	copy(p[format.PageNewSupremum:], "xxxxxxxx")

	calls := 0
	r := NewPageReader(bytes.NewReader(file), page.NewDecoder(fault.New(fault.WithCallback(func() { calls++ }))))
	_, err := r.ReadIndexPage(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Equal(t, 1, calls)
}
