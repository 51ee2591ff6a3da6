package page

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/internal/pagebuilder"
	"github.com/wilhasse/innopage/record"
)

func build(t *testing.T, b *pagebuilder.Builder) ([]byte, pagebuilder.Layout) {
	t.Helper()
	p, l, err := b.Build()
	require.NoError(t, err)
	return p, l
}

func withRecords(compact bool, n int) *pagebuilder.Builder {
	b := pagebuilder.New(compact)
	for i := 0; i < n; i++ {
		b.AddValues([]byte(fmt.Sprintf("k%04d", i)), []byte("v"))
	}
	return b
}

func isCorrupt(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrCorrupt), "want corruption, got %v", err)
}

var formats = []struct {
	name    string
	compact bool
}{{"redundant", false}, {"compact", true}}

func TestHeaderFieldReader(t *testing.T) {
	d := NewDecoder(fault.New())
	for _, tc := range formats {
		t.Run(tc.name, func(t *testing.T) {
			b := withRecords(tc.compact, 5)
			b.PageNo, b.SpaceID = 42, 7
			b.IndexID, b.MaxTrxID = 0x1122334455667788, 0x99
			b.Level = 3
			p, l := build(t, b)

			assert.Equal(t, uint64(3), d.Header(p, Level))
			assert.False(t, d.IsLeaf(p))
			assert.Equal(t, tc.compact, d.IsCompact(p))
			assert.Equal(t, 7, d.NHeap(p))
			assert.Equal(t, uint64(5), d.Header(p, NRecs))
			assert.Equal(t, uint64(l.HeapTop), d.Header(p, HeapTop))
			assert.Equal(t, uint64(0x1122334455667788), d.Header(p, IndexID))
			assert.Equal(t, uint64(0x99), d.Header(p, MaxTrxID))
			assert.Equal(t, uint64(format.DirNoDirection), d.Header(p, Direction))
			assert.Equal(t, uint32(42), PageNo(p))
			assert.Equal(t, uint32(7), SpaceID(p))

			b.Level = 0
			p, _ = build(t, b)
			assert.True(t, d.IsLeaf(p))
		})
	}
}

func TestHeaderFieldTable(t *testing.T) {
	fields := HeaderFields()
	require.Len(t, fields, 12)
	assert.Equal(t, 0, NDirSlots.Offset())
	assert.Equal(t, 18, MaxTrxID.Offset())
	assert.Equal(t, 8, MaxTrxID.Width())
	assert.Equal(t, 26, Level.Offset())
	assert.Equal(t, 28, IndexID.Offset())
	assert.Equal(t, "PAGE_N_HEAP", NHeap.String())
	assert.Equal(t, "HeaderField(40)", HeaderField(40).String())

	d := NewDecoder(fault.New())
	p := make([]byte, format.PageSize)
	assert.Panics(t, func() { d.Header(p, HeaderField(40)) })
	assert.Panics(t, func() { d.Header(p[:100], Level) })
}

func TestSystemRecords(t *testing.T) {
	d := NewDecoder(fault.New())
	for _, tc := range formats {
		t.Run(tc.name, func(t *testing.T) {
			p, l := build(t, withRecords(tc.compact, 2))
			inf, sup := d.Infimum(p), d.Supremum(p)
			if tc.compact {
				assert.Equal(t, 99, inf)
				assert.Equal(t, 112, sup)
			} else {
				assert.Equal(t, 101, inf)
				assert.Equal(t, 116, sup)
			}
			assert.Equal(t, format.LitInfimum, p[inf:inf+8])
			assert.Equal(t, format.LitSupremum, p[sup:sup+8])
			assert.Equal(t, inf, l.Records[0])
			assert.Equal(t, sup, l.Records[len(l.Records)-1])
		})
	}
}

func TestNthSlotScenario(t *testing.T) {
	d := NewDecoder(fault.New())
	for _, tc := range formats {
		t.Run(tc.name, func(t *testing.T) {
			b := withRecords(tc.compact, 22)
			b.Owned = []int{1, 5, 8, 8, 2}
			p, l := build(t, b)

			slots, err := d.Slots(p)
			require.NoError(t, err)
			require.Len(t, slots, 5)
			for i, s := range slots {
				assert.Equal(t, b.Owned[i], s.Owned)
			}

			rec, err := d.Nth(p, 14)
			require.NoError(t, err)
			// first record of slot 3's run: one hop past slot 2's record
			want, ok, err := d.Next(p, slots[2].Rec)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, rec)
			assert.Equal(t, l.Records[14], rec)
			assert.NoError(t, d.CheckDirectory(p))
		})
	}
}

func TestNthMatchesLinearWalk(t *testing.T) {
	d := NewDecoder(fault.New())
	for _, tc := range formats {
		for _, n := range []int{0, 1, 3, 7, 8, 9, 30, 101} {
			t.Run(fmt.Sprintf("%s/%d", tc.name, n), func(t *testing.T) {
				p, l := build(t, withRecords(tc.compact, n))
				require.NoError(t, d.CheckDirectory(p))
				for ord := 0; ord <= n+1; ord++ {
					got, err := d.Nth(p, ord)
					require.NoError(t, err, "ordinal %d", ord)
					lin, err := d.NthLinear(p, ord)
					require.NoError(t, err, "ordinal %d", ord)
					assert.Equal(t, lin, got, "ordinal %d", ord)
					assert.Equal(t, l.Records[ord], got, "ordinal %d", ord)
				}
				_, err := d.Nth(p, n+2)
				isCorrupt(t, err)
			})
		}
	}
}

func TestNthCorruption(t *testing.T) {
	calls := 0
	d := NewDecoder(fault.New(fault.WithCallback(func() { calls++ })))

	p, l := build(t, withRecords(true, 10))
	_, err := d.Nth(p, format.MaxRecordsPerPage)
	isCorrupt(t, err)
	_, err = d.NthLinear(p, 2730)
	isCorrupt(t, err)

	// slot 0 owning more than the infimum
	b := withRecords(true, 2)
	b.Owned = []int{3, 1}
	bad, _ := build(t, b)
	_, err = d.Nth(bad, 1)
	isCorrupt(t, err)

	// a broken link inside the run of slot 1
	broken := append([]byte(nil), p...)
	record.PutNext(broken, l.Records[3], 0, true)
	_, err = d.Nth(broken, 4)
	isCorrupt(t, err)
	_, err = d.NthLinear(broken, 5)
	isCorrupt(t, err)

	// slot pointing outside the heap
	outside := append([]byte(nil), p...)
	pagebuilder.SetSlot(outside, 1, 50)
	_, err = d.Nth(outside, 6)
	isCorrupt(t, err)

	// heap top below the records
	low := append([]byte(nil), p...)
	pagebuilder.SetField(low, format.PageHeapTop, uint16(l.Records[2]))
	_, err = d.NthLinear(low, 4)
	isCorrupt(t, err)

	assert.Equal(t, 7, calls)
}

func TestNthAbortPolicy(t *testing.T) {
	code := 0
	d := NewDecoder(fault.New(fault.WithPolicy(fault.PolicyAbort), fault.WithExit(func(c int) { code = c })))
	p, _ := build(t, withRecords(false, 3))
	_, _ = d.Nth(p, 5000)
	assert.Equal(t, fault.AbortExitCode, code)
}

func TestWalk(t *testing.T) {
	d := NewDecoder(fault.New())
	for _, tc := range formats {
		t.Run(tc.name, func(t *testing.T) {
			p, l := build(t, withRecords(tc.compact, 12))
			var seen []int
			require.NoError(t, d.Walk(p, func(rec int) bool {
				seen = append(seen, rec)
				return true
			}))
			assert.Equal(t, l.Records, seen)

			seen = seen[:0]
			require.NoError(t, d.Walk(p, func(rec int) bool {
				seen = append(seen, rec)
				return len(seen) < 3
			}))
			assert.Len(t, seen, 3)
		})
	}
}

func TestCheckDirectory(t *testing.T) {
	d := NewDecoder(fault.New())
	for _, tc := range formats {
		t.Run(tc.name, func(t *testing.T) {
			p, l := build(t, withRecords(tc.compact, 20))
			require.NoError(t, d.CheckDirectory(p))

			b := withRecords(tc.compact, 6)
			b.Owned = []int{1, 2, 5}
			small, _ := build(t, b)
			isCorrupt(t, d.CheckDirectory(small))

			wrongCount := append([]byte(nil), p...)
			pagebuilder.SetField(wrongCount, format.PageNRecs, 21)
			isCorrupt(t, d.CheckDirectory(wrongCount))

			noSup := append([]byte(nil), p...)
			pagebuilder.SetSlot(noSup, len(l.Slots)-1, uint16(l.Records[len(l.Records)-2]))
			isCorrupt(t, d.CheckDirectory(noSup))

			moved := append([]byte(nil), p...)
			record.PutNOwned(moved, l.Slots[1], tc.compact, 0)
			record.PutNOwned(moved, l.Records[3], tc.compact, 4)
			pagebuilder.SetSlot(moved, 1, uint16(l.Records[3]))
			isCorrupt(t, d.CheckDirectory(moved))

			one := append([]byte(nil), p...)
			pagebuilder.SetField(one, format.PageNDirSlots, 1)
			isCorrupt(t, d.CheckDirectory(one))
		})
	}
}

func TestParseIndexPage(t *testing.T) {
	for _, tc := range formats {
		t.Run(tc.name, func(t *testing.T) {
			b := withRecords(tc.compact, 9)
			b.PageNo, b.LSN, b.Garbage = 3, 0x0102030405, 10
			p, l := build(t, b)

			ip, err := NewInnerPage(3, p)
			require.NoError(t, err)
			assert.Equal(t, format.PageTypeIndex, ip.PageType())
			assert.Nil(t, ip.FIL.Prev)

			idx, err := NewDecoder(fault.New()).ParseIndexPage(ip)
			require.NoError(t, err)
			assert.True(t, idx.IsLeaf())
			assert.True(t, idx.IsRoot())
			assert.Equal(t, uint16(9), idx.Hdr.NumUserRecs)
			assert.Equal(t, uint16(11), idx.Hdr.NumHeapRecs)
			assert.Equal(t, tc.compact, idx.Hdr.Format == format.FormatCompact)
			assert.Equal(t, l.HeapTop+format.FilTrailerSize+len(l.Slots)*2-10, idx.UsedBytes())
			assert.Equal(t, format.RecInfimum, idx.Infimum.Header.Type())
			assert.Equal(t, format.RecSupremum, idx.Supremum.Header.Type())
			require.Len(t, idx.DirSlots, len(l.Slots))
			for i, s := range l.Slots {
				assert.Equal(t, uint16(s), idx.DirSlots[i])
			}
			assert.True(t, idx.Segs.Leaf.IsZero())

			recs, err := idx.WalkRecords(0, true)
			require.NoError(t, err)
			require.Len(t, recs, 9)
			assert.Equal(t, l.Records[1], recs[0].Pos)
			if !tc.compact {
				assert.Equal(t, []byte("k0000"), recs[0].Field(p, 0))
				assert.Equal(t, []byte("v"), recs[8].Field(p, 1))
			}

			all, err := idx.WalkRecords(0, false)
			require.NoError(t, err)
			assert.Len(t, all, 11)

			some, err := idx.WalkRecords(4, true)
			require.NoError(t, err)
			assert.Len(t, some, 4)
		})
	}
}

func TestParseIndexPageRejects(t *testing.T) {
	p, _ := build(t, withRecords(true, 1))

	other := append([]byte(nil), p...)
	other[format.FilPageType+1] = byte(format.PageTypeBlob)
	other[format.FilPageType] = 0
	ip, err := NewInnerPage(0, other)
	require.NoError(t, err)
	_, err = ParseIndexPage(ip)
	assert.Error(t, err)

	lit := append([]byte(nil), p...)
	copy(lit[format.PageNewSupremum:], "supremxx")
	ip, err = NewInnerPage(0, lit)
	require.NoError(t, err)
	_, err = NewDecoder(fault.New()).ParseIndexPage(ip)
	isCorrupt(t, err)

	lsn := append([]byte(nil), p...)
	lsn[format.PageSize-1] = 0xff
	_, err = NewInnerPage(0, lsn)
	assert.Error(t, err)

	_, err = NewInnerPage(0, p[:10])
	assert.Error(t, err)
}

func TestFilHeader(t *testing.T) {
	b := withRecords(false, 0)
	b.Prev, b.SpaceID, b.LSN = 8, 99, 1<<40|5
	p, _ := build(t, b)

	h, err := ParseFilHeader(p)
	require.NoError(t, err)
	require.NotNil(t, h.Prev)
	assert.Equal(t, uint32(8), *h.Prev)
	assert.Nil(t, h.Next)
	assert.Equal(t, uint32(99), h.SpaceID)
	assert.Equal(t, uint64(1<<40|5), h.LastModLSN)

	tr, err := ParseFilTrailer(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), tr.Low32LSN)

	_, err = ParseFilHeader(p[:20])
	assert.True(t, errors.Is(err, format.ErrShortRead))
}

func TestCheckSegments(t *testing.T) {
	b := withRecords(true, 3)
	b.SpaceID, b.SegPage, b.SegOffset = 5, 2, format.FsegArrOffset
	p, _ := build(t, b)

	d := NewDecoder(fault.New())
	ip, err := NewInnerPage(0, p)
	require.NoError(t, err)
	idx, err := d.ParseIndexPage(ip)
	require.NoError(t, err)
	assert.Equal(t, FsegHeader{Space: 5, PageNo: 2, Offset: format.FsegArrOffset}, idx.Segs.Leaf)
	assert.Equal(t, uint16(format.FsegArrOffset+format.FsegInodeSize), idx.Segs.Top.Offset)
	assert.NoError(t, d.CheckSegments(idx))

	idx.Segs.Top.Offset++
	isCorrupt(t, d.CheckSegments(idx))

	idx.Segs.Top.Offset--
	idx.Segs.Leaf.Space = 6
	isCorrupt(t, d.CheckSegments(idx))

	// only root pages are checked
	next := uint32(3)
	idx.Inner.FIL.Next = &next
	assert.NoError(t, d.CheckSegments(idx))
}
