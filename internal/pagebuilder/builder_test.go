package pagebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/record"
)

func TestDefaultOwned(t *testing.T) {
	assert.Equal(t, []int{1, 1}, DefaultOwned(0))
	assert.Equal(t, []int{1, 8}, DefaultOwned(7))
	assert.Equal(t, []int{1, 4, 5}, DefaultOwned(8))
	assert.Equal(t, []int{1, 4, 4, 4, 4, 5}, DefaultOwned(20))
	for n := 0; n < 200; n++ {
		owned := DefaultOwned(n)
		sum := 0
		for i, o := range owned {
			sum += o
			if i > 0 && i < len(owned)-1 {
				assert.Equal(t, format.PageDirSlotMinNOwned, o)
			}
		}
		assert.Equal(t, n+2, sum)
		assert.LessOrEqual(t, owned[len(owned)-1], format.PageDirSlotMaxNOwned)
	}
}

func TestBuildRedundant(t *testing.T) {
	p, l, err := New(false).AddValues([]byte("a")).AddValues([]byte("bb")).Build()
	require.NoError(t, err)
	require.Len(t, p, format.PageSize)
	assert.Equal(t, []int{format.PageOldInfimum, l.Records[1], l.Records[2], format.PageOldSupremum}, l.Records)
	assert.Equal(t, format.PageOldSupremumEnd+7, l.Records[1])

	h, err := record.ParseHeader(p, l.Records[2], false)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), h.HeapNo)
	assert.Equal(t, uint16(format.PageOldSupremum), h.NextRaw)

	hs, err := record.ParseHeader(p, format.PageOldSupremum, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), hs.NOwned())
	assert.Equal(t, uint16(0), hs.NextRaw)
}

func TestBuildCompact(t *testing.T) {
	b := New(true)
	b.Level = 1
	p, l, err := b.AddValues([]byte("key1"), []byte{0, 0, 0, 9}).Build()
	require.NoError(t, err)
	assert.Equal(t, format.PageNewSupremumEnd+format.RecNNewExtraBytes, l.Records[1])
	assert.Equal(t, format.PageNewSupremumEnd+format.RecNNewExtraBytes+8, l.HeapTop)

	h, err := record.ParseHeader(p, l.Records[1], true)
	require.NoError(t, err)
	assert.Equal(t, format.RecNodePointer, h.Type())
	assert.Equal(t, record.Displacement(format.PageNewSupremum-l.Records[1]), h.NextDisplacement())
}

func TestBuildRejects(t *testing.T) {
	b := New(true).AddValues([]byte("x"))
	b.Owned = []int{1, 1}
	_, _, err := b.Build()
	assert.Error(t, err)

	b.Owned = []int{0, 3}
	_, _, err = b.Build()
	assert.Error(t, err)

	big := New(false)
	for i := 0; i < 1200; i++ {
		big.AddValues(make([]byte, 20))
	}
	_, _, err = big.Build()
	assert.Error(t, err)
}
