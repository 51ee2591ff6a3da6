package format

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigEndianReaders(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}

	v8, err := Be8(b, 8)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x09), v8)

	v16, err := Be16(b, 1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := Be32(b, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v32)

	v64, err := Be64(b, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0203040506070809), v64)

	vn, err := BeN(b, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x030405), vn)
}

func TestBigEndianBounds(t *testing.T) {
	b := make([]byte, 4)
	_, err := Be16(b, 3)
	assert.True(t, errors.Is(err, ErrShortRead))
	_, err = Be32(b, -1)
	assert.True(t, errors.Is(err, ErrShortRead))
	_, err = Be64(b, 0)
	assert.True(t, errors.Is(err, ErrShortRead))
	_, err = Be8(b, 4)
	assert.True(t, errors.Is(err, ErrShortRead))
	_, err = BeN(b, 0, 9)
	assert.Error(t, err)
}
