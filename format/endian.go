// endian.go - Bounds-checked big-endian readers
package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrShortRead is returned when a read would cross the end of the buffer.
var ErrShortRead = errors.New("short read")

func outOfBounds(b []byte, off, width int) bool {
	return off < 0 || off+width > len(b)
}

func Be8(b []byte, off int) (uint8, error) {
	if outOfBounds(b, off, 1) {
		return 0, errors.Wrapf(ErrShortRead, "Be8 at %d (len %d)", off, len(b))
	}
	return b[off], nil
}

func Be16(b []byte, off int) (uint16, error) {
	if outOfBounds(b, off, 2) {
		return 0, errors.Wrapf(ErrShortRead, "Be16 at %d (len %d)", off, len(b))
	}
	return binary.BigEndian.Uint16(b[off : off+2]), nil
}

func Be32(b []byte, off int) (uint32, error) {
	if outOfBounds(b, off, 4) {
		return 0, errors.Wrapf(ErrShortRead, "Be32 at %d (len %d)", off, len(b))
	}
	return binary.BigEndian.Uint32(b[off : off+4]), nil
}

func Be64(b []byte, off int) (uint64, error) {
	if outOfBounds(b, off, 8) {
		return 0, errors.Wrapf(ErrShortRead, "Be64 at %d (len %d)", off, len(b))
	}
	return binary.BigEndian.Uint64(b[off : off+8]), nil
}

// BeN reads an unsigned big-endian integer of width 1..8 bytes.
func BeN(b []byte, off, width int) (uint64, error) {
	if width < 1 || width > 8 {
		return 0, errors.Errorf("BeN: unsupported width %d", width)
	}
	if outOfBounds(b, off, width) {
		return 0, errors.Wrapf(ErrShortRead, "BeN(%d) at %d (len %d)", width, off, len(b))
	}
	var v uint64
	for _, c := range b[off : off+width] {
		v = v<<8 | uint64(c)
	}
	return v, nil
}
