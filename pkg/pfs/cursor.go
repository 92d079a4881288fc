package pfs

import (
	"encoding/binary"
	"fmt"
	"io"
)

// cursor walks a byte slice with bounds-checked fixed-size reads.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte, off int) *cursor {
	return &cursor{buf: buf, off: off}
}

func (c *cursor) remaining() int {
	if c.off >= len(c.buf) {
		return 0
	}
	return len(c.buf) - c.off
}

// take returns the next n bytes without copying.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	if c.off < 0 || n > c.remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) readU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readArray8() ([8]byte, error) {
	var out [8]byte
	b, err := c.take(len(out))
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (c *cursor) readGUID() (GUID, error) {
	var g GUID
	b, err := c.take(len(g))
	if err != nil {
		return g, err
	}
	copy(g[:], b)
	return g, nil
}
