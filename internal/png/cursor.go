package png

import (
	"encoding/binary"
	"fmt"
)

// cursor is a forward-only reader over an in-memory buffer.
type cursor struct {
	buf []byte
	off int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

// Take returns the next n bytes and advances past them. On overrun the
// cursor is left where it was.
func (c *cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("take %d bytes at offset %d with %d remaining: %w", n, c.off, c.Remaining(), ErrTruncated)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) Uint32() (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) Remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) Offset() int {
	return c.off
}
