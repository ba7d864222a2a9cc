package repcode

import (
	"encoding/binary"
	"errors"
)

// ErrEndOfData is returned by every Cursor read that runs past the end of its buffer
var ErrEndOfData = errors.New("end of record data")

// Cursor is a forward-only read position over a record body
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor positioned at the start of buf
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Exhausted reports whether every byte has been read
func (c *Cursor) Exhausted() bool {
	return c.pos >= len(c.buf)
}

// Bytes reads the next n bytes. The result aliases the underlying buffer.
// A short read does not move the cursor.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, ErrEndOfData
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Peek returns the next byte without consuming it
func (c *Cursor) Peek() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrEndOfData
	}
	return c.buf[c.pos], nil
}

// Byte reads one raw byte
func (c *Cursor) Byte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrEndOfData
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// UShort reads a USHORT
func (c *Cursor) UShort() (uint8, error) {
	return c.Byte()
}

// UNorm reads a UNORM
func (c *Cursor) UNorm() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ULong reads a ULONG
func (c *Cursor) ULong() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// UVari reads a UVARI. The two high bits of the first byte select the width:
// 0x -> 1 byte, 10 -> 2 bytes, 11 -> 4 bytes.
func (c *Cursor) UVari() (uint32, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrEndOfData
	}

	first := c.buf[c.pos]
	switch {
	case first&0x80 == 0:
		c.pos++
		return uint32(first), nil
	case first&0x40 == 0:
		v, err := c.UNorm()
		if err != nil {
			return 0, err
		}
		return uint32(v & 0x3FFF), nil
	default:
		v, err := c.ULong()
		if err != nil {
			return 0, err
		}
		return v & 0x3FFFFFFF, nil
	}
}

// Ident reads an IDENT: a USHORT length followed by that many bytes
func (c *Cursor) Ident() (Ident, error) {
	start := c.pos
	n, err := c.UShort()
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		c.pos = start
		return "", err
	}
	return Ident(b), nil
}

// Units reads a UNITS, which shares the IDENT layout
func (c *Cursor) Units() (Units, error) {
	id, err := c.Ident()
	if err != nil {
		return "", err
	}
	return Units(id), nil
}

// ASCII reads an ASCII: a UVARI length followed by that many bytes
func (c *Cursor) ASCII() (Text, error) {
	start := c.pos
	n, err := c.UVari()
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		c.pos = start
		return "", err
	}
	return Text(b), nil
}

// ObName reads an OBNAME: ORIGIN, copy number (USHORT) and IDENT
func (c *Cursor) ObName() (ObjectName, error) {
	start := c.pos
	origin, err := c.UVari()
	if err != nil {
		return ObjectName{}, err
	}
	cp, err := c.UShort()
	if err != nil {
		c.pos = start
		return ObjectName{}, err
	}
	id, err := c.Ident()
	if err != nil {
		c.pos = start
		return ObjectName{}, err
	}
	return ObjectName{Origin: origin, Copy: cp, Identifier: id}, nil
}
