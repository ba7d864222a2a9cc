package repcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_UVari(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected uint32
		consumed int
	}{
		{name: "one byte", data: []byte{0x01}, expected: 1, consumed: 1},
		{name: "one byte max", data: []byte{0x7F}, expected: 127, consumed: 1},
		{name: "two bytes", data: []byte{0x80, 0x80}, expected: 128, consumed: 2},
		{name: "two bytes max", data: []byte{0xBF, 0xFF}, expected: 16383, consumed: 2},
		{name: "four bytes", data: []byte{0xC0, 0x00, 0x40, 0x00}, expected: 16384, consumed: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCursor(tc.data)
			v, err := c.UVari()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
			assert.Equal(t, tc.consumed, c.Pos())
		})
	}
}

func TestCursor_EndOfData(t *testing.T) {
	t.Run("empty buffer", func(t *testing.T) {
		c := NewCursor(nil)
		_, err := c.Byte()
		assert.ErrorIs(t, err, ErrEndOfData)
		assert.True(t, c.Exhausted())
	})

	t.Run("truncated uvari", func(t *testing.T) {
		c := NewCursor([]byte{0xC0, 0x00})
		_, err := c.UVari()
		assert.ErrorIs(t, err, ErrEndOfData)
		assert.Equal(t, 0, c.Pos())
	})

	t.Run("truncated ident leaves cursor in place", func(t *testing.T) {
		c := NewCursor([]byte{0x05, 'A', 'B'})
		_, err := c.Ident()
		assert.ErrorIs(t, err, ErrEndOfData)
		assert.Equal(t, 0, c.Pos())
		assert.Equal(t, 3, c.Remaining())
	})
}

func TestCursor_Ident(t *testing.T) {
	c := NewCursor([]byte{0x02, 'I', 'D', 0x00, 0x01, 'm'})

	id, err := c.Ident()
	require.NoError(t, err)
	assert.Equal(t, Ident("ID"), id)

	empty, err := c.Ident()
	require.NoError(t, err)
	assert.Equal(t, Ident(""), empty)

	units, err := c.Units()
	require.NoError(t, err)
	assert.Equal(t, Units("m"), units)
	assert.True(t, c.Exhausted())
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		code     Code
		data     []byte
		expected string
	}{
		{name: "FSHORT", code: FSHORT, data: []byte{0x4C, 0x88}, expected: "153"},
		{name: "FSINGL", code: FSINGL, data: []byte{0x3F, 0xC0, 0x00, 0x00}, expected: "1.5"},
		{name: "FSING1", code: FSING1, data: []byte{0x3F, 0x80, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00}, expected: "1 2"},
		{name: "ISINGL", code: ISINGL, data: []byte{0x41, 0x10, 0x00, 0x00}, expected: "1"},
		{name: "VSINGL", code: VSINGL, data: []byte{0x80, 0x40, 0x00, 0x00}, expected: "1"},
		{name: "FDOUBL", code: FDOUBL, data: []byte{0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18}, expected: "3.141592653589793"},
		{name: "CSINGL", code: CSINGL, data: []byte{0x3F, 0x80, 0x00, 0x00, 0xBF, 0x80, 0x00, 0x00}, expected: "(1-1i)"},
		{name: "SSHORT", code: SSHORT, data: []byte{0xFF}, expected: "-1"},
		{name: "SNORM", code: SNORM, data: []byte{0xFF, 0xFE}, expected: "-2"},
		{name: "SLONG", code: SLONG, data: []byte{0xFF, 0xFF, 0xFF, 0xFD}, expected: "-3"},
		{name: "USHORT", code: USHORT, data: []byte{0xFF}, expected: "255"},
		{name: "UNORM", code: UNORM, data: []byte{0x01, 0x00}, expected: "256"},
		{name: "ULONG", code: ULONG, data: []byte{0x00, 0x01, 0x00, 0x00}, expected: "65536"},
		{name: "UVARI", code: UVARI, data: []byte{0x81, 0x00}, expected: "256"},
		{name: "IDENT", code: IDENT, data: []byte{0x04, 'W', 'E', 'L', 'L'}, expected: "WELL"},
		{name: "ASCII", code: ASCII, data: []byte{0x05, 'h', 'e', 'l', 'l', 'o'}, expected: "hello"},
		{name: "ORIGIN", code: ORIGIN, data: []byte{0x02}, expected: "2"},
		{name: "OBNAME", code: OBNAME, data: []byte{0x01, 0x00, 0x04, 'T', 'D', 'E', 'P'}, expected: "TDEP"},
		{name: "OBJREF", code: OBJREF, data: []byte{0x07, 'C', 'H', 'A', 'N', 'N', 'E', 'L', 0x01, 0x00, 0x02, 'G', 'R'}, expected: "GR"},
		{name: "ATTREF", code: ATTREF, data: []byte{0x04, 'T', 'O', 'O', 'L', 0x01, 0x00, 0x01, 'X', 0x04, 'S', 'P', 'E', 'C'}, expected: "X.SPEC"},
		{name: "STATUS", code: STATUS, data: []byte{0x01}, expected: "1"},
		{name: "UNITS", code: UNITS, data: []byte{0x02, 'f', 't'}, expected: "ft"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCursor(tc.data)
			v, err := Decode(tc.code, c)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v.String())
			assert.True(t, c.Exhausted(), "value should consume every byte")
		})
	}
}

func TestDecode_DateTime(t *testing.T) {
	// 1987-04-19 21:20:15.620, local daylight time
	data := []byte{87, 0x14, 19, 21, 20, 15, 0x02, 0x6C}
	v, err := Decode(DTIME, NewCursor(data))
	require.NoError(t, err)

	dt, ok := v.(DateTime)
	require.True(t, ok)
	assert.Equal(t, 1987, dt.Year)
	assert.Equal(t, TZLocalDaylight, dt.TZ)
	assert.Equal(t, 4, dt.Month)
	assert.Equal(t, 19, dt.Day)
	assert.Equal(t, 620, dt.Millisecond)
	assert.Equal(t, "1987-04-19 21:20:15.620", dt.String())

	expected := time.Date(1987, 4, 19, 21, 20, 15, 620*int(time.Millisecond), time.UTC).Unix()
	assert.Equal(t, expected, dt.Epoch(time.UTC))
}

func TestDecode_Greenwich(t *testing.T) {
	dt := DateTime{Year: 2000, TZ: TZGreenwich, Month: 1, Day: 1}
	loc := time.FixedZone("X", 3600)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Unix(), dt.Epoch(loc))
}

func TestDecode_UnknownCode(t *testing.T) {
	_, err := Decode(Code(99), NewCursor([]byte{0x00}))
	var unknown *UnknownCodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, Code(99), unknown.Code)
}

func TestDecode_Truncated(t *testing.T) {
	for _, code := range []Code{FSINGL, FDOUBL, DTIME, OBNAME, SLONG} {
		t.Run(Name(code), func(t *testing.T) {
			_, err := Decode(code, NewCursor([]byte{0x01}))
			assert.ErrorIs(t, err, ErrEndOfData)
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "IDENT", Name(IDENT))
	assert.Equal(t, "UNITS", UNITS.String())
	assert.Equal(t, "UNKNOWN(0)", Name(0))
	assert.True(t, DTIME.Known())
	assert.False(t, Code(28).Known())
}

func TestIdentified(t *testing.T) {
	var v Value = ObjectRef{Type: "CHANNEL", Name: ObjectName{Origin: 1, Identifier: "GR"}}
	id, ok := v.(Identified)
	require.True(t, ok)
	assert.Equal(t, Ident("GR"), id.Ident())
}
