package repcode

import (
	"encoding/binary"
	"math"
)

// Decode reads one value of the given code from c. On error the cursor may have
// advanced past a partially read value.
func Decode(code Code, c *Cursor) (Value, error) {
	switch code {
	case FSHORT:
		b, err := c.Bytes(2)
		if err != nil {
			return nil, err
		}
		return Float{V: fshort(binary.BigEndian.Uint16(b))}, nil
	case FSINGL:
		f, err := readSingle(c)
		if err != nil {
			return nil, err
		}
		return Float{V: f}, nil
	case FSING1, FSING2:
		return readValidated(c, int(code-FSINGL), false)
	case ISINGL:
		u, err := c.ULong()
		if err != nil {
			return nil, err
		}
		return Float{V: isingl(u)}, nil
	case VSINGL:
		b, err := c.Bytes(4)
		if err != nil {
			return nil, err
		}
		return Float{V: vsingl(b)}, nil
	case FDOUBL:
		f, err := readDouble(c)
		if err != nil {
			return nil, err
		}
		return Float{V: f, Double: true}, nil
	case FDOUB1, FDOUB2:
		return readValidated(c, int(code-FDOUBL), true)
	case CSINGL:
		re, err := readSingle(c)
		if err != nil {
			return nil, err
		}
		im, err := readSingle(c)
		if err != nil {
			return nil, err
		}
		return Complex{V: complex(re, im)}, nil
	case CDOUBL:
		re, err := readDouble(c)
		if err != nil {
			return nil, err
		}
		im, err := readDouble(c)
		if err != nil {
			return nil, err
		}
		return Complex{V: complex(re, im), Double: true}, nil
	case SSHORT:
		b, err := c.Byte()
		if err != nil {
			return nil, err
		}
		return Int(int8(b)), nil
	case SNORM:
		v, err := c.UNorm()
		if err != nil {
			return nil, err
		}
		return Int(int16(v)), nil
	case SLONG:
		v, err := c.ULong()
		if err != nil {
			return nil, err
		}
		return Int(int32(v)), nil
	case USHORT:
		v, err := c.UShort()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case UNORM:
		v, err := c.UNorm()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case ULONG:
		v, err := c.ULong()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case UVARI, ORIGIN:
		v, err := c.UVari()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case IDENT:
		return c.Ident()
	case ASCII:
		return c.ASCII()
	case DTIME:
		return readDateTime(c)
	case OBNAME:
		return c.ObName()
	case OBJREF:
		typ, err := c.Ident()
		if err != nil {
			return nil, err
		}
		name, err := c.ObName()
		if err != nil {
			return nil, err
		}
		return ObjectRef{Type: typ, Name: name}, nil
	case ATTREF:
		typ, err := c.Ident()
		if err != nil {
			return nil, err
		}
		name, err := c.ObName()
		if err != nil {
			return nil, err
		}
		label, err := c.Ident()
		if err != nil {
			return nil, err
		}
		return AttrRef{Type: typ, Name: name, Label: label}, nil
	case STATUS:
		v, err := c.UShort()
		if err != nil {
			return nil, err
		}
		return Status(v), nil
	case UNITS:
		return c.Units()
	default:
		return nil, &UnknownCodeError{Code: code}
	}
}

func readSingle(c *Cursor) (float64, error) {
	u, err := c.ULong()
	if err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(u)), nil
}

func readDouble(c *Cursor) (float64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func readValidated(c *Cursor, bounds int, double bool) (Value, error) {
	read := readSingle
	if double {
		read = readDouble
	}

	v, err := read(c)
	if err != nil {
		return nil, err
	}
	out := Validated{V: v, Double: double, Bounds: make([]float64, 0, bounds)}
	for i := 0; i < bounds; i++ {
		b, err := read(c)
		if err != nil {
			return nil, err
		}
		out.Bounds = append(out.Bounds, b)
	}
	return out, nil
}

func readDateTime(c *Cursor) (Value, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return nil, err
	}
	return DateTime{
		Year:        1900 + int(b[0]),
		TZ:          int(b[1] >> 4),
		Month:       int(b[1] & 0x0F),
		Day:         int(b[2]),
		Hour:        int(b[3]),
		Minute:      int(b[4]),
		Second:      int(b[5]),
		Millisecond: int(binary.BigEndian.Uint16(b[6:8])),
	}, nil
}

// fshort converts a 16 bit low precision real: a 12 bit two's complement
// fraction followed by a 4 bit exponent.
func fshort(u uint16) float64 {
	mantissa := int16(u) >> 4
	exp := int(u & 0x000F)
	return float64(mantissa) / 2048 * math.Pow(2, float64(exp))
}

// isingl converts an IBM System/360 single precision real
func isingl(u uint32) float64 {
	sign := 1.0
	if u&0x80000000 != 0 {
		sign = -1.0
	}
	exp := int((u >> 24) & 0x7F)
	frac := float64(u&0x00FFFFFF) / (1 << 24)
	return sign * frac * math.Pow(16, float64(exp-64))
}

// vsingl converts a VAX F-floating real; the 16 bit words are stored byte-swapped
func vsingl(b []byte) float64 {
	u := uint32(b[1])<<24 | uint32(b[0])<<16 | uint32(b[3])<<8 | uint32(b[2])
	exp := int((u >> 23) & 0xFF)
	if exp == 0 {
		return 0
	}
	sign := 1.0
	if u&0x80000000 != 0 {
		sign = -1.0
	}
	frac := 0.5 + float64(u&0x007FFFFF)/(1<<24)
	return sign * frac * math.Pow(2, float64(exp-128))
}
