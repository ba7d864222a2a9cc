package repcode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a decoded primitive
type Value interface {
	fmt.Stringer
}

// Identified is implemented by values that reference an object by name
type Identified interface {
	Value
	Ident() Ident
}

// Dated is implemented by date/time values
type Dated interface {
	Value
	Epoch(loc *time.Location) int64
}

// Ident is an IDENT value
type Ident string

func (v Ident) String() string { return string(v) }

// Units is a UNITS value
type Units string

func (v Units) String() string { return string(v) }

// Text is an ASCII value
type Text string

func (v Text) String() string { return string(v) }

// Int holds every integer code
type Int int64

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

// Status is a STATUS value
type Status uint8

func (v Status) String() string { return strconv.Itoa(int(v)) }

// Float is a single or double precision real
type Float struct {
	V      float64
	Double bool
}

func (v Float) String() string {
	return formatFloat(v.V, v.Double)
}

// Validated is a real with one (FSING1, FDOUB1) or two (FSING2, FDOUB2) bounds
type Validated struct {
	V      float64
	Bounds []float64
	Double bool
}

func (v Validated) String() string {
	parts := make([]string, 0, 1+len(v.Bounds))
	parts = append(parts, formatFloat(v.V, v.Double))
	for _, b := range v.Bounds {
		parts = append(parts, formatFloat(b, v.Double))
	}
	return strings.Join(parts, " ")
}

// Complex is a CSINGL or CDOUBL value
type Complex struct {
	V      complex128
	Double bool
}

func (v Complex) String() string {
	bits := 64
	if v.Double {
		bits = 128
	}
	return strconv.FormatComplex(v.V, 'g', -1, bits)
}

func formatFloat(f float64, double bool) string {
	if double {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 32)
}

// Time zone values of a DTIME
const (
	TZLocalStandard = 0
	TZLocalDaylight = 1
	TZGreenwich     = 2
)

// DateTime is a DTIME value
type DateTime struct {
	Year        int
	TZ          int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// Time returns the instant in loc, or in UTC when the value is Greenwich time
func (v DateTime) Time(loc *time.Location) time.Time {
	if v.TZ == TZGreenwich || loc == nil {
		loc = time.UTC
	}
	return time.Date(v.Year, time.Month(v.Month), v.Day, v.Hour, v.Minute, v.Second,
		v.Millisecond*int(time.Millisecond), loc)
}

// Epoch returns Unix seconds
func (v DateTime) Epoch(loc *time.Location) int64 {
	return v.Time(loc).Unix()
}

func (v DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
		v.Year, v.Month, v.Day, v.Hour, v.Minute, v.Second, v.Millisecond)
}

// ObjectName is an OBNAME value
type ObjectName struct {
	Origin     uint32
	Copy       uint8
	Identifier Ident
}

// Ident implements Identified
func (v ObjectName) Ident() Ident { return v.Identifier }

func (v ObjectName) String() string { return string(v.Identifier) }

// ObjectRef is an OBJREF value
type ObjectRef struct {
	Type Ident
	Name ObjectName
}

// Ident implements Identified
func (v ObjectRef) Ident() Ident { return v.Name.Identifier }

func (v ObjectRef) String() string { return string(v.Name.Identifier) }

// AttrRef is an ATTREF value
type AttrRef struct {
	Type  Ident
	Name  ObjectName
	Label Ident
}

func (v AttrRef) String() string {
	return fmt.Sprintf("%s.%s", v.Name.Identifier, v.Label)
}
