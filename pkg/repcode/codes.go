package repcode

import "fmt"

// Code is a representation code
type Code uint8

// RP66 V1 representation codes
const (
	FSHORT Code = 1
	FSINGL Code = 2
	FSING1 Code = 3
	FSING2 Code = 4
	ISINGL Code = 5
	VSINGL Code = 6
	FDOUBL Code = 7
	FDOUB1 Code = 8
	FDOUB2 Code = 9
	CSINGL Code = 10
	CDOUBL Code = 11
	SSHORT Code = 12
	SNORM  Code = 13
	SLONG  Code = 14
	USHORT Code = 15
	UNORM  Code = 16
	ULONG  Code = 17
	UVARI  Code = 18
	IDENT  Code = 19
	ASCII  Code = 20
	DTIME  Code = 21
	ORIGIN Code = 22
	OBNAME Code = 23
	OBJREF Code = 24
	ATTREF Code = 25
	STATUS Code = 26
	UNITS  Code = 27
)

var codeNames = map[Code]string{
	FSHORT: "FSHORT",
	FSINGL: "FSINGL",
	FSING1: "FSING1",
	FSING2: "FSING2",
	ISINGL: "ISINGL",
	VSINGL: "VSINGL",
	FDOUBL: "FDOUBL",
	FDOUB1: "FDOUB1",
	FDOUB2: "FDOUB2",
	CSINGL: "CSINGL",
	CDOUBL: "CDOUBL",
	SSHORT: "SSHORT",
	SNORM:  "SNORM",
	SLONG:  "SLONG",
	USHORT: "USHORT",
	UNORM:  "UNORM",
	ULONG:  "ULONG",
	UVARI:  "UVARI",
	IDENT:  "IDENT",
	ASCII:  "ASCII",
	DTIME:  "DTIME",
	ORIGIN: "ORIGIN",
	OBNAME: "OBNAME",
	OBJREF: "OBJREF",
	ATTREF: "ATTREF",
	STATUS: "STATUS",
	UNITS:  "UNITS",
}

// Name returns the mnemonic of a code, or "UNKNOWN(n)"
func Name(c Code) string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// String implements fmt.Stringer
func (c Code) String() string {
	return Name(c)
}

// Known reports whether c is one of the 27 defined codes
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// UnknownCodeError is returned when a value uses an undefined representation code
type UnknownCodeError struct {
	Code Code
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown representation code %d", e.Code)
}
