// Package repcode decodes RP66 V1 representation codes.
//
// Every value inside an Explicitly Formatted Logical Record is written using one
// of 27 representation codes. The code is a small integer naming the primitive
// layout of the value: a fixed-width integer, one of several floating point
// formats, a length-prefixed string, a date or a composite object reference.
//
// # Cursor
//
// Decoding happens against a Cursor, a forward-only read position over a record
// body. Every read returns the decoded value and an error. Running out of bytes
// is reported as ErrEndOfData so callers can tell a truncated record apart from
// a malformed one:
//
//	c := repcode.NewCursor(body)
//	label, err := c.Ident()
//	if errors.Is(err, repcode.ErrEndOfData) {
//	    // record exhausted
//	}
//
// # Values
//
// Decode returns a Value. All values render to text with String. Composite
// values expose their parts: DateTime.Epoch converts a DTIME to Unix seconds,
// ObjectName and ObjectRef expose the referenced identifier.
//
// # Formats
//
// Integers are big-endian. UVARI uses the two high bits of its first byte to
// select a 1, 2 or 4 byte encoding. IDENT and UNITS carry a USHORT length, ASCII
// a UVARI length. FSHORT, ISINGL (IBM) and VSINGL (VAX) are converted to float64.
package repcode
