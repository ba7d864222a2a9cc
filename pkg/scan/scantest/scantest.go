// Package scantest builds EFLR segments for tests.
package scantest

import "github.com/ssargent/eflrscan/pkg/repcode"

// SetDescriptor is the component descriptor written before the set type name
const SetDescriptor = 0xF0

// Ident encodes s as an IDENT
func Ident(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

// ObName encodes an OBNAME
func ObName(origin, copyNum byte, name string) []byte {
	return Join([]byte{origin, copyNum}, Ident(name))
}

// Join concatenates byte slices
func Join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// First builds a first segment carrying body followed by trailer
func First(attrs, code byte, setType string, body, trailer []byte) []byte {
	n := 6 + len(setType) + len(body) + len(trailer)
	return Join(
		[]byte{byte(n >> 8), byte(n), attrs, code, SetDescriptor, byte(len(setType))},
		[]byte(setType), body, trailer,
	)
}

// Continuation builds a continuation segment carrying body followed by trailer
func Continuation(attrs, code byte, body, trailer []byte) []byte {
	n := 4 + len(body) + len(trailer)
	return Join([]byte{byte(n >> 8), byte(n), attrs, code}, body, trailer)
}

// SingleColumn is a record body with one IDENT column and one object row
func SingleColumn(label, object, value string) []byte {
	return Join(
		[]byte{0x34}, Ident(label), []byte{byte(repcode.IDENT)},
		[]byte{0x70}, ObName(1, 0, object),
		[]byte{0x21}, Ident(value),
	)
}

// FileHeader is a single segment FILE-HEADER record naming object id
func FileHeader(id string) []byte {
	return First(0x80, 0, "FILE-HEADER", SingleColumn("ID", "0", id), nil)
}

// Channel is a single segment CHANNEL record with one NAME column
func Channel(object, name string) []byte {
	return First(0x80, 3, "CHANNEL", SingleColumn("NAME", object, name), nil)
}

// Sample is a small well-formed file: noise, a FILE-HEADER for object id, a
// CHANNEL split over two segments and a PARAMETER record
func Sample(id string) []byte {
	ch := SingleColumn("NAME", "GR", "GR")
	return Join(
		[]byte("noise"),
		FileHeader(id),
		First(0xA0, 3, "CHANNEL", ch[:6], nil),
		Continuation(0xC0, 3, ch[6:], nil),
		First(0x80, 5, "PARAMETER", SingleColumn("VALUE", "BS", "8.5"), nil),
	)
}
