// Package scan finds EFLR segments in a raw byte stream and assembles them
// into logical records.
//
// The stream is treated as unreliable. At every candidate offset the scanner
// reads a segment header:
//
//	offset  size  field
//	0       2     declared length, big endian, header and trailer included
//	2       1     attribute flags
//	3       1     logical record type code
//	4       1     set descriptor (first segment only)
//	5       1     set type name length L (first segment only)
//	6       L     set type name (first segment only)
//
// A first segment is accepted when no record is pending, its type code is
// registered and its set type name is permitted for that code. A well formed
// first segment seen while a record is pending is reported as a ProtocolError
// and skipped like noise. A continuation is accepted while a
// record is pending and carries its payload from offset 4. After a match the
// scanner advances by the declared length; otherwise it advances one byte.
//
// Completed records are decoded with package eflr and filed into an Index
// keyed by the object named in the most recent FILE-HEADER.
package scan
