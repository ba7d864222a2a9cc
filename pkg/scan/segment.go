package scan

import (
	"fmt"

	"github.com/ssargent/eflrscan/pkg/source"
)

// Segment attribute flags
const (
	FlagEFLR             = 0x80
	FlagPredecessor      = 0x40
	FlagSuccessor        = 0x20
	FlagEncrypted        = 0x10
	FlagEncryptionPacket = 0x08
	FlagChecksum         = 0x04
	FlagTrailingLength   = 0x02
	FlagPadding          = 0x01
)

// Offsets inside a segment header, relative to the segment start
const (
	idxLength   = 0
	idxAttr     = 2
	idxType     = 3
	idxNameLen  = 5
	idxName     = 6
	headerBytes = 4 // length, attributes, type
)

// Attributes is the attribute byte of a segment header
type Attributes uint8

func (a Attributes) IsEFLR() bool              { return a&FlagEFLR != 0 }
func (a Attributes) HasPredecessor() bool      { return a&FlagPredecessor != 0 }
func (a Attributes) HasSuccessor() bool        { return a&FlagSuccessor != 0 }
func (a Attributes) IsEncrypted() bool         { return a&FlagEncrypted != 0 }
func (a Attributes) HasEncryptionPacket() bool { return a&FlagEncryptionPacket != 0 }
func (a Attributes) HasChecksum() bool         { return a&FlagChecksum != 0 }
func (a Attributes) HasTrailingLength() bool   { return a&FlagTrailingLength != 0 }
func (a Attributes) HasPadding() bool          { return a&FlagPadding != 0 }

// plain reports an EFLR segment that is neither encrypted nor carries an encryption packet
func (a Attributes) plain() bool {
	return a.IsEFLR() && !a.IsEncrypted() && !a.HasEncryptionPacket()
}

// IsFirst reports the flag pattern of the first segment of a record
func (a Attributes) IsFirst() bool {
	return a.plain() && !a.HasPredecessor()
}

// IsContinuation reports the flag pattern of a continuation segment
func (a Attributes) IsContinuation() bool {
	return a.plain() && a.HasPredecessor()
}

func (a Attributes) String() string {
	return fmt.Sprintf("0x%02x [%08b]", uint8(a), uint8(a))
}

// Segment is one matched physical segment
type Segment struct {
	Offset   int64
	Length   uint16 // declared length, header included
	Attrs    Attributes
	Type     uint8
	SetType  string // empty for continuations
	Usable   int64  // Length without checksum, trailing length and padding
	Payload  []byte
	Continue bool
}

// Next returns the offset of the following segment
func (s Segment) Next() int64 {
	return s.Offset + int64(s.Length)
}

// readLength reads the big-endian declared length at pos
func readLength(src source.Source, pos int64) (uint16, error) {
	b, err := src.Slice(pos+idxLength, pos+idxLength+2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// UsableLength trims the trailer from a declared length: 2 bytes for a
// checksum, 2 for a trailing length and, on a last segment with padding, the
// pad count stored in the last remaining byte. ok is false when the trailer
// does not fit inside the segment.
func UsableLength(src source.Source, pos int64, declared uint16, attrs Attributes) (int64, bool) {
	n := int64(declared)
	if n < headerBytes {
		return 0, false
	}
	if attrs.HasChecksum() {
		n -= 2
	}
	if attrs.HasTrailingLength() {
		n -= 2
	}
	if attrs.HasPadding() && !attrs.HasSuccessor() {
		if n <= headerBytes {
			return 0, false
		}
		pad, err := src.ByteAt(pos + n - 1)
		if err != nil {
			return 0, false
		}
		n -= int64(pad)
	}
	if n < headerBytes {
		return 0, false
	}
	return n, true
}
