// Package source provides random access to the bytes of a log file.
package source

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// ErrEndOfData is returned when an offset lies past the end of the source.
var ErrEndOfData = errors.New("end of data")

// Source is a byte-addressable view over a whole file
type Source interface {
	// ByteAt returns the byte at off.
	ByteAt(off int64) (byte, error)
	// Slice returns the bytes in [from, to).
	Slice(from, to int64) ([]byte, error)
	// Len returns the total number of bytes.
	Len() int64
}

// Bytes is an in-memory Source
type Bytes []byte

// ByteAt implements Source
func (b Bytes) ByteAt(off int64) (byte, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, ErrEndOfData
	}
	return b[off], nil
}

// Slice implements Source. The returned slice aliases b.
func (b Bytes) Slice(from, to int64) ([]byte, error) {
	if from < 0 || to < from || to > int64(len(b)) {
		return nil, ErrEndOfData
	}
	return b[from:to], nil
}

// Len implements Source
func (b Bytes) Len() int64 {
	return int64(len(b))
}

// Mapped is a Source backed by a memory-mapped file
type Mapped struct {
	path   string
	reader *mmap.ReaderAt
}

// Open memory-maps the file at path
func Open(path string) (*Mapped, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}

	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map source file: %w", err)
	}

	return &Mapped{path: path, reader: r}, nil
}

// Path returns the mapped file path
func (m *Mapped) Path() string {
	return m.path
}

// ByteAt implements Source
func (m *Mapped) ByteAt(off int64) (byte, error) {
	if off < 0 || off >= int64(m.reader.Len()) {
		return 0, ErrEndOfData
	}
	return m.reader.At(int(off)), nil
}

// Slice implements Source. The bytes are copied out of the mapping.
func (m *Mapped) Slice(from, to int64) ([]byte, error) {
	if from < 0 || to < from || to > int64(m.reader.Len()) {
		return nil, ErrEndOfData
	}

	buf := make([]byte, to-from)
	if _, err := m.reader.ReadAt(buf, from); err != nil {
		return nil, fmt.Errorf("failed to read [%d,%d): %w", from, to, err)
	}
	return buf, nil
}

// Len implements Source
func (m *Mapped) Len() int64 {
	return int64(m.reader.Len())
}

// Close unmaps the file
func (m *Mapped) Close() error {
	return m.reader.Close()
}
