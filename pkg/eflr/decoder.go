package eflr

import (
	"errors"
	"fmt"
	"time"

	"github.com/ssargent/eflrscan/pkg/repcode"
)

// isTemplateStart reports whether desc can open a template: ATTRIB with a
// label and a count, a representation code or both, and no value.
func isTemplateStart(desc byte) bool {
	return desc == 0x34 || desc == 0x38 || desc == 0x3C
}

// ErrNoTemplate is returned when a record body holds no template descriptor
var ErrNoTemplate = errors.New("no template descriptor found")

// SchemaError reports a failure while building a template. The whole record is lost.
type SchemaError struct {
	Offset int
	Column int
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("template column %d at offset %d: %v", e.Column, e.Offset, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Record is the decoded form of one logical record body
type Record struct {
	Template Template
	Frame    Frame
	// RowErr is set when a row failed to decode for a reason other than running
	// out of data. Rows after it could not be located.
	RowErr error
}

// Decoder turns logical record bodies into frames
type Decoder struct {
	location *time.Location
}

// NewDecoder creates a decoder that renders dates in loc (time.Local when nil)
func NewDecoder(loc *time.Location) *Decoder {
	if loc == nil {
		loc = time.Local
	}
	return &Decoder{location: loc}
}

// Decode decodes the body of one logical record that follows its set type name
func (d *Decoder) Decode(body []byte) (*Record, error) {
	cur := repcode.NewCursor(body)

	tmpl, err := ReadTemplate(cur)
	if err != nil {
		return nil, err
	}

	rec := &Record{Template: tmpl, Frame: NewFrame(tmpl)}
	for {
		desc, err := cur.Peek()
		if err != nil || Role(desc) != RoleObject {
			break
		}
		_, _ = cur.Byte()

		row, err := d.ReadRow(tmpl, desc, cur)
		if err != nil {
			if !errors.Is(err, repcode.ErrEndOfData) {
				rec.RowErr = err
			}
			break
		}
		if row != nil {
			rec.Frame.Data = append(rec.Frame.Data, row)
		}
	}
	return rec, nil
}

// ReadTemplate skips to the first template descriptor and reads columns until a
// descriptor that is not ABSATR, ATTRIB or INVATR. That descriptor is left
// unread. The running component carries every field a column does not set.
func ReadTemplate(cur *repcode.Cursor) (Template, error) {
	for {
		b, err := cur.Peek()
		if err != nil {
			return nil, &SchemaError{Offset: cur.Pos(), Err: ErrNoTemplate}
		}
		if isTemplateStart(b) {
			break
		}
		_, _ = cur.Byte()
	}

	var tmpl Template
	state := NewComponent()
	for {
		desc, err := cur.Peek()
		if err != nil {
			// a template with no objects after it
			return tmpl, nil
		}

		switch Role(desc) {
		case RoleAbsent:
			_, _ = cur.Byte()
		case RoleAttribute, RoleInvariant:
			offset := cur.Pos()
			_, _ = cur.Byte()
			next, err := state.ReadAsTemplate(FormatBits(desc), cur)
			if err != nil {
				return nil, &SchemaError{Offset: offset, Column: len(tmpl), Err: err}
			}
			state = next
			col := state.Clone()
			col.Role = uint8(col.Code) >> 5
			tmpl = append(tmpl, col)
		default:
			return tmpl, nil
		}
	}
}

// ReadRow reads one object whose descriptor desc has been consumed. It returns
// the rendered row with the object identity in slot 0, or nil when another
// component ends the object before every column is filled. Errors abort the row.
func (d *Decoder) ReadRow(tmpl Template, desc byte, cur *repcode.Cursor) ([]string, error) {
	identity := ""
	if FormatBits(desc)&FormatLabel != 0 {
		origin, err := cur.Byte()
		if err != nil {
			return nil, err
		}
		copyNum, err := cur.Byte()
		if err != nil {
			return nil, err
		}
		name, err := cur.Ident()
		if err != nil {
			return nil, err
		}
		identity = fmt.Sprintf("%d&%d&%s", origin, copyNum, trim(string(name)))
	}

	row := make([]string, 0, len(tmpl)+1)
	row = append(row, identity)
	for i, col := range tmpl {
		attr, err := cur.Peek()
		if err != nil {
			return nil, err
		}
		if Role(attr) > RoleInvariant {
			return nil, nil
		}
		_, _ = cur.Byte()

		if Role(attr) == RoleAttribute {
			col, err = col.ReadAsTemplate(FormatBits(attr), cur)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
		}
		row = append(row, Render(col, d.location))
	}
	return row, nil
}
