package eflr

import (
	"fmt"

	"github.com/ssargent/eflrscan/pkg/repcode"
)

// Component descriptor roles, the three most significant bits of a descriptor byte
const (
	RoleAbsent    = 0 // ABSATR
	RoleAttribute = 1 // ATTRIB
	RoleInvariant = 2 // INVATR
	RoleObject    = 3 // OBJECT
	RoleRDSet     = 5
	RoleRSet      = 6
	RoleSet       = 7
)

// Format bits, the five least significant bits of a descriptor byte
const (
	FormatLabel = 0x10
	FormatCount = 0x08
	FormatCode  = 0x04
	FormatUnits = 0x02
	FormatValue = 0x01
)

// Global defaults of an attribute component
const (
	DefaultCount = 1
	DefaultCode  = repcode.IDENT
)

// Role returns the role of a descriptor byte
func Role(desc byte) int {
	return int(desc >> 5)
}

// FormatBits returns the format bits of a descriptor byte
func FormatBits(desc byte) uint8 {
	return desc & 0x1F
}

// Component is one attribute component. A read only replaces the fields
// selected by its format bits; every other field keeps its prior value.
type Component struct {
	Label  repcode.Ident
	Count  uint32
	Code   repcode.Code
	Units  repcode.Units
	Values []repcode.Value
	Role   uint8
}

// NewComponent returns a component holding the global defaults
func NewComponent() Component {
	return Component{Count: DefaultCount, Code: DefaultCode}
}

// Clone returns an independent copy
func (c Component) Clone() Component {
	if c.Values != nil {
		c.Values = append([]repcode.Value(nil), c.Values...)
	}
	return c
}

// IsArray reports whether the component holds more than one value
func (c Component) IsArray() bool {
	return len(c.Values) > 1
}

// Read decodes the sub-fields selected by bits from cur into c
func (c *Component) Read(bits uint8, cur *repcode.Cursor) error {
	if bits&FormatLabel != 0 {
		label, err := cur.Ident()
		if err != nil {
			return fmt.Errorf("label: %w", err)
		}
		c.Label = label
	}
	if bits&FormatCount != 0 {
		count, err := cur.UVari()
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		c.Count = count
	}
	if bits&FormatCode != 0 {
		code, err := cur.UShort()
		if err != nil {
			return fmt.Errorf("representation code: %w", err)
		}
		c.Code = repcode.Code(code)
	}
	if bits&FormatUnits != 0 {
		units, err := cur.Units()
		if err != nil {
			return fmt.Errorf("units: %w", err)
		}
		c.Units = units
	}
	if bits&FormatValue != 0 {
		// every value takes at least one byte
		hint := cur.Remaining()
		if uint64(c.Count) < uint64(hint) {
			hint = int(c.Count)
		}
		values := make([]repcode.Value, 0, hint)
		for i := uint32(0); i < c.Count; i++ {
			v, err := repcode.Decode(c.Code, cur)
			if err != nil {
				return fmt.Errorf("value %d of %d (%s): %w", i+1, c.Count, c.Code, err)
			}
			values = append(values, v)
		}
		c.Values = values
	}
	return nil
}

// ReadAsTemplate treats c as the defaults for a read: it returns a copy of c
// with the read applied and leaves c untouched.
func (c Component) ReadAsTemplate(bits uint8, cur *repcode.Cursor) (Component, error) {
	out := c.Clone()
	if err := out.Read(bits, cur); err != nil {
		return Component{}, err
	}
	return out, nil
}

func (c Component) String() string {
	return fmt.Sprintf("label=%s count=%d rc=%d (%s) units=%s values=%v role=%d",
		c.Label, c.Count, c.Code, repcode.Name(c.Code), c.Units, c.Values, c.Role)
}

// Template is the ordered column schema of a set
type Template []Component

// Labels returns the trimmed column labels
func (t Template) Labels() []string {
	out := make([]string, len(t))
	for i, c := range t {
		out[i] = trim(string(c.Label))
	}
	return out
}
