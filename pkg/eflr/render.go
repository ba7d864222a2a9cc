package eflr

import (
	"strings"
	"time"

	"github.com/ssargent/eflrscan/pkg/repcode"
)

// DateLayout is the rendering of DTIME values
const DateLayout = "02-01-2006 15:04:05"

// ArraySeparator joins the elements of a multi-valued cell
const ArraySeparator = ", "

func trim(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// RenderValue renders one primitive
func RenderValue(v repcode.Value, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	switch tv := v.(type) {
	case nil:
		return ""
	case repcode.Dated:
		return time.Unix(tv.Epoch(loc), 0).In(loc).Format(DateLayout)
	case repcode.Identified:
		return string(tv.Ident())
	default:
		return tv.String()
	}
}

// Render renders a component's value as one cell. Each element is suffixed
// with the component's units when it has any.
func Render(c Component, loc *time.Location) string {
	units := trim(string(c.Units))

	parts := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		s := trim(RenderValue(v, loc))
		if units != "" {
			s += " " + units
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ArraySeparator)
}
