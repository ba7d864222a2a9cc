package eflr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/eflrscan/pkg/repcode"
)

const (
	descTemplateLabelCode      = 0x34
	descTemplateLabelCount     = 0x38
	descTemplateLabelCountCode = 0x3C
	descTemplateLabelCodeValue = 0x35
	descTemplateAll            = 0x3F
	descObjectNamed            = 0x70
	descObjectAnonymous        = 0x60
	descAttribValue            = 0x21
	descAttribNone             = 0x20
	descInvariant              = 0x40
	descAbsent                 = 0x00
)

func TestDecoder_TemplateAndRows(t *testing.T) {
	// Template: A (IDENT, no value), B (UVARI, 7).
	// Object: A set to "fresh", B inherited.
	body := join(
		[]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.IDENT)},
		[]byte{descTemplateLabelCodeValue}, ident("B"), []byte{byte(repcode.UVARI)}, []byte{0x07},
		[]byte{descObjectNamed}, obname(1, 0, "OBJ"),
		[]byte{descAttribValue}, ident("fresh"),
		[]byte{descInvariant},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	require.NoError(t, rec.RowErr)

	require.Len(t, rec.Template, 2)
	assert.Equal(t, repcode.IDENT, rec.Template[0].Code)
	assert.Equal(t, repcode.UVARI, rec.Template[1].Code)

	assert.Equal(t, []string{"", "A", "B"}, rec.Frame.Header)
	require.Len(t, rec.Frame.Data, 1)
	assert.Equal(t, []string{"1&0&OBJ", "fresh", "7"}, rec.Frame.Data[0])

	// the template keeps its own values
	assert.Empty(t, rec.Template[0].Values)
	assert.Equal(t, "7", rec.Template[1].Values[0].String())
}

func TestDecoder_SkipsSetPreamble(t *testing.T) {
	body := join(
		ident("NAME"), []byte{0x00},
		[]byte{descTemplateLabelCode}, ident("ID"), []byte{byte(repcode.IDENT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, ident("WELL-1"),
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "ID"}, rec.Frame.Header)
	require.Len(t, rec.Frame.Data, 1)
	assert.Equal(t, []string{"", "WELL-1"}, rec.Frame.Data[0])

	name, ok := rec.Frame.ObjectName()
	require.True(t, ok)
	assert.Equal(t, "WELL-1", name)
}

func TestDecoder_PreambleBytesThatResembleDescriptors(t *testing.T) {
	tests := []struct {
		name     string
		preamble []byte
	}{
		{"digit five", ident("15")},
		{"digit nine", ident("ZONE-9")},
		{"semicolon", ident("A;B")},
		{"question mark", ident("?")},
		{"descriptor with value", []byte{descTemplateLabelCodeValue, descTemplateAll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := join(
				tt.preamble,
				[]byte{descTemplateLabelCode}, ident("ID"), []byte{byte(repcode.IDENT)},
				[]byte{descObjectAnonymous},
				[]byte{descAttribValue}, ident("WELL-1"),
			)

			rec, err := NewDecoder(time.UTC).Decode(body)
			require.NoError(t, err)
			assert.Equal(t, []string{"", "ID"}, rec.Frame.Header)
			assert.Equal(t, [][]string{{"", "WELL-1"}}, rec.Frame.Data)
		})
	}
}

func TestDecoder_TemplateStartDescriptors(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"label and code", join([]byte{descTemplateLabelCode}, ident("ID"), []byte{byte(repcode.IDENT)})},
		{"label and count", join([]byte{descTemplateLabelCount}, ident("ID"), []byte{0x01})},
		{"label count and code", join([]byte{descTemplateLabelCountCode}, ident("ID"), []byte{0x01, byte(repcode.IDENT)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := join(tt.body, []byte{descObjectAnonymous}, []byte{descAttribValue}, ident("WELL-1"))

			rec, err := NewDecoder(time.UTC).Decode(body)
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"", "WELL-1"}}, rec.Frame.Data)
		})
	}
}

func TestDecoder_RowIdentityBytesAreRaw(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("ID"), []byte{byte(repcode.IDENT)},
		[]byte{descObjectNamed}, []byte{0x81, 0x00}, ident("OBJ"),
		[]byte{descAttribValue}, ident("WELL-1"),
		[]byte{descObjectNamed}, []byte{0xC0, 0xFF}, ident("NEXT"),
		[]byte{descAttribValue}, ident("WELL-2"),
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	require.NoError(t, rec.RowErr)
	assert.Equal(t, [][]string{
		{"129&0&OBJ", "WELL-1"},
		{"192&255&NEXT", "WELL-2"},
	}, rec.Frame.Data)
}

func TestDecoder_RowValueUsesTemplateCount(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCountCode}, ident("PAIR"), []byte{0x02, byte(repcode.USHORT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x01, 0x02},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "1, 2"}}, rec.Frame.Data)
}

func TestDecoder_TemplateColumnsInheritRunningState(t *testing.T) {
	// the second column sets only a label and keeps the first column's code
	body := join(
		[]byte{descTemplateLabelCode}, ident("X"), []byte{byte(repcode.USHORT)},
		[]byte{0x30}, ident("Y"),
		[]byte{descAbsent},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x05},
		[]byte{descAttribValue}, []byte{0x06},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	require.Len(t, rec.Template, 2)
	assert.Equal(t, repcode.USHORT, rec.Template[1].Code)
	assert.Equal(t, [][]string{{"", "5", "6"}}, rec.Frame.Data)
}

func TestDecoder_Units(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("INDEX"), []byte{byte(repcode.USHORT)},
		[]byte{descTemplateAll}, ident("DEPTH"), []byte{0x01, byte(repcode.FSINGL)}, ident(" m "), []byte{0x3F, 0xC0, 0x00, 0x00},
		[]byte{descTemplateLabelCodeValue}, ident("NAME"), []byte{byte(repcode.IDENT)}, ident("  GR  "),
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x01},
		[]byte{descAttribNone},
		[]byte{descInvariant},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	require.Len(t, rec.Frame.Data, 1)
	// NAME inherits DEPTH's units from the running template state
	assert.Equal(t, []string{"", "1", "1.5 m", "GR m"}, rec.Frame.Data[0])
}

func TestDecoder_RowUnitsDoNotCarryToOtherColumns(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.USHORT)},
		[]byte{descTemplateLabelCode}, ident("B"), []byte{byte(repcode.USHORT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue | FormatUnits}, ident("ft"), []byte{0x01},
		[]byte{descAttribValue}, []byte{0x02},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "1 ft", "2"}}, rec.Frame.Data)
}

func TestDecoder_ArrayValues(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("SPACING"), []byte{byte(repcode.USHORT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue | FormatCount | FormatUnits}, []byte{0x03}, ident("in"), []byte{0x01, 0x02, 0x03},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "1 in, 2 in, 3 in"}}, rec.Frame.Data)
}

func TestDecoder_RendersDatesAndObjectNames(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("CREATION-TIME"), []byte{byte(repcode.DTIME)},
		[]byte{descTemplateLabelCode}, ident("SOURCE"), []byte{byte(repcode.OBNAME)},
		[]byte{descTemplateLabelCode}, ident("REF"), []byte{byte(repcode.OBJREF)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{87, 0x04, 19, 21, 20, 15, 0x00, 0x00},
		[]byte{descAttribValue}, obname(2, 1, "TOOL-A"),
		[]byte{descAttribValue}, ident("CHANNEL"), obname(2, 0, "GR"),
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "19-04-1987 21:20:15", "TOOL-A", "GR"}}, rec.Frame.Data)
}

func TestDecoder_MultipleRows(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("NAME"), []byte{byte(repcode.IDENT)},
		[]byte{descTemplateLabelCodeValue}, ident("UNITS"), []byte{byte(repcode.IDENT)}, ident("m"),
		[]byte{descObjectNamed}, obname(1, 0, "DEPT"),
		[]byte{descAttribValue}, ident("Depth"),
		[]byte{descAbsent},
		[]byte{descObjectNamed}, obname(1, 0, "GR"),
		[]byte{descAttribValue}, ident("Gamma"),
		[]byte{descAttribValue}, ident("gAPI"),
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1&0&DEPT", "Depth", "m"},
		{"1&0&GR", "Gamma", "gAPI"},
	}, rec.Frame.Data)
}

func TestDecoder_IncompleteRowIsDiscarded(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.USHORT)},
		[]byte{descTemplateLabelCode}, ident("B"), []byte{byte(repcode.USHORT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x01},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x02},
		[]byte{descAttribValue}, []byte{0x03},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "2", "3"}}, rec.Frame.Data)
}

func TestDecoder_TruncatedRowIsDiscarded(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.USHORT)},
		[]byte{descTemplateLabelCode}, ident("B"), []byte{byte(repcode.IDENT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x01},
		[]byte{descAttribValue}, []byte{0x05, 'A', 'B'},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.NoError(t, rec.RowErr)
	assert.Empty(t, rec.Frame.Data)
	assert.Equal(t, []string{"", "A", "B"}, rec.Frame.Header)
}

func TestDecoder_RowDecodeFailureKeepsEarlierRows(t *testing.T) {
	body := join(
		[]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.USHORT)},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue}, []byte{0x01},
		[]byte{descObjectAnonymous},
		[]byte{descAttribValue | FormatCode}, []byte{99}, []byte{0x00},
	)

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "1"}}, rec.Frame.Data)

	var unknown *repcode.UnknownCodeError
	assert.ErrorAs(t, rec.RowErr, &unknown)
}

func TestDecoder_TemplateOnly(t *testing.T) {
	body := join([]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.USHORT)})

	rec, err := NewDecoder(time.UTC).Decode(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "A"}, rec.Frame.Header)
	assert.Empty(t, rec.Frame.Data)
}

func TestDecoder_SchemaFailure(t *testing.T) {
	t.Run("no template", func(t *testing.T) {
		_, err := NewDecoder(time.UTC).Decode([]byte{0x01, 0x02, 0x03})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.ErrorIs(t, err, ErrNoTemplate)
	})

	t.Run("unknown code in template value", func(t *testing.T) {
		body := join(
			[]byte{descTemplateLabelCode}, ident("Z"), []byte{byte(repcode.IDENT)},
			[]byte{descTemplateLabelCodeValue}, ident("A"), []byte{99}, []byte{0x00},
		)
		_, err := NewDecoder(time.UTC).Decode(body)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, 1, schemaErr.Column)
	})

	t.Run("truncated template column", func(t *testing.T) {
		body := join(
			[]byte{descTemplateLabelCode}, ident("A"), []byte{byte(repcode.USHORT)},
			[]byte{descTemplateLabelCode}, []byte{0x09, 'B'},
		)
		_, err := NewDecoder(time.UTC).Decode(body)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, 1, schemaErr.Column)
		assert.ErrorIs(t, err, repcode.ErrEndOfData)
	})
}

func TestRender(t *testing.T) {
	t.Run("ident without units is trimmed", func(t *testing.T) {
		c := Component{Values: []repcode.Value{repcode.Ident("  WELL  ")}}
		assert.Equal(t, "WELL", Render(c, time.UTC))
	})

	t.Run("value with units", func(t *testing.T) {
		c := Component{Units: " m", Values: []repcode.Value{repcode.Int(12)}}
		assert.Equal(t, "12 m", Render(c, time.UTC))
	})

	t.Run("absent value", func(t *testing.T) {
		c := Component{Units: "m"}
		assert.Equal(t, "", Render(c, time.UTC))
	})

	t.Run("date in location", func(t *testing.T) {
		loc := time.FixedZone("BRT", -3*3600)
		c := Component{Values: []repcode.Value{repcode.DateTime{Year: 2011, Month: 10, Day: 27, Hour: 8}}}
		assert.Equal(t, "27-10-2011 08:00:00", Render(c, loc))
	})
}
