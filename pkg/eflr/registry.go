package eflr

// EFLRType describes one logical record type code and the set types it may carry
type EFLRType struct {
	Code        uint8
	Short       string
	Description string
	SetTypes    []string
}

// Permits reports whether setType is an allowed set type for t
func (t EFLRType) Permits(setType string) bool {
	for _, s := range t.SetTypes {
		if s == setType {
			return true
		}
	}
	return false
}

// Codes 12-127 are reserved and never match.
var registry = []EFLRType{
	{0, "FHLR", "File Header", []string{"FILE-HEADER"}},
	{1, "OLR", "Origin", []string{"ORIGIN", "WELL-REFERENCE"}},
	{2, "AXIS", "Coordinate Axis", []string{"AXIS"}},
	{3, "CHANNL", "Channel-related information", []string{"CHANNEL"}},
	{4, "FRAME", "Frame Data", []string{"FRAME", "PATH"}},
	{5, "STATIC", "Static Data", []string{
		"CALIBRATION",
		"CALIBRATION-COEFFICIENT",
		"CALIBRATION-MEASUREMENT",
		"COMPUTATION",
		"EQUIPMENT",
		"GROUP",
		"PARAMETER",
		"PROCESS",
		"SPICE",
		"TOOL",
		"ZONE",
	}},
	{6, "SCRIPT", "Textual Data", []string{"COMMENT", "MESSAGE"}},
	{7, "UPDATE", "Update Data", []string{"UPDATE"}},
	{8, "UDI", "Unformatted Data Identifier", []string{"NO-FORMAT"}},
	{9, "LNAME", "Long Name", []string{"LONG-NAME"}},
	{10, "SPEC", "Specification", []string{
		"ATTRIBUTE",
		"CODE",
		"EFLR",
		"IFLR",
		"OBJECT-TYPE",
		"REPRESENTATION-CODE",
		"SPECIFICATION",
		"UNIT-SYMBOL",
	}},
	{11, "DICT", "Dictionary", []string{"BASE-DICTIONARY", "IDENTIFIER", "LEXICON", "OPTION"}},
}

// Lookup returns the registry entry for a type code
func Lookup(code uint8) (EFLRType, bool) {
	if int(code) >= len(registry) {
		return EFLRType{}, false
	}
	return registry[code], true
}

// Types returns a copy of the whole registry in code order
func Types() []EFLRType {
	out := make([]EFLRType, len(registry))
	for i, t := range registry {
		out[i] = t
		out[i].SetTypes = append([]string(nil), t.SetTypes...)
	}
	return out
}

// Kind is the decoding route of a set type
type Kind int

const (
	KindUnhandled Kind = iota
	KindFileHeader
	KindChannel
	KindFrame
	KindOrigin
	KindParameter
)

// KindOf maps a set type name to its route. Names without a decoder map to KindUnhandled.
func KindOf(setType string) Kind {
	switch setType {
	case "FILE-HEADER":
		return KindFileHeader
	case "CHANNEL":
		return KindChannel
	case "FRAME":
		return KindFrame
	case "ORIGIN":
		return KindOrigin
	case "PARAMETER":
		return KindParameter
	default:
		return KindUnhandled
	}
}

// Key returns the result index key a decoded frame of this kind is stored under
func (k Kind) Key() string {
	switch k {
	case KindFileHeader:
		return "HEADER"
	case KindChannel:
		return "CHANNEL"
	case KindFrame:
		return "FRAME"
	case KindOrigin:
		return "ORIGIN"
	case KindParameter:
		return "PARAMETER"
	default:
		return ""
	}
}

// Numbered reports whether repeated records of this kind get a numeric suffix
func (k Kind) Numbered() bool {
	return k == KindChannel || k == KindParameter
}

func (k Kind) String() string {
	switch k {
	case KindFileHeader:
		return "FILE-HEADER"
	case KindChannel, KindFrame, KindOrigin, KindParameter:
		return k.Key()
	default:
		return "UNHANDLED"
	}
}
