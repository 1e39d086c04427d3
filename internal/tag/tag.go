// Package tag models the flat (code,value) field stream of the DXF exchange
// format and classifies group codes by semantic role.
package tag

import "strings"

// Field is one tagged value: an integer group code and its raw text value.
// The code determines the semantic role of the value; the format itself is
// not self-describing.
type Field struct {
	Code  int
	Value string
}

// Well-known group codes.
const (
	// TypeCode starts a record; its value is the record type tag.
	TypeCode = 0
	// NameCode carries a symbol or section name.
	NameCode = 2
	// EntryCode carries a dictionary entry name.
	EntryCode = 3
	// HandleCode declares a record's own handle.
	HandleCode = 5
	// LayerCode names the presentation layer of an entity.
	LayerCode = 8
	// VariableCode names a header variable.
	VariableCode = 9
	// ColorCode carries an entity color number.
	ColorCode = 62
	// ControlCode opens and closes application-defined blocks such as
	// reactor and extension-dictionary groups.
	ControlCode = 102
	// ExtendedHandleCode declares a handle on dimension-style records.
	ExtendedHandleCode = 105
	// OwnerCode points at the owning record.
	OwnerCode = 330
	// PayloadCode carries the annotation text content. The same code also
	// tags structural marker tokens such as "LEADER_LINE{".
	PayloadCode = 304
	// CachedGraphicsCode counts the bytes of the opaque cached-graphics
	// block that follows as CachedChunkCode fields.
	CachedGraphicsCode = 92
	// CachedChunkCode carries one chunk of opaque cached graphics.
	CachedChunkCode = 310
)

// Control block names.
const (
	ReactorsBlock      = "{ACAD_REACTORS"
	ExtensionBlock     = "{ACAD_XDICTIONARY"
	ControlBlockClose  = "}"
	structuralOpenMark = "{"
)

// IsHandleCode reports whether code carries a handle value, either the
// record's own identity or a reference to another record.
func IsHandleCode(code int) bool {
	switch {
	case code == HandleCode, code == ExtendedHandleCode:
		return true
	case code >= 320 && code <= 369:
		return true
	case code >= 390 && code <= 399:
		return true
	case code == 480, code == 481, code == 1005:
		return true
	}
	return false
}

// IsDirectionCode reports whether code carries a unit-vector ordinate.
// Direction fields express orientation, not location, and are never
// translated.
func IsDirectionCode(code int) bool {
	switch code {
	case 11, 21, 31, 210, 220, 230:
		return true
	}
	return false
}

// IsPositionCode reports whether code carries a coordinate ordinate subject
// to translation.
func IsPositionCode(code int) bool {
	if IsDirectionCode(code) {
		return false
	}
	switch {
	case code >= 10 && code <= 18:
		return true
	case code >= 20 && code <= 28:
		return true
	case code >= 30 && code <= 38:
		return true
	}
	return false
}

// Axis maps a position code to its coordinate axis: 0 for X, 1 for Y,
// 2 for Z. Callers must pass a position code.
func Axis(code int) int {
	return code/10 - 1
}

// IsStructuralMarker reports whether a payload-coded value is a structural
// marker token rather than actual text content. Markers open a block with a
// trailing brace ("LEADER_LINE{") or close one ("}").
func IsStructuralMarker(value string) bool {
	return value == ControlBlockClose || strings.HasSuffix(value, structuralOpenMark)
}
