// Package record turns a flat field stream into an arena of bounded records
// and locates records by type and attribute. Records are flat in the text
// stream; logical links between them are handle references only, so the
// arena addresses records by integer index rather than by live pointers.
package record

import (
	"strconv"
	"strings"

	"github.com/cartoworks/dxflabel/internal/tag"
)

// Record is one bounded run of fields. The type tag comes from the code-0
// field that started the record; Fields holds everything after it.
type Record struct {
	Type   string
	Fields []tag.Field
}

// Handle returns the record's own handle, declared by the first identity
// field (code 5 or 105).
func (r *Record) Handle() (string, bool) {
	for _, f := range r.Fields {
		if f.Code == tag.HandleCode || f.Code == tag.ExtendedHandleCode {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns the first value tagged with code.
func (r *Record) Value(code int) (string, bool) {
	for _, f := range r.Fields {
		if f.Code == code {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value tagged with code, in stream order. Codes may
// repeat, e.g. vertex lists and dictionary entries.
func (r *Record) Values(code int) []string {
	var out []string
	for _, f := range r.Fields {
		if f.Code == code {
			out = append(out, f.Value)
		}
	}
	return out
}

// Layer returns the record's layer attribute.
func (r *Record) Layer() (string, bool) {
	return r.Value(tag.LayerCode)
}

// Clone returns a deep copy whose field slice is independent of the source.
func (r *Record) Clone() Record {
	fields := make([]tag.Field, len(r.Fields))
	copy(fields, r.Fields)
	return Record{Type: r.Type, Fields: fields}
}

// Marshal serializes the record in canonical form, type tag first.
func (r *Record) Marshal(dst []byte) []byte {
	dst = tag.Append(dst, tag.Field{Code: tag.TypeCode, Value: r.Type})
	for _, f := range r.Fields {
		dst = tag.Append(dst, f)
	}
	return dst
}

// EntryHandle returns the handle stored for a named dictionary entry: the
// first handle-coded field following the entry-name field.
func (r *Record) EntryHandle(name string) (string, bool) {
	matched := false
	for _, f := range r.Fields {
		if matched && tag.IsHandleCode(f.Code) {
			return f.Value, true
		}
		if f.Code == tag.EntryCode {
			matched = f.Value == name
		}
	}
	return "", false
}

// FirstEntry returns the first dictionary entry name and its handle.
func (r *Record) FirstEntry() (name, handle string, ok bool) {
	pending := ""
	havePending := false
	for _, f := range r.Fields {
		if f.Code == tag.EntryCode {
			pending = f.Value
			havePending = true
			continue
		}
		if havePending && tag.IsHandleCode(f.Code) {
			return pending, f.Value, true
		}
	}
	return "", "", false
}

// ParseHandle parses a hexadecimal handle token.
func ParseHandle(s string) (uint64, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
