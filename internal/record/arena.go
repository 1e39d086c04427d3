package record

import (
	"github.com/cartoworks/dxflabel/internal/tag"
)

// Arena holds every record of a document in stream order. Pass 1 of the
// scan recognizes only record-start fields, so boundaries never overlap and
// never consume partial records; pass 2 lookups go through Record methods.
type Arena struct {
	Records  []Record
	byHandle map[string]int
}

// Scan splits a field stream into records. Every code-0 field starts a new
// record; fields before the first code-0 field are ignored. Section and
// end markers (SECTION, ENDSEC, EOF) become records like any other.
func Scan(fields []tag.Field) *Arena {
	a := &Arena{byHandle: make(map[string]int)}
	open := false
	var cur Record
	flush := func() {
		if !open {
			return
		}
		idx := len(a.Records)
		a.Records = append(a.Records, cur)
		if h, ok := cur.Handle(); ok {
			if _, dup := a.byHandle[h]; !dup {
				a.byHandle[h] = idx
			}
		}
	}
	for _, f := range fields {
		if f.Code == tag.TypeCode {
			flush()
			cur = Record{Type: f.Value}
			open = true
			continue
		}
		if open {
			cur.Fields = append(cur.Fields, f)
		}
	}
	flush()
	return a
}

// ByHandle resolves a handle to an arena index.
func (a *Arena) ByHandle(h string) (int, bool) {
	idx, ok := a.byHandle[h]
	return idx, ok
}

// OfType returns the arena indices of every record with the given type tag,
// in stream order.
func (a *Arena) OfType(typ string) []int {
	var out []int
	for i := range a.Records {
		if a.Records[i].Type == typ {
			out = append(out, i)
		}
	}
	return out
}

// MaxHandle returns the largest handle value observed anywhere in the
// document, across identity and reference fields alike. Header variables
// such as the handle seed participate, so an allocator seeded above this
// value cannot collide with anything the template mentions.
func (a *Arena) MaxHandle() uint64 {
	var max uint64
	for i := range a.Records {
		for _, f := range a.Records[i].Fields {
			if !tag.IsHandleCode(f.Code) {
				continue
			}
			if v, ok := ParseHandle(f.Value); ok && v > max {
				max = v
			}
		}
	}
	return max
}

// Section returns the record holding the fields of the named section, if
// the document has one. The section's own fields start with the name field.
func (a *Arena) Section(name string) (*Record, bool) {
	for i := range a.Records {
		r := &a.Records[i]
		if r.Type != "SECTION" {
			continue
		}
		if v, ok := r.Value(tag.NameCode); ok && v == name {
			return r, true
		}
	}
	return nil, false
}
