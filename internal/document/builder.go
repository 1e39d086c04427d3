// Package document assembles a minimal standalone exchange-format document:
// synthesized container sections plus transplanted records merged in
// dependency order. A record never precedes its owner, because downstream
// consumers index records by first occurrence.
package document

import (
	"strconv"
	"strings"

	"github.com/cartoworks/dxflabel/internal/handle"
	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

// XrefSeparator marks symbol names bound to another document. Entries
// carrying it are meaningless outside their original multi-document context
// and are dropped from the synthesized symbol table.
const XrefSeparator = "|"

// Layer is one synthesized layer table entry.
type Layer struct {
	Name  string
	Color int
}

// Builder accumulates transplanted records and emits the final document.
// All infrastructure records draw handles from the shared allocator, so
// nothing the builder synthesizes can collide with a transplanted clone.
type Builder struct {
	alloc      *handle.Allocator
	headerVars []tag.Field
	layers     []Layer
	classes    []string
	classSeen  map[string]bool
	entities   []record.Record
	objects    []record.Record
	rootDict   []DictEntry

	modelSpace   string
	paperSpace   string
	namedObjects string
}

// DictEntry is one name→handle pair inside a dictionary record.
type DictEntry struct {
	Name   string
	Handle string
}

// NewBuilder returns a builder sharing the given allocator. The model-space
// block record and the named-objects dictionary receive their handles
// immediately so callers can parent records under them.
func NewBuilder(alloc *handle.Allocator) *Builder {
	return &Builder{
		alloc:        alloc,
		classSeen:    make(map[string]bool),
		modelSpace:   alloc.Next(),
		paperSpace:   alloc.Next(),
		namedObjects: alloc.Next(),
	}
}

// ModelSpaceHandle returns the handle of the model-space block record, the
// owner of every transplanted entity.
func (b *Builder) ModelSpaceHandle() string { return b.modelSpace }

// NamedObjectsHandle returns the handle of the root dictionary.
func (b *Builder) NamedObjectsHandle() string { return b.namedObjects }

// SetHeader lifts header variables from the source document. When never
// called, a minimal header is synthesized instead.
func (b *Builder) SetHeader(vars []tag.Field) {
	b.headerVars = vars
}

// AddLayer registers a layer table entry. Cross-document names and
// duplicates are dropped.
func (b *Builder) AddLayer(name string, color int) {
	if name == "" || strings.Contains(name, XrefSeparator) {
		return
	}
	for _, l := range b.layers {
		if l.Name == name {
			return
		}
	}
	b.layers = append(b.layers, Layer{Name: name, Color: color})
}

// UseClass registers a custom record type needing a class declaration.
func (b *Builder) UseClass(recordType string) {
	if b.classSeen[recordType] {
		return
	}
	b.classSeen[recordType] = true
	b.classes = append(b.classes, recordType)
}

// AddRootEntry registers an entry in the named-objects dictionary. The
// caller must emit the referenced object via AddObject.
func (b *Builder) AddRootEntry(name, h string) {
	b.rootDict = append(b.rootDict, DictEntry{Name: name, Handle: h})
}

// AddEntity appends a record to the entity section in insertion order.
func (b *Builder) AddEntity(rec record.Record) {
	b.entities = append(b.entities, rec)
}

// AddObject appends a record to the object section. Callers add owners
// before the records they own.
func (b *Builder) AddObject(rec record.Record) {
	b.objects = append(b.objects, rec)
}

// Bytes serializes the document: header, classes, tables, blocks, entities,
// objects, end marker. The handle seed variable is refreshed to the next
// unissued handle so consumers appending records cannot collide.
func (b *Builder) Bytes() []byte {
	// Infrastructure records allocate handles; build them before the
	// header so the emitted seed covers everything.
	tables := b.tablesSection()
	blocks := b.blocksSection()

	var out []byte
	out = appendSection(out, "HEADER", b.headerFields())
	if len(b.classes) > 0 {
		out = appendSection(out, "CLASSES", b.classFields())
	}
	out = appendSection(out, "TABLES", tables)
	out = appendSection(out, "BLOCKS", blocks)

	var ents []tag.Field
	for i := range b.entities {
		ents = appendRecord(ents, &b.entities[i])
	}
	out = appendSection(out, "ENTITIES", ents)

	var objs []tag.Field
	root := Dictionary(b.namedObjects, "0", b.rootDict)
	objs = appendRecord(objs, &root)
	for i := range b.objects {
		objs = appendRecord(objs, &b.objects[i])
	}
	out = appendSection(out, "OBJECTS", objs)

	out = tag.Append(out, tag.Field{Code: tag.TypeCode, Value: "EOF"})
	return out
}

func (b *Builder) headerFields() []tag.Field {
	seed := strings.ToUpper(strconv.FormatUint(b.alloc.Peek(), 16))
	if len(b.headerVars) == 0 {
		return []tag.Field{
			{Code: tag.VariableCode, Value: "$ACADVER"},
			{Code: 1, Value: "AC1027"},
			{Code: tag.VariableCode, Value: "$HANDSEED"},
			{Code: tag.HandleCode, Value: seed},
		}
	}

	out := make([]tag.Field, 0, len(b.headerVars)+2)
	refreshNext := false
	haveSeed := false
	for _, f := range b.headerVars {
		if refreshNext && f.Code == tag.HandleCode {
			out = append(out, tag.Field{Code: f.Code, Value: seed})
			refreshNext = false
			continue
		}
		if f.Code == tag.VariableCode && f.Value == "$HANDSEED" {
			refreshNext = true
			haveSeed = true
		}
		out = append(out, f)
	}
	if !haveSeed {
		out = append(out,
			tag.Field{Code: tag.VariableCode, Value: "$HANDSEED"},
			tag.Field{Code: tag.HandleCode, Value: seed},
		)
	}
	return out
}

func appendSection(dst []byte, name string, fields []tag.Field) []byte {
	dst = tag.Append(dst, tag.Field{Code: tag.TypeCode, Value: "SECTION"})
	dst = tag.Append(dst, tag.Field{Code: tag.NameCode, Value: name})
	for _, f := range fields {
		dst = tag.Append(dst, f)
	}
	dst = tag.Append(dst, tag.Field{Code: tag.TypeCode, Value: "ENDSEC"})
	return dst
}

func appendRecord(dst []tag.Field, r *record.Record) []tag.Field {
	dst = append(dst, tag.Field{Code: tag.TypeCode, Value: r.Type})
	dst = append(dst, r.Fields...)
	return dst
}
