package document

import (
	"strconv"

	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

type classMeta struct {
	cpp      string
	app      string
	isEntity bool
}

var knownClasses = map[string]classMeta{
	"MULTILEADER":                         {cpp: "AcDbMLeader", app: "ObjectDBX Classes", isEntity: true},
	"MLEADERSTYLE":                        {cpp: "AcDbMLeaderStyle", app: "ACDB_MLEADERSTYLE_CLASS", isEntity: false},
	"SCALE":                               {cpp: "AcDbScale", app: "ObjectDBX Classes", isEntity: false},
	"ACDBDICTIONARYWDFLT":                 {cpp: "AcDbDictionaryWithDefault", app: "ObjectDBX Classes", isEntity: false},
	"ACDB_MLEADEROBJECTCONTEXTDATA_CLASS": {cpp: "AcDbMLeaderObjectContextData", app: "ObjectDBX Classes", isEntity: false},
}

func (b *Builder) classFields() []tag.Field {
	var out []tag.Field
	for _, name := range b.classes {
		meta, ok := knownClasses[name]
		if !ok {
			meta = classMeta{cpp: name, app: "ObjectDBX Classes"}
		}
		wasEntity := "0"
		if meta.isEntity {
			wasEntity = "1"
		}
		out = append(out,
			tag.Field{Code: tag.TypeCode, Value: "CLASS"},
			tag.Field{Code: 1, Value: name},
			tag.Field{Code: 2, Value: meta.cpp},
			tag.Field{Code: 3, Value: meta.app},
			tag.Field{Code: 90, Value: "0"},
			tag.Field{Code: 91, Value: "0"},
			tag.Field{Code: 280, Value: "0"},
			tag.Field{Code: 281, Value: wasEntity},
		)
	}
	return out
}

func (b *Builder) tablesSection() []tag.Field {
	var out []tag.Field

	out = b.appendTable(out, "VPORT", nil)

	ltypeEntries := func(tableHandle string) []tag.Field {
		var fields []tag.Field
		for _, name := range []string{"ByBlock", "ByLayer", "Continuous"} {
			desc := ""
			if name == "Continuous" {
				desc = "Solid line"
			}
			fields = append(fields,
				tag.Field{Code: tag.TypeCode, Value: "LTYPE"},
				tag.Field{Code: tag.HandleCode, Value: b.alloc.Next()},
				tag.Field{Code: tag.OwnerCode, Value: tableHandle},
				tag.Field{Code: 100, Value: "AcDbSymbolTableRecord"},
				tag.Field{Code: 100, Value: "AcDbLinetypeTableRecord"},
				tag.Field{Code: tag.NameCode, Value: name},
				tag.Field{Code: 70, Value: "0"},
				tag.Field{Code: 3, Value: desc},
				tag.Field{Code: 72, Value: "65"},
				tag.Field{Code: 73, Value: "0"},
				tag.Field{Code: 40, Value: "0.0"},
			)
		}
		return fields
	}
	out = b.appendTable(out, "LTYPE", ltypeEntries)

	layerEntries := func(tableHandle string) []tag.Field {
		layers := append([]Layer{{Name: "0", Color: 7}}, b.layers...)
		var fields []tag.Field
		for _, l := range layers {
			fields = append(fields,
				tag.Field{Code: tag.TypeCode, Value: "LAYER"},
				tag.Field{Code: tag.HandleCode, Value: b.alloc.Next()},
				tag.Field{Code: tag.OwnerCode, Value: tableHandle},
				tag.Field{Code: 100, Value: "AcDbSymbolTableRecord"},
				tag.Field{Code: 100, Value: "AcDbLayerTableRecord"},
				tag.Field{Code: tag.NameCode, Value: l.Name},
				tag.Field{Code: 70, Value: "0"},
				tag.Field{Code: tag.ColorCode, Value: strconv.Itoa(l.Color)},
				tag.Field{Code: 6, Value: "Continuous"},
			)
		}
		return fields
	}
	out = b.appendTable(out, "LAYER", layerEntries)

	styleEntries := func(tableHandle string) []tag.Field {
		return []tag.Field{
			{Code: tag.TypeCode, Value: "STYLE"},
			{Code: tag.HandleCode, Value: b.alloc.Next()},
			{Code: tag.OwnerCode, Value: tableHandle},
			{Code: 100, Value: "AcDbSymbolTableRecord"},
			{Code: 100, Value: "AcDbTextStyleTableRecord"},
			{Code: tag.NameCode, Value: "Standard"},
			{Code: 70, Value: "0"},
			{Code: 40, Value: "0.0"},
			{Code: 41, Value: "1.0"},
			{Code: 50, Value: "0.0"},
			{Code: 71, Value: "0"},
			{Code: 42, Value: "2.5"},
			{Code: 3, Value: "txt"},
			{Code: 4, Value: ""},
		}
	}
	out = b.appendTable(out, "STYLE", styleEntries)

	appidEntries := func(tableHandle string) []tag.Field {
		return []tag.Field{
			{Code: tag.TypeCode, Value: "APPID"},
			{Code: tag.HandleCode, Value: b.alloc.Next()},
			{Code: tag.OwnerCode, Value: tableHandle},
			{Code: 100, Value: "AcDbSymbolTableRecord"},
			{Code: 100, Value: "AcDbRegAppTableRecord"},
			{Code: tag.NameCode, Value: "ACAD"},
			{Code: 70, Value: "0"},
		}
	}
	out = b.appendTable(out, "APPID", appidEntries)

	blockRecEntries := func(tableHandle string) []tag.Field {
		var fields []tag.Field
		for _, br := range []struct{ name, h string }{
			{name: "*Model_Space", h: b.modelSpace},
			{name: "*Paper_Space", h: b.paperSpace},
		} {
			fields = append(fields,
				tag.Field{Code: tag.TypeCode, Value: "BLOCK_RECORD"},
				tag.Field{Code: tag.HandleCode, Value: br.h},
				tag.Field{Code: tag.OwnerCode, Value: tableHandle},
				tag.Field{Code: 100, Value: "AcDbSymbolTableRecord"},
				tag.Field{Code: 100, Value: "AcDbBlockTableRecord"},
				tag.Field{Code: tag.NameCode, Value: br.name},
				tag.Field{Code: 340, Value: "0"},
			)
		}
		return fields
	}
	out = b.appendTable(out, "BLOCK_RECORD", blockRecEntries)

	return out
}

// appendTable emits one symbol table. The entries callback receives the
// table's handle for its owner fields.
func (b *Builder) appendTable(dst []tag.Field, name string, entries func(tableHandle string) []tag.Field) []tag.Field {
	h := b.alloc.Next()
	dst = append(dst,
		tag.Field{Code: tag.TypeCode, Value: "TABLE"},
		tag.Field{Code: tag.NameCode, Value: name},
		tag.Field{Code: tag.HandleCode, Value: h},
		tag.Field{Code: tag.OwnerCode, Value: "0"},
		tag.Field{Code: 100, Value: "AcDbSymbolTable"},
		tag.Field{Code: 70, Value: "0"},
	)
	if entries != nil {
		dst = append(dst, entries(h)...)
	}
	dst = append(dst, tag.Field{Code: tag.TypeCode, Value: "ENDTAB"})
	return dst
}

func (b *Builder) blocksSection() []tag.Field {
	var out []tag.Field
	for _, br := range []struct{ name, owner string }{
		{name: "*Model_Space", owner: b.modelSpace},
		{name: "*Paper_Space", owner: b.paperSpace},
	} {
		out = append(out,
			tag.Field{Code: tag.TypeCode, Value: "BLOCK"},
			tag.Field{Code: tag.HandleCode, Value: b.alloc.Next()},
			tag.Field{Code: tag.OwnerCode, Value: br.owner},
			tag.Field{Code: 100, Value: "AcDbEntity"},
			tag.Field{Code: tag.LayerCode, Value: "0"},
			tag.Field{Code: 100, Value: "AcDbBlockBegin"},
			tag.Field{Code: tag.NameCode, Value: br.name},
			tag.Field{Code: 70, Value: "0"},
			tag.Field{Code: 10, Value: "0.0"},
			tag.Field{Code: 20, Value: "0.0"},
			tag.Field{Code: 30, Value: "0.0"},
			tag.Field{Code: 3, Value: br.name},
			tag.Field{Code: 1, Value: ""},
			tag.Field{Code: tag.TypeCode, Value: "ENDBLK"},
			tag.Field{Code: tag.HandleCode, Value: b.alloc.Next()},
			tag.Field{Code: tag.OwnerCode, Value: br.owner},
			tag.Field{Code: 100, Value: "AcDbEntity"},
			tag.Field{Code: tag.LayerCode, Value: "0"},
			tag.Field{Code: 100, Value: "AcDbBlockEnd"},
		)
	}
	return out
}

// Dictionary synthesizes a dictionary record.
func Dictionary(h, owner string, entries []DictEntry) record.Record {
	fields := []tag.Field{
		{Code: tag.HandleCode, Value: h},
		{Code: tag.OwnerCode, Value: owner},
		{Code: 100, Value: "AcDbDictionary"},
		{Code: 281, Value: "1"},
	}
	for _, e := range entries {
		fields = append(fields,
			tag.Field{Code: tag.EntryCode, Value: e.Name},
			tag.Field{Code: 350, Value: e.Handle},
		)
	}
	return record.Record{Type: "DICTIONARY", Fields: fields}
}

// Scale synthesizes a scale record with the given paper/drawing unit
// factors.
func Scale(h, owner, name string, paper, drawing float64) record.Record {
	return record.Record{Type: "SCALE", Fields: []tag.Field{
		{Code: tag.HandleCode, Value: h},
		{Code: tag.OwnerCode, Value: owner},
		{Code: 100, Value: "AcDbScale"},
		{Code: 70, Value: "0"},
		{Code: 300, Value: name},
		{Code: 140, Value: strconv.FormatFloat(paper, 'f', 1, 64)},
		{Code: 141, Value: strconv.FormatFloat(drawing, 'f', 1, 64)},
		{Code: 290, Value: "0"},
	}}
}
