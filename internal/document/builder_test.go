package document

import (
	"strings"
	"testing"

	"github.com/cartoworks/dxflabel/internal/handle"
	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

func buildArena(t *testing.T, raw []byte) *record.Arena {
	t.Helper()
	fields, err := tag.Parse(string(raw))
	if err != nil {
		t.Fatalf("tag.Parse() error = %v", err)
	}
	return record.Scan(fields)
}

func TestBytesMinimalDocument(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)
	out := b.Bytes()
	raw := string(out)

	for _, section := range []string{"HEADER", "TABLES", "BLOCKS", "ENTITIES", "OBJECTS"} {
		if !strings.Contains(raw, "  2\n"+section+"\n") {
			t.Errorf("Bytes() missing section %s", section)
		}
	}
	if !strings.HasSuffix(raw, "  0\nEOF\n") {
		t.Error("Bytes() not terminated by EOF marker")
	}

	a := buildArena(t, out)
	if _, ok := a.Section("HEADER"); !ok {
		t.Error("header section unparseable")
	}
}

func TestBytesSynthesizedHeaderCarriesSeed(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)
	raw := string(b.Bytes())
	if !strings.Contains(raw, "$ACADVER") || !strings.Contains(raw, "$HANDSEED") {
		t.Error("synthesized header missing mandatory declarations")
	}
	// The emitted seed must cover every issued handle.
	seedIdx := strings.Index(raw, "$HANDSEED")
	rest := raw[seedIdx:]
	lines := strings.Split(rest, "\n")
	if len(lines) < 3 {
		t.Fatal("malformed handle seed variable")
	}
	seed, ok := record.ParseHandle(lines[2])
	if !ok {
		t.Fatalf("seed %q not a handle", lines[2])
	}
	if seed != alloc.Peek() {
		t.Errorf("seed = %#x, want next unissued handle %#x", seed, alloc.Peek())
	}
}

func TestBytesLiftedHeaderSeedRefreshed(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)
	b.SetHeader([]tag.Field{
		{Code: tag.VariableCode, Value: "$ACADVER"},
		{Code: 1, Value: "AC1032"},
		{Code: tag.VariableCode, Value: "$HANDSEED"},
		{Code: tag.HandleCode, Value: "50"},
	})
	raw := string(b.Bytes())
	if !strings.Contains(raw, "AC1032") {
		t.Error("lifted header variable lost")
	}
	if strings.Contains(raw, "\n50\n") {
		t.Error("stale handle seed survived the lift")
	}
}

func TestBytesDropsCrossDocumentLayers(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)
	b.AddLayer("LABELS-KEEP", 3)
	b.AddLayer("plan|BORROWED", 1)
	b.AddLayer("LABELS-KEEP", 3)

	raw := string(b.Bytes())
	if !strings.Contains(raw, "LABELS-KEEP") {
		t.Error("local layer missing from symbol table")
	}
	if strings.Contains(raw, "BORROWED") {
		t.Error("cross-document layer not dropped")
	}
	if strings.Count(raw, "LABELS-KEEP") != 1 {
		t.Error("duplicate layer emitted")
	}
}

func TestBytesClassesSection(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)
	b.UseClass("MULTILEADER")
	b.UseClass("SCALE")
	b.UseClass("MULTILEADER")

	raw := string(b.Bytes())
	if !strings.Contains(raw, "  2\nCLASSES\n") {
		t.Fatal("classes section missing")
	}
	if strings.Count(raw, "AcDbMLeader\n") != 1 {
		t.Error("MULTILEADER class not declared exactly once")
	}
	if !strings.Contains(raw, "AcDbScale") {
		t.Error("SCALE class not declared")
	}
}

func TestBytesOwnerPrecedesOwned(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)

	dictH := alloc.Next()
	childH := alloc.Next()
	b.AddRootEntry("ACAD_SCALELIST", dictH)
	b.AddObject(Dictionary(dictH, b.NamedObjectsHandle(), []DictEntry{{Name: "A0", Handle: childH}}))
	b.AddObject(Scale(childH, dictH, "1:1", 1.0, 1.0))

	a := buildArena(t, b.Bytes())
	first := make(map[string]int)
	for i := range a.Records {
		if h, ok := a.Records[i].Handle(); ok {
			if _, seen := first[h]; !seen {
				first[h] = i
			}
		}
	}
	for i := range a.Records {
		owner, ok := a.Records[i].Value(tag.OwnerCode)
		if !ok || owner == "0" {
			continue
		}
		ownerIdx, seen := first[owner]
		if !seen {
			continue
		}
		if ownerIdx >= i {
			h, _ := a.Records[i].Handle()
			t.Errorf("record %s appears before its owner %s", h, owner)
		}
	}
}

func TestBytesNoDuplicateHandles(t *testing.T) {
	alloc := handle.New(0x200, 0)
	b := NewBuilder(alloc)
	b.AddLayer("LABELS-KEEP", 3)
	b.UseClass("MULTILEADER")
	dictH := alloc.Next()
	b.AddRootEntry("ACAD_SCALELIST", dictH)
	b.AddObject(Dictionary(dictH, b.NamedObjectsHandle(), nil))

	a := buildArena(t, b.Bytes())
	seen := make(map[string]bool)
	for i := range a.Records {
		h, ok := a.Records[i].Handle()
		if !ok {
			continue
		}
		if seen[h] {
			t.Errorf("duplicate handle %s in output", h)
		}
		seen[h] = true
	}
}
