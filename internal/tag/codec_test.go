package tag

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	fields, err := Parse("  0\nMULTILEADER\n  5\nA1\n  8\nNOTES\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []Field{
		{Code: 0, Value: "MULTILEADER"},
		{Code: 5, Value: "A1"},
		{Code: 8, Value: "NOTES"},
	}
	if len(fields) != len(want) {
		t.Fatalf("Parse() len = %d, want %d", len(fields), len(want))
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("Parse()[%d] = %+v, want %+v", i, fields[i], want[i])
		}
	}
}

func TestParseCRLF(t *testing.T) {
	fields, err := Parse("  0\r\nSECTION\r\n  2\r\nENTITIES\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(fields) != 2 || fields[1].Value != "ENTITIES" {
		t.Fatalf("Parse() = %+v, want CRLF values stripped", fields)
	}
}

func TestParseTruncatedPair(t *testing.T) {
	_, err := Parse("  0\nSECTION\n  2\n")
	if err == nil {
		t.Fatal("Parse() error = nil, want truncated pair error")
	}
}

func TestParseBadCode(t *testing.T) {
	_, err := Parse("zero\nSECTION\n")
	if err == nil {
		t.Fatal("Parse() error = nil, want bad group code error")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	in := []Field{
		{Code: 0, Value: "DICTIONARY"},
		{Code: 5, Value: "B1"},
		{Code: 304, Value: "Sample Text"},
	}
	raw := string(Marshal(in))
	out, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("round trip [%d] = %+v, want %+v", i, out[i], in[i])
		}
	}
	if !strings.Contains(raw, "  0\n") || !strings.Contains(raw, "  5\n") {
		t.Errorf("Marshal() = %q, want right-aligned group codes", raw)
	}
}
