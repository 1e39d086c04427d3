package handle

import "testing"

func TestNextIncreasingUppercaseHex(t *testing.T) {
	a := New(0x1FE, 0)
	got := []string{a.Next(), a.Next(), a.Next()}
	want := []string{"1FE", "1FF", "200"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewAppliesFloor(t *testing.T) {
	a := New(0x10, 0)
	if got := a.Next(); got != "100" {
		t.Errorf("Next() = %q, want floor 100", got)
	}

	a = New(0x10, 0x2000)
	if got := a.Next(); got != "2000" {
		t.Errorf("Next() = %q, want explicit floor 2000", got)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	a := New(0x300, 0)
	if a.Peek() != 0x300 {
		t.Fatalf("Peek() = %#x, want 0x300", a.Peek())
	}
	if got := a.Next(); got != "300" {
		t.Errorf("Next() after Peek() = %q, want 300", got)
	}
}

func TestNoCollisions(t *testing.T) {
	a := New(0, 0)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		h := a.Next()
		if _, dup := seen[h]; dup {
			t.Fatalf("Next() issued duplicate handle %q", h)
		}
		seen[h] = struct{}{}
	}
}
