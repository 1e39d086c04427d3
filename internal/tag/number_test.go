package tag

import "testing"

func TestOffsetNumeric(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		delta float64
		want  string
	}{
		{name: "one decimal", src: "100.0", delta: 10.0, want: "110.0"},
		{name: "two decimals kept", src: "200.50", delta: 5.0, want: "205.50"},
		{name: "long precision kept", src: "1.0000000000", delta: 0.5, want: "1.5000000000"},
		{name: "integer stays integer", src: "100", delta: 10, want: "110"},
		{name: "negative result", src: "3.25", delta: -10.0, want: "-6.75"},
		{name: "zero delta identity", src: "205.75", delta: 0, want: "205.75"},
		{name: "zero delta integer identity", src: "42", delta: 0, want: "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OffsetNumeric(tt.src, tt.delta)
			if err != nil {
				t.Fatalf("OffsetNumeric(%q, %v) error = %v", tt.src, tt.delta, err)
			}
			if got != tt.want {
				t.Errorf("OffsetNumeric(%q, %v) = %q, want %q", tt.src, tt.delta, got, tt.want)
			}
		})
	}
}

func TestOffsetNumericBadToken(t *testing.T) {
	if _, err := OffsetNumeric("not-a-number", 1); err == nil {
		t.Fatal("OffsetNumeric() error = nil, want parse error")
	}
}

func TestOffsetNumericExponentForm(t *testing.T) {
	got, err := OffsetNumeric("1E+2", 0)
	if err != nil {
		t.Fatalf("OffsetNumeric() error = %v", err)
	}
	if got != "1E+02" {
		t.Errorf("OffsetNumeric(1E+2, 0) = %q, want exponent form kept", got)
	}
}
