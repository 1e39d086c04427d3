package tag

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse tokenizes raw exchange-format text into an ordered field list.
// Fields are line pairs: a group code line followed by a value line. Code
// lines tolerate the right-aligned padding emitted by CAD applications;
// value lines are kept verbatim apart from the trailing line ending.
func Parse(data string) ([]Field, error) {
	lines := splitLines(data)
	// Trailing blank line after the final value is common and harmless.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("parse fields: odd line count %d, truncated code/value pair", len(lines))
	}

	fields := make([]Field, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		code, err := strconv.Atoi(strings.TrimSpace(lines[i]))
		if err != nil {
			return nil, fmt.Errorf("parse fields: line %d: bad group code %q", i+1, lines[i])
		}
		fields = append(fields, Field{Code: code, Value: lines[i+1]})
	}
	return fields, nil
}

// Append serializes one field onto dst in canonical form: the group code
// right-aligned to three columns, then the value, each on its own line.
func Append(dst []byte, f Field) []byte {
	dst = append(dst, fmt.Sprintf("%3d", f.Code)...)
	dst = append(dst, '\n')
	dst = append(dst, f.Value...)
	dst = append(dst, '\n')
	return dst
}

// Marshal serializes a field list in canonical form.
func Marshal(fields []Field) []byte {
	var dst []byte
	for _, f := range fields {
		dst = Append(dst, f)
	}
	return dst
}

func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	data = strings.TrimSuffix(data, "\n")
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
