package tag

import (
	"fmt"
	"strconv"
	"strings"
)

// OffsetNumeric shifts a numeric token by delta while preserving the source
// token's emitted precision: the result carries the same digit count after
// the decimal point, or integer formatting when the source had none.
// Exponent-form tokens are reformatted in exponent form.
func OffsetNumeric(src string, delta float64) (string, error) {
	token := strings.TrimSpace(src)
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return "", fmt.Errorf("offset numeric %q: %w", src, err)
	}

	if strings.ContainsAny(token, "eE") {
		return strconv.FormatFloat(v+delta, 'E', -1, 64), nil
	}

	prec := 0
	if dot := strings.IndexByte(token, '.'); dot >= 0 {
		prec = len(token) - dot - 1
	}
	return strconv.FormatFloat(v+delta, 'f', prec, 64), nil
}
