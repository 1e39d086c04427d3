package record

import (
	"github.com/cartoworks/dxflabel/errors"
)

// Located identifies a record found by the locator. Fallback reports that
// the attribute filter matched nothing and the first record of the type was
// used instead; callers surface this as an observable event.
type Located struct {
	Index    int
	Fallback bool
}

// Locate finds the first record of the given type, preferring one whose
// layer attribute equals layer when layer is non-empty. A filter miss falls
// back to the first record of the type. No record of the type at all is a
// typed absence.
func Locate(a *Arena, typ, layer string) (Located, error) {
	candidates := a.OfType(typ)
	if len(candidates) == 0 {
		return Located{}, errors.New(errors.CodeTemplateNotFound, "no record of required type in template", typ)
	}
	if layer == "" {
		return Located{Index: candidates[0]}, nil
	}
	for _, idx := range candidates {
		if l, ok := a.Records[idx].Layer(); ok && l == layer {
			return Located{Index: idx}, nil
		}
	}
	return Located{Index: candidates[0], Fallback: true}, nil
}
