// Package chain resolves the fixed extension-dictionary chain that wires an
// annotation entity to its per-scale context data. Each hop is one
// deterministic field lookup; the object family's schema is fixed, so no
// generic graph traversal is needed.
package chain

import (
	"github.com/cartoworks/dxflabel/errors"
	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

// Dictionary entry names along the chain.
const (
	ContextManagerEntry   = "AcDbContextDataManager"
	AnnotationScalesEntry = "ACDB_ANNOTATIONSCALES"
)

// ScaleRefCode points a context-data record at its SCALE object.
const ScaleRefCode = 340

// Chain holds arena indices for the resolved subgraph. Scale is -1 when the
// context-data record carries no scale reference; every other hop is
// mandatory and resolution is all-or-nothing.
type Chain struct {
	Root        int
	ExtDict     int
	Manager     int
	Scales      int
	ContextData int
	Scale       int

	// ContextEntry is the scales-dictionary entry name that points at the
	// context-data record, kept so clones can reproduce the entry.
	ContextEntry string
}

// Resolve walks the chain from the root record:
// extension dictionary → context-manager dictionary → annotation-scales
// dictionary → context-data record → referenced scale object. A missing
// link at any hop invalidates the whole chain; callers then degrade to
// non-annotative output for the entire run.
func Resolve(a *record.Arena, root int) (Chain, error) {
	c := Chain{Root: root, Scale: -1}
	rootRec := &a.Records[root]

	extHandle, ok := extensionDictHandle(rootRec)
	if !ok {
		return Chain{}, incomplete("root has no extension-dictionary reference")
	}
	c.ExtDict, ok = a.ByHandle(extHandle)
	if !ok {
		return Chain{}, incomplete("extension dictionary " + extHandle + " not in document")
	}

	mgrHandle, ok := a.Records[c.ExtDict].EntryHandle(ContextManagerEntry)
	if !ok {
		return Chain{}, incomplete("extension dictionary has no " + ContextManagerEntry + " entry")
	}
	c.Manager, ok = a.ByHandle(mgrHandle)
	if !ok {
		return Chain{}, incomplete("context-manager dictionary " + mgrHandle + " not in document")
	}

	scalesHandle, ok := a.Records[c.Manager].EntryHandle(AnnotationScalesEntry)
	if !ok {
		return Chain{}, incomplete("context-manager dictionary has no " + AnnotationScalesEntry + " entry")
	}
	c.Scales, ok = a.ByHandle(scalesHandle)
	if !ok {
		return Chain{}, incomplete("annotation-scales dictionary " + scalesHandle + " not in document")
	}

	entryName, ctxHandle, ok := a.Records[c.Scales].FirstEntry()
	if !ok {
		return Chain{}, incomplete("annotation-scales dictionary has no entries")
	}
	c.ContextEntry = entryName
	c.ContextData, ok = a.ByHandle(ctxHandle)
	if !ok {
		return Chain{}, incomplete("context-data record " + ctxHandle + " not in document")
	}

	// The scale hop is optional: a context-data record without a scale
	// reference still supports annotative output against a default scale.
	if scaleHandle, ok := a.Records[c.ContextData].Value(ScaleRefCode); ok {
		if idx, ok := a.ByHandle(scaleHandle); ok {
			c.Scale = idx
		}
	}

	return c, nil
}

func incomplete(detail string) error {
	return errors.New(errors.CodeChainIncomplete, "extension-dictionary chain incomplete", detail)
}

// extensionDictHandle finds the handle stored in the root record's
// extension-dictionary control block.
func extensionDictHandle(r *record.Record) (string, bool) {
	inBlock := false
	for _, f := range r.Fields {
		switch {
		case f.Code == tag.ControlCode && f.Value == tag.ExtensionBlock:
			inBlock = true
		case f.Code == tag.ControlCode && f.Value == tag.ControlBlockClose:
			inBlock = false
		case inBlock && tag.IsHandleCode(f.Code):
			return f.Value, true
		}
	}
	return "", false
}
