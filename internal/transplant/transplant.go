// Package transplant clones records for splicing into a new document:
// identity and owner fields are renumbered, outbound references repointed,
// stale back-references pruned, coordinates translated, and text payloads
// substituted. A clone never keeps a reference to a pre-clone handle.
package transplant

import (
	"strconv"

	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

// Params drives one clone. Zero-valued members leave the corresponding
// fields untouched.
type Params struct {
	// Handle replaces the record's identity field. Required.
	Handle string
	// Owner replaces the first owner field outside control blocks.
	Owner string
	// Offset translates every position-coded field by axis.
	Offset [3]float64
	// Payload, when non-nil, replaces the one payload field that is not a
	// structural marker.
	Payload *string
	// Layer replaces the layer attribute when non-empty.
	Layer string
	// Color replaces the color attribute when non-nil. A record without a
	// color field gets one inserted after its layer field.
	Color *int
	// Refs rewrites the first occurrence of each reference code to the
	// supplied replacement handle.
	Refs map[int]string
	// DictEntries rewrites the handle of each named dictionary entry.
	DictEntries map[string]string
	// PruneEntries drops dictionary entries not listed in DictEntries.
	// Unlisted entries reference objects that stay behind in the source
	// document, so a spliced clone must not carry them.
	PruneEntries bool
	// DropExtensionDict removes the extension-dictionary control block
	// instead of repointing it. Used when annotative support is disabled.
	DropExtensionDict bool
}

// Missing reports an expected field that was absent during cloning. The
// clone keeps the template value for that concern; missing fields are
// non-fatal and surfaced for logging.
type Missing struct {
	Code int
	Role string
}

// Clone copies src and rewrites it according to p. The source record is
// never modified. Reactor back-reference blocks are always stripped: the
// observer handles they list are meaningless once the record is detached
// from its original document. Cached-graphics blocks are reset to an empty
// marker because renumbering and translation invalidate the cache.
func Clone(src record.Record, p Params) (record.Record, []Missing) {
	fields := src.Fields
	out := make([]tag.Field, 0, len(fields))
	var missing []Missing

	var (
		identityDone bool
		ownerDone    bool
		layerDone    bool
		colorDone    bool
		payloadDone  bool
		cachedDone   bool
		inExtension  bool
		layerOutIdx  = -1
		entryRewrite string
		entryPending bool
		entryDrop    bool
	)
	refsDone := make(map[int]bool, len(p.Refs))
	entriesSeen := make(map[string]bool, len(p.DictEntries))

	for i := 0; i < len(fields); i++ {
		f := fields[i]

		if f.Code == tag.ControlCode {
			switch f.Value {
			case tag.ReactorsBlock:
				i = skipBlock(fields, i)
				continue
			case tag.ExtensionBlock:
				if p.DropExtensionDict {
					i = skipBlock(fields, i)
					continue
				}
				inExtension = true
			case tag.ControlBlockClose:
				inExtension = false
			}
			out = append(out, f)
			continue
		}

		// Dictionary entry bookkeeping: an entry is a name field followed
		// by one handle field.
		if f.Code == tag.EntryCode && p.DictEntries != nil {
			if newHandle, ok := p.DictEntries[f.Value]; ok {
				entriesSeen[f.Value] = true
				entryRewrite, entryPending = newHandle, true
				out = append(out, f)
			} else if p.PruneEntries {
				entryDrop = true
			} else {
				out = append(out, f)
			}
			continue
		}
		if tag.IsHandleCode(f.Code) && entryPending {
			out = append(out, tag.Field{Code: f.Code, Value: entryRewrite})
			entryPending = false
			continue
		}
		if tag.IsHandleCode(f.Code) && entryDrop {
			entryDrop = false
			continue
		}

		switch {
		case !identityDone && !inExtension &&
			(f.Code == tag.HandleCode || f.Code == tag.ExtendedHandleCode):
			out = append(out, tag.Field{Code: f.Code, Value: p.Handle})
			identityDone = true

		case p.Refs[f.Code] != "" && !refsDone[f.Code]:
			out = append(out, tag.Field{Code: f.Code, Value: p.Refs[f.Code]})
			refsDone[f.Code] = true

		case f.Code == tag.OwnerCode && !ownerDone:
			v := f.Value
			if p.Owner != "" {
				v = p.Owner
			}
			out = append(out, tag.Field{Code: f.Code, Value: v})
			ownerDone = true

		case f.Code == tag.LayerCode && !layerDone:
			v := f.Value
			if p.Layer != "" {
				v = p.Layer
			}
			out = append(out, tag.Field{Code: f.Code, Value: v})
			layerDone = true
			layerOutIdx = len(out) - 1

		case f.Code == tag.ColorCode && !colorDone:
			v := f.Value
			if p.Color != nil {
				v = strconv.Itoa(*p.Color)
			}
			out = append(out, tag.Field{Code: f.Code, Value: v})
			colorDone = true

		case f.Code == tag.CachedGraphicsCode && !cachedDone:
			out = append(out, tag.Field{Code: f.Code, Value: "0"})
			cachedDone = true
			for i+1 < len(fields) && fields[i+1].Code == tag.CachedChunkCode {
				i++
			}

		case p.Payload != nil && !payloadDone &&
			f.Code == tag.PayloadCode && !tag.IsStructuralMarker(f.Value):
			out = append(out, tag.Field{Code: f.Code, Value: *p.Payload})
			payloadDone = true

		case tag.IsPositionCode(f.Code):
			delta := p.Offset[tag.Axis(f.Code)]
			if delta == 0 {
				out = append(out, f)
				break
			}
			shifted, err := tag.OffsetNumeric(f.Value, delta)
			if err != nil {
				missing = append(missing, Missing{Code: f.Code, Role: "coordinate"})
				out = append(out, f)
				break
			}
			out = append(out, tag.Field{Code: f.Code, Value: shifted})

		default:
			out = append(out, f)
		}
	}

	if !identityDone {
		missing = append(missing, Missing{Code: tag.HandleCode, Role: "identity"})
	}
	if p.Owner != "" && !ownerDone {
		missing = append(missing, Missing{Code: tag.OwnerCode, Role: "owner"})
	}
	if p.Layer != "" && !layerDone {
		missing = append(missing, Missing{Code: tag.LayerCode, Role: "layer"})
	}
	if p.Payload != nil && !payloadDone {
		missing = append(missing, Missing{Code: tag.PayloadCode, Role: "payload"})
	}
	for code := range p.Refs {
		if !refsDone[code] {
			missing = append(missing, Missing{Code: code, Role: "reference"})
		}
	}
	for name := range p.DictEntries {
		if !entriesSeen[name] {
			missing = append(missing, Missing{Code: tag.EntryCode, Role: "entry " + name})
		}
	}

	if p.Color != nil && !colorDone && layerOutIdx >= 0 {
		c := tag.Field{Code: tag.ColorCode, Value: strconv.Itoa(*p.Color)}
		out = append(out[:layerOutIdx+1], append([]tag.Field{c}, out[layerOutIdx+1:]...)...)
	}

	return record.Record{Type: src.Type, Fields: out}, missing
}

// skipBlock returns the index of the field closing the control block opened
// at fields[open]. An unterminated block is skipped to the end of the
// record.
func skipBlock(fields []tag.Field, open int) int {
	for j := open + 1; j < len(fields); j++ {
		if fields[j].Code == tag.ControlCode && fields[j].Value == tag.ControlBlockClose {
			return j
		}
	}
	return len(fields) - 1
}
