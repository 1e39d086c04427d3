package dxflabel

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cartoworks/dxflabel/errors"
	"github.com/cartoworks/dxflabel/internal/chain"
	"github.com/cartoworks/dxflabel/internal/document"
	"github.com/cartoworks/dxflabel/internal/handle"
	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/transplant"
)

// Result is one finished document build.
type Result struct {
	// Document is the raw tagged-record output, terminated by the format's
	// end marker.
	Document []byte
	// Placed counts requests that produced a clone.
	Placed int
	// Skips tallies requests excluded from the build, with reasons.
	Skips []Skip
}

// Build processes the full request list and assembles one standalone
// document: one transplanted root entity per non-skipped request, each with
// its cloned dictionary chain when annotative support is active. Requests
// are processed to completion before serialization; a bad request becomes a
// skip entry, never an abort.
func (t *Template) Build(reqs []Request, opts ...BuildOption) (*Result, error) {
	if t == nil || t.arena == nil {
		return nil, errors.New(errors.CodeParse, "template not loaded", "")
	}
	cfg := applyBuildOptions(opts)
	annotative := t.annotative && cfg.annotative

	alloc := handle.New(t.seed, cfg.floor)
	b := document.NewBuilder(alloc)
	b.SetHeader(t.headerVars)
	for _, name := range sortedClassNames(cfg.classes) {
		cls := cfg.classes[name]
		b.AddLayer(cls.Layer, cls.Color)
	}

	// Shared output objects precede the per-request chains in the object
	// section: the style under its directory dictionary, then the scale
	// under the scale list.
	var styleHandle string
	if t.style >= 0 {
		styleDict := alloc.Next()
		styleHandle = alloc.Next()
		b.AddRootEntry("ACAD_MLEADERSTYLE", styleDict)
		b.AddObject(document.Dictionary(styleDict, b.NamedObjectsHandle(), []document.DictEntry{
			{Name: "Standard", Handle: styleHandle},
		}))
		styleClone, miss := transplant.Clone(t.arena.Records[t.style], transplant.Params{
			Handle: styleHandle,
			Owner:  styleDict,
		})
		t.logMissing(miss, "style")
		b.AddObject(styleClone)
		b.UseClass(StyleType)
	}

	var scaleHandle string
	if annotative {
		scaleList := alloc.Next()
		scaleHandle = alloc.Next()
		scaleRec := t.outputScale(scaleHandle, scaleList)
		b.AddRootEntry("ACAD_SCALELIST", scaleList)
		b.AddObject(document.Dictionary(scaleList, b.NamedObjectsHandle(), []document.DictEntry{
			{Name: "A0", Handle: scaleHandle},
		}))
		b.AddObject(scaleRec)
		b.UseClass("SCALE")
	}

	result := &Result{}
	for i := range reqs {
		req := &reqs[i]
		if skip := t.screen(i, req, cfg); skip != nil {
			result.Skips = append(result.Skips, *skip)
			continue
		}
		cls := cfg.classes[req.Class]
		offset := [3]float64{req.X - t.anchor[0], req.Y - t.anchor[1], req.Z - t.anchor[2]}

		rootHandle := alloc.Next()
		refs := map[int]string{}
		if styleHandle != "" {
			refs[styleRefCode] = styleHandle
		}

		if annotative {
			extHandle := alloc.Next()
			mgrHandle := alloc.Next()
			scalesHandle := alloc.Next()
			ctxHandle := alloc.Next()
			refs[360] = extHandle

			c := t.chain
			clones := []struct {
				src record.Record
				p   transplant.Params
			}{
				{src: t.arena.Records[c.ExtDict], p: transplant.Params{
					Handle:       extHandle,
					Owner:        rootHandle,
					DictEntries:  map[string]string{chain.ContextManagerEntry: mgrHandle},
					PruneEntries: true,
				}},
				{src: t.arena.Records[c.Manager], p: transplant.Params{
					Handle:       mgrHandle,
					Owner:        extHandle,
					DictEntries:  map[string]string{chain.AnnotationScalesEntry: scalesHandle},
					PruneEntries: true,
				}},
				{src: t.arena.Records[c.Scales], p: transplant.Params{
					Handle:       scalesHandle,
					Owner:        mgrHandle,
					DictEntries:  map[string]string{c.ContextEntry: ctxHandle},
					PruneEntries: true,
				}},
				{src: t.arena.Records[c.ContextData], p: transplant.Params{
					Handle:  ctxHandle,
					Owner:   scalesHandle,
					Offset:  offset,
					Payload: &req.Text,
					Refs:    map[int]string{chain.ScaleRefCode: scaleHandle},
				}},
			}
			for _, cl := range clones {
				rec, miss := transplant.Clone(cl.src, cl.p)
				t.logMissing(miss, rec.Type)
				b.AddObject(rec)
				b.UseClass(rec.Type)
			}
		}

		color := cls.Color
		rootClone, miss := transplant.Clone(t.arena.Records[t.root], transplant.Params{
			Handle:            rootHandle,
			Owner:             b.ModelSpaceHandle(),
			Offset:            offset,
			Payload:           &req.Text,
			Layer:             cls.Layer,
			Color:             &color,
			Refs:              refs,
			DropExtensionDict: !annotative,
		})
		t.logMissing(miss, RootType)
		b.AddEntity(rootClone)
		b.UseClass(RootType)
		result.Placed++
	}

	if len(result.Skips) > 0 {
		t.logger.Info("requests skipped", "count", len(result.Skips), "placed", result.Placed)
	}
	result.Document = b.Bytes()
	return result, nil
}

// screen decides whether a request participates in the build. A screened-out
// request never consumes a handle.
func (t *Template) screen(idx int, req *Request, cfg buildOptions) *Skip {
	if req.Class == cfg.skipClass {
		return &Skip{Index: idx, Reason: string(errors.CodeSkipRequested)}
	}
	if req.Text == "" {
		return &Skip{Index: idx, Reason: string(errors.CodeMissingPlacementField), Detail: "empty label text"}
	}
	if math.IsNaN(req.X) || math.IsNaN(req.Y) || math.IsNaN(req.Z) {
		return &Skip{Index: idx, Reason: string(errors.CodeMissingPlacementField), Detail: "position not a number"}
	}
	if _, ok := cfg.classes[req.Class]; !ok {
		return &Skip{Index: idx, Reason: string(errors.CodeUnknownClass), Detail: req.Class}
	}
	return nil
}

// outputScale clones the template's scale record, or synthesizes a unit
// scale when the optional scale hop was absent. Template scales are
// deduplicated by numeric factor, so one record serves every chain.
func (t *Template) outputScale(h, owner string) record.Record {
	if t.chain.Scale < 0 {
		return document.Scale(h, owner, "1:1", 1.0, 1.0)
	}
	rec, miss := transplant.Clone(t.arena.Records[t.chain.Scale], transplant.Params{
		Handle: h,
		Owner:  owner,
	})
	t.logMissing(miss, "SCALE")
	return rec
}

// ScaleFactor returns a dedup key for a scale record: the ratio of paper to
// drawing units.
func ScaleFactor(rec *record.Record) (float64, bool) {
	paper, ok1 := rec.Value(140)
	drawing, ok2 := rec.Value(141)
	if !ok1 || !ok2 {
		return 0, false
	}
	p, err1 := strconv.ParseFloat(strings.TrimSpace(paper), 64)
	d, err2 := strconv.ParseFloat(strings.TrimSpace(drawing), 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, false
	}
	return p / d, true
}

func (t *Template) logMissing(miss []transplant.Missing, context string) {
	for _, m := range miss {
		t.logger.Warn("expected field absent during clone, template value kept",
			"record", context,
			"code", m.Code,
			"role", m.Role,
			"reason", string(errors.CodeTransplantFieldMissing))
	}
}

func sortedClassNames(classes map[string]LayerClass) []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
