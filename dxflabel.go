// Package dxflabel transplants annotation entities into freshly assembled
// exchange-format documents: a template entity and its extension-dictionary
// chain are cloned with new handles, translated to requested positions, and
// given substituted label text.
package dxflabel

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cartoworks/dxflabel/errors"
	"github.com/cartoworks/dxflabel/internal/chain"
	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

// Record types handled by the transplant engine.
const (
	// RootType is the annotation entity family the engine clones.
	RootType = "MULTILEADER"
	// StyleType is the style record referenced by root entities.
	StyleType = "MLEADERSTYLE"
)

// styleRefCode points a root entity at its style record.
const styleRefCode = 340

// Template wraps a parsed source document with its located root entity and
// resolved dictionary chain. A Template is immutable after load; each Build
// creates its own allocator and output, so one Template serves many builds.
type Template struct {
	arena      *record.Arena
	root       int
	style      int
	chain      chain.Chain
	annotative bool
	fallback   bool
	anchor     [3]float64
	headerVars []tag.Field
	seed       uint64
	logger     *slog.Logger
}

// LoadTemplate parses a template document from the given filesystem and
// location.
func LoadTemplate(fsys fs.FS, location string, opts ...TemplateOption) (*Template, error) {
	f, err := fsys.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", location, err)
	}
	defer f.Close()
	return loadTemplate(f, location, applyTemplateOptions(opts))
}

// LoadTemplateFile parses a template document from a file path.
func LoadTemplateFile(path string, opts ...TemplateOption) (*Template, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	return LoadTemplate(os.DirFS(dir), base, opts...)
}

// ReadTemplate parses a template document from a reader. The name is used
// in error and log context only.
func ReadTemplate(r io.Reader, name string, opts ...TemplateOption) (*Template, error) {
	return loadTemplate(r, name, applyTemplateOptions(opts))
}

func loadTemplate(r io.Reader, name string, cfg templateOptions) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	fields, err := tag.Parse(string(data))
	if err != nil {
		return nil, errors.Newf(errors.CodeParse, name, "template not a tagged-record stream: %v", err)
	}
	arena := record.Scan(fields)

	located, err := record.Locate(arena, RootType, cfg.targetLayer)
	if err != nil {
		return nil, fmt.Errorf("locate root entity in %s: %w", name, err)
	}

	t := &Template{
		arena:    arena,
		root:     located.Index,
		style:    -1,
		fallback: located.Fallback,
		seed:     arena.MaxHandle() + 1,
		logger:   cfg.logger,
	}
	rootRec := &arena.Records[t.root]
	rootHandle, _ := rootRec.Handle()

	if located.Fallback {
		// The preferred-layer filter missed. Preserved source behavior,
		// surfaced so a misconfigured template layer is visible.
		t.logger.Warn("template layer filter matched nothing, using first entity of type",
			"layer", cfg.targetLayer, "type", RootType, "handle", rootHandle)
	}

	c, err := chain.Resolve(arena, t.root)
	if err != nil {
		// Never partially wire annotative-scale support: the whole run
		// degrades to non-annotative output.
		t.logger.Warn("annotative support disabled for this template", "reason", err)
		t.annotative = false
	} else {
		t.chain = c
		t.annotative = true
	}

	if styleHandle, ok := rootRec.Value(styleRefCode); ok {
		if idx, ok := arena.ByHandle(styleHandle); ok && arena.Records[idx].Type == StyleType {
			t.style = idx
		}
	}
	if t.style < 0 {
		t.logger.Warn("template root has no resolvable style record", "handle", rootHandle)
	}

	t.anchor = rootAnchor(rootRec)
	t.headerVars = headerVars(arena)
	return t, nil
}

// Annotative reports whether the template supports annotative-scale output.
func (t *Template) Annotative() bool { return t.annotative }

// FallbackUsed reports whether the layer filter missed and the first entity
// of the root type was used instead.
func (t *Template) FallbackUsed() bool { return t.fallback }

// rootAnchor reads the root entity's primary position, the point request
// coordinates are expressed against.
func rootAnchor(r *record.Record) [3]float64 {
	var anchor [3]float64
	for axis, code := range []int{10, 20, 30} {
		if v, ok := r.Value(code); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				anchor[axis] = f
			}
		}
	}
	return anchor
}

// headerVars lifts the template's header variables, dropping the section
// name field.
func headerVars(a *record.Arena) []tag.Field {
	sec, ok := a.Section("HEADER")
	if !ok {
		return nil
	}
	var out []tag.Field
	for _, f := range sec.Fields {
		if f.Code == tag.NameCode && len(out) == 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}
