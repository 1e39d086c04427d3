package dxflabel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cartoworks/dxflabel/errors"
)

// Request is one label placement: a target position, the label text, and a
// classification selecting a presentation class or the skip value.
type Request struct {
	X, Y, Z float64
	Text    string
	Class   string
}

// Skip records one request excluded from a build. Index refers to the
// request's position in the original list.
type Skip struct {
	Index  int
	Reason string
	Detail string
}

type requestJSON struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Text  *string  `json:"text"`
	Class string   `json:"class"`
}

// ParseRequests decodes a JSON decision list. Requests missing a position
// or text become skip entries rather than aborting the batch; the returned
// requests keep only the well-formed entries, and skip indices refer to
// positions in the JSON array.
func ParseRequests(r io.Reader) ([]Request, []Skip, error) {
	var raw []requestJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, errors.Newf(errors.CodeParse, "", "decode request list: %v", err)
	}

	var reqs []Request
	var skips []Skip
	for i, entry := range raw {
		switch {
		case entry.X == nil || entry.Y == nil:
			skips = append(skips, Skip{
				Index:  i,
				Reason: string(errors.CodeMissingPlacementField),
				Detail: "position incomplete",
			})
			continue
		case entry.Text == nil || *entry.Text == "":
			skips = append(skips, Skip{
				Index:  i,
				Reason: string(errors.CodeMissingPlacementField),
				Detail: "no label text",
			})
			continue
		}
		req := Request{X: *entry.X, Y: *entry.Y, Text: *entry.Text, Class: entry.Class}
		if entry.Z != nil {
			req.Z = *entry.Z
		}
		reqs = append(reqs, req)
	}
	return reqs, skips, nil
}

// ParseRequestsFile decodes a JSON decision list from a file path.
func ParseRequestsFile(path string) ([]Request, []Skip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open request list %s: %w", path, err)
	}
	defer f.Close()
	return ParseRequests(f)
}
