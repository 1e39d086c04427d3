package dxflabel

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dxferrors "github.com/cartoworks/dxflabel/errors"
	"github.com/cartoworks/dxflabel/internal/record"
	"github.com/cartoworks/dxflabel/internal/tag"
)

// templateDoc is a minimal but complete annotative template: one root
// entity with its extension-dictionary chain, scale, and style.
const templateDoc = "  0\nSECTION\n  2\nHEADER\n" +
	"  9\n$ACADVER\n  1\nAC1027\n  9\n$HANDSEED\n  5\n1F4\n" +
	"  0\nENDSEC\n" +
	"  0\nSECTION\n  2\nENTITIES\n" +
	"  0\nMULTILEADER\n  5\nA1\n" +
	"102\n{ACAD_XDICTIONARY\n360\nB1\n102\n}\n" +
	"102\n{ACAD_REACTORS\n330\nC9\n102\n}\n" +
	"330\n1F\n100\nAcDbEntity\n  8\nTEMPLATES\n" +
	" 92\n16\n310\nDEADBEEF\n" +
	"100\nAcDbMLeader\n340\nD1\n" +
	"300\nCONTEXT_DATA{\n 40\n1.0\n" +
	" 10\n100.0\n 20\n200.0\n 30\n0.0\n" +
	" 11\n1.0\n 21\n0.0\n 31\n0.0\n" +
	"302\nLEADER{\n304\nLEADER_LINE{\n" +
	" 12\n95.0\n 22\n195.0\n 32\n0.0\n" +
	"305\n}\n303\n}\n" +
	"304\nSample Text\n301\n}\n" +
	"  0\nENDSEC\n" +
	"  0\nSECTION\n  2\nOBJECTS\n" +
	"  0\nDICTIONARY\n  5\nB1\n330\nA1\n100\nAcDbDictionary\n" +
	"  3\nAcDbContextDataManager\n360\nB2\n  3\nStaleEntry\n360\nEE\n" +
	"  0\nDICTIONARY\n  5\nB2\n330\nB1\n100\nAcDbDictionary\n" +
	"  3\nACDB_ANNOTATIONSCALES\n360\nB3\n" +
	"  0\nDICTIONARY\n  5\nB3\n330\nB2\n100\nAcDbDictionary\n" +
	"  3\n*A1\n360\nB4\n" +
	"  0\nACDB_MLEADEROBJECTCONTEXTDATA_CLASS\n  5\nB4\n" +
	"102\n{ACAD_REACTORS\n330\nB3\n102\n}\n" +
	"330\nB3\n300\nCONTEXT_DATA{\n 40\n1.0\n" +
	" 10\n100.0\n 20\n200.0\n 30\n0.0\n" +
	"304\nSample Text\n301\n}\n340\nB5\n" +
	"  0\nSCALE\n  5\nB5\n330\nCC\n100\nAcDbScale\n 70\n0\n" +
	"300\n1:1\n140\n1.0\n141\n1.0\n290\n0\n" +
	"  0\nMLEADERSTYLE\n  5\nD1\n330\nCD\n100\nAcDbMLeaderStyle\n" +
	"170\n2\n 40\n1.0\n" +
	"  0\nENDSEC\n  0\nEOF\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestTemplate(t *testing.T, opts ...TemplateOption) *Template {
	t.Helper()
	opts = append([]TemplateOption{WithLogger(quietLogger())}, opts...)
	tpl, err := ReadTemplate(strings.NewReader(templateDoc), "template.dxf", opts...)
	require.NoError(t, err)
	return tpl
}

func parseOutput(t *testing.T, doc []byte) *record.Arena {
	t.Helper()
	fields, err := tag.Parse(string(doc))
	require.NoError(t, err)
	return record.Scan(fields)
}

func TestReadTemplate(t *testing.T) {
	tpl := loadTestTemplate(t, WithTargetLayer("TEMPLATES"))
	assert.True(t, tpl.Annotative())
	assert.False(t, tpl.FallbackUsed())
	assert.Equal(t, [3]float64{100.0, 200.0, 0.0}, tpl.anchor)
}

func TestReadTemplateLayerFallbackObservable(t *testing.T) {
	tpl := loadTestTemplate(t, WithTargetLayer("NO_SUCH_LAYER"))
	assert.True(t, tpl.FallbackUsed())
	assert.True(t, tpl.Annotative())
}

func TestReadTemplateNotFound(t *testing.T) {
	doc := strings.ReplaceAll(templateDoc, "MULTILEADER", "MTEXT")
	_, err := ReadTemplate(strings.NewReader(doc), "template.dxf", WithLogger(quietLogger()))
	require.Error(t, err)
	assert.True(t, dxferrors.Is(err, dxferrors.CodeTemplateNotFound))
}

func TestReadTemplateBrokenChainDegradesWholeRun(t *testing.T) {
	doc := strings.Replace(templateDoc, "ACDB_ANNOTATIONSCALES", "WRONG_ENTRY", 1)
	tpl, err := ReadTemplate(strings.NewReader(doc), "template.dxf", WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, tpl.Annotative(), "chain discovery must be all-or-nothing")

	res, err := tpl.Build([]Request{{X: 110, Y: 205, Text: "Label", Class: "keep"}})
	require.NoError(t, err)
	raw := string(res.Document)
	assert.NotContains(t, raw, "ACAD_XDICTIONARY")
	assert.NotContains(t, raw, "ACDB_MLEADEROBJECTCONTEXTDATA_CLASS")
}

func TestParseRequests(t *testing.T) {
	reqs, skips, err := ParseRequests(strings.NewReader(`[
		{"x": 110.0, "y": 205.0, "z": 0.0, "text": "First", "class": "keep"},
		{"x": 120.0, "y": 210.0, "text": "Second", "class": "remove"},
		{"y": 5.0, "text": "No X", "class": "keep"},
		{"x": 1.0, "y": 2.0, "class": "keep"},
		{"x": 3.0, "y": 4.0, "text": "Skipped", "class": "skip"}
	]`))
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, Request{X: 110, Y: 205, Text: "First", Class: "keep"}, reqs[0])
	assert.Equal(t, 0.0, reqs[1].Z, "absent z defaults to zero")

	require.Len(t, skips, 2)
	assert.Equal(t, 2, skips[0].Index)
	assert.Equal(t, string(dxferrors.CodeMissingPlacementField), skips[0].Reason)
	assert.Equal(t, 3, skips[1].Index)
}

func TestParseRequestsBadJSON(t *testing.T) {
	_, _, err := ParseRequests(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.True(t, dxferrors.Is(err, dxferrors.CodeParse))
}
