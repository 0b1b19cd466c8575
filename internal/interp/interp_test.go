/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package interp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/interp"
	"github.com/unidoc/pdflayout/internal/resources"
)

type fakeDoc struct {
	streams map[string][]byte
}

func (d *fakeDoc) PageCount() int                         { return 1 }
func (d *fakeDoc) GetPage(i int) (backend.PageRef, error) { return 0, nil }
func (d *fakeDoc) PageGeometry(p backend.PageRef) (backend.Rectangle, backend.Rectangle, backend.Rectangle, backend.Rectangle, backend.Rectangle, int, error) {
	return backend.Rectangle{}, backend.Rectangle{}, backend.Rectangle{}, backend.Rectangle{}, backend.Rectangle{}, 0, nil
}
func (d *fakeDoc) PageResources(p backend.PageRef) (backend.Value, error) { return backend.Value{}, nil }
func (d *fakeDoc) ContentStream(p backend.PageRef) ([]byte, error)       { return nil, nil }
func (d *fakeDoc) StreamData(v backend.Value) ([]byte, backend.Filter, error) {
	key := string(v.Str)
	return d.streams[key], "", nil
}
func (d *fakeDoc) Metadata() (backend.Metadata, error)                         { return backend.Metadata{}, nil }
func (d *fakeDoc) Bookmarks() ([]backend.Bookmark, error)                      { return nil, nil }
func (d *fakeDoc) FormFields() ([]backend.FormField, error)                    { return nil, nil }
func (d *fakeDoc) StructTree() ([]backend.StructElement, error)                { return nil, nil }
func (d *fakeDoc) Annotations(p backend.PageRef) ([]backend.Annotation, error) { return nil, nil }
func (d *fakeDoc) Signatures() []backend.SignatureInfo                        { return nil }

type recordingHandler struct {
	chars    []interp.CharEvent
	paths    []interp.PathEvent
	images   []interp.ImageEvent
	warnings []interp.Warning
}

func (h *recordingHandler) Char(ev interp.CharEvent)   { h.chars = append(h.chars, ev) }
func (h *recordingHandler) Path(ev interp.PathEvent)   { h.paths = append(h.paths, ev) }
func (h *recordingHandler) Image(ev interp.ImageEvent) { h.images = append(h.images, ev) }
func (h *recordingHandler) Warn(w interp.Warning)      { h.warnings = append(h.warnings, w) }

func helveticaFontDict() backend.Value {
	return backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{
		"Subtype":   {Kind: backend.ValName, Name: "Type1"},
		"BaseFont":  {Kind: backend.ValName, Name: "Helvetica"},
		"FirstChar": {Kind: backend.ValInt, Int: 32},
		"Widths": {Kind: backend.ValArray, Array: []backend.Value{
			{Kind: backend.ValInt, Int: 278}, // space (32)
			{Kind: backend.ValInt, Int: 333}, // ! (33)
		}},
	}}
}

func pageResourcesWithFont() *resources.Chain {
	return resources.New(backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{
		"Font": {Kind: backend.ValDict, Dict: map[string]backend.Value{
			"F1": helveticaFontDict(),
		}},
	}})
}

func TestSimpleTextShowingEmitsCharEvents(t *testing.T) {
	doc := &fakeDoc{}
	res := pageResourcesWithFont()
	h := &recordingHandler{}

	content := []byte("BT /F1 12 Tf 100 700 Td (A!) Tj ET")
	err := interp.Run(doc, res, content, h, interp.Config{})
	require.NoError(t, err)
	require.Len(t, h.chars, 2)
	require.Equal(t, uint32('A'), h.chars[0].Code)
	require.Equal(t, "Helvetica", h.chars[0].FontName)
	require.Equal(t, 12.0, h.chars[0].FontSize)
	require.NotEqual(t, h.chars[0].Tm, h.chars[1].Tm) // second char advanced
}

func TestCmComposesCTM(t *testing.T) {
	doc := &fakeDoc{}
	res := resources.New(backend.Value{})
	h := &recordingHandler{}

	content := []byte("q 2 0 0 2 10 20 cm 1 0 0 1 5 5 cm Q")
	err := interp.Run(doc, res, content, h, interp.Config{})
	require.NoError(t, err)
}

func TestPathPaintingEmitsRect(t *testing.T) {
	doc := &fakeDoc{}
	res := resources.New(backend.Value{})
	h := &recordingHandler{}

	content := []byte("1 0 0 RG 10 10 100 50 re S")
	err := interp.Run(doc, res, content, h, interp.Config{})
	require.NoError(t, err)
	require.Len(t, h.paths, 1)
	require.True(t, h.paths[0].Path.Stroke)
	require.False(t, h.paths[0].Path.Fill)
	require.Equal(t, geom.RGB{R: 1, G: 0, B: 0}, h.paths[0].Path.StrokeColor)
	require.Len(t, h.paths[0].Path.Segments, 5) // m l l l h
}

func TestUnbalancedQWarnsInsteadOfPanicking(t *testing.T) {
	doc := &fakeDoc{}
	res := resources.New(backend.Value{})
	h := &recordingHandler{}

	content := []byte("Q Q")
	err := interp.Run(doc, res, content, h, interp.Config{})
	require.NoError(t, err)
	require.Len(t, h.warnings, 2)
}

func TestFormXObjectRecursesAndRestoresState(t *testing.T) {
	formContent := []byte("1 0 0 1 1 1 cm 0 0 10 10 re f")
	doc := &fakeDoc{streams: map[string][]byte{"form1": formContent}}

	formDict := backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{
		"Subtype": {Kind: backend.ValName, Name: "Form"},
	}}
	formDict.Str = []byte("form1")

	res := resources.New(backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{
		"XObject": {Kind: backend.ValDict, Dict: map[string]backend.Value{
			"Fm1": formDict,
		}},
	}})
	h := &recordingHandler{}

	content := []byte("q 2 0 0 2 0 0 cm /Fm1 Do Q 1 1 1 1 re f")
	err := interp.Run(doc, res, content, h, interp.Config{})
	require.NoError(t, err)
	require.Len(t, h.paths, 2)
	require.Equal(t, geom.Matrix{A: 2, D: 2, E: 2, F: 2}, h.paths[0].Path.CTM)
	require.Equal(t, geom.Identity(), h.paths[1].Path.CTM)
}

func TestRecursionDepthExceededIsHardFailure(t *testing.T) {
	selfRefContent := []byte("/Fm1 Do")
	doc := &fakeDoc{streams: map[string][]byte{"loop": selfRefContent}}

	formDict := backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{
		"Subtype": {Kind: backend.ValName, Name: "Form"},
	}}
	formDict.Str = []byte("loop")

	res := resources.New(backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{
		"XObject": {Kind: backend.ValDict, Dict: map[string]backend.Value{
			"Fm1": formDict,
		}},
	}})
	h := &recordingHandler{}

	err := interp.Run(doc, res, selfRefContent, h, interp.Config{MaxRecursionDepth: 3})
	require.Error(t, err)
}

func TestInlineImageEmitsImageEvent(t *testing.T) {
	doc := &fakeDoc{}
	res := resources.New(backend.Value{})
	h := &recordingHandler{}

	content := []byte("q BI /W 2 /H 2 /BPC 8 /CS /G /F /Fl ID \x01\x02\x03\x04 EI Q")
	err := interp.Run(doc, res, content, h, interp.Config{ExtractImageData: true})
	require.NoError(t, err)
	require.Len(t, h.images, 1)
	require.Equal(t, interp.ImageInline, h.images[0].Kind)
	require.Equal(t, 2, h.images[0].Width)
	require.Equal(t, "DeviceGray", h.images[0].ColorSpace)
	require.Equal(t, "FlateDecode", h.images[0].Filter)
}

func TestMarkedContentTagsChars(t *testing.T) {
	doc := &fakeDoc{}
	res := pageResourcesWithFont()
	h := &recordingHandler{}

	content := []byte("BT /F1 12 Tf 0 0 Td /Span << /MCID 3 >> BDC (A) Tj EMC ET")
	err := interp.Run(doc, res, content, h, interp.Config{})
	require.NoError(t, err)
	require.Len(t, h.chars, 1)
	require.Equal(t, "Span", h.chars[0].Tag)
}
