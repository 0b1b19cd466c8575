/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdflayout_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdflayout "github.com/unidoc/pdflayout"
	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/geom"
)

// fakeDoc is a minimal backend.Document: each page paints one filled
// rectangle at (10,10)-(50,50) via a content stream, so facade tests
// exercise the real interp.Run/material pipeline without needing a font.
type fakeDoc struct {
	pageCount int
	rotate    []int
	mediaBox  backend.Rectangle
	fields    []backend.FormField
	sigs      []backend.SignatureInfo
}

func newFakeDoc(pageCount int) *fakeDoc {
	rotate := make([]int, pageCount)
	return &fakeDoc{
		pageCount: pageCount,
		rotate:    rotate,
		mediaBox:  backend.Rectangle{LLX: 0, LLY: 0, URX: 200, URY: 300},
	}
}

func (d *fakeDoc) PageCount() int { return d.pageCount }
func (d *fakeDoc) GetPage(i int) (backend.PageRef, error) { return i, nil }

func (d *fakeDoc) PageGeometry(p backend.PageRef) (mediaBox, cropBox, trimBox, bleedBox, artBox backend.Rectangle, rotate int, err error) {
	idx := p.(int)
	return d.mediaBox, d.mediaBox, d.mediaBox, d.mediaBox, d.mediaBox, d.rotate[idx], nil
}

func (d *fakeDoc) PageResources(p backend.PageRef) (backend.Value, error) {
	return backend.Value{Kind: backend.ValDict, Dict: map[string]backend.Value{}}, nil
}

func (d *fakeDoc) ContentStream(p backend.PageRef) ([]byte, error) {
	return []byte("10 10 40 40 re f"), nil
}

func (d *fakeDoc) StreamData(v backend.Value) ([]byte, backend.Filter, error) { return nil, "", nil }
func (d *fakeDoc) Metadata() (backend.Metadata, error) {
	return backend.Metadata{Title: "fake"}, nil
}
func (d *fakeDoc) Bookmarks() ([]backend.Bookmark, error)       { return nil, nil }
func (d *fakeDoc) FormFields() ([]backend.FormField, error)     { return d.fields, nil }
func (d *fakeDoc) StructTree() ([]backend.StructElement, error) { return nil, nil }
func (d *fakeDoc) Annotations(p backend.PageRef) ([]backend.Annotation, error) {
	return []backend.Annotation{{Subtype: "Link", Rect: backend.Rectangle{LLX: 10, LLY: 10, URX: 40, URY: 40}, URI: "https://example.com"}}, nil
}
func (d *fakeDoc) Signatures() []backend.SignatureInfo { return d.sigs }

type fakeOpener struct {
	doc      backend.Document
	password string
}

func (o *fakeOpener) Open(data []byte) (backend.Document, error) {
	if o.password != "" {
		return nil, backend.NewPasswordRequired()
	}
	return o.doc, nil
}

func (o *fakeOpener) OpenWithPassword(data []byte, password string) (backend.Document, error) {
	if password != o.password {
		return nil, backend.NewInvalidPassword()
	}
	return o.doc, nil
}

func TestOpenRejectsOversizedInput(t *testing.T) {
	opener := &fakeOpener{doc: newFakeDoc(1)}
	_, err := pdflayout.Open(opener, make([]byte, 100), pdflayout.ExtractOptions{MaxInputBytes: 10})
	require.Error(t, err)
	var limErr *pdflayout.ResourceLimitExceeded
	require.ErrorAs(t, err, &limErr)
	assert.Equal(t, "max_input_bytes", limErr.LimitName)
}

func TestOpenRejectsTooManyPages(t *testing.T) {
	opener := &fakeOpener{doc: newFakeDoc(5)}
	_, err := pdflayout.Open(opener, nil, pdflayout.ExtractOptions{MaxPages: 3})
	require.Error(t, err)
	var limErr *pdflayout.ResourceLimitExceeded
	require.ErrorAs(t, err, &limErr)
	assert.Equal(t, "max_pages", limErr.LimitName)
}

func TestOpenWithPasswordRequiredAndInvalid(t *testing.T) {
	opener := &fakeOpener{doc: newFakeDoc(1), password: "secret"}

	_, err := pdflayout.Open(opener, nil, pdflayout.ExtractOptions{})
	var pwReq *pdflayout.PasswordRequired
	require.ErrorAs(t, err, &pwReq)

	_, err = pdflayout.OpenWithPassword(opener, nil, "wrong", pdflayout.ExtractOptions{})
	var invalid *pdflayout.InvalidPassword
	require.ErrorAs(t, err, &invalid)

	pdf, err := pdflayout.OpenWithPassword(opener, nil, "secret", pdflayout.ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, pdf.PageCount())
}

func TestPageExtractsPaintedRectAsRect(t *testing.T) {
	pdf, err := pdflayout.NewPdf(newFakeDoc(1), pdflayout.ExtractOptions{})
	require.NoError(t, err)

	page, err := pdf.Page(0)
	require.NoError(t, err)
	assert.Equal(t, 200.0, page.Width())
	assert.Equal(t, 300.0, page.Height())
	require.Len(t, page.Rects(), 1)
	assert.Equal(t, geom.NewBBox(10, 300-50, 50, 300-10), page.Rects()[0].BBox)
}

func TestPageRotationSwapsDisplayDimensions(t *testing.T) {
	doc := newFakeDoc(1)
	doc.rotate[0] = 90
	pdf, err := pdflayout.NewPdf(doc, pdflayout.ExtractOptions{})
	require.NoError(t, err)

	page, err := pdf.Page(0)
	require.NoError(t, err)
	assert.Equal(t, 300.0, page.Width())
	assert.Equal(t, 200.0, page.Height())
	assert.Equal(t, 90, page.Rotation())
}

func TestPagesParallelMatchesSequentialExtraction(t *testing.T) {
	doc := newFakeDoc(4)
	pdf, err := pdflayout.NewPdf(doc, pdflayout.ExtractOptions{})
	require.NoError(t, err)

	parallel, err := pdf.PagesParallel()
	require.NoError(t, err)
	require.Len(t, parallel, 4)

	var sequential []int
	err = pdf.PagesIter(func(p *pdflayout.Page) error {
		sequential = append(sequential, p.PageNumber())
		return nil
	})
	require.NoError(t, err)

	for i, p := range parallel {
		require.NotNil(t, p)
		assert.Equal(t, i, p.PageNumber())
		require.Len(t, p.Rects(), 1)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, sequential)
}

func TestResourceBudgetExceededOnTotalObjects(t *testing.T) {
	pdf, err := pdflayout.NewPdf(newFakeDoc(1), pdflayout.ExtractOptions{MaxTotalObjects: 0})
	require.NoError(t, err)
	_, err = pdf.Page(0)
	require.NoError(t, err) // budget 0 means unlimited, not zero-tolerance

	pdf2, err := pdflayout.NewPdf(newFakeDoc(1), pdflayout.ExtractOptions{MaxTotalObjects: 1})
	require.NoError(t, err)
	_, err = pdf2.Page(0)
	require.NoError(t, err) // exactly one rect painted, within budget

	pdf3, err := pdflayout.NewPdf(newFakeDoc(2), pdflayout.ExtractOptions{MaxTotalObjects: 1})
	require.NoError(t, err)
	_, err = pdf3.Page(0)
	require.NoError(t, err)
	_, err = pdf3.Page(1)
	require.Error(t, err)
	var limErr *pdflayout.ResourceLimitExceeded
	require.ErrorAs(t, err, &limErr)
	assert.Equal(t, "max_total_objects", limErr.LimitName)
}

func TestPageCropClipsRect(t *testing.T) {
	pdf, err := pdflayout.NewPdf(newFakeDoc(1), pdflayout.ExtractOptions{})
	require.NoError(t, err)
	page, err := pdf.Page(0)
	require.NoError(t, err)

	cropped := page.Crop(geom.NewBBox(0, 0, 30, 300))
	rects := cropped.Rects()
	require.Len(t, rects, 1)
	assert.Equal(t, 30.0, rects[0].BBox.X1)

	outside := page.OutsideBBox(geom.NewBBox(0, 0, 30, 300))
	assert.Empty(t, outside.Rects())
}

func TestPageHyperlinksResolveAnnotationRect(t *testing.T) {
	pdf, err := pdflayout.NewPdf(newFakeDoc(1), pdflayout.ExtractOptions{})
	require.NoError(t, err)
	page, err := pdf.Page(0)
	require.NoError(t, err)

	links, err := page.Hyperlinks()
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", links[0].URI)
	assert.Equal(t, geom.NewBBox(10, 300-40, 40, 300-10), links[0].BBox)
}

func TestMetadataAndFormFieldsPassThrough(t *testing.T) {
	doc := newFakeDoc(1)
	doc.fields = []backend.FormField{{Name: "field1", PageIndex: 0}}
	pdf, err := pdflayout.NewPdf(doc, pdflayout.ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, "fake", pdf.Metadata().Title)

	page, err := pdf.Page(0)
	require.NoError(t, err)
	fields, err := page.FormFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "field1", fields[0].Name)
}

func TestValidateReportsInvalidSignature(t *testing.T) {
	doc := newFakeDoc(1)
	doc.sigs = []backend.SignatureInfo{{Name: "sig1", Valid: false}}
	pdf, err := pdflayout.NewPdf(doc, pdflayout.ExtractOptions{})
	require.NoError(t, err)
	require.Error(t, pdf.Validate())
}

func TestExportImagesSkipsEmptyData(t *testing.T) {
	pdf, err := pdflayout.NewPdf(newFakeDoc(1), pdflayout.ExtractOptions{})
	require.NoError(t, err)
	page, err := pdf.Page(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = page.ExportImages(func(name string) (io.Writer, error) {
		return &buf, nil
	})
	require.NoError(t, err)
	assert.Empty(t, buf.Bytes())
}
