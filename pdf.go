/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package pdflayout extracts characters, words, shapes, images and
// tables from a PDF content stream, with every coordinate reported in a
// single page-relative, top-left-origin space regardless of the page's
// MediaBox origin or /Rotate value. It consumes an already-parsed
// document object graph through the backend package rather than parsing
// raw PDF bytes itself (xref parsing, object streams and decryption are
// a backend's job, not this package's).
package pdflayout

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/interp"
	"github.com/unidoc/pdflayout/internal/material"
	"github.com/unidoc/pdflayout/internal/pdferr"
	"github.com/unidoc/pdflayout/internal/resources"
)

// Pdf is an opened document: its page geometry and metadata are read
// eagerly at open time, while AcroForm fields and the structure tree are
// fetched lazily from the backend on first access. Resource budgets
// (MaxTotalObjects, MaxTotalImageBytes) are tracked as atomics shared
// across every page a caller extracts, whether sequentially or in
// parallel via PagesParallel.
type Pdf struct {
	doc  backend.Document
	opts ExtractOptions

	pageRefs   []backend.PageRef
	heights    []float64 // display height per page, post-rotation-swap
	docTopBase []float64 // cumulative display height of all prior pages

	metadata  backend.Metadata
	bookmarks []backend.Bookmark

	totalObjects    int64 // atomic
	totalImageBytes int64 // atomic

	formFieldsOnce sync.Once
	formFields     []backend.FormField
	formFieldsErr  error

	structTreeOnce sync.Once
	structTree     []backend.StructElement
	structTreeErr  error
}

// Open opens data through opener and builds a Pdf. An encrypted document
// with no password yields a PasswordRequired error.
func Open(opener backend.Opener, data []byte, opts ExtractOptions) (*Pdf, error) {
	if err := checkInputSize(data, opts); err != nil {
		return nil, err
	}
	doc, err := opener.Open(data)
	if err != nil {
		return nil, err
	}
	return newPdf(doc, opts)
}

// OpenWithPassword opens an encrypted document. A wrong password yields
// an InvalidPassword error.
func OpenWithPassword(opener backend.Opener, data []byte, password string, opts ExtractOptions) (*Pdf, error) {
	if err := checkInputSize(data, opts); err != nil {
		return nil, err
	}
	doc, err := opener.OpenWithPassword(data, password)
	if err != nil {
		return nil, err
	}
	return newPdf(doc, opts)
}

// NewPdf wraps an already-opened backend.Document directly, for callers
// that built one some other way than through an Opener.
func NewPdf(doc backend.Document, opts ExtractOptions) (*Pdf, error) {
	return newPdf(doc, opts)
}

func checkInputSize(data []byte, opts ExtractOptions) error {
	if opts.MaxInputBytes > 0 && int64(len(data)) > opts.MaxInputBytes {
		return &pdferr.ResourceLimitExceeded{
			LimitName:   "max_input_bytes",
			LimitValue:  opts.MaxInputBytes,
			ActualValue: int64(len(data)),
		}
	}
	return nil
}

func newPdf(doc backend.Document, opts ExtractOptions) (*Pdf, error) {
	count := doc.PageCount()
	if opts.MaxPages > 0 && count > opts.MaxPages {
		return nil, &pdferr.ResourceLimitExceeded{
			LimitName:   "max_pages",
			LimitValue:  int64(opts.MaxPages),
			ActualValue: int64(count),
		}
	}

	pdf := &Pdf{doc: doc, opts: opts}
	pdf.pageRefs = make([]backend.PageRef, count)
	pdf.heights = make([]float64, count)
	pdf.docTopBase = make([]float64, count)

	var cumHeight float64
	for i := 0; i < count; i++ {
		ref, err := doc.GetPage(i)
		if err != nil {
			return nil, err
		}
		mediaBox, _, _, _, _, rotate, err := doc.PageGeometry(ref)
		if err != nil {
			return nil, err
		}
		_, h := displayDimensions(mediaBox, rotate)
		pdf.pageRefs[i] = ref
		pdf.heights[i] = h
		pdf.docTopBase[i] = cumHeight
		cumHeight += h
	}

	md, err := doc.Metadata()
	if err != nil {
		return nil, err
	}
	pdf.metadata = md

	bm, err := doc.Bookmarks()
	if err != nil {
		return nil, err
	}
	pdf.bookmarks = bm

	return pdf, nil
}

// PageCount returns the number of pages.
func (pdf *Pdf) PageCount() int { return len(pdf.pageRefs) }

// Page extracts and returns a single page.
func (pdf *Pdf) Page(index int) (*Page, error) {
	if index < 0 || index >= len(pdf.pageRefs) {
		return nil, &pdferr.Other{Msg: fmt.Sprintf("page index %d out of range [0,%d)", index, len(pdf.pageRefs))}
	}
	return pdf.extractPage(index)
}

// PagesIter extracts pages one at a time, in order, calling fn after
// each. Extraction is streaming: page N+1 isn't built until fn returns
// for page N. Iteration stops at the first error from either extraction
// or fn.
func (pdf *Pdf) PagesIter(fn func(*Page) error) error {
	for i := range pdf.pageRefs {
		page, err := pdf.extractPage(i)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

// PagesParallel extracts every page concurrently, one goroutine per
// page, and returns them in page order. Each page owns its own
// interpreter, graphics state and event buffers; the only state pages
// share is the document's atomic resource-budget counters and the
// immutable per-page height/docTop values computed at open time.
func (pdf *Pdf) PagesParallel() ([]*Page, error) {
	pages := make([]*Page, len(pdf.pageRefs))
	g := new(errgroup.Group)
	for i := range pdf.pageRefs {
		i := i
		g.Go(func() error {
			page, err := pdf.extractPage(i)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (pdf *Pdf) Metadata() backend.Metadata   { return pdf.metadata }
func (pdf *Pdf) Bookmarks() []backend.Bookmark { return pdf.bookmarks }

// FormFields fetches and caches the document's /AcroForm fields.
func (pdf *Pdf) FormFields() ([]backend.FormField, error) {
	pdf.formFieldsOnce.Do(func() {
		pdf.formFields, pdf.formFieldsErr = pdf.doc.FormFields()
	})
	return pdf.formFields, pdf.formFieldsErr
}

// StructureTree fetches and caches the document's /StructTreeRoot tree.
func (pdf *Pdf) StructureTree() ([]backend.StructElement, error) {
	pdf.structTreeOnce.Do(func() {
		pdf.structTree, pdf.structTreeErr = pdf.doc.StructTree()
	})
	return pdf.structTree, pdf.structTreeErr
}

// Signatures reports the document's digital-signature presence/validity.
func (pdf *Pdf) Signatures() []backend.SignatureInfo { return pdf.doc.Signatures() }

// Validate reports an error if the document carries any digital
// signature the backend considers invalid.
func (pdf *Pdf) Validate() error {
	for _, sig := range pdf.doc.Signatures() {
		if !sig.Valid {
			return &pdferr.Other{Msg: fmt.Sprintf("signature %q is not valid", sig.Name)}
		}
	}
	return nil
}

func (pdf *Pdf) extractPage(index int) (*Page, error) {
	ref := pdf.pageRefs[index]
	mediaBox, cropBox, trimBox, bleedBox, artBox, rotate, err := pdf.doc.PageGeometry(ref)
	if err != nil {
		return nil, err
	}
	origW, origH := mediaBox.URX-mediaBox.LLX, mediaBox.URY-mediaBox.LLY
	w, h := displayDimensions(mediaBox, rotate)
	baseCTM := rotationMatrix(rotate, origW, origH).Mul(geom.Translation(-mediaBox.LLX, -mediaBox.LLY))

	resDict, err := pdf.doc.PageResources(ref)
	if err != nil {
		return nil, err
	}
	content, err := pdf.doc.ContentStream(ref)
	if err != nil {
		return nil, err
	}

	collector := &pageCollector{
		ctx: material.PageContext{
			Height:     h,
			DocTopBase: pdf.docTopBase[index],
			Norm:       pdf.opts.UnicodeNorm,
		},
		collectWarnings: pdf.opts.CollectWarnings,
		pageIndex:       index,
	}
	cfg := interp.Config{
		MaxRecursionDepth: pdf.opts.MaxRecursionDepth,
		ExtractImageData:  pdf.opts.ExtractImageData,
		BaseCTM:           baseCTM,
	}
	if err := interp.Run(pdf.doc, resources.New(resDict), content, collector, cfg); err != nil {
		return nil, err
	}

	if err := pdf.chargeBudget(collector.objectCount(), collector.imageBytes()); err != nil {
		return nil, err
	}

	return &Page{
		pdf:      pdf,
		ref:      ref,
		index:    index,
		baseCTM:  baseCTM,
		width:    w,
		height:   h,
		rotation: normalizeRotation(rotate),
		mediaBox: mediaBox, cropBox: cropBox, trimBox: trimBox, bleedBox: bleedBox, artBox: artBox,
		chars:    collector.chars,
		lines:    collector.lines,
		rects:    collector.rects,
		curves:   collector.curves,
		images:   collector.images,
		warnings: collector.warnings,
	}, nil
}

func (pdf *Pdf) chargeBudget(objects, imageBytes int64) error {
	total := atomic.AddInt64(&pdf.totalObjects, objects)
	if pdf.opts.MaxTotalObjects > 0 && total > pdf.opts.MaxTotalObjects {
		return &pdferr.ResourceLimitExceeded{
			LimitName: "max_total_objects", LimitValue: pdf.opts.MaxTotalObjects, ActualValue: total,
		}
	}
	totalBytes := atomic.AddInt64(&pdf.totalImageBytes, imageBytes)
	if pdf.opts.MaxTotalImageBytes > 0 && totalBytes > pdf.opts.MaxTotalImageBytes {
		return &pdferr.ResourceLimitExceeded{
			LimitName: "max_total_image_bytes", LimitValue: pdf.opts.MaxTotalImageBytes, ActualValue: totalBytes,
		}
	}
	return nil
}

// pageCollector implements interp.Handler, materializing each event as
// it arrives via internal/material and decorating warnings with the page
// index they came from.
type pageCollector struct {
	ctx             material.PageContext
	collectWarnings bool
	pageIndex       int

	chars  []material.Char
	lines  []geom.Line
	rects  []geom.Rect
	curves []geom.Curve
	images []material.Image

	warnings []Warning
}

func (h *pageCollector) Char(ev interp.CharEvent) {
	h.chars = append(h.chars, material.MaterializeChar(ev, h.ctx)...)
}

func (h *pageCollector) Path(ev interp.PathEvent) {
	lines, rects, curves := material.MaterializeShapes(ev, h.ctx.Height)
	h.lines = append(h.lines, lines...)
	h.rects = append(h.rects, rects...)
	h.curves = append(h.curves, curves...)
}

func (h *pageCollector) Image(ev interp.ImageEvent) {
	h.images = append(h.images, material.MaterializeImage(ev, h.ctx))
}

func (h *pageCollector) Warn(w interp.Warning) {
	if !h.collectWarnings {
		return
	}
	h.warnings = append(h.warnings, Warning{
		Description:  w.Description,
		OperatorIdx:  w.OperatorIdx,
		OperatorName: w.OperatorName,
		FontName:     w.FontName,
		Code:         w.Code,
		PageIndex:    h.pageIndex,
	})
}

func (h *pageCollector) objectCount() int64 {
	return int64(len(h.chars) + len(h.lines) + len(h.rects) + len(h.curves) + len(h.images))
}

func (h *pageCollector) imageBytes() int64 {
	var n int64
	for _, img := range h.images {
		n += int64(len(img.Data))
	}
	return n
}

// displayDimensions returns a page's on-screen width/height given its
// MediaBox and /Rotate: 90/270 swap the axes, so doctop accumulation and
// layout clustering operate in the orientation a viewer would actually
// show the page in, rather than its raw MediaBox orientation.
func displayDimensions(box backend.Rectangle, rotate int) (float64, float64) {
	w := box.URX - box.LLX
	h := box.URY - box.LLY
	if norm := normalizeRotation(rotate); norm == 90 || norm == 270 {
		w, h = h, w
	}
	return w, h
}

func normalizeRotation(rotate int) int {
	r := rotate % 360
	if r < 0 {
		r += 360
	}
	return ((r / 90) * 90) % 360
}

// rotationMatrix returns the matrix mapping MediaBox-origin content
// coordinates into the page's rotated display frame. w and
// h are the page's original, pre-rotation MediaBox extents — for 90/270
// the output's own coordinate range comes out swapped, which is what
// produces the display-size swap callers see in Page.Width/Height.
// Composed with a translation to the MediaBox origin, this becomes the
// interpreter's BaseCTM.
func rotationMatrix(rotate int, w, h float64) geom.Matrix {
	switch normalizeRotation(rotate) {
	case 90:
		return geom.NewMatrix(0, -1, 1, 0, 0, w)
	case 180:
		return geom.NewMatrix(-1, 0, 0, -1, w, h)
	case 270:
		return geom.NewMatrix(0, 1, -1, 0, h, 0)
	default:
		return geom.Identity()
	}
}
