/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdflayout

import (
	"io"
	"math"
	"regexp"
	"sync"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/croppedpage"
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/layout"
	"github.com/unidoc/pdflayout/internal/material"
	"github.com/unidoc/pdflayout/internal/pdferr"
	"github.com/unidoc/pdflayout/internal/table"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

// Warning is a page-scoped soft-failure report: malformed
// fonts, unsupported filters and the like don't abort extraction, they
// surface here instead.
type Warning struct {
	Description  string
	OperatorIdx  *int
	OperatorName string
	FontName     string
	Code         string
	PageIndex    int
}

// Hyperlink is a Link annotation resolved into page-display coordinates.
type Hyperlink struct {
	BBox geom.BBox
	URI  string
	Dest string
}

// SearchMatch is one Page.Search hit, as a byte range into the text
// Search rendered internally.
type SearchMatch struct {
	Text       string
	Start, End int
}

// Page is one page's fully materialized content: every char, line, rect,
// curve and image the content stream painted, already in top-left-origin
// display coordinates with the page's rotation normalized out. Chars and
// shapes are computed once, eagerly, when the Page is built; annotations
// and the document-wide form/structure data are fetched from the backend
// lazily, on first access, since many callers never touch them.
type Page struct {
	pdf     *Pdf
	ref     backend.PageRef
	index   int
	baseCTM geom.Matrix

	width, height                                    float64
	rotation                                          int
	mediaBox, cropBox, trimBox, bleedBox, artBox      backend.Rectangle

	chars  []material.Char
	lines  []geom.Line
	rects  []geom.Rect
	curves []geom.Curve
	images []material.Image

	warnings []Warning

	annotationsOnce sync.Once
	annotations     []backend.Annotation
	annotationsErr  error
}

func (p *Page) PageNumber() int         { return p.index }
func (p *Page) Width() float64          { return p.width }
func (p *Page) Height() float64         { return p.height }
func (p *Page) Rotation() int           { return p.rotation }
func (p *Page) Chars() []material.Char  { return p.chars }
func (p *Page) Lines() []geom.Line      { return p.lines }
func (p *Page) Rects() []geom.Rect      { return p.rects }
func (p *Page) Curves() []geom.Curve    { return p.curves }
func (p *Page) Images() []material.Image { return p.images }
func (p *Page) Warnings() []Warning     { return p.warnings }

func (p *Page) BBox() geom.BBox { return geom.NewBBox(0, 0, p.width, p.height) }

func (p *Page) MediaBox() backend.Rectangle { return p.mediaBox }
func (p *Page) CropBox() backend.Rectangle  { return p.cropBox }
func (p *Page) TrimBox() backend.Rectangle  { return p.trimBox }
func (p *Page) BleedBox() backend.Rectangle { return p.bleedBox }
func (p *Page) ArtBox() backend.Rectangle   { return p.artBox }

// Annotations fetches the page's /Annots entries from the backend on
// first call and caches the result.
func (p *Page) Annotations() ([]backend.Annotation, error) {
	p.annotationsOnce.Do(func() {
		p.annotations, p.annotationsErr = p.pdf.doc.Annotations(p.ref)
	})
	return p.annotations, p.annotationsErr
}

// Hyperlinks filters Annotations down to Link entries, resolving each
// one's Rect into the same display coordinates Chars/Images use.
func (p *Page) Hyperlinks() ([]Hyperlink, error) {
	annots, err := p.Annotations()
	if err != nil {
		return nil, err
	}
	var out []Hyperlink
	for _, a := range annots {
		if a.Subtype != "Link" {
			continue
		}
		out = append(out, Hyperlink{
			BBox: rectToDisplayBBox(a.Rect, p.baseCTM, p.height),
			URI:  a.URI,
			Dest: a.Dest,
		})
	}
	return out, nil
}

// FormFields returns the document's /AcroForm fields restricted to this
// page.
func (p *Page) FormFields() ([]backend.FormField, error) {
	all, err := p.pdf.FormFields()
	if err != nil {
		return nil, err
	}
	var out []backend.FormField
	for _, f := range all {
		if f.PageIndex == p.index {
			out = append(out, f)
		}
	}
	return out, nil
}

// StructureTree returns the document's structure tree (shared across all
// pages; nodes carry their own PageIdx where applicable).
func (p *Page) StructureTree() ([]backend.StructElement, error) {
	return p.pdf.StructureTree()
}

// Signatures reports the document's digital-signature presence/validity
// (shared across all pages).
func (p *Page) Signatures() []backend.SignatureInfo {
	return p.pdf.Signatures()
}

// ExtractText renders the page's chars to a string, either by simple
// y-clustering (Layout false) or the full line/column/block reading-order
// pipeline (Layout true).
func (p *Page) ExtractText(opts TextOptions) string {
	return extractText(p.chars, opts)
}

// ExtractWords assembles chars into words.
func (p *Page) ExtractWords(opts WordOptions) []wordassembly.Word {
	return wordassembly.Assemble(p.chars, opts.toInternal())
}

// FindTables locates table regions without extracting cell text.
func (p *Page) FindTables(settings TableSettings) []table.Table {
	return findTables(p.chars, p.lines, p.rects, settings)
}

// ExtractTables locates table regions and fills each cell's text.
func (p *Page) ExtractTables(settings TableSettings) []table.Table {
	return applyCellText(p.FindTables(settings), p.chars)
}

// Search runs pattern against the page's rendered text.
func (p *Page) Search(pattern string, opts SearchOptions) ([]SearchMatch, error) {
	text := extractText(p.chars, TextOptions{Layout: opts.Layout})
	return searchText(text, pattern, opts)
}

// DedupeChars drops chars that repeat the same text within
// CentroidEpsilon of an already-kept char's bbox centroid — the common
// "bold by double-strike" or OCR-layer-over-scan duplication pattern.
func (p *Page) DedupeChars(opts DedupeOptions) []material.Char {
	eps := opts.CentroidEpsilon
	if eps <= 0 {
		eps = DefaultDedupeOptions().CentroidEpsilon
	}
	out := make([]material.Char, 0, len(p.chars))
	for _, c := range p.chars {
		cx, cy := c.BBox.Centroid()
		dup := false
		for _, kept := range out {
			if kept.Text != c.Text {
				continue
			}
			kx, ky := kept.BBox.Centroid()
			if math.Abs(kx-cx) <= eps && math.Abs(ky-cy) <= eps {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// Crop returns a view keeping and clipping content intersecting bbox.
func (p *Page) Crop(bbox geom.BBox) *CroppedPage {
	return &CroppedPage{page: p, view: croppedpage.New(bbox)}
}

// WithinBBox returns a view keeping only content fully contained by bbox.
func (p *Page) WithinBBox(bbox geom.BBox) *CroppedPage {
	return &CroppedPage{page: p, view: croppedpage.WithinBBox(bbox)}
}

// OutsideBBox returns a view keeping only content that doesn't intersect
// bbox at all.
func (p *Page) OutsideBBox(bbox geom.BBox) *CroppedPage {
	return &CroppedPage{page: p, view: croppedpage.OutsideBBox(bbox)}
}

// ExportImages writes each image's raw stream bytes (populated only when
// ExtractOptions.ExtractImageData was set) to the writer open returns for
// that image's XObject name. Images with no captured data are skipped
// silently rather than treated as an error.
func (p *Page) ExportImages(open func(name string) (io.Writer, error)) error {
	for _, img := range p.images {
		if len(img.Data) == 0 {
			continue
		}
		w, err := open(img.Name)
		if err != nil {
			return err
		}
		if _, err := w.Write(img.Data); err != nil {
			return err
		}
	}
	return nil
}

// CroppedPage is a bbox-filtered view over a Page's content:
// every accessor re-applies the filter to the page's
// materialized content rather than storing a separate copy.
type CroppedPage struct {
	page *Page
	view croppedpage.View
}

func (c *CroppedPage) Chars() []material.Char   { return c.view.FilterChars(c.page.chars) }
func (c *CroppedPage) Lines() []geom.Line       { return c.view.FilterLines(c.page.lines) }
func (c *CroppedPage) Rects() []geom.Rect       { return c.view.FilterRects(c.page.rects) }
func (c *CroppedPage) Curves() []geom.Curve     { return c.view.FilterCurves(c.page.curves) }
func (c *CroppedPage) Images() []material.Image { return c.view.FilterImages(c.page.images) }

func (c *CroppedPage) ExtractText(opts TextOptions) string {
	return extractText(c.Chars(), opts)
}

func (c *CroppedPage) ExtractWords(opts WordOptions) []wordassembly.Word {
	return wordassembly.Assemble(c.Chars(), opts.toInternal())
}

func (c *CroppedPage) FindTables(settings TableSettings) []table.Table {
	return findTables(c.Chars(), c.Lines(), c.Rects(), settings)
}

func (c *CroppedPage) ExtractTables(settings TableSettings) []table.Table {
	return applyCellText(c.FindTables(settings), c.Chars())
}

func (c *CroppedPage) Search(pattern string, opts SearchOptions) ([]SearchMatch, error) {
	text := extractText(c.Chars(), TextOptions{Layout: opts.Layout})
	return searchText(text, pattern, opts)
}

// extractText is shared by Page and CroppedPage: the two differ only in
// which char slice they hand in.
func extractText(chars []material.Char, opts TextOptions) string {
	words := wordassembly.Assemble(chars, wordassembly.DefaultOptions())
	yTolerance := nz(opts.YTolerance, 3)
	if !opts.Layout {
		return layout.RenderWords(words, yTolerance)
	}
	lines := layout.ClusterIntoLines(words, yTolerance)
	lines = layout.SplitAtColumns(lines, nz(opts.XDensity, 10))
	blocks := layout.ClusterIntoBlocks(lines, nz(opts.YDensity, 10))
	layout.SortReadingOrder(blocks)
	return layout.Render(blocks)
}

// findTables is shared by Page and CroppedPage. Stream word clusters are
// only computed when the strategy needs them.
func findTables(chars []material.Char, lines []geom.Line, rects []geom.Rect, settings TableSettings) []table.Table {
	includeRects := settings.Strategy != table.LatticeStrict
	edges := table.EdgesFromShapes(lines, rects, includeRects)
	var words []wordassembly.Word
	if settings.Strategy == table.Stream {
		words = wordassembly.Assemble(chars, wordassembly.Options{
			XTolerance: nz(settings.TextXTolerance, 3),
			YTolerance: nz(settings.TextYTolerance, 3),
		})
	}
	return table.FindTables(edges, words, settings)
}

// applyCellText fills every cell (flattened, plus each Rows/Columns
// entry) across all detected tables with extracted text, keyed by bbox
// since Cell is a plain value copied into three different slices.
func applyCellText(tables []table.Table, chars []material.Char) []table.Table {
	if len(tables) == 0 {
		return tables
	}
	var allCells []table.Cell
	for _, t := range tables {
		allCells = append(allCells, t.Cells...)
	}
	extracted := table.ExtractTextForCells(allCells, chars, wordassembly.DefaultOptions())
	textByBBox := make(map[geom.BBox]string, len(extracted))
	for _, c := range extracted {
		if c.Text != nil {
			textByBBox[c.BBox] = *c.Text
		}
	}

	out := make([]table.Table, len(tables))
	for i, t := range tables {
		out[i] = t
		out[i].Cells = withText(t.Cells, textByBBox)
		out[i].Rows = make([][]table.Cell, len(t.Rows))
		for r, row := range t.Rows {
			out[i].Rows[r] = withText(row, textByBBox)
		}
		out[i].Columns = make([][]table.Cell, len(t.Columns))
		for c, col := range t.Columns {
			out[i].Columns[c] = withText(col, textByBBox)
		}
	}
	return out
}

func withText(cells []table.Cell, textByBBox map[geom.BBox]string) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, c := range cells {
		out[i] = c
		if text, ok := textByBBox[c.BBox]; ok {
			t := text
			out[i].Text = &t
		}
	}
	return out
}

func searchText(text, pattern string, opts SearchOptions) ([]SearchMatch, error) {
	expr := pattern
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &pdferr.Other{Msg: "invalid search pattern", Err: err}
	}
	var matches []SearchMatch
	for _, loc := range re.FindAllStringIndex(text, -1) {
		matches = append(matches, SearchMatch{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	return matches, nil
}

// rectToDisplayBBox maps a raw-PDF-space annotation rect through the
// page's base CTM and y-flip, the same normalization material.go applies
// to every char and image, so hyperlink bboxes line up with Chars/Images.
func rectToDisplayBBox(r backend.Rectangle, baseCTM geom.Matrix, height float64) geom.BBox {
	x0, y0 := baseCTM.TransformPoint(r.LLX, r.LLY)
	x1, y1 := baseCTM.TransformPoint(r.URX, r.URY)
	return geom.NewBBox(x0, height-y0, x1, height-y1)
}
