/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package material turns the raw events internal/interp emits into
// page-coordinate content: characters with resolved
// bboxes, lines/rects/curves classified from painted paths, and image
// placements. It is the only place a y-flip or a doctop offset happens —
// everything upstream works in PDF's bottom-left-origin space and
// everything downstream (word assembly, layout, tables) trusts the
// top-left-origin BBox this package hands it.
package material

import (
	"golang.org/x/text/unicode/norm"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/interp"
	"github.com/unidoc/pdflayout/internal/state"
)

// UnicodeNorm selects the Unicode normalization form applied to each
// char's resolved text.
type UnicodeNorm int

const (
	NormNone UnicodeNorm = iota
	NormNFC
	NormNFKC
	NormNFD
	NormNFKD
)

// PageContext carries the per-page values materialization needs that
// don't live on any single event: the raw page height used for the
// y-flip, the cumulative doctop base from prior pages, and the
// normalization form configured by the caller.
type PageContext struct {
	Height     float64
	DocTopBase float64
	Norm       UnicodeNorm
}

// Char is a materialized character in page coordinates: top-left-origin
// bbox, doctop, and the paint/font attributes word assembly and layout
// clustering key off of.
type Char struct {
	Text string
	Code uint32

	FontName string
	FontSize float64

	BBox   geom.BBox
	DocTop float64

	StrokeColor geom.RGB
	FillColor   geom.RGB
	RenderMode  state.RenderMode
	Vertical    bool

	MCID *int
	Tag  string
}

// defaultAscent/defaultDescent are the fallback used when a font
// descriptor reports both as zero: assume the bbox spans baseline to
// baseline+font_size.
const (
	defaultAscent  = 1000
	defaultDescent = 0
)

// MaterializeChar computes the page-coordinate bbox for one raw char
// event and, after Unicode normalization, returns one Char per resulting
// rune — a single PDF char code can decompose into more than one output
// char, each inheriting the same bbox and doctop.
func MaterializeChar(ev interp.CharEvent, ctx PageContext) []Char {
	ascent, descent := ev.Ascent, ev.Descent
	if ascent == 0 && descent == 0 {
		ascent, descent = defaultAscent, defaultDescent
	}

	top := (ascent/1000.0)*ev.FontSize + ev.Rise
	bottom := (descent/1000.0)*ev.FontSize + ev.Rise
	left, right := 0.0, ev.Displacement

	corners := [4][2]float64{{left, bottom}, {left, top}, {right, bottom}, {right, top}}
	bbox := transformedBBox(corners, ev.Tm, ev.CTM, ctx.Height)

	doctop := bbox.Top + ctx.DocTopBase

	texts := normalizeText(ev.Text, ctx.Norm)
	chars := make([]Char, 0, len(texts))
	for _, t := range texts {
		chars = append(chars, Char{
			Text:        t,
			Code:        ev.Code,
			FontName:    ev.FontName,
			FontSize:    ev.FontSize,
			BBox:        bbox,
			DocTop:      doctop,
			StrokeColor: ev.StrokeColor,
			FillColor:   ev.FillColor,
			RenderMode:  ev.RenderMode,
			Vertical:    ev.Vertical,
			MCID:        ev.MCID,
			Tag:         ev.Tag,
		})
	}
	return chars
}

// normalizeText applies the configured Unicode normalization form and
// splits the result into one string per rune: a single PDF char code can
// expand into multiple output chars after normalization.
func normalizeText(text string, form UnicodeNorm) []string {
	if text == "" {
		return nil
	}
	switch form {
	case NormNFC:
		text = norm.NFC.String(text)
	case NormNFKC:
		text = norm.NFKC.String(text)
	case NormNFD:
		text = norm.NFD.String(text)
	case NormNFKD:
		text = norm.NFKD.String(text)
	}
	runes := []rune(text)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// transformedBBox maps four text-space corners through tm then ctm (PDF's
// point-times-matrix convention — chaining TransformPoint applies tm
// first, ctm second, matching Trm = Tm × CTM for fixed font scaling
// already folded into the corner coordinates), then y-flips the result
// using the page's raw height so the returned box is top-left-origin.
func transformedBBox(corners [4][2]float64, tm, ctm geom.Matrix, pageHeight float64) geom.BBox {
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0
	for i, c := range corners {
		px, py := tm.TransformPoint(c[0], c[1])
		px, py = ctm.TransformPoint(px, py)
		if i == 0 || px < minX {
			minX = px
		}
		if i == 0 || px > maxX {
			maxX = px
		}
		if i == 0 || py < minY {
			minY = py
		}
		if i == 0 || py > maxY {
			maxY = py
		}
	}
	top := pageHeight - maxY
	bottom := pageHeight - minY
	return geom.NewBBox(minX, top, maxX, bottom)
}

// Image is a materialized image placement: the page-coordinate bbox the
// CTM maps its unit square to, plus the metadata the interpreter already
// resolved from the XObject/BI dictionary.
type Image struct {
	BBox             geom.BBox
	Name             string
	Width            int
	Height           int
	BitsPerComponent int
	ColorSpace       string
	Filter           string
	Data             []byte
}

// MaterializeImage computes an image's page bbox from the CTM captured
// at Do/BI time: the unit square's four corners, transformed and
// y-flipped.
func MaterializeImage(ev interp.ImageEvent, ctx PageContext) Image {
	corners := [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0
	for i, c := range corners {
		px, py := ev.CTM.TransformPoint(c[0], c[1])
		if i == 0 || px < minX {
			minX = px
		}
		if i == 0 || px > maxX {
			maxX = px
		}
		if i == 0 || py < minY {
			minY = py
		}
		if i == 0 || py > maxY {
			maxY = py
		}
	}
	top := ctx.Height - maxY
	bottom := ctx.Height - minY

	return Image{
		BBox:             geom.NewBBox(minX, top, maxX, bottom),
		Name:             ev.Name,
		Width:            ev.Width,
		Height:           ev.Height,
		BitsPerComponent: ev.BitsPerComponent,
		ColorSpace:       ev.ColorSpace,
		Filter:           ev.Filter,
		Data:             ev.Data,
	}
}
