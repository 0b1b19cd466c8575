/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package interp implements the content interpreter: a
// stack-based virtual machine that walks operator tokens produced by
// internal/token, drives internal/state's graphics/text state, resolves
// fonts through internal/pdffont, and emits primitive events (character
// rendered, path painted, image drawn) to a caller-supplied Handler.
// Grounded on unidoc/unipdf's contentstream.ContentStreamProcessor
// (dispatch-by-operand-name loop, q/Q stack) and extractor.extractPageText
// (the Form XObject recursion pattern, maxFormStack depth guard).
package interp

import (
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/pdffont"
	"github.com/unidoc/pdflayout/internal/state"
)

// CharEvent is emitted once per rendered glyph. It carries the raw
// inputs materialization needs to compute a page-space
// bbox — ascent, descent, displacement, font size, the text matrix at
// render time, and the CTM — rather than a pre-composed bbox, so module
// F is the only place glyph geometry is computed and y-flipped.
type CharEvent struct {
	Code     uint32
	Text     string
	Font     *pdffont.Font
	FontName string
	FontSize float64

	Ascent       float64 // glyph-space units, 1000/em
	Descent      float64
	Displacement float64 // text-space advance for this glyph, already includes spacing
	Rise         float64 // Ts text rise, text-space units

	Tm          geom.Matrix // text matrix at render time (before this glyph's advance)
	CTM         geom.Matrix
	StrokeColor geom.RGB
	FillColor   geom.RGB
	RenderMode  state.RenderMode
	Vertical    bool
	MCID        *int
	Tag         string
	OperatorIdx int
}

// PathEvent is emitted once per painting operator (S s f F f* B B* b b*),
// carrying the path built since the last paint/clip.
type PathEvent struct {
	Path geom.PaintedPath
}

// ImageKind distinguishes XObject images from inline images.
type ImageKind int

const (
	ImageXObject ImageKind = iota
	ImageInline
)

// ImageEvent is emitted for `Do` on an Image XObject or a synthesized
// inline-image operator.
type ImageEvent struct {
	Kind            ImageKind
	Name            string // XObject name, or "inline-<op_index>"
	CTM             geom.Matrix
	Width, Height   int // declared source pixel dimensions
	BitsPerComponent int
	ColorSpace      string
	Filter          string
	Data            []byte // raw stream bytes, nil unless ExtractImageData is set
	OperatorIdx     int
}

// Warning is a soft-failure report.
type Warning struct {
	Description string
	OperatorIdx *int
	OperatorName string
	FontName    string
	Code        string
}

// Handler receives interpreter events in stream order.
type Handler interface {
	Char(ev CharEvent)
	Path(ev PathEvent)
	Image(ev ImageEvent)
	Warn(w Warning)
}
