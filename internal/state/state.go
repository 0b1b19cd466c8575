/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package state implements the graphics-state and text-state stacks:
// the CTM, paint state, and text matrices the content interpreter
// mutates as it walks operators. Grounded on unidoc/unipdf's
// contentstream.GraphicsState/GraphicStateStack, generalized so that
// `q` snapshots the text state too — the teacher's GraphicsState has no
// text-state field at all, and omitting it there is a known,
// load-bearing mistake for Form XObject text positioning this module
// does not repeat.
package state

import "github.com/unidoc/pdflayout/internal/geom"

// RenderMode mirrors the PDF `Tr` operator's text rendering modes.
type RenderMode int

const (
	RenderFill RenderMode = iota
	RenderStroke
	RenderFillStroke
	RenderInvisible
	RenderFillClip
	RenderStrokeClip
	RenderFillStrokeClip
	RenderClip
)

// TextState holds everything that lives only between BT and ET.
type TextState struct {
	Tm  geom.Matrix // text matrix
	Tlm geom.Matrix // text-line matrix

	FontName       string
	FontSize       float64
	CharSpacing    float64
	WordSpacing    float64
	HorizScaling   float64 // percentage, 100 == 1.0
	Leading        float64
	Rise           float64
	RenderMode     RenderMode
}

// NewTextState returns a TextState with PDF defaults: matrices at
// identity, horizontal scaling 100%, everything else zero.
func NewTextState() TextState {
	return TextState{
		Tm:           geom.Identity(),
		Tlm:          geom.Identity(),
		HorizScaling: 100,
	}
}

// GraphicsState is the part of the state stack pushed by `q` and popped by
// `Q`. TextState is populated only while inside a BT/ET block (nil
// otherwise) — `q` inside BT/ET must snapshot it so a Form
// XObject invoked mid-text-block restores the caller's text position
// correctly.
type GraphicsState struct {
	CTM geom.Matrix

	StrokeColor    geom.RGB
	FillColor      geom.RGB
	LineWidth      float64
	Dash           geom.DashPattern
	StrokeAlpha    float64
	FillAlpha      float64

	TextState *TextState
}

// NewGraphicsState returns the initial graphics state for a page or Form
// XObject: CTM at identity (callers compose the page's base matrix
// separately), opaque black fill/stroke, 1pt line width.
func NewGraphicsState() GraphicsState {
	return GraphicsState{
		CTM:         geom.Identity(),
		StrokeColor: geom.RGB{},
		FillColor:   geom.RGB{},
		LineWidth:   1,
		StrokeAlpha: 1,
		FillAlpha:   1,
	}
}

// Clone returns a deep-enough copy of gs suitable for pushing onto the
// stack: the TextState pointer, if set, is copied by value so mutations
// after the `q` don't leak into the saved snapshot.
func (gs GraphicsState) Clone() GraphicsState {
	clone := gs
	if gs.TextState != nil {
		ts := *gs.TextState
		clone.TextState = &ts
	}
	return clone
}

// Stack is the graphics-state stack pushed by `q`, popped by `Q`.
type Stack []GraphicsState

// Push appends gs.
func (s *Stack) Push(gs GraphicsState) { *s = append(*s, gs) }

// Pop removes and returns the top of the stack. Calling Pop on an empty
// stack (an unbalanced `Q`) returns the zero value; callers should check
// Len() first if they want to treat that as a soft failure.
func (s *Stack) Pop() GraphicsState {
	if len(*s) == 0 {
		return GraphicsState{}
	}
	gs := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return gs
}

// Len reports the stack depth.
func (s Stack) Len() int { return len(s) }
