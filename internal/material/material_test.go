/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package material_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/interp"
	"github.com/unidoc/pdflayout/internal/material"
)

func TestMaterializeCharSimpleIdentity(t *testing.T) {
	ev := interp.CharEvent{
		Code:         'A',
		Text:         "A",
		FontSize:     12,
		Ascent:       718,
		Descent:      -207,
		Displacement: 8.004, // 667/1000 * 12
		Tm:           geom.Translation(100, 700),
		CTM:          geom.Identity(),
	}
	ctx := material.PageContext{Height: 792}

	chars := material.MaterializeChar(ev, ctx)
	require.Len(t, chars, 1)
	c := chars[0]
	require.Equal(t, "A", c.Text)

	// Glyph-space box: x in [0, 8.004], y in [-207/1000*12, 718/1000*12].
	// Translated by Tm (100,700), then y-flipped against a 792pt page:
	// top    = 792 - (700 + 718/1000*12) = 792 - 708.616 = 83.384
	// bottom = 792 - (700 - 207/1000*12) = 792 - 697.516 = 94.484
	require.InDelta(t, 100, c.BBox.X0, 1e-6)
	require.InDelta(t, 108.004, c.BBox.X1, 1e-6)
	require.InDelta(t, 83.384, c.BBox.Top, 1e-3)
	require.InDelta(t, 94.484, c.BBox.Bottom, 1e-3)
	require.InDelta(t, c.BBox.Top, c.DocTop, 1e-9)
}

func TestMaterializeCharDocTopAccumulatesPriorPages(t *testing.T) {
	ev := interp.CharEvent{
		Text: "x", FontSize: 10, Ascent: 1000, Descent: 0,
		Tm: geom.Identity(), CTM: geom.Identity(),
	}
	ctx := material.PageContext{Height: 100, DocTopBase: 500}
	chars := material.MaterializeChar(ev, ctx)
	require.Len(t, chars, 1)
	require.InDelta(t, chars[0].BBox.Top+500, chars[0].DocTop, 1e-9)
}

func TestMaterializeCharZeroAscentDescentUsesDefaultConvention(t *testing.T) {
	ev := interp.CharEvent{
		Text: "x", FontSize: 10, Ascent: 0, Descent: 0,
		Tm: geom.Identity(), CTM: geom.Identity(),
	}
	chars := material.MaterializeChar(ev, material.PageContext{Height: 100})
	require.Len(t, chars, 1)
	// ascent defaults to 1000, descent to 0: box spans baseline to
	// baseline+font_size, i.e. height == font_size.
	require.InDelta(t, 10, chars[0].BBox.Height(), 1e-9)
}

func TestMaterializeCharNFDExpandsIntoMultipleChars(t *testing.T) {
	ev := interp.CharEvent{
		Text: "é", // Latin small letter e with acute, precomposed
		FontSize: 10, Ascent: 1000, Descent: 0,
		Tm: geom.Identity(), CTM: geom.Identity(),
	}
	chars := material.MaterializeChar(ev, material.PageContext{Height: 100, Norm: material.NormNFD})
	require.Len(t, chars, 2)
	require.Equal(t, chars[0].BBox, chars[1].BBox)
	require.Equal(t, chars[0].DocTop, chars[1].DocTop)
}

func TestMaterializeCharNoneLeavesTextComposed(t *testing.T) {
	ev := interp.CharEvent{
		Text: "é", FontSize: 10, Ascent: 1000, Descent: 0,
		Tm: geom.Identity(), CTM: geom.Identity(),
	}
	chars := material.MaterializeChar(ev, material.PageContext{Height: 100})
	require.Len(t, chars, 1)
	require.Equal(t, "é", chars[0].Text)
}

func TestMaterializeShapesLine(t *testing.T) {
	pp := geom.PaintedPath{
		Segments: []geom.PathSegment{
			{Kind: geom.SegMoveTo, X: 10, Y: 10},
			{Kind: geom.SegLineTo, X: 110, Y: 10},
		},
		CTM:    geom.Identity(),
		Stroke: true,
	}
	lines, rects, curves := material.MaterializeShapes(interp.PathEvent{Path: pp}, 200)
	require.Len(t, lines, 1)
	require.Empty(t, rects)
	require.Empty(t, curves)
	require.Equal(t, geom.Horizontal, lines[0].Orientation)
}

func TestMaterializeShapesRect(t *testing.T) {
	pp := geom.PaintedPath{
		Segments: []geom.PathSegment{
			{Kind: geom.SegMoveTo, X: 10, Y: 10},
			{Kind: geom.SegLineTo, X: 110, Y: 10},
			{Kind: geom.SegLineTo, X: 110, Y: 60},
			{Kind: geom.SegLineTo, X: 10, Y: 60},
			{Kind: geom.SegClose},
		},
		CTM:  geom.Identity(),
		Fill: true,
	}
	lines, rects, curves := material.MaterializeShapes(interp.PathEvent{Path: pp}, 200)
	require.Empty(t, lines)
	require.Len(t, rects, 1)
	require.Empty(t, curves)
	require.InDelta(t, 100, rects[0].BBox.Width(), 1e-6)
	require.InDelta(t, 50, rects[0].BBox.Height(), 1e-6)
}

func TestMaterializeShapesCurve(t *testing.T) {
	pp := geom.PaintedPath{
		Segments: []geom.PathSegment{
			{Kind: geom.SegMoveTo, X: 0, Y: 0},
			{Kind: geom.SegCubicCurve, C1X: 0, C1Y: 10, C2X: 10, C2Y: 10, EndX: 10, EndY: 0},
		},
		CTM:    geom.Identity(),
		Stroke: true,
	}
	lines, rects, curves := material.MaterializeShapes(interp.PathEvent{Path: pp}, 200)
	require.Empty(t, lines)
	require.Empty(t, rects)
	require.Len(t, curves, 1)
	require.NotEmpty(t, curves[0].Points)
}

func TestMaterializeImageUnitSquareTransform(t *testing.T) {
	ev := interp.ImageEvent{
		Kind:   interp.ImageXObject,
		Name:   "Im1",
		CTM:    geom.NewMatrix(100, 0, 0, 50, 10, 20),
		Width:  64,
		Height: 32,
	}
	img := material.MaterializeImage(ev, material.PageContext{Height: 100})
	// Unit square corners map to (10,20),(110,20),(10,70),(110,70);
	// y-flip against height 100: top=100-70=30, bottom=100-20=80.
	require.InDelta(t, 10, img.BBox.X0, 1e-6)
	require.InDelta(t, 110, img.BBox.X1, 1e-6)
	require.InDelta(t, 30, img.BBox.Top, 1e-6)
	require.InDelta(t, 80, img.BBox.Bottom, 1e-6)
	require.Equal(t, 64, img.Width)
}
