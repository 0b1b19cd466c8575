/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package table reconstructs tabular structure from ruling lines or text
// alignment: edge selection by strategy, length filtering,
// snapping, joining, intersection enumeration, cell assembly, and
// union-find table grouping. Grounded directly on
// original_source/crates/pdfplumber-core/src/table.rs, keeping that
// file's pipeline order and tolerance-parameter names.
package table

import (
	"math"

	"github.com/unidoc/pdflayout/internal/geom"
)

// Strategy selects how edges are derived before the shared pipeline runs.
type Strategy int

const (
	Lattice Strategy = iota
	LatticeStrict
	Stream
	Explicit
)

// ExplicitLines is the caller-supplied coordinate grid for Strategy
// Explicit.
type ExplicitLines struct {
	HorizontalLines []float64 // y-coordinates
	VerticalLines   []float64 // x-coordinates
}

// Settings configures the pipeline. All tolerances default to 3.0,
// matching the values pdfplumber carries forward and the original
// system reuses.
type Settings struct {
	Strategy Strategy

	SnapXTolerance float64
	SnapYTolerance float64

	JoinXTolerance float64
	JoinYTolerance float64

	EdgeMinLength float64

	MinWordsVertical   int
	MinWordsHorizontal int

	TextXTolerance float64
	TextYTolerance float64

	IntersectionXTolerance float64
	IntersectionYTolerance float64

	ExplicitLines *ExplicitLines
}

// DefaultSettings returns this module's default tolerances with Strategy
// Lattice.
func DefaultSettings() Settings {
	return Settings{
		Strategy:               Lattice,
		SnapXTolerance:         3,
		SnapYTolerance:         3,
		JoinXTolerance:         3,
		JoinYTolerance:         3,
		EdgeMinLength:          3,
		MinWordsVertical:       3,
		MinWordsHorizontal:     1,
		TextXTolerance:         3,
		TextYTolerance:         3,
		IntersectionXTolerance: 3,
		IntersectionYTolerance: 3,
	}
}

// EdgeSource records where an Edge came from, so LatticeStrict can filter
// to line-only edges and Explicit can mix detected and caller-supplied
// edges.
type EdgeSource int

const (
	EdgeSourceLine EdgeSource = iota
	EdgeSourceRect
	EdgeSourceStream
	EdgeSourceExplicit
)

// Edge is a horizontal, vertical, or diagonal segment feeding the table
// pipeline, derived from a painted line, a painted rect's side, a
// text-alignment cluster, or an explicit coordinate.
type Edge struct {
	X0, Top, X1, Bottom float64
	Orientation         geom.Orientation
	Source              EdgeSource
}

func (e Edge) length() float64 {
	dx := e.X1 - e.X0
	dy := e.Bottom - e.Top
	return math.Sqrt(dx*dx + dy*dy)
}

// Cell is a detected table cell: a rectangular region bounded by edges on
// all four sides, with optional extracted text.
type Cell struct {
	BBox geom.BBox
	Text *string
}

// Table is a group of cells connected by shared edges, organized into
// rows and columns for convenient access.
type Table struct {
	BBox    geom.BBox
	Cells   []Cell
	Rows    [][]Cell
	Columns [][]Cell
}
