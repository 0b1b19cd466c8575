/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdflayout

import (
	"github.com/unidoc/pdflayout/internal/material"
	"github.com/unidoc/pdflayout/internal/table"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

// UnicodeNorm selects the normalization form applied to extracted char
// text.
type UnicodeNorm = material.UnicodeNorm

const (
	NormNone = material.NormNone
	NormNFC  = material.NormNFC
	NormNFKC = material.NormNFKC
	NormNFD  = material.NormNFD
	NormNFKD = material.NormNFKD
)

// ExtractOptions configures document opening and page extraction. Zero
// values of the numeric budgets mean "unlimited" except where noted.
type ExtractOptions struct {
	// MaxRecursionDepth bounds Form XObject nesting. <= 0 selects the
	// interpreter's built-in default (20).
	MaxRecursionDepth int
	// MaxPages rejects documents with more pages than this at open
	// time. <= 0 means unlimited.
	MaxPages int
	// MaxInputBytes rejects raw document bytes larger than this at open
	// time. <= 0 means unlimited.
	MaxInputBytes int64
	// MaxTotalObjects and MaxTotalImageBytes are cumulative,
	// document-wide budgets checked after each page extracts: the update
	// is fetch-add followed by a threshold check, so exceeding the
	// budget is reported deterministically even under concurrency.
	// <= 0 means unlimited.
	MaxTotalObjects    int64
	MaxTotalImageBytes int64

	// CollectWarnings controls whether Page.Warnings() is populated.
	// Per the fail-soft invariant, disabling this must not
	// change any extracted char/shape/image value.
	CollectWarnings bool
	// ExtractImageData, if true, populates Image.Data with the raw
	// stream bytes.
	ExtractImageData bool

	UnicodeNorm UnicodeNorm
}

// DefaultExtractOptions returns the module's defaults: no budgets, warning
// collection on, image data off, no normalization.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		MaxRecursionDepth: 20,
		CollectWarnings:   true,
	}
}

// TextOptions configures Page.ExtractText. Layout off uses a
// simple y-cluster-and-join; Layout on runs the full line/column/block
// pipeline. Zero tolerances select the pipeline's own defaults (3, 10, 10).
type TextOptions struct {
	Layout     bool
	YTolerance float64
	YDensity   float64
	XDensity   float64
}

// DefaultTextOptions returns Layout on with the layout pipeline's default
// tolerances.
func DefaultTextOptions() TextOptions {
	return TextOptions{Layout: true, YTolerance: 3, YDensity: 10, XDensity: 10}
}

// WordOptions configures Page.ExtractWords.
type WordOptions struct {
	XTolerance float64
	YTolerance float64
	// KeepBlankChars disables the usual behavior of dropping space
	// characters at word boundaries, keeping them as their own word
	// instead.
	KeepBlankChars bool
	// ExtraAttrs names additional attributes beyond font/size/color that
	// must match for two chars to share a word. This module's word
	// assembly enforces attribute homogeneity as a single on/off switch
	// rather than per-attribute selection (see DESIGN.md): a non-empty
	// ExtraAttrs enables homogeneity checking in full.
	ExtraAttrs []string
	// SplitAtPunctuation, when non-empty, lists characters that force a
	// word boundary and are kept as their own one-character word; empty
	// means off.
	SplitAtPunctuation string
}

// DefaultWordOptions returns the default tolerances (3, 3) with no
// extra homogeneity attributes and no punctuation splitting.
func DefaultWordOptions() WordOptions {
	return WordOptions{XTolerance: 3, YTolerance: 3}
}

func (o WordOptions) toInternal() wordassembly.Options {
	opts := wordassembly.Options{
		XTolerance:      nz(o.XTolerance, 3),
		YTolerance:      nz(o.YTolerance, 3),
		ExtraSeparators: o.SplitAtPunctuation,
		Homogeneous:     len(o.ExtraAttrs) > 0,
		KeepBlankChars:  o.KeepBlankChars,
	}
	return opts
}

// Strategy selects how table edges are derived.
type Strategy = table.Strategy

const (
	Lattice       = table.Lattice
	LatticeStrict = table.LatticeStrict
	Stream        = table.Stream
	Explicit      = table.Explicit
)

// ExplicitLines is the caller-supplied coordinate grid for Strategy
// Explicit.
type ExplicitLines = table.ExplicitLines

// TableSettings configures Page.FindTables/ExtractTables.
// This is a direct alias of the table pipeline's own settings type: the
// public shape and the pipeline's internal shape are identical, so there
// is nothing for a wrapper type to add.
type TableSettings = table.Settings

// DefaultTableSettings returns the default tolerances (all 3.0,
// MinWordsVertical 3, MinWordsHorizontal 1) with Strategy Lattice.
func DefaultTableSettings() TableSettings {
	return table.DefaultSettings()
}

// SearchOptions configures Page.Search.
type SearchOptions struct {
	// Regex treats pattern as a regular expression; otherwise pattern is
	// matched literally.
	Regex bool
	CaseSensitive bool
	// Layout selects which text rendering Search runs against (same
	// meaning as TextOptions.Layout).
	Layout bool
}

// DefaultSearchOptions returns literal, case-insensitive search over
// layout-rendered text.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{Layout: true}
}

// DedupeOptions configures Page.DedupeChars.
type DedupeOptions struct {
	// CentroidEpsilon is the maximum bbox-centroid distance (in points,
	// each axis independently) for two identical-text chars to be
	// considered the same glyph.
	CentroidEpsilon float64
}

// DefaultDedupeOptions returns a small epsilon appropriate for
// overprinted text (the common source of exact-duplicate chars).
func DefaultDedupeOptions() DedupeOptions {
	return DedupeOptions{CentroidEpsilon: 0.5}
}

func nz(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
