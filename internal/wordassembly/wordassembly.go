/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package wordassembly clusters materialized characters into words: a
// sweep over chars sorted by (doctop, x0) that attaches each
// char to the running word when it is close enough, on the same line,
// and (optionally) attribute-homogeneous with what came before. Grounded
// on the word/line sort-and-sweep shape of
// original_source/crates/pdfplumber-core/src/layout.rs's
// cluster_words_into_lines (the same sort key, the same "gap beyond
// tolerance starts a new group" rule, one dimension up: chars into words
// here, words into lines there).
package wordassembly

import (
	"sort"
	"strings"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/material"
)

// Options configures the clustering sweep.
type Options struct {
	XTolerance float64
	YTolerance float64

	// ExtraSeparators lists additional characters that, like a space,
	// force a word boundary. Unlike a space, the separator char is kept
	// as its own one-char word rather than dropped.
	ExtraSeparators string

	// Homogeneous requires consecutive chars to share font name, size,
	// fill color, stroke color, and direction to stay in the same word.
	Homogeneous bool

	// KeepBlankChars disables the default behavior of dropping space
	// characters at word boundaries, keeping each one as its own
	// one-char word instead.
	KeepBlankChars bool
}

// DefaultOptions returns this module's default tolerances.
func DefaultOptions() Options {
	return Options{XTolerance: 3, YTolerance: 3}
}

// Word is a cluster of adjacent, compatible characters.
type Word struct {
	Text     string
	BBox     geom.BBox
	DocTop   float64
	FontName string
	FontSize float64
	Vertical bool
	Chars    []material.Char
}

// Assemble clusters chars into words per opts. chars need not be
// pre-sorted; Assemble sorts a copy by (doctop, x0) before sweeping.
func Assemble(chars []material.Char, opts Options) []Word {
	if len(chars) == 0 {
		return nil
	}
	sorted := make([]material.Char, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DocTop != sorted[j].DocTop {
			return sorted[i].DocTop < sorted[j].DocTop
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var words []Word
	var current []material.Char

	flush := func() {
		if len(current) == 0 {
			return
		}
		words = append(words, buildWord(current))
		current = nil
	}

	for _, c := range sorted {
		if c.Text == " " {
			flush()
			if opts.KeepBlankChars {
				words = append(words, buildWord([]material.Char{c}))
			}
			continue
		}
		if strings.ContainsAny(c.Text, opts.ExtraSeparators) && opts.ExtraSeparators != "" {
			flush()
			words = append(words, buildWord([]material.Char{c}))
			continue
		}

		if len(current) == 0 {
			current = append(current, c)
			continue
		}

		prev := current[len(current)-1]
		if attaches(prev, c, opts) {
			current = append(current, c)
		} else {
			flush()
			current = append(current, c)
		}
	}
	flush()

	return words
}

// attaches reports whether c should join the word prev just ended: within
// x_tolerance of prev's right edge, on the same line within y_tolerance,
// and (if configured) attribute-homogeneous.
func attaches(prev, c material.Char, opts Options) bool {
	gap := c.BBox.X0 - prev.BBox.X1
	if gap > opts.XTolerance {
		return false
	}
	if absf(c.BBox.YMid()-prev.BBox.YMid()) > opts.YTolerance {
		return false
	}
	if opts.Homogeneous {
		if prev.FontName != c.FontName || prev.FontSize != c.FontSize {
			return false
		}
		if prev.FillColor != c.FillColor || prev.StrokeColor != c.StrokeColor {
			return false
		}
		if prev.Vertical != c.Vertical {
			return false
		}
	}
	return true
}

func buildWord(chars []material.Char) Word {
	var sb strings.Builder
	bbox := chars[0].BBox
	docTop := chars[0].DocTop
	for i, c := range chars {
		sb.WriteString(c.Text)
		if i > 0 {
			bbox = bbox.Union(c.BBox)
			if c.DocTop < docTop {
				docTop = c.DocTop
			}
		}
	}
	first := chars[0]
	return Word{
		Text:     sb.String(),
		BBox:     bbox,
		DocTop:   docTop,
		FontName: first.FontName,
		FontSize: first.FontSize,
		Vertical: first.Vertical,
		Chars:    chars,
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
