/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdffont

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Glyph-name resolution. Grounded
// on unidoc/unipdf's internal/textencoding.IdentityEncoder.GlyphToRune:
// the "uniXXXX" convention plus a small table of named glyphs that aren't
// simple ASCII. Rather than hand-roll unipdf's full embedded Adobe Glyph
// List, the common named glyphs are wired directly and the "uniXXXX" /
// "uXXXX" escape covers the long tail, which is how PDF producers encode
// anything outside the common set anyway.
var namedGlyphs = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@', "bracketleft": '[', "backslash": '\\',
	"bracketright": ']', "asciicircum": '^', "underscore": '_',
	"grave": '`', "braceleft": '{', "bar": '|', "braceright": '}',
	"asciitilde": '~', "quoteleft": '‘', "quoteright": '’',
	"quotedblleft": '“', "quotedblright": '”', "bullet": '•',
	"endash": '–', "emdash": '—', "ellipsis": '…',
	"dagger": '†', "daggerdbl": '‡', "fi": 'ﬁ', "fl": 'ﬂ',
	"trademark": '™', "copyright": '©', "registered": '®',
	"degree": '°', "Euro": '€', "nbspace": ' ',
	"florin": 'ƒ', "section": '§', "paragraph": '¶',
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		namedGlyphs[string(c)] = c
	}
	for c := 'a'; c <= 'z'; c++ {
		namedGlyphs[string(c)] = c
	}
}

// glyphNameToRune resolves a PDF glyph name to Unicode, per the chain the
// teacher's IdentityEncoder.GlyphToRune uses: the named-glyph table first,
// then the "uniXXXX"/"uXXXX" escape convention.
func glyphNameToRune(glyph string) (rune, bool) {
	if r, ok := namedGlyphs[glyph]; ok {
		return r, true
	}
	if strings.HasPrefix(glyph, "uni") && len(glyph) == 7 {
		if v, err := strconv.ParseUint(glyph[3:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if strings.HasPrefix(glyph, "u") && len(glyph) >= 5 && len(glyph) <= 7 {
		if v, err := strconv.ParseUint(glyph[1:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	return 0, false
}

// Base-encoding byte->rune tables. WinAnsiEncoding and
// MacRomanEncoding are built from golang.org/x/text/encoding/charmap's
// Windows1252/Macintosh tables, which differ from the PDF-spec encodings
// only in a handful of control-range codepoints PDF content never emits
// as text; StandardEncoding/MacExpertEncoding (far rarer in the wild) use
// an ASCII-range passthrough, falling back to ToUnicode/Differences for
// anything outside it.
var (
	winAnsiEncodingTable  = charmapTable(charmap.Windows1252)
	macRomanEncodingTable = charmapTable(charmap.Macintosh)
	standardEncodingTable = asciiPassthroughTable()
	macExpertEncodingTable = asciiPassthroughTable()
)

func charmapTable(cm *charmap.Charmap) map[uint32]rune {
	table := make(map[uint32]rune, 256)
	for b := 0; b < 256; b++ {
		r := cm.DecodeByte(byte(b))
		if r != 0 || b == 0 {
			table[uint32(b)] = r
		}
	}
	return table
}

func asciiPassthroughTable() map[uint32]rune {
	table := make(map[uint32]rune, 128)
	for b := uint32(0x20); b < 0x7F; b++ {
		table[b] = rune(b)
	}
	return table
}
