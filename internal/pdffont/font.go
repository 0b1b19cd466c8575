/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package pdffont implements font resolution: turning a
// page's /Font resource dictionary into two callbacks the content
// interpreter needs per character code — advance width and resolved
// Unicode — for simple, Type0/CID, and CJK predefined-CMap fonts.
// Grounded on unidoc/unipdf's model/font.go, model/font_simple.go,
// model/font_composite.go and internal/cmap, simplified: this module
// consumes an already-decoded resource Value tree (backend.Value) rather
// than re-deriving indirect-reference resolution, which belongs to the
// backend.1.
package pdffont

import (
	"fmt"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/common"
	"github.com/unidoc/pdflayout/internal/pdferr"
	"github.com/unidoc/pdflayout/internal/resources"
)

// Font is the interpreter-facing font handle: char-code -> advance width
// (in glyph-space units, 1000 = 1 em) and char-code -> Unicode text.
type Font struct {
	Name        string // reported name, subset prefix stripped
	Ascent      float64
	Descent     float64
	IsCID       bool
	VerticalMode bool // true for -V CMap encodings or Identity-V

	decode  func(data []byte) (codes []uint32, byteLens []int)
	width   func(code uint32) float64
	unicode func(code uint32) (string, bool)
}

// Decode splits raw Tj/TJ string bytes into char codes (possibly
// multi-byte for CID fonts).
func (f *Font) Decode(data []byte) []uint32 {
	codes, _ := f.decode(data)
	return codes
}

// DecodeWithLengths is like Decode but also returns each code's byte
// length, used by callers that need to track byte offsets.
func (f *Font) DecodeWithLengths(data []byte) (codes []uint32, byteLens []int) {
	return f.decode(data)
}

// Width returns the glyph-space advance width for code (1000 units/em).
func (f *Font) Width(code uint32) float64 {
	return f.width(code)
}

// Unicode resolves code to text, possibly multiple codepoints.
func (f *Font) Unicode(code uint32) string {
	s, ok := f.unicode(code)
	if ok {
		return s
	}
	if code <= 0x10FFFF {
		return string(rune(code))
	}
	return ""
}

// defaultFont is used when a Tf operand names a font not present in page
// resources: advance 600, ascent 750, descent
// -250, one byte per code, code treated as a Unicode scalar.
func defaultFont(name string) *Font {
	return &Font{
		Name:   name,
		Ascent: 750,
		Descent: -250,
		decode: func(data []byte) ([]uint32, []int) {
			codes := make([]uint32, len(data))
			lens := make([]int, len(data))
			for i, b := range data {
				codes[i] = uint32(b)
				lens[i] = 1
			}
			return codes, lens
		},
		width: func(code uint32) float64 { return 600 },
		unicode: func(code uint32) (string, bool) {
			return string(rune(code)), true
		},
	}
}

// cacheKey scopes a cached Font to both its resource name and the
// resources.Chain it was resolved against, so a Form XObject that
// declares its own "/Font/F1" distinct from the page's "F1" doesn't
// collide with it in the cache.
type cacheKey struct {
	chain *resources.Chain
	name  string
}

// Cache resolves and memoizes Font handles by font resource name, the
// interpreter's "font cache keyed by font resource name". One
// Cache is shared across an entire page's interpretation, including
// recursion into Form XObjects.
type Cache struct {
	doc   backend.Document
	fonts map[cacheKey]*Font
	warn  func(msg, fontName string)
}

// NewCache returns an empty font cache bound to doc. warn, if non-nil, is
// called for soft font-resolution failures such as a missing font
// dictionary or a font whose metrics couldn't be extracted.
func NewCache(doc backend.Document, warn func(msg, fontName string)) *Cache {
	return &Cache{doc: doc, fonts: map[cacheKey]*Font{}, warn: warn}
}

// Get resolves resourceName (the operand of `Tf`) against res to a Font,
// loading and caching it lazily on first use.
func (c *Cache) Get(res *resources.Chain, resourceName string) *Font {
	key := cacheKey{chain: res, name: resourceName}
	if f, ok := c.fonts[key]; ok {
		return f
	}
	dictVal, ok := res.Lookup("Font", resourceName)
	if !ok || dictVal.Kind != backend.ValDict {
		if c.warn != nil {
			c.warn("font not found", resourceName)
		}
		f := defaultFont(resourceName)
		c.fonts[key] = f
		return f
	}
	f, err := c.load(dictVal)
	if err != nil {
		common.Log.Warning("font %s: %v", resourceName, err)
		if c.warn != nil {
			c.warn(err.Error(), resourceName)
		}
		f = defaultFont(resourceName)
	}
	f.Name = stripSubsetPrefix(baseFontName(dictVal, resourceName))
	c.fonts[key] = f
	return f
}

func baseFontName(dict backend.Value, fallback string) string {
	if bf, ok := dict.Dict["BaseFont"]; ok && bf.Kind == backend.ValName {
		return bf.Name
	}
	return fallback
}

// stripSubsetPrefix removes the "ABCDEF+" subset tag PDF writers prepend
// to embedded-subset BaseFont names, affecting only the reported font
// name.
func stripSubsetPrefix(name string) string {
	if len(name) >= 7 && name[6] == '+' {
		isTag := true
		for i := 0; i < 6; i++ {
			c := name[i]
			if c < 'A' || c > 'Z' {
				isTag = false
				break
			}
		}
		if isTag {
			return name[7:]
		}
	}
	return name
}

func (c *Cache) load(dict backend.Value) (*Font, error) {
	subtype := dictName(dict, "Subtype")
	switch subtype {
	case "Type0":
		return c.loadType0(dict)
	default:
		return c.loadSimple(dict)
	}
}

func dictName(v backend.Value, key string) string {
	if v.Kind != backend.ValDict {
		return ""
	}
	if e, ok := v.Dict[key]; ok && e.Kind == backend.ValName {
		return e.Name
	}
	return ""
}

func dictInt(v backend.Value, key string, def int64) int64 {
	if v.Kind != backend.ValDict {
		return def
	}
	if e, ok := v.Dict[key]; ok {
		if n, ok := e.Number(); ok {
			return int64(n)
		}
	}
	return def
}

func dictFloat(v backend.Value, key string, def float64) float64 {
	if v.Kind != backend.ValDict {
		return def
	}
	if e, ok := v.Dict[key]; ok {
		if n, ok := e.Number(); ok {
			return n
		}
	}
	return def
}

// errFont wraps msg into the structured FontError taxonomy.
func errFont(fontName, format string, args ...interface{}) error {
	return &pdferr.FontError{Msg: fmt.Sprintf(format, args...), FontName: fontName}
}
