/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdffont

import "github.com/unidoc/pdflayout/backend"

// loadSimple builds a Font for Type1/TrueType/MMType1/Type3 fonts: one
// byte per code, widths from /Widths (first/last-char indexed),
// ascent/descent from /FontDescriptor, Unicode resolution per the
// ToUnicode -> Encoding -> fallback chain.
func (c *Cache) loadSimple(dict backend.Value) (*Font, error) {
	firstChar := dictInt(dict, "FirstChar", 0)
	var widths []float64
	if wArr, ok := dict.Dict["Widths"]; ok && wArr.Kind == backend.ValArray {
		widths = make([]float64, len(wArr.Array))
		for i, e := range wArr.Array {
			if n, ok := e.Number(); ok {
				widths[i] = n
			}
		}
	}

	ascent, descent := 0.0, 0.0
	if fd, ok := dict.Dict["FontDescriptor"]; ok && fd.Kind == backend.ValDict {
		ascent = dictFloat(fd, "Ascent", 0)
		descent = dictFloat(fd, "Descent", 0)
	}
	if ascent == 0 && descent == 0 {
		// Missing FontDescriptor metrics: fall back to (1000, 0) so the
		// bbox spans baseline to baseline+font_size.
		ascent, descent = 1000, 0
	}

	missingWidth := 0.0
	if fd, ok := dict.Dict["FontDescriptor"]; ok {
		missingWidth = dictFloat(fd, "MissingWidth", 0)
	}

	widthFn := func(code uint32) float64 {
		idx := int64(code) - firstChar
		if idx >= 0 && int(idx) < len(widths) && widths[idx] != 0 {
			return widths[idx]
		}
		if missingWidth != 0 {
			return missingWidth
		}
		return 600
	}

	unicodeFn, err := c.buildSimpleUnicodeResolver(dict)
	if err != nil {
		return nil, err
	}

	return &Font{
		Ascent:  ascent,
		Descent: descent,
		decode: func(data []byte) ([]uint32, []int) {
			codes := make([]uint32, len(data))
			lens := make([]int, len(data))
			for i, b := range data {
				codes[i] = uint32(b)
				lens[i] = 1
			}
			return codes, lens
		},
		width:   widthFn,
		unicode: unicodeFn,
	}, nil
}

// buildSimpleUnicodeResolver implements a three-step resolution chain:
// ToUnicode CMap, then resolved Encoding (+Differences), then raw
// ASCII-range fallback.
func (c *Cache) buildSimpleUnicodeResolver(dict backend.Value) (func(uint32) (string, bool), error) {
	var toUnicode map[uint32]string
	if tu, ok := dict.Dict["ToUnicode"]; ok {
		cm, err := parseToUnicodeCMap(c.doc, tu)
		if err == nil {
			toUnicode = cm
		}
	}

	encTable, err := resolveSimpleEncoding(dict)
	if err != nil {
		// Soft failure: encoding couldn't be resolved, fall through to
		// the ToUnicode-only / raw-ASCII steps of the chain instead;
		// each step is tried in order and each is optional.
		encTable = nil
	}

	return func(code uint32) (string, bool) {
		if toUnicode != nil {
			if s, ok := toUnicode[code]; ok {
				return s, true
			}
		}
		if encTable != nil {
			if r, ok := encTable[code]; ok {
				return string(r), true
			}
		}
		if code < 128 {
			return string(rune(code)), true
		}
		return "", false
	}, nil
}

// resolveSimpleEncoding resolves /Encoding into a char-code -> rune table,
// handling both the standard-name form and the
// /BaseEncoding+/Differences dictionary form.
func resolveSimpleEncoding(dict backend.Value) (map[uint32]rune, error) {
	enc, ok := dict.Dict["Encoding"]
	if !ok {
		return cloneBaseEncoding(standardEncodingTable), nil
	}
	switch enc.Kind {
	case backend.ValName:
		return cloneBaseEncoding(baseEncodingByName(enc.Name)), nil
	case backend.ValDict:
		base := standardEncodingTable
		if be, ok := enc.Dict["BaseEncoding"]; ok && be.Kind == backend.ValName {
			base = baseEncodingByName(be.Name)
		}
		table := cloneBaseEncoding(base)
		if diffs, ok := enc.Dict["Differences"]; ok && diffs.Kind == backend.ValArray {
			applyDifferences(table, diffs.Array)
		}
		return table, nil
	default:
		return cloneBaseEncoding(standardEncodingTable), nil
	}
}

func baseEncodingByName(name string) map[uint32]rune {
	switch name {
	case "WinAnsiEncoding":
		return winAnsiEncodingTable
	case "MacRomanEncoding":
		return macRomanEncodingTable
	case "MacExpertEncoding":
		return macExpertEncodingTable
	case "StandardEncoding":
		return standardEncodingTable
	default:
		return standardEncodingTable
	}
}

func cloneBaseEncoding(src map[uint32]rune) map[uint32]rune {
	out := make(map[uint32]rune, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// applyDifferences applies a /Differences array: "[code1 /name1 /name2 ...
// codeN /nameN ...]" — each integer restarts a run of consecutive codes;
// names resolve through the glyph-name -> Unicode table.
func applyDifferences(table map[uint32]rune, arr []backend.Value) {
	code := uint32(0)
	for _, e := range arr {
		if n, ok := e.Number(); ok {
			code = uint32(n)
			continue
		}
		if e.Kind == backend.ValName {
			if r, ok := glyphNameToRune(e.Name); ok {
				table[code] = r
			}
			code++
		}
	}
}
