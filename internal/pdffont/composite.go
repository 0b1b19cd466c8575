/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdffont

import (
	"strings"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/common"
)

// loadType0 builds a Font for a Type0/CID composite font: Identity-H/V or
// an Adobe-<Registry>-<Supplement> predefined encoding, widths from the
// descendant CIDFont's /W array, and the ToUnicode -> predefined-CMap ->
// (subset-stripped name only) resolution chain.
func (c *Cache) loadType0(dict backend.Value) (*Font, error) {
	encName := dictName(dict, "Encoding")

	descendants, _ := dict.Dict["DescendantFonts"]
	var cidFont backend.Value
	if descendants.Kind == backend.ValArray && len(descendants.Array) > 0 {
		cidFont = descendants.Array[0]
	}

	dw := dictFloat(cidFont, "DW", 1000)
	widths := parseCIDWidths(cidFont, dw)

	vertical := false
	var decodeFn func([]byte) ([]uint32, []int)
	switch {
	case encName == "Identity-H" || encName == "Identity-V":
		vertical = encName == "Identity-V"
		decodeFn = decodeTwoByteBE
	case isPredefinedCMapName(encName):
		registry := predefinedCMapRegistry(encName)
		vertical = hasVerticalSuffix(encName)
		if strings.Contains(encName, "UTF16") {
			decodeFn = decodeTwoByteBE
		} else {
			decodeFn = variableLengthDecoder(registry)
		}
	default:
		// Unrecognized encoding: fall back to Identity-H's two-byte
		// decoding, the most common composite-font shape, and emit a
		// warning via the caller's log rather than hard-failing, the
		// same fail-soft policy this core applies to font resolution
		// generally when a font can't be fully resolved.
		common.Log.Warning("unrecognized Type0 /Encoding %q, assuming Identity-H", encName)
		decodeFn = decodeTwoByteBE
	}

	widthFn := func(code uint32) float64 {
		cid := code
		if w, ok := widths[cid]; ok {
			return w
		}
		return dw
	}
	var toUnicode map[uint32]string
	if tu, ok := dict.Dict["ToUnicode"]; ok {
		if cm, err := parseToUnicodeCMap(c.doc, tu); err == nil {
			toUnicode = cm
		}
	}
	predefinedUnicode := map[uint32]string(nil)
	if isPredefinedCMapName(encName) {
		predefinedUnicode = predefinedCMapUnicode(predefinedCMapRegistry(encName))
	}

	unicodeFn := func(code uint32) (string, bool) {
		if toUnicode != nil {
			if s, ok := toUnicode[code]; ok {
				return s, true
			}
		}
		if predefinedUnicode != nil {
			if s, ok := predefinedUnicode[code]; ok {
				return s, true
			}
		}
		return "", false
	}

	return &Font{
		IsCID:        true,
		VerticalMode: vertical,
		decode:       decodeFn,
		width:        widthFn,
		unicode:      unicodeFn,
	}, nil
}

func decodeTwoByteBE(data []byte) ([]uint32, []int) {
	n := len(data) / 2
	codes := make([]uint32, 0, n)
	lens := make([]int, 0, n)
	for i := 0; i+1 < len(data); i += 2 {
		codes = append(codes, uint32(data[i])<<8|uint32(data[i+1]))
		lens = append(lens, 2)
	}
	if len(data)%2 == 1 {
		codes = append(codes, uint32(data[len(data)-1]))
		lens = append(lens, 1)
	}
	return codes, lens
}

// parseCIDWidths decodes the descendant CIDFont's /W array: a token
// stream where each "c [w1 w2 ... wN]" assigns widths sequentially
// starting at CID c, and each "c_first c_last w" assigns w to every CID in
// [c_first, c_last].
func parseCIDWidths(cidFont backend.Value, dw float64) map[uint32]float64 {
	out := map[uint32]float64{}
	wArr, ok := cidFont.Dict["W"]
	if !ok || wArr.Kind != backend.ValArray {
		return out
	}
	items := wArr.Array
	i := 0
	for i < len(items) {
		firstN, ok := items[i].Number()
		if !ok {
			i++
			continue
		}
		first := uint32(firstN)
		if i+1 >= len(items) {
			break
		}
		if items[i+1].Kind == backend.ValArray {
			for j, w := range items[i+1].Array {
				if wv, ok := w.Number(); ok {
					out[first+uint32(j)] = wv
				}
			}
			i += 2
			continue
		}
		lastN, ok1 := items[i+1].Number()
		if !ok1 || i+2 >= len(items) {
			i += 2
			continue
		}
		wN, ok2 := items[i+2].Number()
		if !ok2 {
			i += 3
			continue
		}
		for cid := first; cid <= uint32(lastN); cid++ {
			out[cid] = wN
		}
		i += 3
	}
	return out
}

