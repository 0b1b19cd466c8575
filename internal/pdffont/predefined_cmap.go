/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdffont

import "strings"

// Registry identifies one of the four CJK character collections 
// names: Japan1, GB1, CNS1, Korea1. Adobe's predefined CMaps (GBK-EUC-H,
// UniJIS-UTF16-V, ...) are keyed by an Adobe-<Registry>-<Supplement> CID
// system, and the byte layout of a predefined CMap's source codes is
// determined by its registry family.
type Registry int

const (
	RegistryUnknown Registry = iota
	RegistryJapan1
	RegistryGB1
	RegistryCNS1
	RegistryKorea1
)

// isPredefinedCMapName reports whether name looks like one of Adobe's
// predefined CMap names (e.g. "GBK-EUC-H", "UniJIS-UTF16-V",
// "UniGB-UCS2-H") rather than Identity-H/V or a custom embedded CMap
// stream.
func isPredefinedCMapName(name string) bool {
	switch {
	case name == "", name == "Identity-H", name == "Identity-V":
		return false
	default:
		return true
	}
}

func hasVerticalSuffix(name string) bool {
	return strings.HasSuffix(name, "-V")
}

// predefinedCMapRegistry classifies a predefined CMap name into its CJK
// registry family by the conventional substrings Adobe uses in its CMap
// resource names.
func predefinedCMapRegistry(name string) Registry {
	switch {
	case strings.Contains(name, "Japan1") || strings.HasPrefix(name, "UniJIS") || strings.HasPrefix(name, "83pv") || strings.HasPrefix(name, "90ms") || strings.HasPrefix(name, "90pv") || strings.HasPrefix(name, "EUC-H") || strings.HasPrefix(name, "EUC-V") || strings.HasPrefix(name, "H") || strings.HasPrefix(name, "V") || strings.HasPrefix(name, "RKSJ"):
		return RegistryJapan1
	case strings.Contains(name, "GB1") || strings.HasPrefix(name, "GBK") || strings.HasPrefix(name, "GBpc") || strings.HasPrefix(name, "UniGB"):
		return RegistryGB1
	case strings.Contains(name, "CNS1") || strings.HasPrefix(name, "B5") || strings.HasPrefix(name, "ETen") || strings.HasPrefix(name, "UniCNS"):
		return RegistryCNS1
	case strings.Contains(name, "Korea1") || strings.HasPrefix(name, "KSC") || strings.HasPrefix(name, "UniKS"):
		return RegistryKorea1
	default:
		return RegistryUnknown
	}
}

// variableLengthDecoder returns a byte-stream splitter, keyed by
// registry family, for a predefined CMap encoding: it splits the byte
// stream into 1- or 2-byte codes. Real Adobe predefined CMaps ship
// detailed codespacerange tables per encoding; absent the bundled CMap
// resource data (a large external asset, out of scope for font *file*
// parsing here), this module applies the documented convention shared
// by the EUC-family encodings for every registry: bytes below 0x80 are
// single-byte codes (ASCII/Latin transparency), bytes at or above 0x80
// start a two-byte code. UTF16-family encodings (UniJIS-UTF16-H
// etc.) are always two-byte and are detected by name.
func variableLengthDecoder(reg Registry) func([]byte) ([]uint32, []int) {
	return func(data []byte) ([]uint32, []int) {
		var codes []uint32
		var lens []int
		for i := 0; i < len(data); {
			if data[i] < 0x80 {
				codes = append(codes, uint32(data[i]))
				lens = append(lens, 1)
				i++
				continue
			}
			if i+1 < len(data) {
				codes = append(codes, uint32(data[i])<<8|uint32(data[i+1]))
				lens = append(lens, 2)
				i += 2
				continue
			}
			codes = append(codes, uint32(data[i]))
			lens = append(lens, 1)
			i++
		}
		return codes, lens
	}
}

// predefinedCMapUnicode always returns nil: resolving predefined-CMap code
// points that lack a /ToUnicode entry needs the bundled Adobe CMap
// registry -> Unicode resource data, which this core does not ship.
// Callers that need those code points resolved without an explicit
// /ToUnicode stream should supply one via a custom backend.Document that
// synthesizes it; Cache.Get never treats a nil table here as an error.
func predefinedCMapUnicode(reg Registry) map[uint32]string {
	return nil
}
