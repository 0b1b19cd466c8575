/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdffont

import (
	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/token"
)

// A CMap stream is PostScript-flavored rather than a content stream, but
// its tokens — keywords, hex strings, names, arrays, numbers — are the
// same shapes the content-stream tokenizer already parses,
// so this module reuses internal/token.Tokenizer instead of writing a
// second tokenizer: everything between a "begin*range"/"begin*char" and
// its matching "end*" accumulates as the terminating keyword's operand
// list, exactly like operands accumulate before a content-stream
// operator. Grounded on unidoc/unipdf's internal/cmap (CMap.parse,
// parseBfchar, parseBfrange, parseCIDRange), simplified to the subset
// this package actually needs: bfchar/bfrange -> Unicode, cidchar/cidrange
// -> CID, codespacerange widths.
func parseToUnicodeCMap(doc backend.Document, tuVal backend.Value) (map[uint32]string, error) {
	data, _, err := doc.StreamData(tuVal)
	if err != nil {
		return nil, err
	}
	ops, err := token.NewTokenizer(data).Tokenize()
	if err != nil {
		return nil, err
	}
	out := map[uint32]string{}
	for _, op := range ops {
		switch op.Name {
		case "endbfchar":
			for i := 0; i+1 < len(op.Operands); i += 2 {
				code, ok := codeFromOperand(op.Operands[i])
				if !ok {
					continue
				}
				text, ok := textFromOperand(op.Operands[i+1])
				if ok {
					out[code] = text
				}
			}
		case "endbfrange":
			for i := 0; i+2 < len(op.Operands); i += 3 {
				lo, ok1 := codeFromOperand(op.Operands[i])
				hi, ok2 := codeFromOperand(op.Operands[i+1])
				if !ok1 || !ok2 || hi < lo {
					continue
				}
				dst := op.Operands[i+2]
				if dst.Kind == token.KindArray {
					for j, elem := range dst.Array {
						code := lo + uint32(j)
						if code > hi {
							break
						}
						if text, ok := textFromOperand(elem); ok {
							out[code] = text
						}
					}
					continue
				}
				base, ok := textFromOperand(dst)
				if !ok || len(base) == 0 {
					continue
				}
				runes := []rune(base)
				last := runes[len(runes)-1]
				for code := lo; code <= hi; code++ {
					runes[len(runes)-1] = last + rune(code-lo)
					out[code] = string(runes)
				}
			}
		}
	}
	return out, nil
}

func codeFromOperand(o token.Operand) (uint32, bool) {
	if o.Kind != token.KindString {
		return 0, false
	}
	var v uint32
	for _, b := range o.Str {
		v = v<<8 | uint32(b)
	}
	return v, true
}

func textFromOperand(o token.Operand) (string, bool) {
	if o.Kind != token.KindString {
		return "", false
	}
	// UTF-16BE per the PDF spec's ToUnicode convention.
	if len(o.Str)%2 != 0 {
		return string(o.Str), true
	}
	runes := make([]uint16, 0, len(o.Str)/2)
	for i := 0; i+1 < len(o.Str); i += 2 {
		runes = append(runes, uint16(o.Str[i])<<8|uint16(o.Str[i+1]))
	}
	return utf16Decode(runes), true
}

func utf16Decode(units []uint16) string {
	out := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			u2 := units[i+1]
			if u2 >= 0xDC00 && u2 <= 0xDFFF {
				r := (rune(u-0xD800)<<10 | rune(u2-0xDC00)) + 0x10000
				out = append(out, r)
				i++
				continue
			}
		}
		out = append(out, rune(u))
	}
	return string(out)
}
