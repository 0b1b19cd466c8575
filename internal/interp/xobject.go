/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package interp

import (
	"strconv"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/resources"
	"github.com/unidoc/pdflayout/internal/token"
)

// opDo handles `Do`: Form XObjects recurse into this interpreter with
// the CTM pre-multiplied by /Matrix and a child resources chain; Image
// XObjects emit an ImageEvent directly.
func (ip *interpreter) opDo(op token.Operator, res *resources.Chain, depth int) error {
	name, ok := nameArg(op, 0)
	if !ok {
		ip.warnOp(op, "Do: expected a name operand")
		return nil
	}
	xobj, ok := res.Lookup("XObject", name)
	if !ok || xobj.Kind != backend.ValDict {
		ip.warnOp(op, "Do: xobject %q not found in resources", name)
		return nil
	}
	switch dictName(xobj, "Subtype") {
	case "Form":
		return ip.doForm(op, res, xobj, depth)
	case "Image":
		ip.doImageXObject(op, name, xobj)
	default:
		ip.warnOp(op, "Do: xobject %q has unrecognized /Subtype", name)
	}
	return nil
}

func (ip *interpreter) doForm(op token.Operator, res *resources.Chain, xobj backend.Value, depth int) error {
	data, _, err := ip.doc.StreamData(xobj)
	if err != nil {
		ip.emitWarn(Warning{
			Description: "failed to read form xobject stream: " + err.Error(),
			Code:        "BadStream",
		})
		return nil
	}

	savedGS := ip.gs.Clone()
	savedStackLen := ip.stack.Len()

	if m, ok := xobj.Dict["Matrix"]; ok && m.Kind == backend.ValArray && len(m.Array) == 6 {
		vals := make([]float64, 6)
		allNum := true
		for i, e := range m.Array {
			n, ok := e.Number()
			if !ok {
				allNum = false
				break
			}
			vals[i] = n
		}
		if allNum {
			ip.gs.CTM = ip.gs.CTM.Mul(geom.NewMatrix(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]))
		}
	}

	childDict := backend.Value{}
	if r, ok := xobj.Dict["Resources"]; ok && r.Kind == backend.ValDict {
		childDict = r
	}
	childRes := res.Child(childDict)

	runErr := ip.run(childRes, data, depth+1)

	for ip.stack.Len() > savedStackLen {
		ip.stack.Pop()
	}
	ip.gs = savedGS

	return runErr
}

func (ip *interpreter) doImageXObject(op token.Operator, name string, xobj backend.Value) {
	data, filter, err := ip.doc.StreamData(xobj)
	if err != nil {
		ip.emitWarn(Warning{
			Description: "failed to read image xobject stream: " + err.Error(),
			Code:        "BadStream",
		})
	}
	ev := ImageEvent{
		Kind:             ImageXObject,
		Name:             name,
		CTM:              ip.gs.CTM,
		Width:            int(dictInt(xobj, "Width")),
		Height:           int(dictInt(xobj, "Height")),
		BitsPerComponent: int(dictInt(xobj, "BitsPerComponent")),
		ColorSpace:       imageColorSpaceName(xobj),
		Filter:           string(filter),
		OperatorIdx:      op.Index,
	}
	if ip.cfg.ExtractImageData {
		ev.Data = data
	}
	ip.handler.Image(ev)
}

func dictInt(v backend.Value, key string) int64 {
	if v.Kind != backend.ValDict {
		return 0
	}
	if e, ok := v.Dict[key]; ok {
		if n, ok := e.Number(); ok {
			return int64(n)
		}
	}
	return 0
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

func imageColorSpaceName(v backend.Value) string {
	cs, ok := v.Dict["ColorSpace"]
	if !ok {
		return ""
	}
	switch cs.Kind {
	case backend.ValName:
		return cs.Name
	case backend.ValArray:
		if len(cs.Array) > 0 && cs.Array[0].Kind == backend.ValName {
			return cs.Array[0].Name
		}
	}
	return ""
}

// inlineImageKeyAbbrevs maps BI dictionary abbreviated keys to their
// full names.
var inlineImageKeyAbbrevs = map[string]string{
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"D":   "Decode",
	"DP":  "DecodeParms",
	"F":   "Filter",
	"H":   "Height",
	"IM":  "ImageMask",
	"I":   "Interpolate",
	"L":   "Length",
	"W":   "Width",
}

var inlineImageColorSpaceAbbrevs = map[string]string{
	"G":    "DeviceGray",
	"RGB":  "DeviceRGB",
	"CMYK": "DeviceCMYK",
	"I":    "Indexed",
}

var inlineImageFilterAbbrevs = map[string]string{
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"LZW": "LZWDecode",
	"Fl":  "FlateDecode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
}

// opInlineImage handles the synthetic BI operator the tokenizer emits:
// its single operand is a dict-typed Operand carrying the inline image's
// key/value pairs plus the raw sample bytes in Str.
func (ip *interpreter) opInlineImage(op token.Operator) {
	if len(op.Operands) != 1 || op.Operands[0].Kind != token.KindDict {
		ip.warnOp(op, "BI: malformed inline image operand")
		return
	}
	dict := op.Operands[0].Dict

	get := func(key string) (token.Operand, bool) {
		if v, ok := dict[key]; ok {
			return v, true
		}
		if full, ok := inlineImageKeyAbbrevs[key]; ok {
			if v, ok := dict[full]; ok {
				return v, true
			}
		}
		for abbrev, full := range inlineImageKeyAbbrevs {
			if full == key {
				if v, ok := dict[abbrev]; ok {
					return v, true
				}
			}
		}
		return token.Operand{}, false
	}

	width, height, bpc := 0, 0, 8
	if v, ok := get("Width"); ok {
		if n, ok := v.Number(); ok {
			width = int(n)
		}
	}
	if v, ok := get("Height"); ok {
		if n, ok := v.Number(); ok {
			height = int(n)
		}
	}
	if v, ok := get("BitsPerComponent"); ok {
		if n, ok := v.Number(); ok {
			bpc = int(n)
		}
	}

	csName := ""
	if v, ok := get("ColorSpace"); ok && v.Kind == token.KindName {
		csName = v.Name
		if full, ok := inlineImageColorSpaceAbbrevs[csName]; ok {
			csName = full
		}
	}

	filterName := ""
	if v, ok := get("Filter"); ok {
		switch v.Kind {
		case token.KindName:
			filterName = v.Name
		case token.KindArray:
			if len(v.Array) > 0 && v.Array[0].Kind == token.KindName {
				filterName = v.Array[0].Name
			}
		}
		if full, ok := inlineImageFilterAbbrevs[filterName]; ok {
			filterName = full
		}
	}

	ev := ImageEvent{
		Kind:             ImageInline,
		Name:             inlineImageName(op.Index),
		CTM:              ip.gs.CTM,
		Width:            width,
		Height:           height,
		BitsPerComponent: bpc,
		ColorSpace:       csName,
		Filter:           filterName,
		OperatorIdx:      op.Index,
	}
	if ip.cfg.ExtractImageData {
		ev.Data = op.Operands[0].Str
	}
	ip.handler.Image(ev)
}

func inlineImageName(opIndex int) string {
	return "inline-" + strconv.Itoa(opIndex)
}
