/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package interp

import (
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/resources"
	"github.com/unidoc/pdflayout/internal/state"
	"github.com/unidoc/pdflayout/internal/token"
)

func (ip *interpreter) opTf(op token.Operator, res *resources.Chain) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	name, nameOk := nameArg(op, 0)
	size, sizeOk := num(op, 1)
	if !nameOk || !sizeOk {
		ip.warnOp(op, "Tf: expected /name size")
		return
	}
	ts.FontName = name
	ts.FontSize = size
	ip.curFont = ip.fonts.Get(res, name)
}

func (ip *interpreter) opTm(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	if len(op.Operands) != 6 {
		ip.warnOp(op, "Tm: expected 6 numeric operands, got %d", len(op.Operands))
		return
	}
	vals := make([]float64, 6)
	for i := range vals {
		v, ok := op.Operands[i].Number()
		if !ok {
			ip.warnOp(op, "Tm: operand %d is not numeric", i)
			return
		}
		vals[i] = v
	}
	m := geom.NewMatrix(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	ts.Tm = m
	ts.Tlm = m
}

// textTd implements the Td primitive shared by Td/TD/T*/'': pre-multiply
// a translation into the text-line matrix, then copy it to the text
// matrix.
func (ip *interpreter) textTd(ts *state.TextState, tx, ty float64) {
	translation := geom.Translation(tx, ty)
	ts.Tlm = ts.Tlm.Mul(translation)
	ts.Tm = ts.Tlm
}

func (ip *interpreter) textNewline(ts *state.TextState) {
	ip.textTd(ts, 0, -ts.Leading)
}

func (ip *interpreter) opTd(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	tx, okx := num(op, 0)
	ty, oky := num(op, 1)
	if !okx || !oky {
		ip.warnOp(op, "Td: expected 2 numeric operands")
		return
	}
	ip.textTd(ts, tx, ty)
}

func (ip *interpreter) opTD(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	tx, okx := num(op, 0)
	ty, oky := num(op, 1)
	if !okx || !oky {
		ip.warnOp(op, "TD: expected 2 numeric operands")
		return
	}
	ts.Leading = -ty
	ip.textTd(ts, tx, ty)
}

func (ip *interpreter) opTj(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	s, ok := strArg(op, 0)
	if !ok {
		ip.warnOp(op, "Tj: expected a string operand")
		return
	}
	ip.showString(s, ts, op)
}

func (ip *interpreter) opTJArray(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	if len(op.Operands) != 1 || op.Operands[0].Kind != token.KindArray {
		ip.warnOp(op, "TJ: expected an array operand")
		return
	}
	for _, el := range op.Operands[0].Array {
		switch el.Kind {
		case token.KindString:
			ip.showString(el.Str, ts, op)
		default:
			if n, ok := el.Number(); ok {
				ip.advanceByAdjustment(ts, n)
			}
		}
	}
}

func (ip *interpreter) opQuote(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	s, ok := strArg(op, 0)
	if !ok {
		ip.warnOp(op, "': expected a string operand")
		return
	}
	ip.textNewline(ts)
	ip.showString(s, ts, op)
}

func (ip *interpreter) opDoubleQuote(op token.Operator) {
	ts, ok := ip.textState(op)
	if !ok {
		return
	}
	aw, ok1 := num(op, 0)
	ac, ok2 := num(op, 1)
	s, ok3 := strArg(op, 2)
	if !ok1 || !ok2 || !ok3 {
		ip.warnOp(op, "\": expected aw ac (string) operands")
		return
	}
	ts.WordSpacing = aw
	ts.CharSpacing = ac
	ip.textNewline(ts)
	ip.showString(s, ts, op)
}

// advanceByAdjustment applies a TJ numeric element: a positioning
// adjustment in thousandths of text space units, positive moving left
// (tightening), negative moving right.
func (ip *interpreter) advanceByAdjustment(ts *state.TextState, adj float64) {
	tx := -(adj / 1000.0) * ts.FontSize * (ts.HorizScaling / 100.0)
	if ip.curFont != nil && ip.curFont.VerticalMode {
		ts.Tm = ts.Tm.Mul(geom.Translation(0, tx))
		return
	}
	ts.Tm = ts.Tm.Mul(geom.Translation(tx, 0))
}

// showString renders one Tj/TJ string operand: every decoded char code
// emits a CharEvent carrying the raw ascent/descent/displacement/font
// size inputs materialization needs, then advances the
// text matrix by that glyph's displacement.
func (ip *interpreter) showString(data []byte, ts *state.TextState, op token.Operator) {
	font := ip.curFont
	if font == nil {
		ip.warnOp(op, "text shown with no font selected by Tf")
		return
	}
	codes, lens := font.DecodeWithLengths(data)
	hScale := ts.HorizScaling / 100.0
	for i, code := range codes {
		byteLen := 1
		if i < len(lens) {
			byteLen = lens[i]
		}
		w := font.Width(code)
		wordSpacing := 0.0
		if byteLen == 1 && code == 32 {
			wordSpacing = ts.WordSpacing
		}
		displacement := ((w/1000.0)*ts.FontSize + ts.CharSpacing + wordSpacing) * hScale

		ip.handler.Char(CharEvent{
			Code:         code,
			Text:         font.Unicode(code),
			Font:         font,
			FontName:     font.Name,
			FontSize:     ts.FontSize,
			Ascent:       font.Ascent,
			Descent:      font.Descent,
			Displacement: displacement,
			Rise:         ts.Rise,
			Tm:           ts.Tm,
			CTM:          ip.gs.CTM,
			StrokeColor:  ip.gs.StrokeColor,
			FillColor:    ip.gs.FillColor,
			RenderMode:   ts.RenderMode,
			Vertical:     font.VerticalMode,
			MCID:         ip.currentMCID(),
			Tag:          ip.currentTag(),
			OperatorIdx:  op.Index,
		})

		if font.VerticalMode {
			ts.Tm = ts.Tm.Mul(geom.Translation(0, -displacement))
		} else {
			ts.Tm = ts.Tm.Mul(geom.Translation(displacement, 0))
		}
	}
}
