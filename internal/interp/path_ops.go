/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package interp

import (
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/token"
)

func (ip *interpreter) opM(op token.Operator) {
	x, okx := num(op, 0)
	y, oky := num(op, 1)
	if !okx || !oky {
		ip.warnOp(op, "m: expected 2 numeric operands")
		return
	}
	ip.pb.moveTo(ip.gs.CTM, x, y)
	ip.curX, ip.curY = x, y
	ip.subStartX, ip.subStartY = x, y
}

func (ip *interpreter) opL(op token.Operator) {
	x, okx := num(op, 0)
	y, oky := num(op, 1)
	if !okx || !oky {
		ip.warnOp(op, "l: expected 2 numeric operands")
		return
	}
	ip.pb.lineTo(ip.gs.CTM, x, y)
	ip.curX, ip.curY = x, y
}

func (ip *interpreter) opC(op token.Operator) {
	if len(op.Operands) != 6 {
		ip.warnOp(op, "c: expected 6 numeric operands, got %d", len(op.Operands))
		return
	}
	v := make([]float64, 6)
	for i := range v {
		n, ok := op.Operands[i].Number()
		if !ok {
			ip.warnOp(op, "c: operand %d is not numeric", i)
			return
		}
		v[i] = n
	}
	ip.pb.curveTo(ip.gs.CTM, v[0], v[1], v[2], v[3], v[4], v[5])
	ip.curX, ip.curY = v[4], v[5]
}

// opV handles `v`: first control point equals the current point.
func (ip *interpreter) opV(op token.Operator) {
	if len(op.Operands) != 4 {
		ip.warnOp(op, "v: expected 4 numeric operands, got %d", len(op.Operands))
		return
	}
	v := make([]float64, 4)
	for i := range v {
		n, ok := op.Operands[i].Number()
		if !ok {
			ip.warnOp(op, "v: operand %d is not numeric", i)
			return
		}
		v[i] = n
	}
	ip.pb.curveTo(ip.gs.CTM, ip.curX, ip.curY, v[0], v[1], v[2], v[3])
	ip.curX, ip.curY = v[2], v[3]
}

// opY handles `y`: second control point equals the endpoint.
func (ip *interpreter) opY(op token.Operator) {
	if len(op.Operands) != 4 {
		ip.warnOp(op, "y: expected 4 numeric operands, got %d", len(op.Operands))
		return
	}
	v := make([]float64, 4)
	for i := range v {
		n, ok := op.Operands[i].Number()
		if !ok {
			ip.warnOp(op, "y: operand %d is not numeric", i)
			return
		}
		v[i] = n
	}
	ip.pb.curveTo(ip.gs.CTM, v[0], v[1], v[2], v[3], v[2], v[3])
	ip.curX, ip.curY = v[2], v[3]
}

func (ip *interpreter) opRe(op token.Operator) {
	if len(op.Operands) != 4 {
		ip.warnOp(op, "re: expected 4 numeric operands, got %d", len(op.Operands))
		return
	}
	v := make([]float64, 4)
	for i := range v {
		n, ok := op.Operands[i].Number()
		if !ok {
			ip.warnOp(op, "re: operand %d is not numeric", i)
			return
		}
		v[i] = n
	}
	ip.pb.rect(ip.gs.CTM, v[0], v[1], v[2], v[3])
	ip.curX, ip.curY = v[0], v[1]
	ip.subStartX, ip.subStartY = v[0], v[1]
}

// paintSpec describes one painting operator's effect on stroke/fill/rule
// and whether it implicitly closes the current subpath first (`s`, `b`,
// `b*` are `h` plus their unsuffixed counterpart).
type paintSpec struct {
	close  bool
	stroke bool
	fill   bool
	rule   geom.FillRule
	discard bool
}

var paintSpecs = map[string]paintSpec{
	"S":  {stroke: true},
	"s":  {close: true, stroke: true},
	"f":  {fill: true, rule: geom.NonZeroWinding},
	"F":  {fill: true, rule: geom.NonZeroWinding},
	"f*": {fill: true, rule: geom.EvenOdd},
	"B":  {stroke: true, fill: true, rule: geom.NonZeroWinding},
	"B*": {stroke: true, fill: true, rule: geom.EvenOdd},
	"b":  {close: true, stroke: true, fill: true, rule: geom.NonZeroWinding},
	"b*": {close: true, stroke: true, fill: true, rule: geom.EvenOdd},
	"n":  {discard: true},
}

func (ip *interpreter) paint(op token.Operator) {
	spec, ok := paintSpecs[op.Name]
	if !ok {
		return
	}
	if spec.close {
		ip.pb.close(ip.gs.CTM)
		ip.curX, ip.curY = ip.subStartX, ip.subStartY
	}
	if ip.pb.empty() {
		return
	}
	if spec.discard {
		ip.pb.flush(false, false, geom.NonZeroWinding, 0, geom.RGB{}, geom.RGB{}, geom.DashPattern{}, 0, 0)
		return
	}
	painted := ip.pb.flush(spec.stroke, spec.fill, spec.rule, ip.gs.LineWidth,
		ip.gs.StrokeColor, ip.gs.FillColor, ip.gs.Dash, ip.gs.StrokeAlpha, ip.gs.FillAlpha)
	ip.handler.Path(PathEvent{Path: painted})
}
