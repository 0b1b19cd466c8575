/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package interp

import (
	"fmt"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/pdferr"
	"github.com/unidoc/pdflayout/internal/pdffont"
	"github.com/unidoc/pdflayout/internal/resources"
	"github.com/unidoc/pdflayout/internal/state"
	"github.com/unidoc/pdflayout/internal/token"
)

// defaultMaxRecursionDepth mirrors unipdf's maxFormStack: the Form
// XObject nesting depth at which recursion is treated as a hard failure
// rather than a plausible (if unusual) document structure.
const defaultMaxRecursionDepth = 20

// Config configures one Run of the content interpreter.
type Config struct {
	// MaxRecursionDepth bounds Form XObject nesting. <= 0
	// selects defaultMaxRecursionDepth.
	MaxRecursionDepth int
	// ExtractImageData, if true, populates ImageEvent.Data with the raw
	// stream bytes; otherwise only metadata is reported (
	// ExtractOptions.extract_image_data).
	ExtractImageData bool
	// BaseCTM seeds the page's initial CTM: the page facade composes the
	// MediaBox-origin translation and rotation normalization into it
	// before the first operator runs (state.NewGraphicsState's CTM is
	// always identity; callers compose the page's base matrix
	// separately). The zero Matrix (all six fields zero, never a valid
	// transform) means "no base matrix" and selects identity.
	BaseCTM geom.Matrix
}

// Run interprets content against res (the page's resolved resources
// dictionary) and delivers events to handler in stream order. It
// returns a hard error only for two categories: tokenizer parse
// failures and recursion past MaxRecursionDepth. Everything else is
// reported to handler.Warn and interpretation continues.
func Run(doc backend.Document, res *resources.Chain, content []byte, handler Handler, cfg Config) error {
	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = defaultMaxRecursionDepth
	}
	ip := &interpreter{
		doc:     doc,
		handler: handler,
		cfg:     cfg,
		gs:      state.NewGraphicsState(),
		pb:      newPathBuilder(),
	}
	if cfg.BaseCTM != (geom.Matrix{}) {
		ip.gs.CTM = cfg.BaseCTM
	}
	ip.fonts = pdffont.NewCache(doc, func(msg, fontName string) {
		ip.emitWarn(Warning{Description: msg, FontName: fontName, Code: "MissingFont"})
	})
	return ip.run(res, content, 0)
}

// markedContentEntry is one frame of the BMC/BDC/EMC stack.
type markedContentEntry struct {
	tag  string
	mcid *int
}

type interpreter struct {
	doc     backend.Document
	handler Handler
	cfg     Config
	fonts   *pdffont.Cache

	gs    state.GraphicsState
	stack state.Stack
	pb    *pathBuilder
	mc    []markedContentEntry

	curFont *pdffont.Font

	// curX/curY/subStartX/subStartY track the current point and current
	// subpath's start point in path space, the bookkeeping `v`, `y`, `h`
	// and `re` need that the path builder itself (which only records
	// absolute segment coordinates) does not keep.
	curX, curY           float64
	subStartX, subStartY float64
}

func (ip *interpreter) run(res *resources.Chain, content []byte, depth int) error {
	if depth > ip.cfg.MaxRecursionDepth {
		return &pdferr.InterpreterError{
			Msg: fmt.Sprintf("form xobject recursion exceeded max depth %d", ip.cfg.MaxRecursionDepth),
		}
	}
	ops, err := token.NewTokenizer(content).Tokenize()
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := ip.exec(op, res, depth); err != nil {
			return err
		}
	}
	return nil
}

func (ip *interpreter) emitWarn(w Warning) {
	if ip.handler != nil {
		ip.handler.Warn(w)
	}
}

func (ip *interpreter) warnOp(op token.Operator, format string, args ...interface{}) {
	idx := op.Index
	ip.emitWarn(Warning{
		Description:  fmt.Sprintf(format, args...),
		OperatorIdx:  &idx,
		OperatorName: op.Name,
	})
}

func (ip *interpreter) exec(op token.Operator, res *resources.Chain, depth int) error {
	switch op.Name {
	// Graphics state.
	case "q":
		ip.stack.Push(ip.gs.Clone())
	case "Q":
		if ip.stack.Len() == 0 {
			ip.warnOp(op, "unbalanced Q: graphics state stack is empty")
			return nil
		}
		ip.gs = ip.stack.Pop()
	case "cm":
		ip.opCm(op)
	case "w":
		if v, ok := num(op, 0); ok {
			ip.gs.LineWidth = v
		} else {
			ip.warnOp(op, "w: expected 1 numeric operand")
		}
	case "d":
		ip.opDash(op)
	case "gs":
		ip.opExtGState(op, res)
	case "J", "j", "M", "i", "ri":
		// Parsed and ignored: line cap/join/miter-limit/flatness/render
		// intent have no observable effect on extracted geometry.

	// Color.
	case "G":
		ip.gs.StrokeColor = colorFromComponents(nums(op))
	case "g":
		ip.gs.FillColor = colorFromComponents(nums(op))
	case "RG":
		ip.gs.StrokeColor = colorFromComponents(nums(op))
	case "rg":
		ip.gs.FillColor = colorFromComponents(nums(op))
	case "K":
		ip.gs.StrokeColor = colorFromComponents(nums(op))
	case "k":
		ip.gs.FillColor = colorFromComponents(nums(op))
	case "CS", "cs", "SC", "sc":
		// CS/cs name the current color space, SC/sc set a color in it
		// without a pattern name operand; since component count alone
		// determines gray/RGB/CMYK conversion, the named
		// space itself only matters for Pattern/Separation/ICC spaces,
		// which this core silently leaves unresolved.
		if op.Name == "SC" {
			ip.gs.StrokeColor = colorFromComponents(nums(op))
		} else if op.Name == "sc" {
			ip.gs.FillColor = colorFromComponents(nums(op))
		}
	case "SCN":
		if c := nums(op); len(c) > 0 {
			ip.gs.StrokeColor = colorFromComponents(c)
		}
	case "scn":
		if c := nums(op); len(c) > 0 {
			ip.gs.FillColor = colorFromComponents(c)
		}

	// Text state.
	case "BT":
		ts := state.NewTextState()
		ip.gs.TextState = &ts
	case "ET":
		ip.gs.TextState = nil
	case "Tf":
		ip.opTf(op, res)
	case "Tm":
		ip.opTm(op)
	case "Td":
		ip.opTd(op)
	case "TD":
		ip.opTD(op)
	case "T*":
		if ts, ok := ip.textState(op); ok {
			ip.textNewline(ts)
		}
	case "Tc":
		if ts, ok := ip.textState(op); ok {
			if v, ok := num(op, 0); ok {
				ts.CharSpacing = v
			}
		}
	case "Tw":
		if ts, ok := ip.textState(op); ok {
			if v, ok := num(op, 0); ok {
				ts.WordSpacing = v
			}
		}
	case "Tz":
		if ts, ok := ip.textState(op); ok {
			if v, ok := num(op, 0); ok {
				ts.HorizScaling = v
			}
		}
	case "TL":
		if ts, ok := ip.textState(op); ok {
			if v, ok := num(op, 0); ok {
				ts.Leading = v
			}
		}
	case "Tr":
		if ts, ok := ip.textState(op); ok {
			if v, ok := num(op, 0); ok {
				ts.RenderMode = state.RenderMode(int(v))
			}
		}
	case "Ts":
		if ts, ok := ip.textState(op); ok {
			if v, ok := num(op, 0); ok {
				ts.Rise = v
			}
		}

	// Text showing.
	case "Tj":
		ip.opTj(op)
	case "TJ":
		ip.opTJArray(op)
	case "'":
		ip.opQuote(op)
	case "\"":
		ip.opDoubleQuote(op)

	// Path construction.
	case "m":
		ip.opM(op)
	case "l":
		ip.opL(op)
	case "c":
		ip.opC(op)
	case "v":
		ip.opV(op)
	case "y":
		ip.opY(op)
	case "re":
		ip.opRe(op)
	case "h":
		ip.pb.close(ip.gs.CTM)
		ip.curX, ip.curY = ip.subStartX, ip.subStartY

	// Painting.
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
		ip.paint(op)

	// XObjects and inline images.
	case "Do":
		return ip.opDo(op, res, depth)
	case "BI":
		ip.opInlineImage(op)

	// Clipping: no-ops, clipping is not enforced during extraction.
	case "W", "W*":

	// Marked content.
	case "BMC":
		name, _ := nameArg(op, 0)
		ip.mc = append(ip.mc, markedContentEntry{tag: name})
	case "BDC":
		name, _ := nameArg(op, 0)
		ip.mc = append(ip.mc, markedContentEntry{tag: name, mcid: ip.resolveMCID(op, res)})
	case "EMC":
		if len(ip.mc) == 0 {
			ip.warnOp(op, "unbalanced EMC: marked content stack is empty")
		} else {
			ip.mc = ip.mc[:len(ip.mc)-1]
		}
	case "MP", "DP":
		// Point markers: no observable effect on extracted geometry.

	default:
		ip.warnOp(op, "unknown operator %q", op.Name)
	}
	return nil
}

func (ip *interpreter) opCm(op token.Operator) {
	if len(op.Operands) != 6 {
		ip.warnOp(op, "cm: expected 6 numeric operands, got %d", len(op.Operands))
		return
	}
	vals := make([]float64, 6)
	for i := range vals {
		v, ok := op.Operands[i].Number()
		if !ok {
			ip.warnOp(op, "cm: operand %d is not numeric", i)
			return
		}
		vals[i] = v
	}
	m := geom.NewMatrix(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	// Pre-multiply: new CTM = m x old CTM.
	ip.gs.CTM = ip.gs.CTM.Mul(m)
}

func (ip *interpreter) opDash(op token.Operator) {
	if len(op.Operands) != 2 || op.Operands[0].Kind != token.KindArray {
		ip.warnOp(op, "d: expected [array] phase")
		return
	}
	var arr []float64
	for _, e := range op.Operands[0].Array {
		if v, ok := e.Number(); ok {
			arr = append(arr, v)
		}
	}
	phase, _ := op.Operands[1].Number()
	ip.gs.Dash = geom.DashPattern{Array: arr, Phase: phase}
}

// opExtGState applies the subset of an ExtGState dictionary this core
// tracks (/ca, /CA, /LW); unrecognized keys are silently ignored.
func (ip *interpreter) opExtGState(op token.Operator, res *resources.Chain) {
	name, ok := nameArg(op, 0)
	if !ok {
		ip.warnOp(op, "gs: expected a name operand")
		return
	}
	dict, ok := res.Lookup("ExtGState", name)
	if !ok || dict.Kind != backend.ValDict {
		return
	}
	if v, ok := dict.Dict["ca"]; ok {
		if n, ok := v.Number(); ok {
			ip.gs.FillAlpha = n
		}
	}
	if v, ok := dict.Dict["CA"]; ok {
		if n, ok := v.Number(); ok {
			ip.gs.StrokeAlpha = n
		}
	}
	if v, ok := dict.Dict["LW"]; ok {
		if n, ok := v.Number(); ok {
			ip.gs.LineWidth = n
		}
	}
}

func colorFromComponents(c []float64) geom.RGB {
	switch len(c) {
	case 1:
		return geom.RGB{R: c[0], G: c[0], B: c[0]}
	case 3:
		return geom.RGB{R: c[0], G: c[1], B: c[2]}
	case 4:
		k := c[3]
		return geom.RGB{
			R: (1 - c[0]) * (1 - k),
			G: (1 - c[1]) * (1 - k),
			B: (1 - c[2]) * (1 - k),
		}
	default:
		return geom.RGB{}
	}
}

// nums collects every numeric operand of op, skipping non-numeric ones
// (e.g. a trailing Pattern name operand on scn).
func nums(op token.Operator) []float64 {
	out := make([]float64, 0, len(op.Operands))
	for _, o := range op.Operands {
		if n, ok := o.Number(); ok {
			out = append(out, n)
		}
	}
	return out
}

func num(op token.Operator, i int) (float64, bool) {
	if i < 0 || i >= len(op.Operands) {
		return 0, false
	}
	return op.Operands[i].Number()
}

func nameArg(op token.Operator, i int) (string, bool) {
	if i < 0 || i >= len(op.Operands) || op.Operands[i].Kind != token.KindName {
		return "", false
	}
	return op.Operands[i].Name, true
}

func strArg(op token.Operator, i int) ([]byte, bool) {
	if i < 0 || i >= len(op.Operands) || op.Operands[i].Kind != token.KindString {
		return nil, false
	}
	return op.Operands[i].Str, true
}

// textState returns the current text state, warning if called outside a
// BT/ET block.
func (ip *interpreter) textState(op token.Operator) (*state.TextState, bool) {
	if ip.gs.TextState == nil {
		ip.warnOp(op, "%s used outside BT/ET", op.Name)
		return nil, false
	}
	return ip.gs.TextState, true
}

func (ip *interpreter) resolveMCID(op token.Operator, res *resources.Chain) *int {
	if len(op.Operands) < 2 {
		return nil
	}
	props := op.Operands[1]
	var dict map[string]token.Operand
	switch props.Kind {
	case token.KindDict:
		dict = props.Dict
	case token.KindName:
		v, ok := res.Lookup("Properties", props.Name)
		if !ok || v.Kind != backend.ValDict {
			return nil
		}
		if m, ok := v.Dict["MCID"]; ok {
			if n, ok := m.Number(); ok {
				id := int(n)
				return &id
			}
		}
		return nil
	default:
		return nil
	}
	if m, ok := dict["MCID"]; ok {
		if n, ok := m.Number(); ok {
			id := int(n)
			return &id
		}
	}
	return nil
}

func (ip *interpreter) currentTag() string {
	if len(ip.mc) == 0 {
		return ""
	}
	return ip.mc[len(ip.mc)-1].tag
}

func (ip *interpreter) currentMCID() *int {
	for i := len(ip.mc) - 1; i >= 0; i-- {
		if ip.mc[i].mcid != nil {
			return ip.mc[i].mcid
		}
	}
	return nil
}
