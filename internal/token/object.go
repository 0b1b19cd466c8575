/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package token implements the content-stream tokenizer:
// raw, already-decompressed content-stream bytes in, an ordered list of
// Operator records with typed Operand trees out. Grounded on
// unidoc/unipdf's contentstream.ContentStreamParser, generalized to a
// typed-operand tree (name/string/hex-string decoding, nested arrays and
// dictionaries) rather than unipdf's core.PdfObject (which also has to
// represent indirect references that never occur inside a content stream).
package token

import "fmt"

// Kind tags an Operand's variant.
type Kind int

const (
	KindInt Kind = iota
	KindReal
	KindName
	KindString
	KindArray
	KindDict
	KindBool
	KindNull
)

// Operand is a single typed content-stream operand. Only one of the
// fields matching Kind is meaningful.
type Operand struct {
	Kind  Kind
	Int   int64
	Real  float64
	Name  string // leading '/' stripped, #xx escapes decoded
	Str   []byte // literal or hex string, decoded to raw bytes
	Array []Operand
	Dict  map[string]Operand
	Bool  bool
}

// Number returns the operand as a float64, accepting both KindInt and
// KindReal, and an ok flag for anything else.
func (o Operand) Number() (float64, bool) {
	switch o.Kind {
	case KindInt:
		return float64(o.Int), true
	case KindReal:
		return o.Real, true
	}
	return 0, false
}

func (o Operand) String() string {
	switch o.Kind {
	case KindInt:
		return fmt.Sprintf("%d", o.Int)
	case KindReal:
		return fmt.Sprintf("%g", o.Real)
	case KindName:
		return "/" + o.Name
	case KindString:
		return fmt.Sprintf("(%s)", string(o.Str))
	case KindArray:
		return fmt.Sprintf("%v", o.Array)
	case KindDict:
		return fmt.Sprintf("%v", o.Dict)
	case KindBool:
		return fmt.Sprintf("%t", o.Bool)
	default:
		return "null"
	}
}

// Operator is one content-stream instruction: a name (e.g. "BT", "Tf",
// "Tj") with its preceding operands in stream order. Index is the
// zero-based position of the operator within the stream, used for
// synthetic inline-image naming and in warnings.
type Operator struct {
	Name     string
	Operands []Operand
	Index    int
}
