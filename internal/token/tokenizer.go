/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package token

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/pdflayout/internal/pdferr"
)

// Tokenizer walks raw, decompressed content-stream bytes and produces an
// ordered list of Operator records. It is single-pass and stateless
// between calls to Tokenize: running it twice on the same bytes yields
// byte-identical output.
type Tokenizer struct {
	r      *bufio.Reader
	offset int64
}

// NewTokenizer returns a Tokenizer over data.
func NewTokenizer(data []byte) *Tokenizer {
	return &Tokenizer{r: bufio.NewReader(bytes.NewReader(append(data, '\n')))}
}

// Tokenize consumes the whole stream and returns the operator list.
func (t *Tokenizer) Tokenize() ([]Operator, error) {
	var ops []Operator
	var pending []Operand
	idx := 0
	for {
		obj, isOperator, name, err := t.parseObject()
		if err != nil {
			if err == io.EOF {
				return ops, nil
			}
			return ops, err
		}
		if isOperator {
			op := Operator{Name: name, Operands: pending, Index: idx}
			idx++
			pending = nil
			if name == "BI" {
				img, err := t.parseInlineImage()
				if err != nil {
					return ops, err
				}
				op.Operands = []Operand{img}
			}
			ops = append(ops, op)
			continue
		}
		pending = append(pending, obj)
	}
}

func (t *Tokenizer) parseErr(format string, args ...interface{}) error {
	return &pdferr.ParseError{Msg: fmt.Sprintf(format, args...), Offset: t.offset}
}

func (t *Tokenizer) readByte() (byte, error) {
	b, err := t.r.ReadByte()
	if err == nil {
		t.offset++
	}
	return b, err
}

func isWhitespace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (t *Tokenizer) skipWhitespaceAndComments() error {
	for {
		bb, err := t.r.Peek(1)
		if err != nil {
			return err
		}
		if isWhitespace(bb[0]) {
			t.readByte()
			continue
		}
		if bb[0] == '%' {
			for {
				b, err := t.readByte()
				if err != nil {
					return err
				}
				if b == '\r' || b == '\n' {
					break
				}
			}
			continue
		}
		return nil
	}
}

// parseObject reads the next token: either an operand value (isOperator
// false) or a bare keyword that is not a recognized value type, which is
// treated as an operator name (isOperator true).
func (t *Tokenizer) parseObject() (Operand, bool, string, error) {
	if err := t.skipWhitespaceAndComments(); err != nil {
		return Operand{}, false, "", err
	}
	bb, err := t.r.Peek(1)
	if err != nil {
		return Operand{}, false, "", err
	}
	switch {
	case bb[0] == '/':
		name, err := t.parseName()
		return Operand{Kind: KindName, Name: name}, false, "", err
	case bb[0] == '(':
		s, err := t.parseLiteralString()
		return Operand{Kind: KindString, Str: s}, false, "", err
	case bb[0] == '<':
		two, _ := t.r.Peek(2)
		if len(two) == 2 && two[1] == '<' {
			d, err := t.parseDict()
			return Operand{Kind: KindDict, Dict: d}, false, "", err
		}
		s, err := t.parseHexString()
		return Operand{Kind: KindString, Str: s}, false, "", err
	case bb[0] == '[':
		a, err := t.parseArray()
		return Operand{Kind: KindArray, Array: a}, false, "", err
	case bb[0] == '+' || bb[0] == '-' || bb[0] == '.' || (bb[0] >= '0' && bb[0] <= '9'):
		return t.parseNumber()
	default:
		word, err := t.readKeyword()
		if err != nil && word == "" {
			return Operand{}, false, "", err
		}
		switch word {
		case "true":
			return Operand{Kind: KindBool, Bool: true}, false, "", nil
		case "false":
			return Operand{Kind: KindBool, Bool: false}, false, "", nil
		case "null":
			return Operand{Kind: KindNull}, false, "", nil
		case "":
			// A lone unexpected delimiter byte: skip it, tolerant of noise.
			t.readByte()
			return t.parseObject()
		default:
			return Operand{}, true, word, nil
		}
	}
}

func (t *Tokenizer) readKeyword() (string, error) {
	var sb strings.Builder
	for {
		bb, err := t.r.Peek(1)
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if isWhitespace(bb[0]) || isDelimiter(bb[0]) {
			break
		}
		b, _ := t.readByte()
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

func (t *Tokenizer) parseName() (string, error) {
	b, _ := t.readByte() // consume '/'
	_ = b
	var sb strings.Builder
	for {
		bb, err := t.r.Peek(1)
		if err != nil {
			break
		}
		if isWhitespace(bb[0]) || isDelimiter(bb[0]) {
			break
		}
		if bb[0] == '#' {
			hx, err := t.r.Peek(3)
			if err == nil && len(hx) == 3 {
				code, derr := hex.DecodeString(string(hx[1:3]))
				if derr == nil {
					t.r.Discard(3)
					t.offset += 3
					sb.Write(code)
					continue
				}
			}
		}
		b, _ := t.readByte()
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

func (t *Tokenizer) parseNumber() (Operand, bool, string, error) {
	var sb strings.Builder
	isReal := false
	for {
		bb, err := t.r.Peek(1)
		if err != nil {
			break
		}
		c := bb[0]
		if c == '+' || c == '-' || (c >= '0' && c <= '9') {
			b, _ := t.readByte()
			sb.WriteByte(b)
			continue
		}
		if c == '.' {
			isReal = true
			b, _ := t.readByte()
			sb.WriteByte(b)
			continue
		}
		if c == 'e' || c == 'E' {
			isReal = true
			b, _ := t.readByte()
			sb.WriteByte(b)
			continue
		}
		break
	}
	str := sb.String()
	if isReal {
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return Operand{}, false, "", t.parseErr("malformed number %q", str)
		}
		return Operand{Kind: KindReal, Real: v}, false, "", nil
	}
	v, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		// Fall back to float parsing for odd-but-seen forms like "12.".
		f, ferr := strconv.ParseFloat(str, 64)
		if ferr != nil {
			return Operand{}, false, "", t.parseErr("malformed number %q", str)
		}
		return Operand{Kind: KindReal, Real: f}, false, "", nil
	}
	return Operand{Kind: KindInt, Int: v}, false, "", nil
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

func (t *Tokenizer) parseLiteralString() ([]byte, error) {
	t.readByte() // consume '('
	var out []byte
	depth := 1
	for {
		b, err := t.readByte()
		if err != nil {
			return out, t.parseErr("unterminated literal string")
		}
		switch b {
		case '\\':
			n, err := t.readByte()
			if err != nil {
				return out, t.parseErr("unterminated escape in literal string")
			}
			if isOctalDigit(n) {
				digits := []byte{n}
				for i := 0; i < 2; i++ {
					peek, err := t.r.Peek(1)
					if err != nil || !isOctalDigit(peek[0]) {
						break
					}
					b2, _ := t.readByte()
					digits = append(digits, b2)
				}
				code, _ := strconv.ParseUint(string(digits), 8, 32)
				out = append(out, byte(code))
				continue
			}
			switch n {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, n)
			case '\r':
				// line continuation \<CR> or \<CR><LF>: drop
				peek, err := t.r.Peek(1)
				if err == nil && peek[0] == '\n' {
					t.readByte()
				}
			case '\n':
				// line continuation \<LF>: drop
			default:
				out = append(out, n)
			}
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				return out, nil
			}
			out = append(out, b)
		default:
			out = append(out, b)
		}
	}
}

func (t *Tokenizer) parseHexString() ([]byte, error) {
	t.readByte() // consume '<'
	var hexDigits []byte
	for {
		b, err := t.readByte()
		if err != nil {
			return nil, t.parseErr("unterminated hex string")
		}
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, t.parseErr("invalid hex digit %q in hex string", b)
		}
		hexDigits = append(hexDigits, b)
	}
	if len(hexDigits)%2 == 1 {
		hexDigits = append(hexDigits, '0')
	}
	out := make([]byte, len(hexDigits)/2)
	if _, err := hex.Decode(out, hexDigits); err != nil {
		return nil, t.parseErr("invalid hex string: %v", err)
	}
	return out, nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (t *Tokenizer) parseArray() ([]Operand, error) {
	t.readByte() // consume '['
	var out []Operand
	for {
		if err := t.skipWhitespaceAndComments(); err != nil {
			return out, t.parseErr("unterminated array")
		}
		bb, err := t.r.Peek(1)
		if err != nil {
			return out, t.parseErr("unterminated array")
		}
		if bb[0] == ']' {
			t.readByte()
			return out, nil
		}
		obj, isOperator, word, err := t.parseObject()
		if err != nil {
			return out, err
		}
		if isOperator {
			return out, t.parseErr("unexpected keyword %q inside array", word)
		}
		out = append(out, obj)
	}
}

func (t *Tokenizer) parseDict() (map[string]Operand, error) {
	t.r.Discard(2) // consume '<<'
	t.offset += 2
	out := map[string]Operand{}
	for {
		if err := t.skipWhitespaceAndComments(); err != nil {
			return out, t.parseErr("unterminated dictionary")
		}
		two, err := t.r.Peek(2)
		if err == nil && len(two) == 2 && two[0] == '>' && two[1] == '>' {
			t.r.Discard(2)
			t.offset += 2
			return out, nil
		}
		keyObj, isOperator, word, err := t.parseObject()
		if err != nil {
			return out, err
		}
		if isOperator || keyObj.Kind != KindName {
			return out, t.parseErr("expected dictionary key, got %q", word)
		}
		valObj, isOperator, word, err := t.parseObject()
		if err != nil {
			return out, err
		}
		if isOperator {
			return out, t.parseErr("expected dictionary value, got keyword %q", word)
		}
		out[keyObj.Name] = valObj
	}
}

// parseInlineImage handles the BI...ID...EI special case:
// parse a dictionary's worth of key/value pairs until the bare ID
// keyword followed by a single whitespace byte, then scan for EI
// preceded by whitespace, capturing the raw bytes between as the image
// data. It returns a single dict-typed Operand whose Str field carries
// the raw bytes, mirroring unipdf's approach of stashing
// the inline image as a single synthetic operand.
func (t *Tokenizer) parseInlineImage() (Operand, error) {
	dict := map[string]Operand{}
	for {
		if err := t.skipWhitespaceAndComments(); err != nil {
			return Operand{}, t.parseErr("unterminated inline image dictionary")
		}
		word, err := t.peekKeyword()
		if err == nil && word == "ID" {
			t.readKeyword() // consume "ID"
			break
		}
		keyObj, isOperator, word, err := t.parseObject()
		if err != nil {
			return Operand{}, err
		}
		if isOperator || keyObj.Kind != KindName {
			return Operand{}, t.parseErr("expected inline image key, got %q", word)
		}
		valObj, isOperator, word, err := t.parseObject()
		if err != nil {
			return Operand{}, err
		}
		if isOperator {
			return Operand{}, t.parseErr("expected inline image value, got keyword %q", word)
		}
		dict[keyObj.Name] = valObj
	}
	// ID is followed by exactly one whitespace byte, then raw data.
	if _, err := t.readByte(); err != nil {
		return Operand{}, t.parseErr("truncated inline image after ID")
	}
	data, err := t.scanUntilEI()
	if err != nil {
		return Operand{}, err
	}
	return Operand{Kind: KindDict, Dict: dict, Str: data}, nil
}

// scanUntilEI copies bytes until it finds "EI" preceded by a whitespace
// byte and followed by whitespace or EOF, returning everything before
// that whitespace byte as the image payload.
func (t *Tokenizer) scanUntilEI() ([]byte, error) {
	var data []byte
	for {
		b, err := t.readByte()
		if err != nil {
			return nil, t.parseErr("unterminated inline image: missing EI")
		}
		data = append(data, b)
		if len(data) < 3 {
			continue
		}
		n := len(data)
		if data[n-2] == 'E' && data[n-1] == 'I' && isWhitespace(data[n-3]) {
			next, err := t.r.Peek(1)
			if err != nil || isWhitespace(next[0]) || isDelimiter(next[0]) {
				return data[:n-3], nil
			}
		}
	}
}

// peekKeyword looks ahead (without consuming) for a bare keyword token,
// used only to detect the "ID" boundary inside an inline image dictionary.
func (t *Tokenizer) peekKeyword() (string, error) {
	const maxLookahead = 8
	peeked, err := t.r.Peek(maxLookahead)
	if err != nil && len(peeked) == 0 {
		return "", err
	}
	if len(peeked) == 0 || isWhitespace(peeked[0]) || isDelimiter(peeked[0]) {
		return "", nil
	}
	end := 0
	for end < len(peeked) && !isWhitespace(peeked[end]) && !isDelimiter(peeked[end]) {
		end++
	}
	return string(peeked[:end]), nil
}
