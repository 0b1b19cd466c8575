/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package geom holds the geometry primitives: bounding
// boxes, affine matrices, path segments and colors. Everything downstream
// (tokenizer excepted) builds on these.
package geom

import (
	"fmt"
	"math"
)

const maxAbsNumber = 1e9

// Matrix is a 2D affine transform in homogeneous coordinates, laid out as
//
//	a  b  0
//	c  d  0
//	e  f  1
//
// matching the six operands of the PDF `cm`/`Tm` operators.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// NewMatrix builds a matrix from its six components, clamping to guard
// against runaway values in corrupt content streams.
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	m := Matrix{a, b, c, d, e, f}
	m.clamp()
	return m
}

// Translation returns a matrix translating by (tx, ty).
func Translation(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

func (m *Matrix) clamp() {
	clampOne := func(x float64) float64 {
		if x > maxAbsNumber {
			return maxAbsNumber
		}
		if x < -maxAbsNumber {
			return -maxAbsNumber
		}
		return x
	}
	m.A, m.B, m.C, m.D, m.E, m.F = clampOne(m.A), clampOne(m.B), clampOne(m.C), clampOne(m.D), clampOne(m.E), clampOne(m.F)
}

// Mul returns the composition `other` × `m` (other pre-multiplies m), the
// convention `cm` uses: CTM' = other × CTM.
func (m Matrix) Mul(other Matrix) Matrix {
	r := Matrix{
		A: other.A*m.A + other.B*m.C,
		B: other.A*m.B + other.B*m.D,
		C: other.C*m.A + other.D*m.C,
		D: other.C*m.B + other.D*m.D,
		E: other.E*m.A + other.F*m.C + m.E,
		F: other.E*m.B + other.F*m.D + m.F,
	}
	r.clamp()
	return r
}

// TransformPoint applies m to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.E, x*m.B + y*m.D + m.F
}

// TransformVector applies m to a displacement, ignoring translation.
func (m Matrix) TransformVector(dx, dy float64) (float64, float64) {
	return dx*m.A + dy*m.C, dx*m.B + dy*m.D
}

// Inverse returns the inverse of m, or ok=false if m is singular.
func (m Matrix) Inverse() (Matrix, bool) {
	det := m.A*m.D - m.B*m.C
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	aI, bI := m.D/det, -m.B/det
	cI, dI := -m.C/det, m.A/det
	eI := -(aI*m.E + cI*m.F)
	fI := -(bI*m.E + dI*m.F)
	return Matrix{aI, bI, cI, dI, eI, fI}, true
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%.4f %.4f %.4f %.4f %.4f %.4f]", m.A, m.B, m.C, m.D, m.E, m.F)
}
