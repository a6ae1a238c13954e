// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import "github.com/artas360/amgcl/backend/native"

// DefaultDamping is the damping factor used by NewDampedJacobi.
const DefaultDamping = 0.72

// DampedJacobi is the damped Jacobi preconditioner
//
//	x = ω D⁻¹ rhs
//
// where D is the diagonal of the matrix.
type DampedJacobi struct {
	a       *native.Matrix
	damping float64
	invDia  []float64
}

// NewDampedJacobi builds a damped Jacobi preconditioner with the default
// damping factor. Rows with a zero diagonal produce Inf entries that
// surface through the solve, consistent with the engines' unguarded
// numeric policy.
func NewDampedJacobi(a *native.Matrix) *DampedJacobi {
	return NewDampedJacobiWith(a, DefaultDamping)
}

// NewDampedJacobiWith builds a damped Jacobi preconditioner with the given
// damping factor.
func NewDampedJacobiWith(a *native.Matrix, damping float64) *DampedJacobi {
	dia := a.Diagonal()
	inv := make([]float64, len(dia))
	for i, d := range dia {
		inv[i] = 1 / d
	}
	return &DampedJacobi{a: a, damping: damping, invDia: inv}
}

func (p *DampedJacobi) Apply(rhs, x []float64) {
	for i := range x {
		x[i] = p.damping * p.invDia[i] * rhs[i]
	}
}

func (p *DampedJacobi) TopMatrix() *native.Matrix { return p.a }
