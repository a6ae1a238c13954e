// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import "github.com/artas360/amgcl/backend/native"

// SPAI0 is the sparse approximate inverse preconditioner restricted to a
// diagonal: the diagonal matrix M minimizing ‖I - M A‖ in the Frobenius
// norm, which row-wise gives
//
//	m_i = a_ii / Σ_j a_ij².
type SPAI0 struct {
	a *native.Matrix
	m []float64
}

// NewSPAI0 builds the SPAI(0) preconditioner for a.
func NewSPAI0(a *native.Matrix) *SPAI0 {
	n, _ := a.Dims()
	m := make([]float64, n)
	for i := 0; i < n; i++ {
		var dia, norm float64
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			v := a.Val[k]
			norm += v * v
			if a.Col[k] == i {
				dia = v
			}
		}
		m[i] = dia / norm
	}
	return &SPAI0{a: a, m: m}
}

func (p *SPAI0) Apply(rhs, x []float64) {
	for i := range x {
		x[i] = p.m[i] * rhs[i]
	}
}

func (p *SPAI0) TopMatrix() *native.Matrix { return p.a }
