// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import "github.com/artas360/amgcl/backend/native"

// GaussSeidel is the symmetric Gauss-Seidel preconditioner: one forward
// sweep from a zero initial guess followed by one backward sweep. The
// symmetric variant keeps the operator usable with CG.
//
// The matrix must have its diagonal entries stored.
type GaussSeidel struct {
	a    *native.Matrix
	diag []float64
}

// NewGaussSeidel builds a symmetric Gauss-Seidel preconditioner for a.
func NewGaussSeidel(a *native.Matrix) *GaussSeidel {
	return &GaussSeidel{a: a, diag: a.Diagonal()}
}

func (p *GaussSeidel) Apply(rhs, x []float64) {
	a := p.a
	n := len(x)

	// Forward sweep from x = 0: only the strictly lower part contributes.
	for i := 0; i < n; i++ {
		s := rhs[i]
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			if j := a.Col[k]; j < i {
				s -= a.Val[k] * x[j]
			}
		}
		x[i] = s / p.diag[i]
	}

	// Backward sweep over the full rows.
	for i := n - 1; i >= 0; i-- {
		s := rhs[i]
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			if j := a.Col[k]; j != i {
				s -= a.Val[k] * x[j]
			}
		}
		x[i] = s / p.diag[i]
	}
}

func (p *GaussSeidel) TopMatrix() *native.Matrix { return p.a }
