// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import "github.com/artas360/amgcl/backend/native"

// ILU0 is the incomplete LU factorization with zero fill-in: the factors
// share the sparsity pattern of the matrix. The matrix must be square with
// its diagonal entries stored.
type ILU0 struct {
	a    *native.Matrix
	lu   []float64 // factor values on the pattern of a
	diag []int     // position of the diagonal entry of each row
}

// NewILU0 computes the ILU(0) factorization of a.
func NewILU0(a *native.Matrix) *ILU0 {
	n, _ := a.Dims()
	lu := make([]float64, len(a.Val))
	copy(lu, a.Val)

	diag := make([]int, n)
	work := make([]int, n)
	for i := range work {
		work[i] = -1
	}

	for i := 0; i < n; i++ {
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			work[a.Col[k]] = k
		}
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			c := a.Col[k]
			switch {
			case c < i:
				d := diag[c]
				lik := lu[k] / lu[d]
				lu[k] = lik
				// Eliminate row c from row i on the shared pattern.
				for kk := d + 1; kk < a.Ptr[c+1]; kk++ {
					if pos := work[a.Col[kk]]; pos >= 0 {
						lu[pos] -= lik * lu[kk]
					}
				}
			case c == i:
				diag[i] = k
			}
		}
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			work[a.Col[k]] = -1
		}
	}

	return &ILU0{a: a, lu: lu, diag: diag}
}

// Apply solves L U x = rhs with unit lower triangular L.
func (p *ILU0) Apply(rhs, x []float64) {
	a := p.a
	n := len(x)

	copy(x, rhs)
	for i := 0; i < n; i++ {
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			if j := a.Col[k]; j < i {
				x[i] -= p.lu[k] * x[j]
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		for k := p.diag[i] + 1; k < a.Ptr[i+1]; k++ {
			x[i] -= p.lu[k] * x[a.Col[k]]
		}
		x[i] /= p.lu[p.diag[i]]
	}
}

func (p *ILU0) TopMatrix() *native.Matrix { return p.a }
