// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"fmt"
	"math"

	"github.com/edp1096/sparse"

	"github.com/artas360/amgcl/backend/native"
)

// SparseLU is an exact sparse-LU preconditioner: one Apply performs a full
// direct solve with factors computed once at construction. It is meant for
// small subsystems, such as the pressure block of a composite
// preconditioner, where an exact coarse solve pays off.
type SparseLU struct {
	a  *native.Matrix
	lu *sparse.Matrix
	b1 []float64 // 1-based scratch for the solve
}

// NewSparseLU copies a into the factorization workspace, orders and factors
// it. The matrix must be square and non-singular.
func NewSparseLU(a *native.Matrix) (*SparseLU, error) {
	n, cols := a.Dims()
	if n != cols {
		return nil, fmt.Errorf("relax: lu: matrix is %dx%d, want square", n, cols)
	}

	cfg := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		TiesMultiplier: 5,
	}
	lu, err := sparse.Create(int64(n), cfg)
	if err != nil {
		return nil, fmt.Errorf("relax: lu: creating workspace: %w", err)
	}

	// The factorization workspace is 1-based.
	for i := 0; i < n; i++ {
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			lu.GetElement(int64(i+1), int64(a.Col[k]+1)).Real += a.Val[k]
		}
	}

	b1 := make([]float64, n+1)
	if err := lu.OrderAndFactor(b1, 0, 0, true); err != nil {
		return nil, fmt.Errorf("relax: lu: factoring: %w", err)
	}

	return &SparseLU{a: a, lu: lu, b1: b1}, nil
}

func (p *SparseLU) Apply(rhs, x []float64) {
	for i, v := range rhs {
		p.b1[i+1] = v
	}
	sol, err := p.lu.Solve(p.b1)
	if err != nil {
		// Apply has no error channel; a failed solve surfaces the same
		// way numeric breakdown does.
		for i := range x {
			x[i] = math.NaN()
		}
		return
	}
	for i := range x {
		x[i] = sol[i+1]
	}
}

func (p *SparseLU) TopMatrix() *native.Matrix { return p.a }
