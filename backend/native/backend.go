// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Backend implements the solver capability contract on *Matrix and
// []float64. The zero value is ready to use; all primitives execute
// synchronously on the calling goroutine.
type Backend struct{}

// CreateVector allocates a zeroed vector of dimension n.
func (Backend) CreateVector(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("native: cannot allocate vector of dimension %d", n)
	}
	return make([]float64, n), nil
}

// Copy copies src into dst.
func (Backend) Copy(src, dst []float64) {
	copy(dst, src)
}

// Clear zero-fills v.
func (Backend) Clear(v []float64) {
	for i := range v {
		v[i] = 0
	}
}

// Dot returns the inner product of x and y.
func (Backend) Dot(x, y []float64) float64 {
	return floats.Dot(x, y)
}

// Norm returns the Euclidean norm of v.
func (Backend) Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Axpby computes y = alpha*x + beta*y in place.
func (Backend) Axpby(alpha float64, x []float64, beta float64, y []float64) {
	switch beta {
	case 0:
		floats.ScaleTo(y, alpha, x)
	case 1:
		floats.AddScaled(y, alpha, x)
	default:
		floats.Scale(beta, y)
		floats.AddScaled(y, alpha, x)
	}
}

// Spmv computes y = alpha*A*x + beta*y.
func (Backend) Spmv(alpha float64, a *Matrix, x []float64, beta float64, y []float64) {
	for i := 0; i < a.rows; i++ {
		var s float64
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			s += a.Val[k] * x[a.Col[k]]
		}
		if beta == 0 {
			y[i] = alpha * s
		} else {
			y[i] = alpha*s + beta*y[i]
		}
	}
}

// Residual computes r = rhs - A*x.
func (Backend) Residual(rhs []float64, a *Matrix, x []float64, r []float64) {
	for i := 0; i < a.rows; i++ {
		var s float64
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			s += a.Val[k] * x[a.Col[k]]
		}
		r[i] = rhs[i] - s
	}
}
