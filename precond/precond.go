// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package precond provides composite preconditioners that split the
// unknowns of a system into pressure and flow groups, solve each group's
// subsystem approximately and combine the corrections. From the solver
// engines' point of view they are interchangeable with the single-level
// relaxations.
package precond

import (
	"fmt"

	"github.com/artas360/amgcl/backend"
	"github.com/artas360/amgcl/backend/native"
)

// Factory builds a preconditioner for a subsystem matrix. The registry
// package provides factories for the closed set of relaxation kinds.
type Factory func(*native.Matrix) (backend.Preconditioner[[]float64], error)

// StrideMask marks every (start + i*stride)-th of n unknowns as a pressure
// variable, the `%start:stride` form of the pressure mask.
func StrideMask(n, start, stride int) ([]byte, error) {
	if stride <= 0 || start < 0 {
		return nil, fmt.Errorf("precond: invalid pressure mask stride %%%d:%d", start, stride)
	}
	pm := make([]byte, n)
	for i := start; i < n; i += stride {
		pm[i] = 1
	}
	return pm, nil
}

// splitIndices partitions 0..n-1 into pressure (mask nonzero) and flow
// index sets, preserving order.
func splitIndices(pmask []byte) (pidx, fidx []int) {
	for i, m := range pmask {
		if m != 0 {
			pidx = append(pidx, i)
		} else {
			fidx = append(fidx, i)
		}
	}
	return pidx, fidx
}

func checkMask(a *native.Matrix, pmask []byte) (int, error) {
	n, cols := a.Dims()
	if n != cols {
		return 0, fmt.Errorf("precond: matrix is %dx%d, want square", n, cols)
	}
	if len(pmask) != n {
		return 0, fmt.Errorf("precond: pressure mask has length %d, want %d", len(pmask), n)
	}
	return n, nil
}
