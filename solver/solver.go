// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements preconditioned Krylov-subspace methods for
// solving sparse linear systems
//
//	A x = b.
//
// Each method is an engine that preallocates its scratch vectors for a fixed
// problem dimension at construction and can then be reused across many
// solves, including solves against different matrices of the same dimension.
// This supports non-stationary problems with slowly changing coefficients: a
// preconditioner built for one time step often remains effective for several
// subsequent steps.
//
// An engine instance must not be used from multiple goroutines at once: the
// scratch vectors are shared mutable state across Solve calls.
package solver

import (
	"fmt"

	"github.com/artas360/amgcl/backend"
)

// Params holds the iteration parameters of a solver engine. They are fixed
// at engine construction.
type Params struct {
	// MaxIter is the limit on the number of iterations. With MaxIter 0 a
	// solve returns immediately, reporting the relative residual of the
	// initial guess.
	MaxIter int

	// Tol is the target relative residual.
	Tol float64
}

// DefaultParams returns the default iteration parameters.
func DefaultParams() Params {
	return Params{MaxIter: 100, Tol: 1e-8}
}

// Result reports the outcome of a solve.
//
// Reaching the iteration limit is not an error: it is signaled by
// Iterations == MaxIter together with Residual > Tol. A NaN or Inf Residual
// means the iteration broke down numerically and the solution vector is
// unusable.
type Result struct {
	// Iterations is the number of iterations performed.
	Iterations int
	// Residual is the relative residual at loop exit, as computed by the
	// last stopping check.
	Residual float64
}

// createVectors allocates k scratch vectors of dimension n via the backend.
func createVectors[M, V any](bk backend.Backend[M, V], n, k int) ([]V, error) {
	vs := make([]V, k)
	for i := range vs {
		v, err := bk.CreateVector(n)
		if err != nil {
			return nil, fmt.Errorf("solver: allocating scratch vectors: %w", err)
		}
		vs[i] = v
	}
	return vs, nil
}
