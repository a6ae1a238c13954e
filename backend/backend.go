// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend defines the capability contracts that separate the Krylov
// engines from the storage and execution of matrices and vectors.
//
// A Backend supplies the vector lifecycle and the handful of linear-algebra
// primitives the solvers need; it carries no algorithm of its own. The type
// parameters M and V are the backend's matrix and vector handle types, so a
// solver instantiated for one backend dispatches its primitives statically.
package backend

// Backend is the capability set a storage/execution substrate must provide
// to the iterative solvers. All operations are synchronous and act on
// vectors of matching dimension; behavior for mismatched dimensions is
// undefined and not checked here.
type Backend[M, V any] interface {
	// CreateVector allocates a vector of dimension n.
	CreateVector(n int) (V, error)

	// Copy copies src into dst.
	Copy(src, dst V)

	// Clear zero-fills v.
	Clear(v V)

	// Dot returns the inner product of x and y.
	Dot(x, y V) float64

	// Norm returns the Euclidean norm of v.
	Norm(v V) float64

	// Axpby computes y = alpha*x + beta*y in place.
	Axpby(alpha float64, x V, beta float64, y V)

	// Spmv computes y = alpha*A*x + beta*y.
	Spmv(alpha float64, a M, x V, beta float64, y V)

	// Residual computes r = rhs - A*x.
	Residual(rhs V, a M, x V, r V)
}

// Preconditioner approximately solves M z = rhs for some preconditioning
// operator M, storing z into x. rhs and x must be distinct vectors created
// by the same backend.
type Preconditioner[V any] interface {
	Apply(rhs, x V)
}

// MatrixPreconditioner is a Preconditioner built from (and intended to
// approximate) a concrete system matrix. TopMatrix hands back that matrix;
// it is used by the three-argument solve forms when no explicit system
// matrix is supplied.
type MatrixPreconditioner[M, V any] interface {
	Preconditioner[V]
	TopMatrix() M
}
