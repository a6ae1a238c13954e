// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/artas360/amgcl/backend"

// CG is the preconditioned Conjugate Gradient method for symmetric
// positive-definite systems. For non-symmetric systems use BiCGStab,
// BiCGStabL or GMRES.
//
// The engine owns four scratch vectors sized to the problem dimension,
// allocated once at construction and overwritten on every Solve.
type CG[M, V any] struct {
	prm Params
	bk  backend.Backend[M, V]

	r, s, p, q V
}

// NewCG constructs a CG engine for systems of dimension n. It returns an
// error if the backend cannot provide the scratch vectors.
func NewCG[M, V any](bk backend.Backend[M, V], n int, prm Params) (*CG[M, V], error) {
	vs, err := createVectors(bk, n, 4)
	if err != nil {
		return nil, err
	}
	return &CG[M, V]{
		prm: prm,
		bk:  bk,
		r:   vs[0],
		s:   vs[1],
		p:   vs[2],
		q:   vs[3],
	}, nil
}

// Solve runs the iteration for the system matrix a, preconditioner p and
// right-hand side rhs. On entry x holds the initial guess; on return it
// holds the approximate solution. x is mutated in place; a, p and rhs are
// never modified.
//
// If rhs is the zero vector, x is set to zero and (0, 0) is returned
// immediately. Otherwise the relative residual ‖rhs-A*x‖/‖rhs‖ is tested at
// the top of every iteration and the loop stops when it reaches prm.Tol or
// when prm.MaxIter iterations have been taken; compare the returned residual
// against the tolerance to tell the two apart.
//
// The divisions by ⟨r,s⟩ of the previous iteration and by ⟨q,p⟩ are not
// guarded: for matrices that are not positive definite with respect to the
// preconditioner they can be zero or negative, and the resulting NaN or Inf
// propagates into x and the returned residual.
func (cg *CG[M, V]) Solve(a M, p backend.Preconditioner[V], rhs, x V) Result {
	bk := cg.bk

	bk.Residual(rhs, a, x, cg.r)

	var rho1, rho2 float64
	normOfRHS := bk.Norm(rhs)

	if normOfRHS == 0 {
		bk.Clear(x)
		return Result{Iterations: 0, Residual: 0}
	}

	var iter int
	res := bk.Norm(cg.r) / normOfRHS
	for res > cg.prm.Tol && iter < cg.prm.MaxIter {
		p.Apply(cg.r, cg.s)

		rho2 = rho1
		rho1 = bk.Dot(cg.r, cg.s)

		if iter > 0 {
			bk.Axpby(1, cg.s, rho1/rho2, cg.p)
		} else {
			bk.Copy(cg.s, cg.p)
		}

		bk.Spmv(1, a, cg.p, 0, cg.q)

		alpha := rho1 / bk.Dot(cg.q, cg.p)

		bk.Axpby(alpha, cg.p, 1, x)
		bk.Axpby(-alpha, cg.q, 1, cg.r)

		iter++
		res = bk.Norm(cg.r) / normOfRHS
	}

	return Result{Iterations: iter, Residual: res}
}

// SolveTop solves against the matrix the preconditioner was built from,
// equivalent to Solve(p.TopMatrix(), p, rhs, x).
func (cg *CG[M, V]) SolveTop(p backend.MatrixPreconditioner[M, V], rhs, x V) Result {
	return cg.Solve(p.TopMatrix(), p, rhs, x)
}
