// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/artas360/amgcl/backend"

// BiCGStab is the preconditioned BiConjugate Gradient Stabilized method for
// non-symmetric systems. For symmetric positive-definite systems CG is
// cheaper.
type BiCGStab[M, V any] struct {
	prm Params
	bk  backend.Backend[M, V]

	r, rt    V
	p, ph, v V
	s, sh, t V
}

// NewBiCGStab constructs a BiCGStab engine for systems of dimension n.
func NewBiCGStab[M, V any](bk backend.Backend[M, V], n int, prm Params) (*BiCGStab[M, V], error) {
	vs, err := createVectors(bk, n, 8)
	if err != nil {
		return nil, err
	}
	return &BiCGStab[M, V]{
		prm: prm,
		bk:  bk,
		r:   vs[0], rt: vs[1],
		p: vs[2], ph: vs[3], v: vs[4],
		s: vs[5], sh: vs[6], t: vs[7],
	}, nil
}

// Solve runs the iteration for the system matrix a, preconditioner p and
// right-hand side rhs, mutating x in place. The Result contract and the
// unguarded-division policy are the same as for CG.Solve: a NaN residual
// means breakdown.
func (b *BiCGStab[M, V]) Solve(a M, p backend.Preconditioner[V], rhs, x V) Result {
	bk := b.bk

	bk.Residual(rhs, a, x, b.r)
	bk.Copy(b.r, b.rt)

	var rho1, rho2, alpha, omega float64
	normOfRHS := bk.Norm(rhs)

	if normOfRHS == 0 {
		bk.Clear(x)
		return Result{Iterations: 0, Residual: 0}
	}

	var iter int
	res := bk.Norm(b.r) / normOfRHS
	for res > b.prm.Tol && iter < b.prm.MaxIter {
		rho2 = rho1
		rho1 = bk.Dot(b.rt, b.r)

		if iter > 0 {
			beta := (rho1 / rho2) * (alpha / omega)
			// p = r + beta*(p - omega*v)
			bk.Axpby(-omega, b.v, 1, b.p)
			bk.Axpby(1, b.r, beta, b.p)
		} else {
			bk.Copy(b.r, b.p)
		}

		p.Apply(b.p, b.ph)
		bk.Spmv(1, a, b.ph, 0, b.v)

		alpha = rho1 / bk.Dot(b.rt, b.v)

		// s = r - alpha*v
		bk.Copy(b.r, b.s)
		bk.Axpby(-alpha, b.v, 1, b.s)

		if bk.Norm(b.s)/normOfRHS <= b.prm.Tol {
			// The half step already converged.
			bk.Axpby(alpha, b.ph, 1, x)
			bk.Copy(b.s, b.r)
		} else {
			p.Apply(b.s, b.sh)
			bk.Spmv(1, a, b.sh, 0, b.t)

			omega = bk.Dot(b.t, b.s) / bk.Dot(b.t, b.t)

			bk.Axpby(alpha, b.ph, 1, x)
			bk.Axpby(omega, b.sh, 1, x)

			// r = s - omega*t
			bk.Copy(b.s, b.r)
			bk.Axpby(-omega, b.t, 1, b.r)
		}

		iter++
		res = bk.Norm(b.r) / normOfRHS
	}

	return Result{Iterations: iter, Residual: res}
}

// SolveTop solves against the matrix the preconditioner was built from.
func (b *BiCGStab[M, V]) SolveTop(p backend.MatrixPreconditioner[M, V], rhs, x V) Result {
	return b.Solve(p.TopMatrix(), p, rhs, x)
}
