// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/artas360/amgcl/backend"
)

// BiCGStabL is the BiCGStab(ℓ) method of Sleijpen and Fokkema: ℓ BiCG steps
// followed by an ℓ-degree minimal-residual polynomial update per cycle. It
// handles non-symmetric systems where plain BiCGStab stagnates, at the cost
// of 2(ℓ+1) scratch vectors.
//
// The preconditioner is applied from the left, so the residual monitored by
// the stopping test is the preconditioned one. One cycle counts as one
// iteration towards Params.MaxIter.
type BiCGStabL[M, V any] struct {
	prm Params
	ell int
	bk  backend.Backend[M, V]

	rt   V
	tmp  V
	u, r []V // ℓ+1 vectors each
}

// NewBiCGStabL constructs a BiCGStab(ℓ) engine for systems of dimension n.
// ell must be at least 1; 2 is the usual choice.
func NewBiCGStabL[M, V any](bk backend.Backend[M, V], n, ell int, prm Params) (*BiCGStabL[M, V], error) {
	if ell < 1 {
		return nil, fmt.Errorf("solver: bicgstabl: invalid ell %d", ell)
	}
	vs, err := createVectors(bk, n, 2*(ell+1)+2)
	if err != nil {
		return nil, err
	}
	return &BiCGStabL[M, V]{
		prm: prm,
		ell: ell,
		bk:  bk,
		rt:  vs[0],
		tmp: vs[1],
		u:   vs[2 : 2+ell+1],
		r:   vs[2+ell+1:],
	}, nil
}

// op computes dst = M⁻¹ A src.
func (l *BiCGStabL[M, V]) op(a M, p backend.Preconditioner[V], src, dst V) {
	l.bk.Spmv(1, a, src, 0, l.tmp)
	p.Apply(l.tmp, dst)
}

// Solve runs the iteration, mutating x in place. The Result contract and
// the unguarded-division policy are the same as for CG.Solve.
func (l *BiCGStabL[M, V]) Solve(a M, p backend.Preconditioner[V], rhs, x V) Result {
	bk := l.bk
	ell := l.ell

	bk.Residual(rhs, a, x, l.tmp)
	p.Apply(l.tmp, l.r[0])
	bk.Copy(l.r[0], l.rt)
	bk.Clear(l.u[0])

	normOfRHS := bk.Norm(rhs)
	if normOfRHS == 0 {
		bk.Clear(x)
		return Result{Iterations: 0, Residual: 0}
	}

	rho0, alpha, omega := 1.0, 0.0, 1.0

	var iter int
	res := bk.Norm(l.r[0]) / normOfRHS
	for res > l.prm.Tol && iter < l.prm.MaxIter {
		rho0 = -omega * rho0

		// BiCG part.
		early := false
		for j := 0; j < ell; j++ {
			rho1 := bk.Dot(l.r[j], l.rt)
			beta := alpha * rho1 / rho0
			rho0 = rho1
			for i := 0; i <= j; i++ {
				bk.Axpby(1, l.r[i], -beta, l.u[i])
			}
			l.op(a, p, l.u[j], l.u[j+1])
			alpha = rho0 / bk.Dot(l.u[j+1], l.rt)
			for i := 0; i <= j; i++ {
				bk.Axpby(-alpha, l.u[i+1], 1, l.r[i])
			}
			l.op(a, p, l.r[j], l.r[j+1])
			bk.Axpby(alpha, l.u[0], 1, x)

			// The cycle can converge mid-way; finishing it would run
			// the polynomial step on a degenerate Krylov basis.
			if bk.Norm(l.r[0])/normOfRHS <= l.prm.Tol {
				early = true
				break
			}
		}
		if early {
			iter++
			res = bk.Norm(l.r[0]) / normOfRHS
			break
		}

		// Minimal-residual part: choose γ minimizing
		// ‖r₀ - Σ γ_j r_j‖ via the normal equations on the Gram matrix.
		z := mat.NewDense(ell, ell, nil)
		y := mat.NewVecDense(ell, nil)
		for i := 1; i <= ell; i++ {
			for j := 1; j <= ell; j++ {
				z.Set(i-1, j-1, bk.Dot(l.r[i], l.r[j]))
			}
			y.SetVec(i-1, bk.Dot(l.r[i], l.r[0]))
		}
		gamma := mat.NewVecDense(ell, nil)
		if err := gamma.SolveVec(z, y); err != nil {
			// Degenerate Gram matrix; surface as NaN like the other
			// unguarded breakdowns.
			for i := 0; i < ell; i++ {
				gamma.SetVec(i, math.NaN())
			}
		}

		for j := 1; j <= ell; j++ {
			g := gamma.AtVec(j - 1)
			bk.Axpby(g, l.r[j-1], 1, x)
			bk.Axpby(-g, l.r[j], 1, l.r[0])
			bk.Axpby(-g, l.u[j], 1, l.u[0])
		}
		omega = gamma.AtVec(ell - 1)

		iter++
		res = bk.Norm(l.r[0]) / normOfRHS
	}

	return Result{Iterations: iter, Residual: res}
}

// SolveTop solves against the matrix the preconditioner was built from.
func (l *BiCGStabL[M, V]) SolveTop(p backend.MatrixPreconditioner[M, V], rhs, x V) Result {
	return l.Solve(p.TopMatrix(), p, rhs, x)
}
