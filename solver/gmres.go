// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/artas360/amgcl/backend"
)

// GMRES is the restarted Generalized Minimal Residual method GMRES(m) for
// non-symmetric systems. The preconditioner is applied from the left; the
// inner stopping test uses the rotated-residual estimate, and the true
// relative residual is recomputed at every restart boundary, so the returned
// Result.Residual is always the true one.
type GMRES[M, V any] struct {
	prm     Params
	restart int
	bk      backend.Backend[M, V]

	v       []V // restart+1 Krylov basis vectors
	w, t, r V

	h    []float64 // (restart+1)×restart Hessenberg matrix, column-major
	givs []givens
	s, y []float64
}

type givens struct {
	c, s float64
}

// NewGMRES constructs a GMRES engine for systems of dimension n. A restart
// value of 0 selects the default of 30; the restart length is capped at n.
func NewGMRES[M, V any](bk backend.Backend[M, V], n, restart int, prm Params) (*GMRES[M, V], error) {
	if restart <= 0 {
		restart = 30
	}
	if restart > n {
		restart = n
	}
	vs, err := createVectors(bk, n, restart+1+3)
	if err != nil {
		return nil, err
	}
	return &GMRES[M, V]{
		prm:     prm,
		restart: restart,
		bk:      bk,
		v:       vs[:restart+1],
		w:       vs[restart+1],
		t:       vs[restart+2],
		r:       vs[restart+3],
		h:       make([]float64, (restart+1)*restart),
		givs:    make([]givens, restart),
		s:       make([]float64, restart+1),
		y:       make([]float64, restart+1),
	}, nil
}

// Solve runs the iteration, mutating x in place. The Result contract and
// the unguarded-division policy are the same as for CG.Solve.
func (g *GMRES[M, V]) Solve(a M, p backend.Preconditioner[V], rhs, x V) Result {
	bk := g.bk
	ldh := g.restart + 1

	normOfRHS := bk.Norm(rhs)
	if normOfRHS == 0 {
		bk.Clear(x)
		return Result{Iterations: 0, Residual: 0}
	}

	var iter int
	for {
		bk.Residual(rhs, a, x, g.r)
		res := bk.Norm(g.r) / normOfRHS
		if res <= g.prm.Tol || iter >= g.prm.MaxIter {
			return Result{Iterations: iter, Residual: res}
		}

		// Start a new Krylov basis from the preconditioned residual.
		p.Apply(g.r, g.v[0])
		rnorm := bk.Norm(g.v[0])
		bk.Axpby(0, g.v[0], 1/rnorm, g.v[0])
		for i := range g.s {
			g.s[i] = 0
		}
		g.s[0] = rnorm

		var i int
		for i < g.restart && iter < g.prm.MaxIter {
			// w = M⁻¹ A v_i.
			bk.Spmv(1, a, g.v[i], 0, g.t)
			p.Apply(g.t, g.w)

			// Gram-Schmidt against the previous basis vectors builds
			// the i-th Hessenberg column.
			hi := g.h[i*ldh : (i+1)*ldh]
			for k := 0; k <= i; k++ {
				hki := bk.Dot(g.v[k], g.w)
				hi[k] = hki
				bk.Axpby(-hki, g.v[k], 1, g.w)
			}
			wnorm := bk.Norm(g.w)
			hi[i+1] = wnorm
			bk.Copy(g.w, g.v[i+1])
			bk.Axpby(0, g.w, 1/wnorm, g.v[i+1])

			// Apply the accumulated Givens rotations to the new column,
			// then compute and apply the one that zeroes H[i+1,i].
			for j := 0; j < i; j++ {
				hi[j], hi[j+1] = rotvec(hi[j], hi[j+1], g.givs[j])
			}
			g.givs[i] = drotg(hi[i], hi[i+1])
			hi[i], hi[i+1] = rotvec(hi[i], hi[i+1], g.givs[i])
			g.s[i], g.s[i+1] = rotvec(g.s[i], g.s[i+1], g.givs[i])

			i++
			iter++

			// |s_i| estimates the preconditioned residual norm.
			if math.Abs(g.s[i])/normOfRHS <= g.prm.Tol {
				break
			}
		}
		g.update(x, i)
	}
}

// update computes x += V y where H y = s for the leading k×k upper
// triangular part of the rotated Hessenberg matrix.
func (g *GMRES[M, V]) update(x V, k int) {
	if k == 0 {
		return
	}
	y := g.y[:k]
	copy(y, g.s[:k])
	// H is upper triangular but stored column-major while Dtrsv expects
	// row-major.
	bi := blas64.Implementation()
	bi.Dtrsv(blas.Lower, blas.Trans, blas.NonUnit, k, g.h, g.restart+1, y, 1)
	for j := 0; j < k; j++ {
		g.bk.Axpby(y[j], g.v[j], 1, x)
	}
}

// SolveTop solves against the matrix the preconditioner was built from.
func (g *GMRES[M, V]) SolveTop(p backend.MatrixPreconditioner[M, V], rhs, x V) Result {
	return g.Solve(p.TopMatrix(), p, rhs, x)
}

func drotg(a, b float64) givens {
	if b == 0 {
		return givens{c: 1, s: 0}
	}
	if math.Abs(b) > math.Abs(a) {
		tmp := -a / b
		s := 1 / math.Sqrt(1+tmp*tmp)
		return givens{c: tmp * s, s: s}
	}
	tmp := -b / a
	c := 1 / math.Sqrt(1+tmp*tmp)
	return givens{c: c, s: tmp * c}
}

func rotvec(x, y float64, g givens) (rx, ry float64) {
	rx = g.c*x - g.s*y
	ry = g.s*x + g.c*y
	return
}
