package solver

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/artas360/amgcl/backend/native"
)

func TestBiCGStabLRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	bk := native.Backend{}
	for _, ell := range []int{1, 2, 4} {
		for _, n := range []int{1, 2, 5, 10, 20, 50, 100} {
			a, b, want := randomNonsym(n, rnd)

			s, err := NewBiCGStabL[*native.Matrix, []float64](bk, n, ell, Params{MaxIter: 2 * n, Tol: 1e-12})
			if err != nil {
				t.Fatalf("Case n=%v ell=%v: unexpected construction error %v", n, ell, err)
			}
			x := make([]float64, n)
			r := s.Solve(a, identity{}, b, x)

			if r.Residual > 1e-12 {
				t.Errorf("Case n=%v ell=%v: did not converge in %v iterations, residual %v", n, ell, r.Iterations, r.Residual)
			}
			dist := floats.Distance(x, want, math.Inf(1))
			if dist > 1e-8 {
				t.Errorf("Case n=%v ell=%v: unexpected solution, |want-got|=%v", n, ell, dist)
			}
		}
	}
}

func TestBiCGStabLInvalidEll(t *testing.T) {
	if _, err := NewBiCGStabL[*native.Matrix, []float64](native.Backend{}, 10, 0, DefaultParams()); err == nil {
		t.Error("ell=0: expected construction error")
	}
}

func TestBiCGStabLZeroRHS(t *testing.T) {
	bk := native.Backend{}
	a := diagMatrix([]float64{2, 3, 4})

	s, err := NewBiCGStabL[*native.Matrix, []float64](bk, 3, 2, Params{MaxIter: 10, Tol: 1e-10})
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{1, 2, 3}
	r := s.Solve(a, identity{}, make([]float64, 3), x)

	if r.Iterations != 0 || r.Residual != 0 {
		t.Errorf("zero rhs: got (%v, %v), want (0, 0)", r.Iterations, r.Residual)
	}
	for i, v := range x {
		if v != 0 {
			t.Errorf("zero rhs: x[%v] = %v, want 0", i, v)
		}
	}
}
