package solver

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/artas360/amgcl/backend/native"
)

func TestGMRESRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	bk := native.Backend{}
	for _, restart := range []int{0, 10} {
		for _, n := range []int{1, 2, 3, 5, 10, 20, 50, 100, 200} {
			a, b, want := randomNonsym(n, rnd)

			s, err := NewGMRES[*native.Matrix, []float64](bk, n, restart, Params{MaxIter: 10 * n, Tol: 1e-12})
			if err != nil {
				t.Fatalf("Case n=%v restart=%v: unexpected construction error %v", n, restart, err)
			}
			x := make([]float64, n)
			r := s.Solve(a, identity{}, b, x)

			if r.Residual > 1e-12 {
				t.Errorf("Case n=%v restart=%v: did not converge in %v iterations, residual %v", n, restart, r.Iterations, r.Residual)
			}
			dist := floats.Distance(x, want, math.Inf(1))
			if dist > 1e-8 {
				t.Errorf("Case n=%v restart=%v: unexpected solution, |want-got|=%v", n, restart, dist)
			}
		}
	}
}

func TestGMRESRandomSPD(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	bk := native.Backend{}
	for _, n := range []int{5, 20, 100} {
		a, b, want := randomSPD(n, rnd)

		s, err := NewGMRES[*native.Matrix, []float64](bk, n, 0, Params{MaxIter: 10 * n, Tol: 1e-12})
		if err != nil {
			t.Fatal(err)
		}
		x := make([]float64, n)
		r := s.Solve(a, identity{}, b, x)

		if r.Residual > 1e-12 {
			t.Errorf("Case n=%v: did not converge in %v iterations, residual %v", n, r.Iterations, r.Residual)
		}
		dist := floats.Distance(x, want, math.Inf(1))
		if dist > 1e-8 {
			t.Errorf("Case n=%v: unexpected solution, |want-got|=%v", n, dist)
		}
	}
}

func TestGMRESZeroRHS(t *testing.T) {
	bk := native.Backend{}
	a := diagMatrix([]float64{2, 3, 4})

	s, err := NewGMRES[*native.Matrix, []float64](bk, 3, 0, Params{MaxIter: 10, Tol: 1e-10})
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

func TestGMRESMaxIterZero(t *testing.T) {
	bk := native.Backend{}
	a := diagMatrix([]float64{2, 2})

	s, err := NewGMRES[*native.Matrix, []float64](bk, 2, 0, Params{MaxIter: 0, Tol: 1e-10})
	if err != nil {
		t.Fatal(err)
	}
	x := make([]float64, 2)
	r := s.Solve(a, identity{}, []float64{2, 4}, x)

	if r.Iterations != 0 {
		t.Errorf("maxiter=0: got %v iterations, want 0", r.Iterations)
	}
	if r.Residual != 1 {
		t.Errorf("maxiter=0: residual %v, want 1", r.Residual)
	}
}
