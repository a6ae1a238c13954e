package relax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artas360/amgcl/backend/native"
	"github.com/artas360/amgcl/solver"
)

// poisson1D builds the tridiagonal [-1 2 -1] matrix of dimension n.
func poisson1D(n int) *native.Matrix {
	b := native.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.Append(i, i-1, -1)
		}
		b.Append(i, i, 2)
		if i < n-1 {
			b.Append(i, i+1, -1)
		}
	}
	return b.Build()
}

func residualNorm(a *native.Matrix, x, rhs []float64) float64 {
	bk := native.Backend{}
	r := make([]float64, len(rhs))
	bk.Residual(rhs, a, x, r)
	return bk.Norm(r)
}

func TestIdentity(t *testing.T) {
	a := poisson1D(4)
	p := NewIdentity(a)

	rhs := []float64{1, 2, 3, 4}
	x := make([]float64, 4)
	p.Apply(rhs, x)

	assert.Equal(t, rhs, x)
	assert.Same(t, a, p.TopMatrix())
}

func TestDampedJacobi(t *testing.T) {
	b := native.NewBuilder(3, 3)
	b.Append(0, 0, 2)
	b.Append(1, 1, 4)
	b.Append(2, 2, 8)
	a := b.Build()

	p := NewDampedJacobiWith(a, 0.5)
	x := make([]float64, 3)
	p.Apply([]float64{4, 4, 4}, x)

	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, x, 1e-15)
	assert.Same(t, a, p.TopMatrix())
}

func TestSPAI0Weights(t *testing.T) {
	// Row 0: entries 2 and -1, m_0 = 2/(4+1).
	a := poisson1D(2)
	p := NewSPAI0(a)

	x := make([]float64, 2)
	p.Apply([]float64{5, 5}, x)
	assert.InDeltaSlice(t, []float64{2, 2}, x, 1e-15)
}

func TestILU0ExactOnTridiagonal(t *testing.T) {
	// A tridiagonal matrix factors without fill-in, so ILU(0) is the
	// exact factorization and Apply is a direct solve.
	a := poisson1D(20)
	p := NewILU0(a)

	rhs := make([]float64, 20)
	for i := range rhs {
		rhs[i] = float64(i%3) + 1
	}
	x := make([]float64, 20)
	p.Apply(rhs, x)

	assert.InDelta(t, 0, residualNorm(a, x, rhs), 1e-10)
}

func TestSparseLUExact(t *testing.T) {
	a := poisson1D(15)
	p, err := NewSparseLU(a)
	require.NoError(t, err)

	rhs := make([]float64, 15)
	for i := range rhs {
		rhs[i] = float64(i) - 7
	}
	x := make([]float64, 15)
	p.Apply(rhs, x)

	assert.InDelta(t, 0, residualNorm(a, x, rhs), 1e-9)
	assert.Same(t, a, p.TopMatrix())
}

func TestSparseLURejectsRectangular(t *testing.T) {
	b := native.NewBuilder(2, 3)
	b.Append(0, 0, 1)
	b.Append(1, 1, 1)
	_, err := NewSparseLU(b.Build())
	require.Error(t, err)
}

// cgIterations solves the 1D Poisson system with the given preconditioner
// and returns the iteration count.
func cgIterations(t *testing.T, n int, p interface {
	Apply(rhs, x []float64)
	TopMatrix() *native.Matrix
}) int {
	t.Helper()
	cg, err := solver.NewCG[*native.Matrix, []float64](native.Backend{}, n, solver.Params{MaxIter: 4 * n, Tol: 1e-10})
	require.NoError(t, err)

	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = 1
	}
	x := make([]float64, n)
	res := cg.SolveTop(p, rhs, x)
	require.LessOrEqual(t, res.Residual, 1e-10, "solve with %T did not converge", p)
	return res.Iterations
}

func TestPreconditionedConvergence(t *testing.T) {
	const n = 100
	a := poisson1D(n)

	plain := cgIterations(t, n, NewIdentity(a))
	gs := cgIterations(t, n, NewGaussSeidel(a))
	ilu := cgIterations(t, n, NewILU0(a))

	assert.Less(t, gs, plain, "symmetric Gauss-Seidel should beat identity")
	assert.LessOrEqual(t, ilu, 3, "exact ILU(0) factorization should converge immediately")
}
