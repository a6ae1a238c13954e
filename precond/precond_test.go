package precond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artas360/amgcl/backend"
	"github.com/artas360/amgcl/backend/native"
	"github.com/artas360/amgcl/relax"
	"github.com/artas360/amgcl/solver"
)

// coupledSystem builds a system of m interleaved (pressure, flow) pairs:
// a Poisson-like pressure block, a diagonally dominant flow block, and a
// weak off-diagonal coupling between the two.
func coupledSystem(m int) (*native.Matrix, []byte) {
	n := 2 * m
	b := native.NewBuilder(n, n)
	for i := 0; i < m; i++ {
		p := 2 * i // pressure unknown
		f := p + 1 // flow unknown

		b.Append(p, p, 4)
		if i > 0 {
			b.Append(p, p-2, -1)
		}
		if i < m-1 {
			b.Append(p, p+2, -1)
		}
		b.Append(p, f, 0.1)

		b.Append(f, f, 3)
		b.Append(f, p, 0.2)
		if i > 0 {
			b.Append(f, f-2, -0.5)
		}
	}

	pmask := make([]byte, n)
	for i := 0; i < n; i += 2 {
		pmask[i] = 1
	}
	return b.Build(), pmask
}

func spai0Factory(a *native.Matrix) (backend.Preconditioner[[]float64], error) {
	return relax.NewSPAI0(a), nil
}

func ilu0Factory(a *native.Matrix) (backend.Preconditioner[[]float64], error) {
	return relax.NewILU0(a), nil
}

func solveWith(t *testing.T, a *native.Matrix, p backend.MatrixPreconditioner[*native.Matrix, []float64]) solver.Result {
	t.Helper()
	n, _ := a.Dims()
	s, err := solver.NewBiCGStab[*native.Matrix, []float64](native.Backend{}, n, solver.Params{MaxIter: 5 * n, Tol: 1e-10})
	require.NoError(t, err)

	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = 1
	}
	x := make([]float64, n)
	res := s.SolveTop(p, rhs, x)

	bk := native.Backend{}
	r := make([]float64, n)
	bk.Residual(rhs, a, x, r)
	require.LessOrEqual(t, bk.Norm(r)/bk.Norm(rhs), 1e-8, "%T: true residual too large", p)
	return res
}

func TestCPRConverges(t *testing.T) {
	a, pmask := coupledSystem(50)
	cpr, err := NewCPR(a, pmask, spai0Factory, ilu0Factory)
	require.NoError(t, err)

	res := solveWith(t, a, cpr)
	assert.LessOrEqual(t, res.Residual, 1e-10)
}

func TestSimpleConverges(t *testing.T) {
	a, pmask := coupledSystem(50)
	sp, err := NewSimple(a, pmask, spai0Factory, ilu0Factory)
	require.NoError(t, err)

	res := solveWith(t, a, sp)
	assert.LessOrEqual(t, res.Residual, 1e-10)
}

func TestCPRMaskValidation(t *testing.T) {
	a, _ := coupledSystem(4)
	_, err := NewCPR(a, make([]byte, 3), spai0Factory, ilu0Factory)
	require.Error(t, err)
}

func TestStrideMask(t *testing.T) {
	pm, err := StrideMask(7, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 1, 0, 0, 1}, pm)

	_, err = StrideMask(7, 0, 0)
	require.Error(t, err)
}
