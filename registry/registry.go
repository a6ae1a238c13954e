// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry resolves configuration keys into statically compiled
// algorithm implementations, exposed through uniform interfaces. It lets
// orchestration code pick a solver, relaxation or coarsening variant at
// run time from a closed set, while the engines themselves stay unaware of
// the selection.
//
// The registry is fixed to the native backend; compile-time parameterized
// code should construct the engines from the solver package directly.
package registry

import (
	"errors"
	"fmt"

	"github.com/artas360/amgcl/backend"
	"github.com/artas360/amgcl/backend/native"
	"github.com/artas360/amgcl/precond"
	"github.com/artas360/amgcl/relax"
	"github.com/artas360/amgcl/solver"
)

// Errors reported for configuration keys outside the closed kind sets.
var (
	ErrUnknownSolver     = errors.New("registry: unknown solver kind")
	ErrUnknownRelaxation = errors.New("registry: unknown relaxation kind")
	ErrUnknownCoarsening = errors.New("registry: unknown coarsening kind")
	ErrUnknownPrecond    = errors.New("registry: unknown preconditioner kind")
)

// SolverKind selects an iterative solver implementation.
type SolverKind string

const (
	CG        SolverKind = "cg"
	BiCGStab  SolverKind = "bicgstab"
	BiCGStabL SolverKind = "bicgstabl"
	GMRES     SolverKind = "gmres"
)

// ParseSolverKind validates s against the closed solver set.
func ParseSolverKind(s string) (SolverKind, error) {
	switch k := SolverKind(s); k {
	case CG, BiCGStab, BiCGStabL, GMRES:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSolver, s)
}

// RelaxationKind selects a single-level relaxation.
type RelaxationKind string

const (
	DampedJacobi RelaxationKind = "damped_jacobi"
	GaussSeidel  RelaxationKind = "gauss_seidel"
	ILU0         RelaxationKind = "ilu0"
	SPAI0        RelaxationKind = "spai0"
	LU           RelaxationKind = "lu"
)

// ParseRelaxationKind validates s against the closed relaxation set.
func ParseRelaxationKind(s string) (RelaxationKind, error) {
	switch k := RelaxationKind(s); k {
	case DampedJacobi, GaussSeidel, ILU0, SPAI0, LU:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRelaxation, s)
}

// CoarseningKind selects a multigrid coarsening strategy. The kinds are
// validated and recorded as configuration; hierarchy construction itself is
// outside this module, so the pressure subsystem of the composite
// preconditioners is solved by a single-level relaxation instead of an AMG
// cycle.
type CoarseningKind string

const (
	RugeStuben          CoarseningKind = "ruge_stuben"
	Aggregation         CoarseningKind = "aggregation"
	SmoothedAggregation CoarseningKind = "smoothed_aggregation"
	SmoothedAggrEMin    CoarseningKind = "smoothed_aggr_emin"
)

// ParseCoarseningKind validates s against the closed coarsening set.
func ParseCoarseningKind(s string) (CoarseningKind, error) {
	switch k := CoarseningKind(s); k {
	case RugeStuben, Aggregation, SmoothedAggregation, SmoothedAggrEMin:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCoarsening, s)
}

// Solver is the uniform interface over the compiled solver engines on the
// native backend.
type Solver interface {
	Solve(a *native.Matrix, p backend.Preconditioner[[]float64], rhs, x []float64) solver.Result
	SolveTop(p backend.MatrixPreconditioner[*native.Matrix, []float64], rhs, x []float64) solver.Result
}

// SolverOpts carries the per-kind tuning knobs next to the common
// iteration parameters.
type SolverOpts struct {
	Params solver.Params

	// Ell is the polynomial degree of bicgstabl. 0 selects the default 2.
	Ell int
	// Restart is the gmres restart length. 0 selects the default 30.
	Restart int
}

// NewSolver constructs a solver engine of the given kind for systems of
// dimension n.
func NewSolver(kind SolverKind, n int, opts SolverOpts) (Solver, error) {
	bk := native.Backend{}
	switch kind {
	case CG:
		s, err := solver.NewCG[*native.Matrix, []float64](bk, n, opts.Params)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BiCGStab:
		s, err := solver.NewBiCGStab[*native.Matrix, []float64](bk, n, opts.Params)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BiCGStabL:
		ell := opts.Ell
		if ell == 0 {
			ell = 2
		}
		s, err := solver.NewBiCGStabL[*native.Matrix, []float64](bk, n, ell, opts.Params)
		if err != nil {
			return nil, err
		}
		return s, nil
	case GMRES:
		s, err := solver.NewGMRES[*native.Matrix, []float64](bk, n, opts.Restart, opts.Params)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, kind)
}

// NewRelaxation builds a relaxation preconditioner of the given kind for a.
func NewRelaxation(kind RelaxationKind, a *native.Matrix) (backend.MatrixPreconditioner[*native.Matrix, []float64], error) {
	switch kind {
	case DampedJacobi:
		return relax.NewDampedJacobi(a), nil
	case GaussSeidel:
		return relax.NewGaussSeidel(a), nil
	case ILU0:
		return relax.NewILU0(a), nil
	case SPAI0:
		return relax.NewSPAI0(a), nil
	case LU:
		p, err := relax.NewSparseLU(a)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRelaxation, kind)
}

// RelaxationFactory adapts a relaxation kind into a subsystem factory for
// the composite preconditioners.
func RelaxationFactory(kind RelaxationKind) precond.Factory {
	return func(a *native.Matrix) (backend.Preconditioner[[]float64], error) {
		return NewRelaxation(kind, a)
	}
}
