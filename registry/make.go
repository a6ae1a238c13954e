// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/artas360/amgcl/backend"
	"github.com/artas360/amgcl/backend/native"
	"github.com/artas360/amgcl/precond"
	"github.com/artas360/amgcl/solver"
)

// Recognized configuration paths. The tree mirrors the hierarchical
// parameter structure of the CLI's JSON parameter files.
const (
	KeySolverType    = "solver.type"
	KeySolverMaxIter = "solver.maxiter"
	KeySolverTol     = "solver.tol"
	KeySolverEll     = "solver.L"
	KeySolverRestart = "solver.M"

	KeyPrecondType        = "precond.type"
	KeyPrecondPMask       = "precond.pmask"
	KeyPressureCoarsening = "precond.pressure.coarsening.type"
	KeyPressureRelaxation = "precond.pressure.relaxation.type"
	KeyFlowType           = "precond.flow.type"
)

// PrecondKind selects the preconditioner scheme built by Make.
type PrecondKind string

const (
	PrecondCPR    PrecondKind = "cpr"
	PrecondSimple PrecondKind = "simple"
	PrecondRelax  PrecondKind = "relaxation"
)

// ParsePrecondKind validates s against the closed preconditioner set.
func ParsePrecondKind(s string) (PrecondKind, error) {
	switch k := PrecondKind(s); k {
	case PrecondCPR, PrecondSimple, PrecondRelax:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPrecond, s)
}

// MadeSolver couples a solver engine with the preconditioner built for a
// concrete system matrix, exposing the three-argument solve form.
type MadeSolver struct {
	S Solver
	P backend.MatrixPreconditioner[*native.Matrix, []float64]
}

// Solve solves the coupled system for rhs, mutating x in place.
func (m *MadeSolver) Solve(rhs, x []float64) solver.Result {
	return m.S.SolveTop(m.P, rhs, x)
}

// Make builds a preconditioner and a solver for a from the configuration
// tree. Zero or missing keys take these defaults: bicgstab solver with
// maxiter 100 and tol 1e-8, cpr preconditioner with smoothed_aggregation
// pressure coarsening, spai0 pressure relaxation and ilu0 flow relaxation.
//
// The pressure mask (required by the cpr and simple schemes) is read from
// precond.pmask, either as a []byte mask of length n or as a "%start:stride"
// string.
func Make(a *native.Matrix, v *viper.Viper) (*MadeSolver, error) {
	n, _ := a.Dims()

	v.SetDefault(KeySolverType, string(BiCGStab))
	v.SetDefault(KeySolverMaxIter, 100)
	v.SetDefault(KeySolverTol, 1e-8)
	v.SetDefault(KeyPrecondType, string(PrecondCPR))
	v.SetDefault(KeyPressureCoarsening, string(SmoothedAggregation))
	v.SetDefault(KeyPressureRelaxation, string(SPAI0))
	v.SetDefault(KeyFlowType, string(ILU0))

	skind, err := ParseSolverKind(v.GetString(KeySolverType))
	if err != nil {
		return nil, err
	}
	opts := SolverOpts{
		Params: solver.Params{
			MaxIter: v.GetInt(KeySolverMaxIter),
			Tol:     v.GetFloat64(KeySolverTol),
		},
		Ell:     v.GetInt(KeySolverEll),
		Restart: v.GetInt(KeySolverRestart),
	}
	s, err := NewSolver(skind, n, opts)
	if err != nil {
		return nil, err
	}

	p, err := makePrecond(a, v)
	if err != nil {
		return nil, err
	}
	return &MadeSolver{S: s, P: p}, nil
}

func makePrecond(a *native.Matrix, v *viper.Viper) (backend.MatrixPreconditioner[*native.Matrix, []float64], error) {
	pkind, err := ParsePrecondKind(v.GetString(KeyPrecondType))
	if err != nil {
		return nil, err
	}

	// The coarsening kind is validated even though only single-level
	// pressure solves are built here.
	if _, err := ParseCoarseningKind(v.GetString(KeyPressureCoarsening)); err != nil {
		return nil, err
	}
	prelax, err := ParseRelaxationKind(v.GetString(KeyPressureRelaxation))
	if err != nil {
		return nil, err
	}
	frelax, err := ParseRelaxationKind(v.GetString(KeyFlowType))
	if err != nil {
		return nil, err
	}

	if pkind == PrecondRelax {
		return NewRelaxation(frelax, a)
	}

	pmask, err := pmaskFromConfig(a, v)
	if err != nil {
		return nil, err
	}

	switch pkind {
	case PrecondCPR:
		p, err := precond.NewCPR(a, pmask, RelaxationFactory(prelax), RelaxationFactory(frelax))
		if err != nil {
			return nil, err
		}
		return p, nil
	case PrecondSimple:
		p, err := precond.NewSimple(a, pmask, RelaxationFactory(prelax), RelaxationFactory(frelax))
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPrecond, pkind)
}

func pmaskFromConfig(a *native.Matrix, v *viper.Viper) ([]byte, error) {
	n, _ := a.Dims()
	switch pm := v.Get(KeyPrecondPMask).(type) {
	case []byte:
		return pm, nil
	case string:
		if !strings.HasPrefix(pm, "%") {
			return nil, fmt.Errorf("registry: pressure mask string %q: want %%start:stride form", pm)
		}
		start, stride, ok := strings.Cut(pm[1:], ":")
		if !ok {
			return nil, fmt.Errorf("registry: pressure mask string %q: want %%start:stride form", pm)
		}
		s0, err := strconv.Atoi(start)
		if err != nil {
			return nil, fmt.Errorf("registry: pressure mask start: %w", err)
		}
		s1, err := strconv.Atoi(stride)
		if err != nil {
			return nil, fmt.Errorf("registry: pressure mask stride: %w", err)
		}
		return precond.StrideMask(n, s0, s1)
	case nil:
		return nil, fmt.Errorf("registry: %s is required by the cpr and simple schemes", KeyPrecondPMask)
	default:
		return nil, fmt.Errorf("registry: %s has unsupported type %T", KeyPrecondPMask, pm)
	}
}
