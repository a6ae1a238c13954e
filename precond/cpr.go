// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"fmt"

	"github.com/artas360/amgcl/backend"
	"github.com/artas360/amgcl/backend/native"
)

// CPR is the constrained pressure residual two-phase preconditioner. One
// application performs a pressure correction - the residual restricted to
// the pressure unknowns is solved approximately on the pressure subsystem
// and the correction prolongated back - followed by a flow relaxation over
// the full system applied to the updated residual.
type CPR struct {
	a    *native.Matrix
	app  *native.Matrix
	pidx []int

	pressure backend.Preconditioner[[]float64]
	flow     backend.Preconditioner[[]float64]

	bk native.Backend

	rp, xp []float64 // pressure-sized scratch
	t, xf  []float64 // full-sized scratch
}

// NewCPR builds a CPR preconditioner for a. pmask marks the pressure
// unknowns; pressure and flow build the correction operators for the
// pressure subsystem and the full system respectively.
func NewCPR(a *native.Matrix, pmask []byte, pressure, flow Factory) (*CPR, error) {
	n, err := checkMask(a, pmask)
	if err != nil {
		return nil, err
	}
	pidx, _ := splitIndices(pmask)

	app := a.SubMatrix(pidx, pidx)
	ps, err := pressure(app)
	if err != nil {
		return nil, fmt.Errorf("precond: cpr pressure subsystem: %w", err)
	}
	fs, err := flow(a)
	if err != nil {
		return nil, fmt.Errorf("precond: cpr flow system: %w", err)
	}

	return &CPR{
		a:        a,
		app:      app,
		pidx:     pidx,
		pressure: ps,
		flow:     fs,
		rp:       make([]float64, len(pidx)),
		xp:       make([]float64, len(pidx)),
		t:        make([]float64, n),
		xf:       make([]float64, n),
	}, nil
}

func (p *CPR) Apply(rhs, x []float64) {
	// Pressure correction.
	for i, j := range p.pidx {
		p.rp[i] = rhs[j]
	}
	p.pressure.Apply(p.rp, p.xp)

	p.bk.Clear(x)
	for i, j := range p.pidx {
		x[j] = p.xp[i]
	}

	// Flow stage on the updated residual.
	p.bk.Residual(rhs, p.a, x, p.t)
	p.flow.Apply(p.t, p.xf)
	p.bk.Axpby(1, p.xf, 1, x)
}

func (p *CPR) TopMatrix() *native.Matrix { return p.a }
