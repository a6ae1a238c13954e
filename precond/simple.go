// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"fmt"

	"github.com/artas360/amgcl/backend"
	"github.com/artas360/amgcl/backend/native"
)

// Simple is the SIMPLE-scheme two-phase preconditioner: the flow unknowns
// are relaxed first, the pressure subsystem is solved on the residual left
// by that half-step, and the pressure correction is back-substituted into
// the flow unknowns through the inverse diagonal of the flow block.
type Simple struct {
	a   *native.Matrix
	app *native.Matrix
	apf *native.Matrix
	afp *native.Matrix

	pidx, fidx []int
	invDf      []float64

	pressure backend.Preconditioner[[]float64]
	flow     backend.Preconditioner[[]float64]

	bk native.Backend

	rp, rpw, xp []float64 // pressure-sized scratch
	rf, xf, tf  []float64 // flow-sized scratch
}

// NewSimple builds a SIMPLE preconditioner for a. pmask marks the pressure
// unknowns; pressure and flow build the correction operators for the
// pressure and flow subsystems.
func NewSimple(a *native.Matrix, pmask []byte, pressure, flow Factory) (*Simple, error) {
	if _, err := checkMask(a, pmask); err != nil {
		return nil, err
	}
	pidx, fidx := splitIndices(pmask)

	app := a.SubMatrix(pidx, pidx)
	apf := a.SubMatrix(pidx, fidx)
	afp := a.SubMatrix(fidx, pidx)
	aff := a.SubMatrix(fidx, fidx)

	invDf := aff.Diagonal()
	for i, d := range invDf {
		invDf[i] = 1 / d
	}

	ps, err := pressure(app)
	if err != nil {
		return nil, fmt.Errorf("precond: simple pressure subsystem: %w", err)
	}
	fs, err := flow(aff)
	if err != nil {
		return nil, fmt.Errorf("precond: simple flow subsystem: %w", err)
	}

	return &Simple{
		a:        a,
		app:      app,
		apf:      apf,
		afp:      afp,
		pidx:     pidx,
		fidx:     fidx,
		invDf:    invDf,
		pressure: ps,
		flow:     fs,
		rp:       make([]float64, len(pidx)),
		rpw:      make([]float64, len(pidx)),
		xp:       make([]float64, len(pidx)),
		rf:       make([]float64, len(fidx)),
		xf:       make([]float64, len(fidx)),
		tf:       make([]float64, len(fidx)),
	}, nil
}

func (p *Simple) Apply(rhs, x []float64) {
	for i, j := range p.pidx {
		p.rp[i] = rhs[j]
	}
	for i, j := range p.fidx {
		p.rf[i] = rhs[j]
	}

	// Flow half-step.
	p.flow.Apply(p.rf, p.xf)

	// Pressure solve on the residual the flow half-step leaves behind:
	// rp - A_pf xf.
	p.bk.Spmv(-1, p.apf, p.xf, 0, p.rpw)
	p.bk.Axpby(1, p.rp, 1, p.rpw)
	p.pressure.Apply(p.rpw, p.xp)

	// Back-substitute the pressure correction into the flow unknowns.
	p.bk.Spmv(1, p.afp, p.xp, 0, p.tf)
	for i := range p.xf {
		p.xf[i] -= p.invDf[i] * p.tf[i]
	}

	for i, j := range p.pidx {
		x[j] = p.xp[i]
	}
	for i, j := range p.fidx {
		x[j] = p.xf[i]
	}
}

func (p *Simple) TopMatrix() *native.Matrix { return p.a }
