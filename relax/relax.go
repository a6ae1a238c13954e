// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package relax provides single-level relaxation preconditioners over the
// native backend. Each type is built from a concrete system matrix, applies
// one (approximate) solve per call and hands the matrix back through
// TopMatrix, so all of them satisfy the solver engines' preconditioner
// contract in both its three- and four-argument forms.
package relax

import "github.com/artas360/amgcl/backend/native"

// Identity is the do-nothing preconditioner M = I.
type Identity struct {
	a *native.Matrix
}

// NewIdentity returns the identity preconditioner. The matrix is only
// retained for TopMatrix and may be nil when the three-argument solve form
// is not used.
func NewIdentity(a *native.Matrix) *Identity {
	return &Identity{a: a}
}

func (p *Identity) Apply(rhs, x []float64) { copy(x, rhs) }

func (p *Identity) TopMatrix() *native.Matrix { return p.a }
