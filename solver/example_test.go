// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver_test

import (
	"fmt"

	"github.com/artas360/amgcl/backend/native"
	"github.com/artas360/amgcl/relax"
	"github.com/artas360/amgcl/solver"
)

func ExampleCG() {
	// Assemble diag(4, 9, 16) and solve A x = diag(A).
	b := native.NewBuilder(3, 3)
	b.Append(0, 0, 4)
	b.Append(1, 1, 9)
	b.Append(2, 2, 16)
	a := b.Build()

	bk := native.Backend{}
	cg, err := solver.NewCG[*native.Matrix, []float64](bk, 3, solver.DefaultParams())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	rhs := []float64{4, 9, 16}
	x := make([]float64, 3)
	res := cg.Solve(a, relax.NewIdentity(a), rhs, x)

	fmt.Printf("Iterations: %v\n", res.Iterations)
	fmt.Printf("Converged: %v\n", res.Residual <= 1e-8)
	fmt.Printf("Solution: %.4f\n", x)

	// Output:
	// Iterations: 3
	// Converged: true
	// Solution: [1.0000 1.0000 1.0000]
}
