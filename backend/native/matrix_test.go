// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder(3, 3)
	// Out of order, with a duplicate on (1,1).
	b.Append(2, 2, 2)
	b.Append(0, 1, -1)
	b.Append(1, 1, 1.5)
	b.Append(0, 0, 2)
	b.Append(1, 1, 0.5)
	b.Append(1, 0, -1)
	a := b.Build()

	rows, cols := a.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 5, a.Nnz())
	assert.Equal(t, []int{0, 2, 4, 5}, a.Ptr)
	assert.Equal(t, []int{0, 1, 0, 1, 2}, a.Col)
	assert.Equal(t, []float64{2, -1, -1, 2, 2}, a.Val)
}

func TestBuilderEmptyRows(t *testing.T) {
	b := NewBuilder(4, 4)
	b.Append(1, 1, 1)
	a := b.Build()

	assert.Equal(t, []int{0, 0, 1, 1, 1}, a.Ptr)
	assert.Equal(t, []float64{0, 1, 0, 0}, a.Diagonal())
}

func TestBuilderRangePanics(t *testing.T) {
	b := NewBuilder(2, 2)
	assert.Panics(t, func() { b.Append(2, 0, 1) })
	assert.Panics(t, func() { b.Append(0, -1, 1) })
}

func TestNewMatrixValidates(t *testing.T) {
	assert.Panics(t, func() {
		NewMatrix(2, 2, []int{0, 1}, []int{0}, []float64{1})
	})
	assert.Panics(t, func() {
		NewMatrix(1, 1, []int{0, 2}, []int{0}, []float64{1})
	})
}

func TestDiagonal(t *testing.T) {
	a := tridiagonal(4)
	assert.Equal(t, []float64{2, 2, 2, 2}, a.Diagonal())
}

func TestSubMatrix(t *testing.T) {
	a := tridiagonal(5)

	// Even rows and columns of the 1D Poisson operator are decoupled:
	// only the diagonal survives.
	even := []int{0, 2, 4}
	p := a.SubMatrix(even, even)
	rows, cols := p.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)
	assert.Equal(t, []int{0, 1, 2, 3}, p.Ptr)
	assert.Equal(t, []int{0, 1, 2}, p.Col)
	assert.Equal(t, []float64{2, 2, 2}, p.Val)

	// The even/odd coupling block keeps the off-diagonal entries.
	odd := []int{1, 3}
	c := a.SubMatrix(even, odd)
	rows, cols = c.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 2, cols)
	assert.Equal(t, []int{0, 1, 3, 4}, c.Ptr)
	assert.Equal(t, []int{0, 0, 1, 1}, c.Col)
	assert.Equal(t, []float64{-1, -1, -1, -1}, c.Val)
}

// tridiagonal assembles the n×n 1D Poisson operator.
func tridiagonal(n int) *Matrix {
	b := NewBuilder(n, n)
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
