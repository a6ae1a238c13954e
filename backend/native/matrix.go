// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package native provides the builtin backend: matrices in compressed row
// storage and vectors as plain []float64 slices, with primitives executed
// on the calling goroutine.
package native

import "sort"

// Matrix is a sparse matrix in compressed row storage. Ptr has length
// rows+1; Col and Val hold the column indices and values of the stored
// entries of row i in Ptr[i]:Ptr[i+1]. Column indices within a row are
// sorted in increasing order.
type Matrix struct {
	rows, cols int

	Ptr []int
	Col []int
	Val []float64
}

// NewMatrix wraps existing CRS arrays without copying them.
func NewMatrix(rows, cols int, ptr, col []int, val []float64) *Matrix {
	if len(ptr) != rows+1 {
		panic("native: row pointer length mismatch")
	}
	if len(col) != ptr[rows] || len(val) != ptr[rows] {
		panic("native: nonzero count mismatch")
	}
	return &Matrix{rows: rows, cols: cols, Ptr: ptr, Col: col, Val: val}
}

// Dims returns the matrix dimensions.
func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

// Nnz returns the number of stored entries.
func (m *Matrix) Nnz() int { return m.Ptr[m.rows] }

// Diagonal returns a newly allocated copy of the main diagonal. Rows with
// no stored diagonal entry contribute zero.
func (m *Matrix) Diagonal() []float64 {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		for k := m.Ptr[i]; k < m.Ptr[i+1]; k++ {
			if m.Col[k] == i {
				d[i] = m.Val[k]
				break
			}
		}
	}
	return d
}

// SubMatrix extracts the block with the given row and column index sets,
// preserving their order. Entries of a selected row whose column is not in
// cols are dropped.
func (m *Matrix) SubMatrix(rows, cols []int) *Matrix {
	colmap := make([]int, m.cols)
	for i := range colmap {
		colmap[i] = -1
	}
	for k, j := range cols {
		colmap[j] = k
	}

	ptr := make([]int, len(rows)+1)
	var nnz int
	for si, i := range rows {
		for k := m.Ptr[i]; k < m.Ptr[i+1]; k++ {
			if colmap[m.Col[k]] >= 0 {
				nnz++
			}
		}
		ptr[si+1] = nnz
	}

	col := make([]int, nnz)
	val := make([]float64, nnz)
	var idx int
	for _, i := range rows {
		for k := m.Ptr[i]; k < m.Ptr[i+1]; k++ {
			if sj := colmap[m.Col[k]]; sj >= 0 {
				col[idx] = sj
				val[idx] = m.Val[k]
				idx++
			}
		}
	}
	return &Matrix{rows: len(rows), cols: len(cols), Ptr: ptr, Col: col, Val: val}
}

type triplet struct {
	i, j int
	v    float64
}

// Builder assembles a sparse matrix from (row, column, value) entries.
// Duplicate entries are summed on Build.
type Builder struct {
	rows, cols int
	data       []triplet
}

// NewBuilder returns an empty builder for a rows×cols matrix.
func NewBuilder(rows, cols int) *Builder {
	return &Builder{rows: rows, cols: cols}
}

// Append records an entry. It panics if the indices are out of range.
func (b *Builder) Append(i, j int, v float64) {
	if i < 0 || b.rows <= i {
		panic("native: row index out of range")
	}
	if j < 0 || b.cols <= j {
		panic("native: column index out of range")
	}
	b.data = append(b.data, triplet{i, j, v})
}

// Build sorts the recorded entries into row-major order, merges duplicates
// and returns the assembled matrix. The builder must not be reused.
func (b *Builder) Build() *Matrix {
	sort.SliceStable(b.data, func(p, q int) bool {
		if b.data[p].i != b.data[q].i {
			return b.data[p].i < b.data[q].i
		}
		return b.data[p].j < b.data[q].j
	})

	col := make([]int, 0, len(b.data))
	val := make([]float64, 0, len(b.data))
	perRow := make([]int, b.rows)
	prevI, prevJ := -1, -1
	for _, t := range b.data {
		if t.i == prevI && t.j == prevJ {
			val[len(val)-1] += t.v
			continue
		}
		col = append(col, t.j)
		val = append(val, t.v)
		perRow[t.i]++
		prevI, prevJ = t.i, t.j
	}

	ptr := make([]int, b.rows+1)
	for i, c := range perRow {
		ptr[i+1] = ptr[i] + c
	}
	return &Matrix{rows: b.rows, cols: b.cols, Ptr: ptr, Col: col, Val: val}
}
