// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mtx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/artas360/amgcl/backend/native"
)

// Binary files hold little-endian int64 sizes and indices and float64
// values, with no header or padding.
//
// A CRS file stores the row count n, then the n+1 row pointers, the
// column indices and the values. The matrix is assumed square. A dense
// file stores the row and column counts followed by the values in
// column-major order.

func readInt64s(r io.Reader, n int) ([]int64, error) {
	buf := make([]int64, n)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadBinaryCRS reads a square sparse matrix in binary CRS layout.
func ReadBinaryCRS(r io.Reader) (*native.Matrix, error) {
	br := bufio.NewReader(r)

	var n int64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("mtx: reading matrix size: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("mtx: negative matrix size %d", n)
	}

	ptr64, err := readInt64s(br, int(n)+1)
	if err != nil {
		return nil, fmt.Errorf("mtx: reading row pointers: %w", err)
	}
	if ptr64[0] != 0 {
		return nil, fmt.Errorf("mtx: row pointers must start at 0, got %d", ptr64[0])
	}
	for i := 1; i < len(ptr64); i++ {
		if ptr64[i] < ptr64[i-1] {
			return nil, fmt.Errorf("mtx: row pointers decrease at row %d", i)
		}
	}
	nnz := ptr64[n]
	col64, err := readInt64s(br, int(nnz))
	if err != nil {
		return nil, fmt.Errorf("mtx: reading column indices: %w", err)
	}
	val := make([]float64, nnz)
	if err := binary.Read(br, binary.LittleEndian, val); err != nil {
		return nil, fmt.Errorf("mtx: reading values: %w", err)
	}

	ptr := make([]int, n+1)
	for i, p := range ptr64 {
		ptr[i] = int(p)
	}
	col := make([]int, nnz)
	for i, c := range col64 {
		col[i] = int(c)
	}
	return native.NewMatrix(int(n), int(n), ptr, col, val), nil
}

// WriteBinaryCRS writes a square sparse matrix in binary CRS layout.
func WriteBinaryCRS(w io.Writer, a *native.Matrix) error {
	rows, cols := a.Dims()
	if rows != cols {
		return fmt.Errorf("mtx: binary CRS requires a square matrix, got %d×%d", rows, cols)
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int64(rows)); err != nil {
		return err
	}
	ptr := make([]int64, len(a.Ptr))
	for i, p := range a.Ptr {
		ptr[i] = int64(p)
	}
	if err := binary.Write(bw, binary.LittleEndian, ptr); err != nil {
		return err
	}
	col := make([]int64, len(a.Col))
	for i, c := range a.Col {
		col[i] = int64(c)
	}
	if err := binary.Write(bw, binary.LittleEndian, col); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, a.Val); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadBinaryDense reads a dense matrix in binary layout.
func ReadBinaryDense(r io.Reader) (rows, cols int, data []float64, err error) {
	br := bufio.NewReader(r)

	var dims [2]int64
	if err := binary.Read(br, binary.LittleEndian, &dims); err != nil {
		return 0, 0, nil, fmt.Errorf("mtx: reading dense size: %w", err)
	}
	if dims[0] < 0 || dims[1] < 0 {
		return 0, 0, nil, fmt.Errorf("mtx: negative dense size %d×%d", dims[0], dims[1])
	}
	data = make([]float64, dims[0]*dims[1])
	if err := binary.Read(br, binary.LittleEndian, data); err != nil {
		return 0, 0, nil, fmt.Errorf("mtx: reading dense values: %w", err)
	}
	return int(dims[0]), int(dims[1]), data, nil
}

// WriteBinaryDense writes a dense matrix in binary layout.
func WriteBinaryDense(w io.Writer, rows, cols int, data []float64) error {
	if len(data) != rows*cols {
		return fmt.Errorf("mtx: data length %d does not match %d×%d", len(data), rows, cols)
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, [2]int64{int64(rows), int64(cols)}); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadBinaryCRSFile reads a binary CRS file from disk.
func ReadBinaryCRSFile(path string) (*native.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBinaryCRS(f)
}

// ReadBinaryDenseFile reads a binary dense file from disk.
func ReadBinaryDenseFile(path string) (rows, cols int, data []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, err
	}
	defer f.Close()
	return ReadBinaryDense(f)
}
