// Copyright ©2026 The amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mtx reads and writes matrices in the MatrixMarket exchange
// format and in a raw binary variant of compressed row storage.
//
// Sparse matrices use the coordinate format and are returned in
// compressed row storage. Dense matrices and vectors use the array
// format with values stored in column-major order.
package mtx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/artas360/amgcl/backend/native"
)

type header struct {
	format    string // coordinate or array
	symmetric bool
}

func parseHeader(line string) (header, error) {
	f := strings.Fields(strings.ToLower(line))
	if len(f) != 5 || f[0] != "%%matrixmarket" || f[1] != "matrix" {
		return header{}, fmt.Errorf("mtx: malformed banner %q", line)
	}
	h := header{format: f[2]}
	switch f[2] {
	case "coordinate", "array":
	default:
		return header{}, fmt.Errorf("mtx: unsupported format %q", f[2])
	}
	switch f[3] {
	case "real", "integer":
	default:
		return header{}, fmt.Errorf("mtx: unsupported field %q", f[3])
	}
	switch f[4] {
	case "general":
	case "symmetric":
		h.symmetric = true
	default:
		return header{}, fmt.Errorf("mtx: unsupported symmetry %q", f[4])
	}
	return h, nil
}

// nextLine returns the next non-empty, non-comment line.
func nextLine(sc *bufio.Scanner) (string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// ReadMatrix reads a sparse matrix in MatrixMarket coordinate format.
// For symmetric files the off-diagonal entries are mirrored so that the
// returned matrix stores both triangles.
func ReadMatrix(r io.Reader) (*native.Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line, err := nextLineOrBanner(sc)
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(line)
	if err != nil {
		return nil, err
	}
	if h.format != "coordinate" {
		return nil, fmt.Errorf("mtx: expected coordinate format, got %q", h.format)
	}

	line, err = nextLine(sc)
	if err != nil {
		return nil, fmt.Errorf("mtx: reading size line: %w", err)
	}
	var rows, cols, nnz int
	if _, err := fmt.Sscan(line, &rows, &cols, &nnz); err != nil {
		return nil, fmt.Errorf("mtx: malformed size line %q", line)
	}
	if rows < 0 || cols < 0 || nnz < 0 {
		return nil, fmt.Errorf("mtx: invalid size %d %d %d", rows, cols, nnz)
	}

	b := native.NewBuilder(rows, cols)
	for k := 0; k < nnz; k++ {
		line, err = nextLine(sc)
		if err != nil {
			return nil, fmt.Errorf("mtx: reading entry %d of %d: %w", k+1, nnz, err)
		}
		var (
			i, j int
			v    float64
		)
		if _, err := fmt.Sscan(line, &i, &j, &v); err != nil {
			return nil, fmt.Errorf("mtx: malformed entry %q", line)
		}
		if i < 1 || rows < i || j < 1 || cols < j {
			return nil, fmt.Errorf("mtx: entry (%d,%d) out of range", i, j)
		}
		b.Append(i-1, j-1, v)
		if h.symmetric && i != j {
			b.Append(j-1, i-1, v)
		}
	}
	return b.Build(), nil
}

// nextLineOrBanner is nextLine except the banner itself starts with '%'.
func nextLineOrBanner(sc *bufio.Scanner) (string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// ReadDense reads a dense matrix in MatrixMarket array format. Values
// are returned in column-major order, matching the file layout.
func ReadDense(r io.Reader) (rows, cols int, data []float64, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line, err := nextLineOrBanner(sc)
	if err != nil {
		return 0, 0, nil, err
	}
	h, err := parseHeader(line)
	if err != nil {
		return 0, 0, nil, err
	}
	if h.format != "array" {
		return 0, 0, nil, fmt.Errorf("mtx: expected array format, got %q", h.format)
	}
	if h.symmetric {
		return 0, 0, nil, fmt.Errorf("mtx: symmetric array files are not supported")
	}

	line, err = nextLine(sc)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("mtx: reading size line: %w", err)
	}
	if _, err := fmt.Sscan(line, &rows, &cols); err != nil {
		return 0, 0, nil, fmt.Errorf("mtx: malformed size line %q", line)
	}
	if rows < 0 || cols < 0 {
		return 0, 0, nil, fmt.Errorf("mtx: invalid size %d %d", rows, cols)
	}

	data = make([]float64, rows*cols)
	for k := range data {
		line, err = nextLine(sc)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("mtx: reading value %d of %d: %w", k+1, len(data), err)
		}
		data[k], err = strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("mtx: malformed value %q", line)
		}
	}
	return rows, cols, data, nil
}

// WriteDense writes a dense matrix in MatrixMarket array format. Values
// must be in column-major order.
func WriteDense(w io.Writer, rows, cols int, data []float64) error {
	if len(data) != rows*cols {
		return fmt.Errorf("mtx: data length %d does not match %d×%d", len(data), rows, cols)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "%%MatrixMarket matrix array real general")
	fmt.Fprintln(bw, rows, cols)
	for _, v := range data {
		fmt.Fprintf(bw, "%.16e\n", v)
	}
	return bw.Flush()
}

// WriteMatrix writes a sparse matrix in MatrixMarket coordinate format
// with 1-based indices.
func WriteMatrix(w io.Writer, a *native.Matrix) error {
	rows, cols := a.Dims()
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate real general")
	fmt.Fprintln(bw, rows, cols, a.Nnz())
	for i := 0; i < rows; i++ {
		for k := a.Ptr[i]; k < a.Ptr[i+1]; k++ {
			fmt.Fprintf(bw, "%d %d %.16e\n", i+1, a.Col[k]+1, a.Val[k])
		}
	}
	return bw.Flush()
}

// ReadMatrixFile reads a sparse MatrixMarket file from disk.
func ReadMatrixFile(path string) (*native.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMatrix(f)
}

// ReadDenseFile reads a dense MatrixMarket file from disk.
func ReadDenseFile(path string) (rows, cols int, data []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, err
	}
	defer f.Close()
	return ReadDense(f)
}

// WriteDenseFile writes a dense MatrixMarket file to disk.
func WriteDenseFile(path string, rows, cols int, data []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDense(f, rows, cols, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
