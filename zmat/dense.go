// SPDX-License-Identifier: MIT
// Package zmat: the Dense matrix type and its structural operations.
// Arithmetic lives in arith.go; factorizations in their own files.

package zmat

import (
	"fmt"

	"gonum.org/v1/gonum/blas/cblas128"
)

// Dense is a dense, row-major complex matrix backed by cblas128.General.
// The zero value is an empty matrix; arithmetic methods resize their
// receiver as needed, so `var c Dense; c.Mul(a, b)` is valid.
type Dense struct {
	mat cblas128.General
}

// NewDense returns a zero-filled r×c matrix.
func NewDense(r, c int) *Dense {
	if r < 0 || c < 0 {
		panic(fmt.Sprintf("zmat: negative dimension %d×%d", r, c))
	}
	return &Dense{mat: cblas128.General{
		Rows:   r,
		Cols:   c,
		Stride: max(c, 1),
		Data:   make([]complex128, r*max(c, 1)),
	}}
}

// NewDenseData wraps data (row-major, len r*c) without copying.
// The caller must not alias data afterwards.
func NewDenseData(r, c int, data []complex128) *Dense {
	if len(data) != r*c {
		panic(fmt.Sprintf("zmat: data length %d does not match %d×%d", len(data), r, c))
	}
	return &Dense{mat: cblas128.General{Rows: r, Cols: c, Stride: max(c, 1), Data: data}}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Dense {
	m := NewDense(n, n)
	for i := 0; i < n; i++ {
		m.mat.Data[i*m.mat.Stride+i] = 1
	}
	return m
}

// FromReal returns a complex copy of the real row-major matrix data.
// Used to lift real orthogonal factors (e.g. tridiagonal eigenvectors)
// into complex arithmetic.
func FromReal(r, c int, data []float64) *Dense {
	if len(data) != r*c {
		panic(fmt.Sprintf("zmat: data length %d does not match %d×%d", len(data), r, c))
	}
	m := NewDense(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.mat.Data[i*m.mat.Stride+j] = complex(data[i*c+j], 0)
		}
	}
	return m
}

// Dims returns the row and column counts.
func (m *Dense) Dims() (r, c int) { return m.mat.Rows, m.mat.Cols }

// At returns the element at (i, j). Out-of-range indices panic.
func (m *Dense) At(i, j int) complex128 {
	m.bounds(i, j)
	return m.mat.Data[i*m.mat.Stride+j]
}

// Set stores v at (i, j). Out-of-range indices panic.
func (m *Dense) Set(i, j int, v complex128) {
	m.bounds(i, j)
	m.mat.Data[i*m.mat.Stride+j] = v
}

func (m *Dense) bounds(i, j int) {
	if i < 0 || i >= m.mat.Rows || j < 0 || j >= m.mat.Cols {
		panic(fmt.Sprintf("zmat: index (%d,%d) out of range %d×%d", i, j, m.mat.Rows, m.mat.Cols))
	}
}

// RawMatrix exposes the backing cblas128.General. Mutations are visible
// to the receiver; views returned by View share this storage too.
func (m *Dense) RawMatrix() cblas128.General { return m.mat }

// IsEmpty reports whether the matrix has no elements.
func (m *Dense) IsEmpty() bool { return m.mat.Rows == 0 || m.mat.Cols == 0 }

// Clone returns a deep copy with compact stride.
func (m *Dense) Clone() *Dense {
	c := NewDense(m.mat.Rows, m.mat.Cols)
	c.CopyFrom(m)
	return c
}

// CopyFrom copies a into the receiver, resizing if the shapes differ.
func (m *Dense) CopyFrom(a *Dense) {
	m.reuseAs(a.mat.Rows, a.mat.Cols)
	for i := 0; i < a.mat.Rows; i++ {
		copy(m.mat.Data[i*m.mat.Stride:i*m.mat.Stride+a.mat.Cols],
			a.mat.Data[i*a.mat.Stride:i*a.mat.Stride+a.mat.Cols])
	}
}

// Zero sets every element to zero, keeping the shape.
func (m *Dense) Zero() {
	for i := 0; i < m.mat.Rows; i++ {
		row := m.mat.Data[i*m.mat.Stride : i*m.mat.Stride+m.mat.Cols]
		for j := range row {
			row[j] = 0
		}
	}
}

// H returns a newly allocated conjugate transpose.
func (m *Dense) H() *Dense {
	r, c := m.Dims()
	t := NewDense(c, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			re := real(m.mat.Data[i*m.mat.Stride+j])
			im := imag(m.mat.Data[i*m.mat.Stride+j])
			t.mat.Data[j*t.mat.Stride+i] = complex(re, -im)
		}
	}
	return t
}

// View returns an r×c window with top-left corner (i, j) sharing the
// receiver's backing storage. Writing through the view writes through.
func (m *Dense) View(i, j, r, c int) *Dense {
	if r < 0 || c < 0 || i < 0 || j < 0 || i+r > m.mat.Rows || j+c > m.mat.Cols {
		panic(fmt.Sprintf("zmat: view [%d:%d,%d:%d] out of range %d×%d", i, i+r, j, j+c, m.mat.Rows, m.mat.Cols))
	}
	return &Dense{mat: cblas128.General{
		Rows:   r,
		Cols:   c,
		Stride: m.mat.Stride,
		Data:   m.mat.Data[i*m.mat.Stride+j:],
	}}
}

// Slice gathers the submatrix with the given row and column index lists
// into a fresh matrix. Indices may repeat and need not be ordered.
func (m *Dense) Slice(rows, cols []int) *Dense {
	s := NewDense(len(rows), len(cols))
	for si, i := range rows {
		for sj, j := range cols {
			s.mat.Data[si*s.mat.Stride+sj] = m.At(i, j)
		}
	}
	return s
}

// ColVector returns column j as a cblas128.Vector sharing storage.
func (m *Dense) ColVector(j int) cblas128.Vector {
	if j < 0 || j >= m.mat.Cols {
		panic(fmt.Sprintf("zmat: column %d out of range %d×%d", j, m.mat.Rows, m.mat.Cols))
	}
	return cblas128.Vector{N: m.mat.Rows, Inc: m.mat.Stride, Data: m.mat.Data[j:]}
}

// reuseAs resizes the receiver to r×c, reallocating only when the current
// backing store cannot hold the shape. Contents become undefined.
func (m *Dense) reuseAs(r, c int) {
	if m.mat.Rows == r && m.mat.Cols == c && m.mat.Stride >= max(c, 1) {
		return
	}
	m.mat = cblas128.General{Rows: r, Cols: c, Stride: max(c, 1), Data: make([]complex128, r*max(c, 1))}
}
