package zmat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bandknit/zmat"
)

func mk(r, c int, rows ...[]complex128) *zmat.Dense {
	data := make([]complex128, 0, r*c)
	for _, row := range rows {
		data = append(data, row...)
	}
	return zmat.NewDenseData(r, c, data)
}

func TestDense_SetAtClone(t *testing.T) {
	m := zmat.NewDense(2, 3)
	m.Set(0, 1, 2+3i)
	m.Set(1, 2, -1i)
	assert.Equal(t, 2+3i, m.At(0, 1))
	assert.Equal(t, complex128(0), m.At(1, 1))

	c := m.Clone()
	c.Set(0, 1, 7)
	assert.Equal(t, 2+3i, m.At(0, 1), "clone must not share storage")
}

func TestDense_MulKnownProduct(t *testing.T) {
	a := mk(2, 2, []complex128{1, 1i}, []complex128{0, 2})
	b := mk(2, 2, []complex128{1, 0}, []complex128{3, -1i})
	var p zmat.Dense
	p.Mul(a, b)
	want := mk(2, 2, []complex128{1 + 3i, 1}, []complex128{6, -2i})
	assert.True(t, zmat.EqualApprox(&p, want, 1e-14))
}

func TestDense_MulCHMatchesExplicitAdjoint(t *testing.T) {
	a := mk(2, 2, []complex128{1 + 1i, 2}, []complex128{0, -1i})
	b := mk(2, 2, []complex128{1, 1}, []complex128{1i, 0})
	var viaFlag, viaH zmat.Dense
	viaFlag.MulCH(a, b)
	viaH.Mul(a.H(), b)
	assert.True(t, zmat.EqualApprox(&viaFlag, &viaH, 1e-14))
}

func TestDense_ViewSharesStorage(t *testing.T) {
	m := zmat.NewDense(3, 3)
	v := m.View(1, 1, 2, 2)
	v.Set(0, 0, 5)
	assert.Equal(t, complex128(5), m.At(1, 1))
}

func TestDense_SliceGathers(t *testing.T) {
	m := mk(3, 3,
		[]complex128{0, 1, 2},
		[]complex128{3, 4, 5},
		[]complex128{6, 7, 8},
	)
	s := m.Slice([]int{2, 0}, []int{1})
	require.Equal(t, 2, func() int { r, _ := s.Dims(); return r }())
	assert.Equal(t, complex128(7), s.At(0, 0))
	assert.Equal(t, complex128(1), s.At(1, 0))
}

func TestDense_HermitianTranspose(t *testing.T) {
	m := mk(2, 3, []complex128{1 + 1i, 2, 3i}, []complex128{0, -1i, 4})
	h := m.H()
	r, c := h.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1-1i, h.At(0, 0))
	assert.Equal(t, -3i, h.At(2, 0))
	assert.Equal(t, 1i, h.At(1, 1))
}
