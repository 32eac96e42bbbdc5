// SPDX-License-Identifier: MIT

package greens_test

import (
	"testing"

	"github.com/katalvlaran/bandknit/greens"
	"github.com/katalvlaran/bandknit/zmat"
)

func benchComposed(b *testing.B) *greens.Composed {
	b.Helper()
	g0, err := greens.DenseGreen(deviceChain(32), complex(0.3, 0.4))
	if err != nil {
		b.Fatal(err)
	}
	cmp, err := greens.Compose(g0,
		greens.SelfEnergy{Orbitals: []int{0}, Matrix: zmat.NewDenseData(1, 1, []complex128{complex(0, -0.5)})},
		greens.SelfEnergy{Orbitals: []int{31}, Matrix: zmat.NewDenseData(1, 1, []complex128{complex(0, -0.5)})},
	)
	if err != nil {
		b.Fatal(err)
	}
	return cmp
}

func BenchmarkCompose(b *testing.B) {
	g0, err := greens.DenseGreen(deviceChain(32), complex(0.3, 0.4))
	if err != nil {
		b.Fatal(err)
	}
	blocks := []greens.SelfEnergy{
		{Orbitals: []int{0}, Matrix: zmat.NewDenseData(1, 1, []complex128{complex(0, -0.5)})},
		{Orbitals: []int{31}, Matrix: zmat.NewDenseData(1, 1, []complex128{complex(0, -0.5)})},
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := greens.Compose(g0, blocks...); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkComposedBlock(b *testing.B) {
	cmp := benchComposed(b)
	rows := []int{0, 7, 15, 23, 31}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cmp.Block(rows, rows); err != nil {
			b.Fatal(err)
		}
	}
}
